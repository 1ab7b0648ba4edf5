package unitconfig

import "context"

type StoreAPI interface {
	// Find returns ok=false without error when the unit has no stored row.
	Find(ctx context.Context, unitID string) (cfg Config, ok bool, err error)
	Upsert(ctx context.Context, cfg Config) (Config, error)
	List(ctx context.Context) ([]Config, error)
}
