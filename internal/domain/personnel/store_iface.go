package personnel

import "context"

type StoreAPI interface {
	Get(ctx context.Context, id string) (Employee, bool, error)
	// List returns every employee when unitID is empty.
	List(ctx context.Context, unitID string) ([]Employee, error)
	Create(ctx context.Context, employee Employee) (Employee, error)
}
