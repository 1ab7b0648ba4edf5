package unitconfig

import (
	"context"
	"strings"

	"hourbank/internal/domain/errs"
)

type Service struct {
	store    StoreAPI
	defaults Defaults
}

func NewService(store StoreAPI, defaults Defaults) *Service {
	if defaults.StandardMonthlyHours <= 0 {
		defaults = StandardDefaults()
	}
	return &Service{store: store, defaults: defaults}
}

// Get never fails on a missing row; absence yields the default policy.
func (s *Service) Get(ctx context.Context, unitID string) (Lookup, error) {
	unitID = strings.TrimSpace(unitID)
	if unitID == "" {
		return Lookup{}, errs.Validation("unitconfig.get", "unitId is required")
	}
	cfg, ok, err := s.store.Find(ctx, unitID)
	if err != nil {
		return Lookup{}, errs.Store("unitconfig.get", err)
	}
	if !ok {
		return Default(unitID, s.defaults), nil
	}
	return Found(cfg), nil
}

func (s *Service) Set(ctx context.Context, unitID string, standardMonthlyHours, overtimePayPercent float64) (Config, error) {
	cfg := Config{
		UnitID:               strings.TrimSpace(unitID),
		StandardMonthlyHours: standardMonthlyHours,
		OvertimePayPercent:   overtimePayPercent,
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	stored, err := s.store.Upsert(ctx, cfg)
	if err != nil {
		return Config{}, errs.Store("unitconfig.set", err)
	}
	return stored, nil
}

func (s *Service) List(ctx context.Context) ([]Config, error) {
	configs, err := s.store.List(ctx)
	if err != nil {
		return nil, errs.Store("unitconfig.list", err)
	}
	return configs, nil
}

func (s *Service) Defaults() Defaults {
	return s.defaults
}
