package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"hourbank/internal/domain/auth"
	"hourbank/internal/domain/errs"
	"hourbank/internal/domain/personnel"
	"hourbank/internal/domain/unitconfig"
)

// SeedFile is the YAML layout of UNIT_SEED_FILE.
type SeedFile struct {
	Units []struct {
		UnitID               string  `yaml:"unitId"`
		StandardMonthlyHours float64 `yaml:"standardMonthlyHours"`
		OvertimePayPercent   float64 `yaml:"overtimePayPercent"`
	} `yaml:"units"`
	Employees []struct {
		Name       string `yaml:"name"`
		Surname    string `yaml:"surname"`
		NationalID string `yaml:"nationalId"`
		UnitID     string `yaml:"unitId"`
	} `yaml:"employees"`
}

type SeedDeps struct {
	Users     *auth.Service
	Configs   *unitconfig.Service
	Employees *personnel.Service
	Logger    *zap.Logger
}

type SeedOptions struct {
	AdminUsername string
	AdminPassword string
	UnitSeedFile  string
}

// Seed is idempotent: existing users, units and employees are left as they are.
func Seed(ctx context.Context, deps SeedDeps, opts SeedOptions) error {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if strings.TrimSpace(opts.AdminPassword) != "" {
		created, err := deps.Users.EnsureUser(ctx, opts.AdminUsername, opts.AdminPassword, auth.RoleAdmin, "")
		if err != nil {
			return fmt.Errorf("seed admin user: %w", err)
		}
		if created {
			logger.Info("seeded admin user", zap.String("username", opts.AdminUsername))
		}
	}

	if opts.UnitSeedFile == "" {
		return nil
	}
	file, err := LoadSeedFile(opts.UnitSeedFile)
	if err != nil {
		return err
	}

	for _, u := range file.Units {
		lookup, err := deps.Configs.Get(ctx, u.UnitID)
		if err != nil {
			return fmt.Errorf("seed unit %s: %w", u.UnitID, err)
		}
		if !lookup.IsDefault() {
			continue
		}
		if _, err := deps.Configs.Set(ctx, u.UnitID, u.StandardMonthlyHours, u.OvertimePayPercent); err != nil {
			return fmt.Errorf("seed unit %s: %w", u.UnitID, err)
		}
		logger.Info("seeded unit configuration", zap.String("unitId", u.UnitID))
	}

	for _, e := range file.Employees {
		_, err := deps.Employees.Create(ctx, personnel.NewEmployee{
			Name:       e.Name,
			Surname:    e.Surname,
			NationalID: e.NationalID,
			UnitID:     e.UnitID,
		})
		if errors.Is(err, errs.ErrConflict) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed employee %s: %w", e.NationalID, err)
		}
	}
	return nil
}

func LoadSeedFile(path string) (SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SeedFile{}, fmt.Errorf("read seed file: %w", err)
	}
	var file SeedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return SeedFile{}, fmt.Errorf("parse seed file: %w", err)
	}
	return file, nil
}
