package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hourbank/internal/domain/auth"
	"hourbank/internal/domain/personnel"
	"hourbank/internal/domain/unitconfig"
)

const seedYAML = `
units:
  - unitId: ACC
    standardMonthlyHours: 160
    overtimePayPercent: 50
employees:
  - name: Ayse
    surname: Kaya
    nationalId: "10000000001"
    unitId: ACC
`

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "units.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	deps := SeedDeps{
		Users:     auth.NewService(auth.NewMemoryStore(), "secret", time.Hour),
		Configs:   unitconfig.NewService(unitconfig.NewMemoryStore(), unitconfig.StandardDefaults()),
		Employees: personnel.NewService(personnel.NewMemoryStore()),
	}
	opts := SeedOptions{AdminUsername: "admin", AdminPassword: "changeme1", UnitSeedFile: path}

	require.NoError(t, Seed(ctx, deps, opts))
	require.NoError(t, Seed(ctx, deps, opts))

	lookup, err := deps.Configs.Get(ctx, "ACC")
	require.NoError(t, err)
	assert.False(t, lookup.IsDefault())
	assert.Equal(t, 160.0, lookup.Config.StandardMonthlyHours)

	employees, err := deps.Employees.List(ctx, "ACC")
	require.NoError(t, err)
	assert.Len(t, employees, 1)

	_, err = deps.Users.Login(ctx, "admin", "changeme1")
	assert.NoError(t, err)
}

func TestLoadSeedFileErrors(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("units: [unclosed"), 0o600))
	_, err = LoadSeedFile(path)
	assert.Error(t, err)
}

func TestMigrationFilesSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_b.sql", "0001_a.sql", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "0003_dir.sql"), 0o700))

	files, err := migrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_a.sql", "0002_b.sql"}, files)
}
