package personnel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hourbank/internal/domain/errs"
)

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	created, err := svc.Create(ctx, NewEmployee{Name: " Ada ", Surname: "Kaya", NationalID: "12345678901", UnitID: "ACC"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Ada", created.Name)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Kaya", got.DisplayName())
}

func TestCreateValidation(t *testing.T) {
	_, err := NewService(NewMemoryStore()).Create(context.Background(), NewEmployee{Name: "Ada", UnitID: "ACC"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrValidation))
	assert.Contains(t, errs.MessageOf(err), "surname required")
	assert.Contains(t, errs.MessageOf(err), "nationalID required")
}

func TestCreateDuplicateNationalID(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())
	_, err := svc.Create(ctx, NewEmployee{Name: "A", Surname: "B", NationalID: "1", UnitID: "ACC"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, NewEmployee{Name: "C", Surname: "D", NationalID: "1", UnitID: "TWR"})
	assert.True(t, errors.Is(err, errs.ErrConflict))
}

func TestGetMissing(t *testing.T) {
	_, err := NewService(NewMemoryStore()).Get(context.Background(), "nope")
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestListByUnit(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())
	_, _ = svc.Create(ctx, NewEmployee{Name: "Zed", Surname: "Arslan", NationalID: "1", UnitID: "ACC"})
	_, _ = svc.Create(ctx, NewEmployee{Name: "Ali", Surname: "Arslan", NationalID: "2", UnitID: "ACC"})
	_, _ = svc.Create(ctx, NewEmployee{Name: "Can", Surname: "Demir", NationalID: "3", UnitID: "TWR"})

	acc, err := svc.List(ctx, "ACC")
	require.NoError(t, err)
	require.Len(t, acc, 2)
	assert.Equal(t, "Ali", acc[0].Name)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
