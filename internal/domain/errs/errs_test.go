package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindMatching(t *testing.T) {
	err := Conflict("ledger.upsert", "period is closed")
	wrapped := fmt.Errorf("recompute: %w", err)

	assert.True(t, errors.Is(wrapped, ErrConflict))
	assert.False(t, errors.Is(wrapped, ErrValidation))
	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.Equal(t, "period is closed", MessageOf(wrapped))
}

func TestStoreHidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Store("ledger.list", cause)

	assert.Equal(t, KindStore, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal error", MessageOf(err))
	assert.Contains(t, err.Error(), "ledger.list")
}

func TestStoreKeepsTypedErrors(t *testing.T) {
	typed := NotFound("personnel.get", "employee not found")
	assert.Same(t, typed, Store("wrapper", typed))
	assert.Nil(t, Store("noop", nil))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("boom")))
	assert.Equal(t, "internal error", MessageOf(errors.New("boom")))
}
