package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hourbank/internal/domain/errs"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{errs.Auth("op", "x"), http.StatusUnauthorized},
		{errs.Forbidden("op", "x"), http.StatusForbidden},
		{errs.Validation("op", "x"), http.StatusBadRequest},
		{errs.NotFound("op", "x"), http.StatusNotFound},
		{errs.Conflict("op", "x"), http.StatusConflict},
		{errs.Store("op", errors.New("db down")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		status, _ := StatusOf(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
	}
}

func TestFailErrHidesStoreCause(t *testing.T) {
	rec := httptest.NewRecorder()
	FailErr(rec, nil, errs.Store("ledger.list", errors.New("password=hunter2")), "req-1")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "internal error", env.Error.Message)
	assert.Equal(t, "req-1", env.RequestID)
	assert.NotContains(t, rec.Body.String(), "hunter2")
}
