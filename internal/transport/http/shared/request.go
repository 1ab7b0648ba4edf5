package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"hourbank/internal/domain/balance"
	"hourbank/internal/domain/ledger"
	"hourbank/internal/transport/http/api"
)

// DecodeJSON decodes a single JSON object, rejecting unknown fields. It writes
// the failure response itself and reports whether decoding succeeded.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any, requestID string) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
			return false
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "request body must contain a single object", requestID)
		return false
	}
	return true
}

// BalanceFilter reads the optional year and month query parameters.
func BalanceFilter(r *http.Request, v *Validator) ledger.Filter {
	var filter ledger.Filter
	q := r.URL.Query()
	if year, ok := v.Int("year", q.Get("year"), 1, 9999); ok {
		filter.Year = &year
	}
	if month, ok := v.Int("month", q.Get("month"), 1, 12); ok {
		filter.Month = &month
	}
	return filter
}

// RequiredPeriod reads mandatory year and month values.
func RequiredPeriod(v *Validator, rawYear, rawMonth string) balance.Period {
	year, okYear := v.Int("year", rawYear, 1, 9999)
	if !okYear && rawYear == "" {
		v.Add("year", "is required")
	}
	month, okMonth := v.Int("month", rawMonth, 1, 12)
	if !okMonth && rawMonth == "" {
		v.Add("month", "is required")
	}
	return balance.NewPeriod(year, month)
}
