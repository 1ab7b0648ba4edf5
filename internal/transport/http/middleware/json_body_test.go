package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONBody(t *testing.T) {
	handler := JSONBody(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name        string
		method      string
		body        string
		contentType string
		want        int
	}{
		{"json body", http.MethodPost, `{"a":1}`, "application/json; charset=utf-8", http.StatusNoContent},
		{"bodyless post", http.MethodPost, "", "", http.StatusNoContent},
		{"form body", http.MethodPut, "a=1", "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
		{"oversized", http.MethodPost, `{"hours":"` + strings.Repeat("9", 32) + `"}`, "application/json", http.StatusRequestEntityTooLarge},
		{"get ignored", http.MethodGet, "", "", http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var body io.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			}
			req := httptest.NewRequest(tc.method, "/api/v1/configuration/ACC", body)
			if tc.contentType != "" {
				req.Header.Set("Content-Type", tc.contentType)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
