package middleware

import (
	"mime"
	"net/http"

	"hourbank/internal/transport/http/api"
)

// JSONBody caps mutating request bodies at maxBytes and rejects bodies that
// are not declared as JSON. Bodyless requests such as a bare recompute POST
// pass through.
func JSONBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
			default:
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength != 0 {
				mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
				if err != nil || mediaType != "application/json" {
					api.Fail(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "request body must be application/json", GetRequestID(r.Context()))
					return
				}
			}
			if maxBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
