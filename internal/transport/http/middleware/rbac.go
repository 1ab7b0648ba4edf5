package middleware

import (
	"net/http"

	"hourbank/internal/domain/errs"
	"hourbank/internal/transport/http/api"
)

func RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := GetPrincipal(r.Context())
			if err := p.Require("http.require_permission", permission); err != nil {
				status, code := api.StatusOf(err)
				api.Fail(w, status, code, errs.MessageOf(err), GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
