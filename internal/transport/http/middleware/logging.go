package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"hourbank/internal/platform/metrics"
	"hourbank/internal/requestctx"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logger logs one line per request and stores a request-scoped logger in the
// context. collector may be nil.
func Logger(logger *zap.Logger, collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := logger.With(zap.String("requestId", GetRequestID(r.Context())))
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r.WithContext(requestctx.WithLogger(r.Context(), reqLogger)))

			duration := time.Since(start)
			if collector != nil {
				collector.Record(recorder.status, duration)
			}
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", recorder.status),
				zap.Int64("durationMs", duration.Milliseconds()),
			}
			if p := GetPrincipal(r.Context()); p != nil {
				fields = append(fields, zap.String("userId", p.UserID))
			}
			if recorder.status >= http.StatusInternalServerError {
				reqLogger.Warn("request", fields...)
				return
			}
			reqLogger.Info("request", fields...)
		})
	}
}
