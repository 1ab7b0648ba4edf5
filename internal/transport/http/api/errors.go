package api

import (
	"net/http"

	"go.uber.org/zap"

	"hourbank/internal/domain/errs"
)

// StatusOf maps an error kind to its HTTP status and error code.
func StatusOf(err error) (int, string) {
	switch errs.KindOf(err) {
	case errs.KindAuth:
		return http.StatusUnauthorized, "unauthorized"
	case errs.KindForbidden:
		return http.StatusForbidden, "forbidden"
	case errs.KindValidation:
		return http.StatusBadRequest, "validation_error"
	case errs.KindNotFound:
		return http.StatusNotFound, "not_found"
	case errs.KindConflict:
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// FailErr writes err as an envelope. Server-side failures are logged with
// their cause; the client only sees a generic message.
func FailErr(w http.ResponseWriter, logger *zap.Logger, err error, requestID string) {
	status, code := StatusOf(err)
	if status >= http.StatusInternalServerError {
		if logger == nil {
			logger = zap.L()
		}
		logger.Error("request failed", zap.String("requestId", requestID), zap.Error(err))
	}
	Fail(w, status, code, errs.MessageOf(err), requestID)
}
