package audithandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hourbank/internal/domain/audit"
	"hourbank/internal/domain/auth"
	"hourbank/internal/requestctx"
	"hourbank/internal/transport/http/api"
	"hourbank/internal/transport/http/middleware"
	"hourbank/internal/transport/http/shared"
)

type Handler struct {
	Service audit.Recorder
	Logger  *zap.Logger
}

func NewHandler(service audit.Recorder, logger *zap.Logger) *Handler {
	return &Handler{Service: service, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAuditRead)).Get("/events", h.handleListEvents)
	})
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	q := r.URL.Query()
	v := shared.NewValidator()
	v.Enum("action", q.Get("action"), audit.Actions, "must be a known audit action")
	page := shared.Page(r, v, 100, 500)
	if v.Reject(w, requestID) {
		return
	}
	filter := audit.Filter{
		Action:     q.Get("action"),
		EntityType: q.Get("entityType"),
		ActorUser:  q.Get("actorUserId"),
	}
	events, err := h.Service.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		requestctx.Logger(r.Context(), h.Logger).Warn("audit list failed", zap.Error(err))
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", requestID)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	api.Success(w, events, requestID)
}
