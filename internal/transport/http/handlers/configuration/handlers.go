package configurationhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hourbank/internal/domain/auth"
	"hourbank/internal/domain/overtime"
	"hourbank/internal/domain/unitconfig"
	"hourbank/internal/requestctx"
	"hourbank/internal/transport/http/api"
	"hourbank/internal/transport/http/middleware"
	"hourbank/internal/transport/http/shared"
)

type Handler struct {
	Overtime *overtime.Service
	Configs  *unitconfig.Service
	Logger   *zap.Logger
}

func NewHandler(ot *overtime.Service, configs *unitconfig.Service, logger *zap.Logger) *Handler {
	return &Handler{Overtime: ot, Configs: configs, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/configuration", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermConfigWrite)).Get("/", h.handleList)
		r.Get("/{unitId}", h.handleGet)
		r.Put("/{unitId}", h.handlePut)
	})
}

// handleGet answers for any unit, configured or not; an unconfigured unit
// reports the default policy with isDefault set.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	lookup, err := h.Overtime.GetConfiguration(r.Context(), middleware.GetPrincipal(r.Context()), chi.URLParam(r, "unitId"))
	if err != nil {
		api.FailErr(w, requestctx.Logger(r.Context(), h.Logger), err, requestID)
		return
	}
	api.Success(w, lookup, requestID)
}

type putRequest struct {
	StandardMonthlyHours *float64 `json:"standardMonthlyHours"`
	OvertimePayPercent   *float64 `json:"overtimePayPercent"`
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if err := middleware.GetPrincipal(r.Context()).Require("configuration.put", auth.PermConfigWrite); err != nil {
		api.FailErr(w, h.Logger, err, requestID)
		return
	}
	var payload putRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	if payload.StandardMonthlyHours == nil {
		v.Add("standardMonthlyHours", "is required")
	} else {
		v.Positive("standardMonthlyHours", *payload.StandardMonthlyHours)
	}
	if payload.OvertimePayPercent == nil {
		v.Add("overtimePayPercent", "is required")
	} else {
		v.Range("overtimePayPercent", *payload.OvertimePayPercent, 0, 100)
	}
	if v.Reject(w, requestID) {
		return
	}

	lookup, err := h.Overtime.SetConfiguration(r.Context(), middleware.GetPrincipal(r.Context()), chi.URLParam(r, "unitId"), *payload.StandardMonthlyHours, *payload.OvertimePayPercent)
	if err != nil {
		api.FailErr(w, requestctx.Logger(r.Context(), h.Logger), err, requestID)
		return
	}
	api.Success(w, lookup, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	configs, err := h.Configs.List(r.Context())
	if err != nil {
		api.FailErr(w, requestctx.Logger(r.Context(), h.Logger), err, requestID)
		return
	}
	out := make([]unitconfig.Lookup, 0, len(configs))
	for _, c := range configs {
		out = append(out, unitconfig.Found(c))
	}
	api.Success(w, out, requestID)
}
