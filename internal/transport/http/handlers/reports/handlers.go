package reportshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hourbank/internal/domain/auth"
	"hourbank/internal/domain/reports"
	"hourbank/internal/requestctx"
	"hourbank/internal/transport/http/api"
	"hourbank/internal/transport/http/middleware"
	"hourbank/internal/transport/http/shared"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	Service *reports.Service
	Logger  *zap.Logger
}

func NewHandler(service *reports.Service, logger *zap.Logger) *Handler {
	return &Handler{Service: service, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports/units/{unitId}", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermReportsRead))
		r.Get("/balances.xlsx", h.handleWorkbook)
		r.Get("/summary", h.handleSummary)
	})
}

func (h *Handler) handleWorkbook(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	period := shared.RequiredPeriod(v, r.URL.Query().Get("year"), r.URL.Query().Get("month"))
	if v.Reject(w, requestID) {
		return
	}
	unitID := chi.URLParam(r, "unitId")
	data, err := h.Service.UnitWorkbook(r.Context(), middleware.GetPrincipal(r.Context()), unitID, period)
	if err != nil {
		api.FailErr(w, requestctx.Logger(r.Context(), h.Logger), err, requestID)
		return
	}
	api.Attachment(w, xlsxContentType, "balances-"+unitID+"-"+period.String()+".xlsx", data)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	period := shared.RequiredPeriod(v, r.URL.Query().Get("year"), r.URL.Query().Get("month"))
	if v.Reject(w, requestID) {
		return
	}
	summary, err := h.Service.UnitSummary(r.Context(), middleware.GetPrincipal(r.Context()), chi.URLParam(r, "unitId"), period)
	if err != nil {
		api.FailErr(w, requestctx.Logger(r.Context(), h.Logger), err, requestID)
		return
	}
	api.Success(w, summary, requestID)
}
