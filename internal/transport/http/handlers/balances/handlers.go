package balanceshandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hourbank/internal/domain/auth"
	"hourbank/internal/domain/balance"
	"hourbank/internal/domain/overtime"
	"hourbank/internal/domain/reports"
	"hourbank/internal/requestctx"
	"hourbank/internal/transport/http/api"
	"hourbank/internal/transport/http/middleware"
	"hourbank/internal/transport/http/shared"
)

type Handler struct {
	Overtime *overtime.Service
	Reports  *reports.Service
	Logger   *zap.Logger
}

func NewHandler(ot *overtime.Service, rep *reports.Service, logger *zap.Logger) *Handler {
	return &Handler{Overtime: ot, Reports: rep, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/balances/{employeeId}", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/recompute", h.handleRecompute)
		r.Post("/periods/{year}/{month}/close", h.handleClose)
		r.Get("/statement.pdf", h.handleStatement)
	})
}

// handleList returns the employee's balances newest first, optionally narrowed
// by year and month.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeId")
	p := middleware.GetPrincipal(r.Context())
	if err := p.RequireEmployeeAccess("balances.list", employeeID, auth.PermBalancesReadOwn, auth.PermBalancesReadAll); err != nil {
		api.FailErr(w, h.Logger, err, requestID)
		return
	}
	v := shared.NewValidator()
	filter := shared.BalanceFilter(r, v)
	if v.Reject(w, requestID) {
		return
	}
	rows, err := h.Overtime.GetBalances(r.Context(), p, employeeID, filter)
	if err != nil {
		api.FailErr(w, requestctx.Logger(r.Context(), h.Logger), err, requestID)
		return
	}
	api.Success(w, rows, requestID)
}

type recomputeRequest struct {
	Excluded []balance.Period `json:"excluded"`
}

func (h *Handler) handleRecompute(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	p := middleware.GetPrincipal(r.Context())
	if err := p.Require("balances.recompute", auth.PermBalancesWrite); err != nil {
		api.FailErr(w, h.Logger, err, requestID)
		return
	}
	var payload recomputeRequest
	if r.ContentLength != 0 {
		if !shared.DecodeJSON(w, r, &payload, requestID) {
			return
		}
	}
	v := shared.NewValidator()
	for i, p := range payload.Excluded {
		if !p.Valid() {
			v.Add("excluded["+strconv.Itoa(i)+"]", "must be a valid year and month")
		}
	}
	if v.Reject(w, requestID) {
		return
	}

	rows, err := h.Overtime.Recompute(r.Context(), p, chi.URLParam(r, "employeeId"), payload.Excluded)
	if err != nil {
		api.FailErr(w, requestctx.Logger(r.Context(), h.Logger), err, requestID)
		return
	}
	api.Success(w, rows, requestID)
}

func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	p := middleware.GetPrincipal(r.Context())
	if err := p.Require("balances.close", auth.PermPeriodsClose); err != nil {
		api.FailErr(w, h.Logger, err, requestID)
		return
	}
	v := shared.NewValidator()
	period := shared.RequiredPeriod(v, chi.URLParam(r, "year"), chi.URLParam(r, "month"))
	if v.Reject(w, requestID) {
		return
	}
	row, err := h.Overtime.ClosePeriod(r.Context(), p, chi.URLParam(r, "employeeId"), period.Year, period.Month)
	if err != nil {
		api.FailErr(w, requestctx.Logger(r.Context(), h.Logger), err, requestID)
		return
	}
	api.Success(w, row, requestID)
}

func (h *Handler) handleStatement(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeId")
	p := middleware.GetPrincipal(r.Context())
	if err := p.RequireEmployeeAccess("balances.statement", employeeID, auth.PermBalancesReadOwn, auth.PermBalancesReadAll); err != nil {
		api.FailErr(w, h.Logger, err, requestID)
		return
	}
	v := shared.NewValidator()
	year, ok := v.Int("year", r.URL.Query().Get("year"), 1, 9999)
	if !ok && !v.HasIssues() {
		v.Add("year", "is required")
	}
	if v.Reject(w, requestID) {
		return
	}
	pdf, err := h.Reports.Statement(r.Context(), p, employeeID, year)
	if err != nil {
		api.FailErr(w, requestctx.Logger(r.Context(), h.Logger), err, requestID)
		return
	}
	api.Attachment(w, "application/pdf", "statement-"+employeeID+"-"+strconv.Itoa(year)+".pdf", pdf)
}
