package timeentrieshandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hourbank/internal/domain/auth"
	"hourbank/internal/domain/personnel"
	"hourbank/internal/domain/timeentry"
	"hourbank/internal/requestctx"
	"hourbank/internal/transport/http/api"
	"hourbank/internal/transport/http/middleware"
	"hourbank/internal/transport/http/shared"
)

// Scheduler queues a background balance recompute for one employee.
type Scheduler interface {
	ScheduleRecompute(employeeID string)
}

type Handler struct {
	Entries   *timeentry.Service
	Employees *personnel.Service
	Scheduler Scheduler
	Logger    *zap.Logger
}

func NewHandler(entries *timeentry.Service, employees *personnel.Service, scheduler Scheduler, logger *zap.Logger) *Handler {
	return &Handler{Entries: entries, Employees: employees, Scheduler: scheduler, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees/{employeeId}/time-entries", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
	})
	r.Delete("/time-entries/{entryId}", h.handleDelete)
}

type createRequest struct {
	WorkDate    string  `json:"workDate"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeId")
	if err := middleware.GetPrincipal(r.Context()).RequireEmployeeAccess("time_entries.create", employeeID, auth.PermEntriesWriteOwn, auth.PermEntriesWriteAll); err != nil {
		api.FailErr(w, h.Logger, err, requestID)
		return
	}
	var payload createRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	workDate, _ := v.Date("workDate", payload.WorkDate)
	if payload.Hours <= 0 || payload.Hours > timeentry.MaxHoursPerEntry {
		v.Add("hours", "must be greater than 0 and at most 24")
	}
	if v.Reject(w, requestID) {
		return
	}
	if _, err := h.Employees.Get(r.Context(), employeeID); err != nil {
		api.FailErr(w, requestctx.Logger(r.Context(), h.Logger), err, requestID)
		return
	}

	entry, err := h.Entries.Record(r.Context(), employeeID, workDate, payload.Hours, payload.Description)
	if err != nil {
		api.FailErr(w, requestctx.Logger(r.Context(), h.Logger), err, requestID)
		return
	}
	h.Scheduler.ScheduleRecompute(employeeID)
	api.Created(w, entry, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeId")
	if err := middleware.GetPrincipal(r.Context()).RequireEmployeeAccess("time_entries.list", employeeID, auth.PermBalancesReadOwn, auth.PermBalancesReadAll); err != nil {
		api.FailErr(w, h.Logger, err, requestID)
		return
	}
	v := shared.NewValidator()
	q := r.URL.Query()
	year, _ := v.Int("year", q.Get("year"), 1, 9999)
	month, _ := v.Int("month", q.Get("month"), 1, 12)
	if v.Reject(w, requestID) {
		return
	}
	entries, err := h.Entries.List(r.Context(), employeeID, timeentry.Filter{Year: year, Month: month})
	if err != nil {
		api.FailErr(w, requestctx.Logger(r.Context(), h.Logger), err, requestID)
		return
	}
	api.Success(w, entries, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	p := middleware.GetPrincipal(r.Context())
	if err := p.Require("time_entries.delete", auth.PermEntriesWriteOwn); err != nil {
		api.FailErr(w, h.Logger, err, requestID)
		return
	}
	entry, err := h.Entries.Get(r.Context(), strings.TrimSpace(chi.URLParam(r, "entryId")))
	if err != nil {
		api.FailErr(w, requestctx.Logger(r.Context(), h.Logger), err, requestID)
		return
	}
	if err := p.RequireEmployeeAccess("time_entries.delete", entry.EmployeeID, auth.PermEntriesWriteOwn, auth.PermEntriesWriteAll); err != nil {
		api.FailErr(w, h.Logger, err, requestID)
		return
	}
	if err := h.Entries.Delete(r.Context(), entry.ID); err != nil {
		api.FailErr(w, requestctx.Logger(r.Context(), h.Logger), err, requestID)
		return
	}
	h.Scheduler.ScheduleRecompute(entry.EmployeeID)
	w.WriteHeader(http.StatusNoContent)
}
