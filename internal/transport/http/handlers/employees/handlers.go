package employeeshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hourbank/internal/domain/audit"
	"hourbank/internal/domain/auth"
	"hourbank/internal/domain/personnel"
	"hourbank/internal/requestctx"
	"hourbank/internal/transport/http/api"
	"hourbank/internal/transport/http/middleware"
	"hourbank/internal/transport/http/shared"
)

type Handler struct {
	Employees *personnel.Service
	Audit     audit.Recorder
	Logger    *zap.Logger
}

func NewHandler(employees *personnel.Service, recorder audit.Recorder, logger *zap.Logger) *Handler {
	return &Handler{Employees: employees, Audit: recorder, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite)).Post("/", h.handleCreate)
		r.Get("/{employeeId}", h.handleGet)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employees, err := h.Employees.List(r.Context(), r.URL.Query().Get("unitId"))
	if err != nil {
		api.FailErr(w, requestctx.Logger(r.Context(), h.Logger), err, requestID)
		return
	}
	api.Success(w, employees, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeId")
	p := middleware.GetPrincipal(r.Context())
	if err := p.RequireEmployeeAccess("employees.get", employeeID, auth.PermBalancesReadOwn, auth.PermEmployeesRead); err != nil {
		api.FailErr(w, h.Logger, err, requestID)
		return
	}
	emp, err := h.Employees.Get(r.Context(), employeeID)
	if err != nil {
		api.FailErr(w, requestctx.Logger(r.Context(), h.Logger), err, requestID)
		return
	}
	api.Success(w, emp, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload personnel.NewEmployee
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	emp, err := h.Employees.Create(r.Context(), payload)
	if err != nil {
		api.FailErr(w, requestctx.Logger(r.Context(), h.Logger), err, requestID)
		return
	}
	if h.Audit != nil {
		evt := audit.Event{
			ActorID:    middleware.GetPrincipal(r.Context()).UserID,
			Action:     audit.ActionEmployeeCreate,
			EntityType: "employee",
			EntityID:   emp.ID,
			RequestID:  requestID,
		}
		if err := h.Audit.Record(r.Context(), evt, nil, emp); err != nil {
			requestctx.Logger(r.Context(), h.Logger).Warn("audit record failed", zap.Error(err))
		}
	}
	api.Created(w, emp, requestID)
}
