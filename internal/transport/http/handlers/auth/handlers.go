package authhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hourbank/internal/domain/auth"
	"hourbank/internal/domain/errs"
	"hourbank/internal/requestctx"
	"hourbank/internal/transport/http/api"
	"hourbank/internal/transport/http/middleware"
	"hourbank/internal/transport/http/shared"
)

type Handler struct {
	Service *auth.Service
	Logger  *zap.Logger
}

func NewHandler(service *auth.Service, logger *zap.Logger) *Handler {
	return &Handler{Service: service, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.HandleLogin)
		r.Get("/me", h.HandleMe)
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	v.Required("username", payload.Username, "is required")
	v.Required("password", payload.Password, "is required")
	if v.Reject(w, requestID) {
		return
	}

	session, err := h.Service.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		if errs.KindOf(err) == errs.KindAuth {
			requestctx.Logger(r.Context(), h.Logger).Info("login rejected", zap.String("username", payload.Username))
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
			return
		}
		api.FailErr(w, requestctx.Logger(r.Context(), h.Logger), err, requestID)
		return
	}
	api.Success(w, session, requestID)
}

type meResponse struct {
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	Role        auth.Role `json:"role"`
	EmployeeID  string    `json:"employeeId,omitempty"`
	Permissions []string  `json:"permissions"`
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	p := middleware.GetPrincipal(r.Context())
	if p == nil {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	api.Success(w, meResponse{
		UserID:      p.UserID,
		Username:    p.Username,
		Role:        p.Role,
		EmployeeID:  p.EmployeeID,
		Permissions: auth.RolePermissions[p.Role],
	}, requestID)
}
