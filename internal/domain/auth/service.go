package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"hourbank/internal/domain/errs"
)

type Service struct {
	store  StoreAPI
	secret string
	ttl    time.Duration
}

func NewService(store StoreAPI, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Service{store: store, secret: secret, ttl: ttl}
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Role      Role      `json:"role"`
}

func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	const op = "auth.login"
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Session{}, errs.Validation(op, "username and password are required")
	}
	user, ok, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return Session{}, errs.Store(op, err)
	}
	if !ok || CheckPassword(user.PasswordHash, password) != nil {
		return Session{}, errs.Auth(op, "invalid credentials")
	}
	token, expires, err := GenerateToken(s.secret, Claims{
		UserID:     user.ID,
		Username:   user.Username,
		Role:       user.Role,
		EmployeeID: user.EmployeeID,
	}, s.ttl)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: expires, Role: user.Role}, nil
}

func (s *Service) EnsureUser(ctx context.Context, username, password string, role Role, employeeID string) (bool, error) {
	const op = "auth.ensure_user"
	if strings.TrimSpace(username) == "" || password == "" {
		return false, errs.Validation(op, "username and password are required")
	}
	if !ValidRole(role) {
		return false, errs.Validation(op, "unknown role")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	created, err := s.store.EnsureUser(ctx, User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(username),
		PasswordHash: hash,
		Role:         role,
		EmployeeID:   employeeID,
	})
	if err != nil {
		return false, errs.Store(op, err)
	}
	return created, nil
}

// Authenticate turns a bearer token into a principal.
func (s *Service) Authenticate(token string) (*Principal, error) {
	claims, err := ParseToken(s.secret, token)
	if err != nil {
		return nil, errs.Auth("auth.authenticate", "invalid token")
	}
	return PrincipalFromClaims(claims), nil
}
