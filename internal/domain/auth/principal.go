package auth

import "hourbank/internal/domain/errs"

// Principal is the capability token handed to service calls. A nil *Principal
// means the caller is unauthenticated.
type Principal struct {
	UserID     string
	Username   string
	Role       Role
	EmployeeID string
}

func PrincipalFromClaims(c *Claims) *Principal {
	if c == nil {
		return nil
	}
	return &Principal{UserID: c.UserID, Username: c.Username, Role: c.Role, EmployeeID: c.EmployeeID}
}

func (p *Principal) Can(permission string) bool {
	return p != nil && HasPermission(p.Role, permission)
}

// Require fails with an auth error for a nil principal and a forbidden error
// when the role lacks the permission.
func (p *Principal) Require(op, permission string) error {
	if p == nil || p.UserID == "" {
		return errs.Auth(op, "authentication required")
	}
	if !p.Can(permission) {
		return errs.Forbidden(op, "insufficient permissions")
	}
	return nil
}

// RequireEmployeeAccess allows the employee themself under ownPerm, anyone else
// only under allPerm.
func (p *Principal) RequireEmployeeAccess(op, employeeID, ownPerm, allPerm string) error {
	if p == nil || p.UserID == "" {
		return errs.Auth(op, "authentication required")
	}
	if p.Can(allPerm) {
		return nil
	}
	if p.EmployeeID != "" && p.EmployeeID == employeeID && p.Can(ownPerm) {
		return nil
	}
	return errs.Forbidden(op, "insufficient permissions")
}
