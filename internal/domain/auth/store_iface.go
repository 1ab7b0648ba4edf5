package auth

import "context"

type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	EmployeeID   string
}

type StoreAPI interface {
	FindByUsername(ctx context.Context, username string) (User, bool, error)
	// EnsureUser inserts the user unless the username exists.
	EnsureUser(ctx context.Context, user User) (created bool, err error)
}
