package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) FindByUsername(ctx context.Context, username string) (User, bool, error) {
	var u User
	err := s.DB.QueryRow(ctx, `
    SELECT id, username, password_hash, role, COALESCE(employee_id, '')
    FROM users
    WHERE username = $1
  `, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.EmployeeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, err
	}
	return u, true, nil
}

func (s *Store) EnsureUser(ctx context.Context, user User) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    INSERT INTO users (id, username, password_hash, role, employee_id)
    VALUES ($1,$2,$3,$4,NULLIF($5, ''))
    ON CONFLICT (username) DO NOTHING
  `, user.ID, user.Username, user.PasswordHash, string(user.Role), user.EmployeeID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
