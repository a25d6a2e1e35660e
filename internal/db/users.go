package db

import (
	"context"

	"github.com/sst-platform/backend/internal/models"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return s.Pool.QueryRow(ctx, `
		INSERT INTO users (email, full_name, role, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, u.Email, u.FullName, u.Role, u.Active).Scan(&u.ID, &u.CreatedAt)
}

func (s *Store) GetUser(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := s.Pool.QueryRow(ctx, `
		SELECT id, email, full_name, role, active, created_at FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.Active, &u.CreatedAt)
	return u, err
}

// FirstActiveUserByRole resolves the concrete person behind a role.
// Ordered by id so resolution is deterministic when several users hold
// the role. Returns pgx.ErrNoRows when the role has no active holder.
func (s *Store) FirstActiveUserByRole(ctx context.Context, role models.Role) (models.User, error) {
	var u models.User
	err := s.Pool.QueryRow(ctx, `
		SELECT id, email, full_name, role, active, created_at
		FROM users
		WHERE role = $1 AND active
		ORDER BY id ASC
		LIMIT 1
	`, role).Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.Active, &u.CreatedAt)
	return u, err
}

func (s *Store) ListActiveUsersByRoles(ctx context.Context, roles []models.Role) ([]models.User, error) {
	if len(roles) == 0 {
		return nil, nil
	}
	values := make([]string, 0, len(roles))
	for _, r := range roles {
		values = append(values, string(r))
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, email, full_name, role, active, created_at
		FROM users
		WHERE role = ANY($1) AND active
		ORDER BY id ASC
	`, values)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.Active, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) ListUsers(ctx context.Context, role string, activeOnly bool) ([]models.User, error) {
	query := `SELECT id, email, full_name, role, active, created_at FROM users`
	var args []any
	var wheres []string
	if role != "" {
		args = append(args, role)
		wheres = append(wheres, "role = $1")
	}
	if activeOnly {
		wheres = append(wheres, "active")
	}
	for i, w := range wheres {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	query += " ORDER BY id ASC"

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.Active, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
