package db

import (
	"context"
	"encoding/json"

	"github.com/sst-platform/backend/internal/models"
)

func (s *Store) CreateRule(ctx context.Context, r *models.Rule) error {
	notify, err := json.Marshal(r.NotifyRoles)
	if err != nil {
		return err
	}
	return s.Pool.QueryRow(ctx, `
		INSERT INTO rules (report_type_id, risk_level, principal_role, backup_role_1, backup_role_2,
			department, notify_roles, response_minutes, resolution_minutes, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at
	`, r.ReportTypeID, r.RiskLevel, r.PrincipalRole, r.BackupRole1, r.BackupRole2,
		r.Department, notify, r.ResponseMinutes, r.ResolutionMinutes, r.Active).
		Scan(&r.ID, &r.CreatedAt)
}

func (s *Store) UpdateRule(ctx context.Context, r models.Rule) error {
	notify, err := json.Marshal(r.NotifyRoles)
	if err != nil {
		return err
	}
	_, err = s.Pool.Exec(ctx, `
		UPDATE rules
		SET report_type_id = $1, risk_level = $2, principal_role = $3, backup_role_1 = $4,
			backup_role_2 = $5, department = $6, notify_roles = $7,
			response_minutes = $8, resolution_minutes = $9, active = $10
		WHERE id = $11
	`, r.ReportTypeID, r.RiskLevel, r.PrincipalRole, r.BackupRole1, r.BackupRole2,
		r.Department, notify, r.ResponseMinutes, r.ResolutionMinutes, r.Active, r.ID)
	return err
}

func (s *Store) DeactivateRule(ctx context.Context, id int64) error {
	_, err := s.Pool.Exec(ctx, `UPDATE rules SET active = FALSE WHERE id = $1`, id)
	return err
}

func (s *Store) GetRule(ctx context.Context, id int64) (models.Rule, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, report_type_id, risk_level, principal_role, backup_role_1, backup_role_2,
			department, notify_roles, response_minutes, resolution_minutes, active, created_at
		FROM rules WHERE id = $1
	`, id)
	return scanRule(row)
}

// ListActiveRules returns active rules ordered by id so the resolution
// tie-break is stable across sweeps.
func (s *Store) ListActiveRules(ctx context.Context) ([]models.Rule, error) {
	return s.listRules(ctx, true)
}

func (s *Store) ListRules(ctx context.Context) ([]models.Rule, error) {
	return s.listRules(ctx, false)
}

func (s *Store) listRules(ctx context.Context, activeOnly bool) ([]models.Rule, error) {
	query := `
		SELECT id, report_type_id, risk_level, principal_role, backup_role_1, backup_role_2,
			department, notify_roles, response_minutes, resolution_minutes, active, created_at
		FROM rules`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY id ASC`

	rows, err := s.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Rule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (models.Rule, error) {
	var r models.Rule
	var notify []byte
	err := row.Scan(&r.ID, &r.ReportTypeID, &r.RiskLevel, &r.PrincipalRole, &r.BackupRole1,
		&r.BackupRole2, &r.Department, &notify, &r.ResponseMinutes, &r.ResolutionMinutes,
		&r.Active, &r.CreatedAt)
	if err != nil {
		return models.Rule{}, err
	}
	if len(notify) > 0 {
		if err := json.Unmarshal(notify, &r.NotifyRoles); err != nil {
			return models.Rule{}, err
		}
	}
	return r, nil
}
