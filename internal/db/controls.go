package db

import (
	"context"
	"time"

	"github.com/sst-platform/backend/internal/models"
)

func (s *Store) CreateControl(ctx context.Context, c *models.Control) error {
	return s.Pool.QueryRow(ctx, `
		INSERT INTO controls (code, name, description, type, hierarchy_level, report_id,
			responsible_id, created_by_id, state, follow_up_every_days, planned_at, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id, created_at, updated_at
	`, c.Code, c.Name, c.Description, c.Type, c.HierarchyLevel, c.ReportID,
		c.ResponsibleID, c.CreatedByID, c.State, c.FollowUpEveryDays, c.PlannedAt, c.Active).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (s *Store) GetControl(ctx context.Context, id int64) (models.Control, error) {
	row := s.Pool.QueryRow(ctx, controlSelect+` WHERE id = $1`, id)
	return scanControl(row)
}

func (s *Store) UpdateControl(ctx context.Context, c models.Control) error {
	_, err := s.Pool.Exec(ctx, `
		UPDATE controls
		SET state = $1, effectiveness = $2, evidence = $3, last_reviewed_at = $4,
			next_follow_up_at = $5, implemented_at = $6, verified_at = $7, closed_at = $8,
			active = $9, updated_at = $10
		WHERE id = $11
	`, c.State, c.Effectiveness, c.Evidence, c.LastReviewedAt, c.NextFollowUpAt,
		c.ImplementedAt, c.VerifiedAt, c.ClosedAt, c.Active, c.UpdatedAt, c.ID)
	return err
}

func (s *Store) ListControls(ctx context.Context, state string) ([]models.Control, error) {
	query := controlSelect + ` WHERE active`
	var args []any
	if state != "" {
		query += ` AND state = $1`
		args = append(args, state)
	}
	query += ` ORDER BY id ASC`
	return s.listControls(ctx, query, args...)
}

func (s *Store) ListControlsDueFollowUp(ctx context.Context, now time.Time) ([]models.Control, error) {
	return s.listControls(ctx, controlSelect+`
		WHERE active AND follow_up_every_days > 0 AND next_follow_up_at IS NOT NULL
			AND next_follow_up_at <= $1
		ORDER BY next_follow_up_at ASC`, now)
}

const controlSelect = `
	SELECT id, code, name, description, type, hierarchy_level, report_id, responsible_id,
		created_by_id, state, effectiveness, evidence, follow_up_every_days, last_reviewed_at,
		next_follow_up_at, planned_at, implemented_at, verified_at, closed_at, active,
		created_at, updated_at
	FROM controls`

func (s *Store) listControls(ctx context.Context, query string, args ...any) ([]models.Control, error) {
	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Control
	for rows.Next() {
		c, err := scanControl(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanControl(row rowScanner) (models.Control, error) {
	var c models.Control
	err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Description, &c.Type, &c.HierarchyLevel,
		&c.ReportID, &c.ResponsibleID, &c.CreatedByID, &c.State, &c.Effectiveness, &c.Evidence,
		&c.FollowUpEveryDays, &c.LastReviewedAt, &c.NextFollowUpAt, &c.PlannedAt,
		&c.ImplementedAt, &c.VerifiedAt, &c.ClosedAt, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
