package db

import (
	"context"

	"github.com/sst-platform/backend/internal/models"
)

func (s *Store) CreateConsultation(ctx context.Context, c *models.Consultation) error {
	return s.Pool.QueryRow(ctx, `
		INSERT INTO consultations (number, title, description, type, report_id, employee_id,
			creator_id, state, priority, legal_risk)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at
	`, c.Number, c.Title, c.Description, c.Type, c.ReportID, c.EmployeeID,
		c.CreatorID, c.State, c.Priority, c.LegalRisk).Scan(&c.ID, &c.CreatedAt)
}

func (s *Store) GetConsultation(ctx context.Context, id int64) (models.Consultation, error) {
	row := s.Pool.QueryRow(ctx, consultationSelect+` WHERE id = $1`, id)
	return scanConsultation(row)
}

func (s *Store) UpdateConsultation(ctx context.Context, c models.Consultation) error {
	_, err := s.Pool.Exec(ctx, `
		UPDATE consultations
		SET lawyer_id = $1, state = $2, resolution = $3, recommendations = $4,
			assigned_at = $5, resolved_at = $6, closed_at = $7
		WHERE id = $8
	`, c.LawyerID, c.State, c.Resolution, c.Recommendations,
		c.AssignedAt, c.ResolvedAt, c.ClosedAt, c.ID)
	return err
}

func (s *Store) ListConsultations(ctx context.Context, state string) ([]models.Consultation, error) {
	query := consultationSelect
	var args []any
	if state != "" {
		query += ` WHERE state = $1`
		args = append(args, state)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Consultation
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const consultationSelect = `
	SELECT id, number, title, description, type, report_id, employee_id, lawyer_id, creator_id,
		state, priority, legal_risk, resolution, recommendations, created_at, assigned_at,
		resolved_at, closed_at
	FROM consultations`

func scanConsultation(row rowScanner) (models.Consultation, error) {
	var c models.Consultation
	err := row.Scan(&c.ID, &c.Number, &c.Title, &c.Description, &c.Type, &c.ReportID,
		&c.EmployeeID, &c.LawyerID, &c.CreatorID, &c.State, &c.Priority, &c.LegalRisk,
		&c.Resolution, &c.Recommendations, &c.CreatedAt, &c.AssignedAt, &c.ResolvedAt, &c.ClosedAt)
	return c, err
}
