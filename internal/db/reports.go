package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sst-platform/backend/internal/models"
)

func (s *Store) CreateReport(ctx context.Context, r *models.Report) error {
	return s.Pool.QueryRow(ctx, `
		INSERT INTO reports (number, title, description, location_id, location_detail,
			report_type_id, evidence_type_id, probability, severity, risk_score, risk_level,
			reporter_id, state)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING id, created_at
	`, r.Number, r.Title, r.Description, r.LocationID, r.LocationDetail,
		r.ReportTypeID, r.EvidenceTypeID, r.Probability, r.Severity, r.RiskScore, r.RiskLevel,
		r.ReporterID, r.State).Scan(&r.ID, &r.CreatedAt)
}

func (s *Store) GetReport(ctx context.Context, id int64) (models.Report, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, number, title, description, location_id, location_detail, report_type_id,
			evidence_type_id, probability, severity, risk_score, risk_level, reporter_id,
			state, created_at, closed_at
		FROM reports WHERE id = $1
	`, id)
	var r models.Report
	err := row.Scan(&r.ID, &r.Number, &r.Title, &r.Description, &r.LocationID, &r.LocationDetail,
		&r.ReportTypeID, &r.EvidenceTypeID, &r.Probability, &r.Severity, &r.RiskScore,
		&r.RiskLevel, &r.ReporterID, &r.State, &r.CreatedAt, &r.ClosedAt)
	return r, err
}

func (s *Store) CloseReport(ctx context.Context, id int64, at time.Time) error {
	_, err := s.Pool.Exec(ctx, `UPDATE reports SET state = 'Cerrado', closed_at = $1 WHERE id = $2`, at, id)
	return err
}

func (s *Store) ListReports(ctx context.Context, state, q string, reportTypeID int64, limit, offset int) ([]models.Report, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, number, title, description, location_id, location_detail, report_type_id,
			evidence_type_id, probability, severity, risk_score, risk_level, reporter_id,
			state, created_at, closed_at
		FROM reports`
	var args []any
	var wheres []string
	if state != "" {
		args = append(args, state)
		wheres = append(wheres, fmt.Sprintf("state = $%d", len(args)))
	}
	if reportTypeID > 0 {
		args = append(args, reportTypeID)
		wheres = append(wheres, fmt.Sprintf("report_type_id = $%d", len(args)))
	}
	if q != "" {
		args = append(args, "%"+q+"%")
		wheres = append(wheres, fmt.Sprintf("(title ILIKE $%d OR number ILIKE $%d)", len(args), len(args)))
	}
	if len(wheres) > 0 {
		query += " WHERE " + strings.Join(wheres, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT $" + fmt.Sprint(len(args)+1) + " OFFSET $" + fmt.Sprint(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Report
	for rows.Next() {
		var r models.Report
		if err := rows.Scan(&r.ID, &r.Number, &r.Title, &r.Description, &r.LocationID,
			&r.LocationDetail, &r.ReportTypeID, &r.EvidenceTypeID, &r.Probability, &r.Severity,
			&r.RiskScore, &r.RiskLevel, &r.ReporterID, &r.State, &r.CreatedAt, &r.ClosedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
