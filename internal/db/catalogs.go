package db

import (
	"context"

	"github.com/sst-platform/backend/internal/models"
)

func (s *Store) CreateReportType(ctx context.Context, rt *models.ReportType) error {
	return s.Pool.QueryRow(ctx, `
		INSERT INTO report_types (name, description, requires_investigation, active)
		VALUES ($1,$2,$3,$4) RETURNING id
	`, rt.Name, rt.Description, rt.RequiresInvestigation, rt.Active).Scan(&rt.ID)
}

func (s *Store) ListReportTypes(ctx context.Context) ([]models.ReportType, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, name, description, requires_investigation, active
		FROM report_types WHERE active ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ReportType
	for rows.Next() {
		var rt models.ReportType
		if err := rows.Scan(&rt.ID, &rt.Name, &rt.Description, &rt.RequiresInvestigation, &rt.Active); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (s *Store) CreateEvidenceType(ctx context.Context, et *models.EvidenceType) error {
	return s.Pool.QueryRow(ctx, `
		INSERT INTO evidence_types (name, code, active) VALUES ($1,$2,$3) RETURNING id
	`, et.Name, et.Code, et.Active).Scan(&et.ID)
}

func (s *Store) GetEvidenceType(ctx context.Context, id int64) (models.EvidenceType, error) {
	var et models.EvidenceType
	err := s.Pool.QueryRow(ctx, `
		SELECT id, name, code, active FROM evidence_types WHERE id = $1
	`, id).Scan(&et.ID, &et.Name, &et.Code, &et.Active)
	return et, err
}

func (s *Store) ListEvidenceTypes(ctx context.Context) ([]models.EvidenceType, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, name, code, active FROM evidence_types WHERE active ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.EvidenceType
	for rows.Next() {
		var et models.EvidenceType
		if err := rows.Scan(&et.ID, &et.Name, &et.Code, &et.Active); err != nil {
			return nil, err
		}
		out = append(out, et)
	}
	return out, rows.Err()
}

func (s *Store) CreateLocation(ctx context.Context, l *models.Location) error {
	return s.Pool.QueryRow(ctx, `
		INSERT INTO locations (name, category, address, active) VALUES ($1,$2,$3,$4) RETURNING id
	`, l.Name, l.Category, l.Address, l.Active).Scan(&l.ID)
}

func (s *Store) ListLocations(ctx context.Context) ([]models.Location, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, name, category, address, active FROM locations WHERE active ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Location
	for rows.Next() {
		var l models.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Category, &l.Address, &l.Active); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
