package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sst-platform/backend/internal/models"
)

func (s *Store) CreateAssignment(ctx context.Context, a *models.Assignment) error {
	log, err := json.Marshal(a.ChangeLog)
	if err != nil {
		return err
	}
	return s.Pool.QueryRow(ctx, `
		INSERT INTO assignments (report_id, owner_id, owner_role, rule_id, state, assigned_at,
			response_due, resolution_due, escalation_count, change_log, notes, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id
	`, a.ReportID, a.OwnerID, a.OwnerRole, a.RuleID, a.State, a.AssignedAt,
		a.ResponseDue, a.ResolutionDue, a.EscalationCount, log, a.Notes, a.Active).Scan(&a.ID)
}

func (s *Store) GetAssignment(ctx context.Context, id int64) (models.Assignment, error) {
	row := s.Pool.QueryRow(ctx, assignmentSelect+` WHERE id = $1`, id)
	return scanAssignment(row)
}

func (s *Store) GetAssignmentByReport(ctx context.Context, reportID int64) (models.Assignment, error) {
	row := s.Pool.QueryRow(ctx, assignmentSelect+` WHERE report_id = $1 ORDER BY id DESC LIMIT 1`, reportID)
	return scanAssignment(row)
}

// UpdateAssignment persists owner-action mutations (respond, resolve,
// close). Escalation goes through ApplyEscalation instead.
func (s *Store) UpdateAssignment(ctx context.Context, a models.Assignment) error {
	log, err := json.Marshal(a.ChangeLog)
	if err != nil {
		return err
	}
	_, err = s.Pool.Exec(ctx, `
		UPDATE assignments
		SET state = $1, responded_at = $2, resolved_at = $3, change_log = $4, notes = $5, active = $6
		WHERE id = $7
	`, a.State, a.RespondedAt, a.ResolvedAt, log, a.Notes, a.Active, a.ID)
	return err
}

// ApplyEscalation writes an escalation transition guarded by the expected
// counter value, so concurrent sweeps cannot double-escalate the same
// assignment. Returns false when another writer got there first.
func (s *Store) ApplyEscalation(ctx context.Context, a models.Assignment, expectedCount int) (bool, error) {
	log, err := json.Marshal(a.ChangeLog)
	if err != nil {
		return false, err
	}
	tag, err := s.Pool.Exec(ctx, `
		UPDATE assignments
		SET owner_id = $1, owner_role = $2, state = $3, escalation_count = $4,
			escalated_to_id = $5, change_log = $6
		WHERE id = $7 AND escalation_count = $8 AND active
	`, a.OwnerID, a.OwnerRole, a.State, a.EscalationCount, a.EscalatedToID, log,
		a.ID, expectedCount)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ListResponseOverdue selects active assignments still waiting for a
// first response past their response deadline. Strict comparison: a
// deadline equal to now is not yet overdue.
func (s *Store) ListResponseOverdue(ctx context.Context, now time.Time) ([]models.Assignment, error) {
	return s.listAssignments(ctx, assignmentSelect+`
		WHERE state = ANY($1) AND responded_at IS NULL AND response_due < $2 AND active
		ORDER BY response_due ASC`,
		[]string{string(models.AssignmentAssigned), string(models.AssignmentWaiting), string(models.AssignmentEscalated)}, now)
}

// ListResolutionOverdue selects responded-to assignments past their
// resolution deadline. The responded_at filter keeps it disjoint from
// ListResponseOverdue, so one sweep never picks the same row up twice.
func (s *Store) ListResolutionOverdue(ctx context.Context, now time.Time) ([]models.Assignment, error) {
	return s.listAssignments(ctx, assignmentSelect+`
		WHERE state = ANY($1) AND responded_at IS NOT NULL AND resolved_at IS NULL
			AND resolution_due < $2 AND active
		ORDER BY resolution_due ASC`,
		[]string{string(models.AssignmentInProgress), string(models.AssignmentEscalated)}, now)
}

// ListResolutionImminent selects assignments whose resolution deadline
// falls inside (now, now+window], used for the warning fan-out.
func (s *Store) ListResolutionImminent(ctx context.Context, now time.Time, window time.Duration) ([]models.Assignment, error) {
	return s.listAssignments(ctx, assignmentSelect+`
		WHERE state = ANY($1) AND resolved_at IS NULL
			AND resolution_due > $2 AND resolution_due < $3 AND active
		ORDER BY resolution_due ASC`,
		[]string{string(models.AssignmentAssigned), string(models.AssignmentInProgress)}, now, now.Add(window))
}

func (s *Store) ListAssignmentsByOwner(ctx context.Context, ownerID int64) ([]models.Assignment, error) {
	return s.listAssignments(ctx, assignmentSelect+` WHERE owner_id = $1 AND active ORDER BY id ASC`, ownerID)
}

const assignmentSelect = `
	SELECT id, report_id, owner_id, owner_role, rule_id, state, assigned_at, response_due,
		resolution_due, responded_at, resolved_at, escalation_count, escalated_to_id,
		change_log, notes, active
	FROM assignments`

func (s *Store) listAssignments(ctx context.Context, query string, args ...any) ([]models.Assignment, error) {
	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAssignment(row rowScanner) (models.Assignment, error) {
	var a models.Assignment
	var log []byte
	err := row.Scan(&a.ID, &a.ReportID, &a.OwnerID, &a.OwnerRole, &a.RuleID, &a.State,
		&a.AssignedAt, &a.ResponseDue, &a.ResolutionDue, &a.RespondedAt, &a.ResolvedAt,
		&a.EscalationCount, &a.EscalatedToID, &log, &a.Notes, &a.Active)
	if err != nil {
		return models.Assignment{}, err
	}
	if len(log) > 0 {
		if err := json.Unmarshal(log, &a.ChangeLog); err != nil {
			return models.Assignment{}, err
		}
	}
	return a, nil
}
