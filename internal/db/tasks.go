package db

import (
	"context"
	"time"

	"github.com/sst-platform/backend/internal/models"
)

func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	return s.Pool.QueryRow(ctx, `
		INSERT INTO tasks (assignment_id, assignee_id, title, description, state, priority, due_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at
	`, t.AssignmentID, t.AssigneeID, t.Title, t.Description, t.State, t.Priority, t.DueAt).
		Scan(&t.ID, &t.CreatedAt)
}

func (s *Store) ListTasksByAssignee(ctx context.Context, assigneeID int64, state string) ([]models.Task, error) {
	query := taskSelect + ` WHERE assignee_id = $1`
	args := []any{assigneeID}
	if state != "" {
		query += ` AND state = $2`
		args = append(args, state)
	}
	query += ` ORDER BY due_at ASC`
	return s.listTasks(ctx, query, args...)
}

func (s *Store) ListTasksByAssignment(ctx context.Context, assignmentID int64) ([]models.Task, error) {
	return s.listTasks(ctx, taskSelect+` WHERE assignment_id = $1 ORDER BY id ASC`, assignmentID)
}

// CancelOpenTasks cancels the still-open tasks of an assignment, used
// when ownership moves so the former owner is not left with live work
// items.
func (s *Store) CancelOpenTasks(ctx context.Context, assignmentID int64) (int64, error) {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE tasks SET state = $1
		WHERE assignment_id = $2 AND state IN ($3, $4)
	`, models.TaskCancelled, assignmentID, models.TaskOpen, models.TaskInProgress)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) CompleteOpenTasks(ctx context.Context, assignmentID int64, at time.Time) (int64, error) {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE tasks SET state = $1, completed_at = $2
		WHERE assignment_id = $3 AND state IN ($4, $5)
	`, models.TaskCompleted, at, assignmentID, models.TaskOpen, models.TaskInProgress)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteCompletedTasksBefore is the housekeeping pass removing completed
// tasks older than the retention cutoff.
func (s *Store) DeleteCompletedTasksBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.Pool.Exec(ctx, `
		DELETE FROM tasks WHERE state = $1 AND completed_at < $2
	`, models.TaskCompleted, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const taskSelect = `
	SELECT id, assignment_id, assignee_id, title, description, state, priority, created_at,
		due_at, completed_at
	FROM tasks`

func (s *Store) listTasks(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.AssignmentID, &t.AssigneeID, &t.Title, &t.Description,
			&t.State, &t.Priority, &t.CreatedAt, &t.DueAt, &t.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
