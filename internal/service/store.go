package service

import (
	"context"
	"time"

	"github.com/sst-platform/backend/internal/db"
	"github.com/sst-platform/backend/internal/models"
)

// Datastore is the persistence surface the engines run against. *db.Store
// implements it; tests substitute an in-memory fake so deadline and
// escalation behavior can be exercised without a database.
type Datastore interface {
	FirstActiveUserByRole(ctx context.Context, role models.Role) (models.User, error)
	ListActiveUsersByRoles(ctx context.Context, roles []models.Role) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)

	ListActiveRules(ctx context.Context) ([]models.Rule, error)
	GetRule(ctx context.Context, id int64) (models.Rule, error)

	CreateReport(ctx context.Context, r *models.Report) error
	GetReport(ctx context.Context, id int64) (models.Report, error)
	CloseReport(ctx context.Context, id int64, at time.Time) error
	GetEvidenceType(ctx context.Context, id int64) (models.EvidenceType, error)

	CreateAssignment(ctx context.Context, a *models.Assignment) error
	GetAssignment(ctx context.Context, id int64) (models.Assignment, error)
	UpdateAssignment(ctx context.Context, a models.Assignment) error
	ApplyEscalation(ctx context.Context, a models.Assignment, expectedCount int) (bool, error)
	ListResponseOverdue(ctx context.Context, now time.Time) ([]models.Assignment, error)
	ListResolutionOverdue(ctx context.Context, now time.Time) ([]models.Assignment, error)
	ListResolutionImminent(ctx context.Context, now time.Time, window time.Duration) ([]models.Assignment, error)

	CreateTask(ctx context.Context, t *models.Task) error
	CancelOpenTasks(ctx context.Context, assignmentID int64) (int64, error)
	CompleteOpenTasks(ctx context.Context, assignmentID int64, at time.Time) (int64, error)
	DeleteCompletedTasksBefore(ctx context.Context, cutoff time.Time) (int64, error)

	CreateControl(ctx context.Context, c *models.Control) error
	GetControl(ctx context.Context, id int64) (models.Control, error)
	UpdateControl(ctx context.Context, c models.Control) error
	ListControlsDueFollowUp(ctx context.Context, now time.Time) ([]models.Control, error)

	CreateConsultation(ctx context.Context, c *models.Consultation) error
	GetConsultation(ctx context.Context, id int64) (models.Consultation, error)
	UpdateConsultation(ctx context.Context, c models.Consultation) error
}

var _ Datastore = (*db.Store)(nil)
