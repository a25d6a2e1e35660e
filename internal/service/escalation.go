package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sst-platform/backend/internal/metrics"
	"github.com/sst-platform/backend/internal/models"
)

// EscalateIfDue moves an overdue assignment one step up its chain. It
// re-checks the deadlines itself, so calling it on an assignment that is
// not actually overdue is a no-op; the sweep can therefore hand it
// candidates without holding any lock. Returns true only when this call
// performed the escalation.
//
// When the rule has no backup for the current step, or no active user
// holds the target role, the assignment keeps its current owner. That
// outcome is deliberately silent toward the caller;
// it is only counted so operators can alert on stuck cases.
func (s *GestionService) EscalateIfDue(ctx context.Context, a models.Assignment, now time.Time) (bool, error) {
	if !a.Active || a.State.Terminal() {
		return false, nil
	}
	responseOverdue := a.RespondedAt == nil && now.After(a.ResponseDue)
	resolutionOverdue := a.RespondedAt != nil && a.ResolvedAt == nil && now.After(a.ResolutionDue)
	if !responseOverdue && !resolutionOverdue {
		return false, nil
	}

	rule, err := s.store.GetRule(ctx, a.RuleID)
	if err != nil {
		return false, fmt.Errorf("load rule %d: %w", a.RuleID, err)
	}

	targetRole, ok := nextEscalationRole(rule, a.EscalationCount)
	if !ok {
		metrics.StuckAssignmentsTotal.Inc()
		s.log.Warn().Int64("assignment_id", a.ID).Int("escalation_count", a.EscalationCount).
			Msg("no backup role configured for escalation step")
		return false, nil
	}
	target, err := s.store.FirstActiveUserByRole(ctx, targetRole)
	if errors.Is(err, pgx.ErrNoRows) {
		metrics.StuckAssignmentsTotal.Inc()
		s.log.Warn().Int64("assignment_id", a.ID).Str("target_role", string(targetRole)).
			Msg("escalation target role has no active holder")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	expected := a.EscalationCount
	updated := a
	updated.OwnerID = target.ID
	updated.OwnerRole = targetRole
	updated.State = models.AssignmentEscalated
	updated.EscalationCount = expected + 1
	updated.EscalatedToID = &target.ID
	updated.AppendLog(now, target.ID, actionEscalation,
		fmt.Sprintf("escalado a %s (%s), paso %d", target.FullName, targetRole, updated.EscalationCount))

	applied, err := s.store.ApplyEscalation(ctx, updated, expected)
	if err != nil {
		return false, fmt.Errorf("apply escalation: %w", err)
	}
	if !applied {
		// Another sweep won the race; the counter moved under us.
		return false, nil
	}

	if _, err := s.store.CancelOpenTasks(ctx, a.ID); err != nil {
		s.log.Error().Err(err).Int64("assignment_id", a.ID).Msg("cancelling previous owner tasks failed")
	}
	task := models.Task{
		AssignmentID: a.ID,
		AssigneeID:   target.ID,
		Title:        fmt.Sprintf("Atender caso escalado (paso %d)", updated.EscalationCount),
		State:        models.TaskOpen,
		Priority:     4,
		DueAt:        a.ResolutionDue,
	}
	if err := s.store.CreateTask(ctx, &task); err != nil {
		s.log.Error().Err(err).Int64("assignment_id", a.ID).Msg("escalation task creation failed")
	}

	if report, err := s.store.GetReport(ctx, a.ReportID); err == nil {
		s.notifier.EscalationNotice(ctx, target, report, updated)
	} else {
		s.log.Error().Err(err).Int64("report_id", a.ReportID).Msg("report lookup for escalation notice failed")
	}

	metrics.EscalationsTotal.Inc()
	s.log.Info().Int64("assignment_id", a.ID).Int64("new_owner_id", target.ID).
		Int("escalation_count", updated.EscalationCount).Msg("assignment escalated")
	return true, nil
}

// SweepDueAssignments is the periodic pass behind the scheduler: it
// escalates response- and resolution-overdue assignments and sends the
// imminent-deadline warnings. Per-assignment failures are logged and the
// sweep keeps going.
func (s *GestionService) SweepDueAssignments(ctx context.Context) error {
	now := s.Now()
	start := time.Now()
	metrics.SweepInProgress.Set(1)
	defer func() {
		metrics.SweepInProgress.Set(0)
		metrics.SweepsTotal.Inc()
		metrics.SweepDuration.Observe(time.Since(start).Seconds())
	}()

	var escalated int
	for _, list := range []func(context.Context, time.Time) ([]models.Assignment, error){
		s.store.ListResponseOverdue,
		s.store.ListResolutionOverdue,
	} {
		due, err := list(ctx, now)
		if err != nil {
			return fmt.Errorf("list overdue assignments: %w", err)
		}
		for _, a := range due {
			ok, err := s.EscalateIfDue(ctx, a, now)
			if err != nil {
				s.log.Error().Err(err).Int64("assignment_id", a.ID).Msg("escalation failed")
				continue
			}
			if ok {
				escalated++
			}
		}
	}

	imminent, err := s.store.ListResolutionImminent(ctx, now, s.WarningWindow)
	if err != nil {
		return fmt.Errorf("list imminent assignments: %w", err)
	}
	for _, a := range imminent {
		owner, err := s.store.GetUser(ctx, a.OwnerID)
		if err != nil {
			s.log.Error().Err(err).Int64("assignment_id", a.ID).Msg("owner lookup for warning failed")
			continue
		}
		report, err := s.store.GetReport(ctx, a.ReportID)
		if err != nil {
			s.log.Error().Err(err).Int64("assignment_id", a.ID).Msg("report lookup for warning failed")
			continue
		}
		s.notifier.ImminentDeadlineNotice(ctx, owner, report, a)
	}

	s.log.Debug().Int("escalated", escalated).Int("warnings", len(imminent)).Msg("due sweep finished")
	return nil
}

// MarkResponded records the owner's first response and moves the case
// into progress. Only the current owner may respond.
func (s *GestionService) MarkResponded(ctx context.Context, assignmentID, actorID int64, note string) (models.Assignment, error) {
	a, err := s.loadAssignment(ctx, assignmentID)
	if err != nil {
		return models.Assignment{}, err
	}
	if a.OwnerID != actorID {
		return models.Assignment{}, ErrNotOwner
	}
	if !a.Active || a.State.Terminal() || a.RespondedAt != nil {
		return models.Assignment{}, ErrInvalidTransition
	}

	now := s.Now()
	a.RespondedAt = &now
	a.State = models.AssignmentInProgress
	a.AppendLog(now, actorID, actionResponse, note)
	if err := s.store.UpdateAssignment(ctx, a); err != nil {
		return models.Assignment{}, err
	}
	return a, nil
}

// MarkResolved records the resolution. The case must have been responded
// to first, and only the current owner may resolve it.
func (s *GestionService) MarkResolved(ctx context.Context, assignmentID, actorID int64, resolution string) (models.Assignment, error) {
	a, err := s.loadAssignment(ctx, assignmentID)
	if err != nil {
		return models.Assignment{}, err
	}
	if a.OwnerID != actorID {
		return models.Assignment{}, ErrNotOwner
	}
	if !a.Active || a.State.Terminal() || a.RespondedAt == nil || a.ResolvedAt != nil {
		return models.Assignment{}, ErrInvalidTransition
	}

	now := s.Now()
	a.ResolvedAt = &now
	a.State = models.AssignmentResolved
	a.Notes = resolution
	a.AppendLog(now, actorID, actionResolution, resolution)
	if err := s.store.UpdateAssignment(ctx, a); err != nil {
		return models.Assignment{}, err
	}

	if _, err := s.store.CompleteOpenTasks(ctx, a.ID, now); err != nil {
		s.log.Error().Err(err).Int64("assignment_id", a.ID).Msg("completing tasks on resolution failed")
	}

	report, err := s.store.GetReport(ctx, a.ReportID)
	if err == nil {
		if reporter, err := s.store.GetUser(ctx, report.ReporterID); err == nil {
			s.notifier.ResolutionNotice(ctx, reporter, report, resolution)
		}
	}
	return a, nil
}

// MarkClosed retires a resolved assignment and closes its report.
func (s *GestionService) MarkClosed(ctx context.Context, assignmentID, actorID int64) (models.Assignment, error) {
	a, err := s.loadAssignment(ctx, assignmentID)
	if err != nil {
		return models.Assignment{}, err
	}
	if a.State != models.AssignmentResolved {
		return models.Assignment{}, ErrInvalidTransition
	}

	now := s.Now()
	a.State = models.AssignmentClosed
	a.Active = false
	a.AppendLog(now, actorID, actionClose, "")
	if err := s.store.UpdateAssignment(ctx, a); err != nil {
		return models.Assignment{}, err
	}
	if _, err := s.store.CompleteOpenTasks(ctx, a.ID, now); err != nil {
		s.log.Error().Err(err).Int64("assignment_id", a.ID).Msg("completing tasks on close failed")
	}
	if err := s.store.CloseReport(ctx, a.ReportID, now); err != nil {
		return models.Assignment{}, fmt.Errorf("close report: %w", err)
	}
	return a, nil
}

// CleanupCompletedTasks drops completed tasks past the retention window.
func (s *GestionService) CleanupCompletedTasks(ctx context.Context) error {
	cutoff := s.Now().Add(-s.TaskRetention)
	n, err := s.store.DeleteCompletedTasksBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Info().Int64("deleted", n).Msg("completed task cleanup")
	}
	return nil
}

func (s *GestionService) loadAssignment(ctx context.Context, id int64) (models.Assignment, error) {
	a, err := s.store.GetAssignment(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Assignment{}, ErrNotFound
	}
	return a, err
}
