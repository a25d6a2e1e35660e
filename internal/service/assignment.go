// Package service implements the case-management engines: automatic
// assignment, deadline-driven escalation, the control lifecycle and the
// legal consultation workflow.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/sst-platform/backend/internal/metrics"
	"github.com/sst-platform/backend/internal/models"
	"github.com/sst-platform/backend/internal/notify"
)

const (
	actionAutoAssigned = "AUTO_ASSIGNED"
	actionEscalation   = "ESCALATION"
	actionResponse     = "RESPUESTA"
	actionResolution   = "RESOLUCION"
	actionClose        = "CIERRE"
)

// GestionService runs the assignment and escalation engines. Now is
// injectable so deadline arithmetic can be tested against a fixed clock.
type GestionService struct {
	store    Datastore
	notifier notify.Service
	log      zerolog.Logger

	Now           func() time.Time
	WarningWindow time.Duration
	TaskRetention time.Duration
}

func NewGestionService(store Datastore, notifier notify.Service, logger zerolog.Logger) *GestionService {
	return &GestionService{
		store:         store,
		notifier:      notifier,
		log:           logger,
		Now:           time.Now,
		WarningWindow: 30 * time.Minute,
		TaskRetention: 30 * 24 * time.Hour,
	}
}

// CreateReport stores a new report and immediately runs auto-assignment.
// The report is created even when assignment cannot complete: a missing
// rule or an empty ownership chain comes back as ErrNoRuleConfigured or
// ErrNoEligibleUser alongside the persisted report, never as a rollback.
func (s *GestionService) CreateReport(ctx context.Context, r *models.Report) (*models.Assignment, error) {
	now := s.Now()
	r.Number = newNumber("REP", now)
	r.RiskScore = r.Probability * r.Severity
	r.RiskLevel = models.RiskLevelForScore(r.RiskScore)
	r.State = "Abierto"

	if err := s.store.CreateReport(ctx, r); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	a, err := s.AssignCase(ctx, *r)
	if err != nil {
		if errors.Is(err, ErrNoRuleConfigured) || errors.Is(err, ErrNoEligibleUser) {
			s.log.Warn().Err(err).Str("report", r.Number).Msg("report created without assignment")
			return nil, err
		}
		return nil, err
	}
	return &a, nil
}

// AssignCase resolves the governing rule, walks the ownership chain to a
// concrete active user, and opens the assignment with both deadlines
// fixed from the current time. Deadlines are set once here and never
// recomputed, including across escalations.
func (s *GestionService) AssignCase(ctx context.Context, report models.Report) (models.Assignment, error) {
	rules, err := s.store.ListActiveRules(ctx)
	if err != nil {
		metrics.AssignmentsTotal.WithLabelValues("error").Inc()
		return models.Assignment{}, err
	}
	rule, ok := ResolveRule(rules, report)
	if !ok {
		metrics.AssignmentsTotal.WithLabelValues("no_rule").Inc()
		return models.Assignment{}, ErrNoRuleConfigured
	}

	var (
		owner     models.User
		ownerRole models.Role
		found     bool
	)
	for _, role := range ownershipChain(rule) {
		u, err := s.store.FirstActiveUserByRole(ctx, role)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			metrics.AssignmentsTotal.WithLabelValues("error").Inc()
			return models.Assignment{}, err
		}
		owner, ownerRole, found = u, role, true
		break
	}
	if !found {
		metrics.AssignmentsTotal.WithLabelValues("no_user").Inc()
		return models.Assignment{}, ErrNoEligibleUser
	}

	now := s.Now()
	a := models.Assignment{
		ReportID:      report.ID,
		OwnerID:       owner.ID,
		OwnerRole:     ownerRole,
		RuleID:        rule.ID,
		State:         models.AssignmentAssigned,
		AssignedAt:    now,
		ResponseDue:   now.Add(time.Duration(rule.ResponseMinutes) * time.Minute),
		ResolutionDue: now.Add(time.Duration(rule.ResolutionMinutes) * time.Minute),
		Active:        true,
	}
	a.AppendLog(now, owner.ID, actionAutoAssigned,
		fmt.Sprintf("asignado a %s (%s) por regla %d", owner.FullName, ownerRole, rule.ID))

	if err := s.store.CreateAssignment(ctx, &a); err != nil {
		metrics.AssignmentsTotal.WithLabelValues("error").Inc()
		return models.Assignment{}, fmt.Errorf("create assignment: %w", err)
	}

	task := models.Task{
		AssignmentID: a.ID,
		AssigneeID:   owner.ID,
		Title:        fmt.Sprintf("Atender reporte %s", report.Number),
		Description:  report.Title,
		State:        models.TaskOpen,
		Priority:     s.taskPriority(ctx, report),
		DueAt:        a.ResolutionDue,
	}
	if err := s.store.CreateTask(ctx, &task); err != nil {
		s.log.Error().Err(err).Int64("assignment_id", a.ID).Msg("initial task creation failed")
	}

	s.notifier.AssignmentNotice(ctx, owner, report, a)
	s.fanOutCc(ctx, rule, report, a)

	metrics.AssignmentsTotal.WithLabelValues("assigned").Inc()
	s.log.Info().Str("report", report.Number).Int64("owner_id", owner.ID).
		Str("owner_role", string(ownerRole)).Msg("report auto-assigned")
	return a, nil
}

func (s *GestionService) fanOutCc(ctx context.Context, rule models.Rule, report models.Report, a models.Assignment) {
	if len(rule.NotifyRoles) == 0 {
		return
	}
	users, err := s.store.ListActiveUsersByRoles(ctx, rule.NotifyRoles)
	if err != nil {
		s.log.Error().Err(err).Msg("cc recipient lookup failed")
		return
	}
	s.notifier.CcNotice(ctx, users, report, a)
}

// taskPriority derives the work-item priority from the report's evidence
// code keyword, falling back to medium when the code carries no keyword
// or no evidence type is attached.
func (s *GestionService) taskPriority(ctx context.Context, report models.Report) int {
	if report.EvidenceTypeID == nil {
		return 3
	}
	et, err := s.store.GetEvidenceType(ctx, *report.EvidenceTypeID)
	if err != nil {
		return 3
	}
	return PriorityForCode(et.Code)
}

func PriorityForCode(code string) int {
	code = strings.ToUpper(code)
	switch {
	case strings.Contains(code, "CRITICO"):
		return 5
	case strings.Contains(code, "ALTO"):
		return 4
	case strings.Contains(code, "MEDIO"):
		return 3
	case strings.Contains(code, "BAJO"):
		return 2
	}
	return 3
}
