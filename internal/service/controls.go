package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/sst-platform/backend/internal/models"
)

// ControlService manages the lifecycle of risk-mitigation controls.
type ControlService struct {
	store Datastore
	log   zerolog.Logger
	Now   func() time.Time
}

func NewControlService(store Datastore, logger zerolog.Logger) *ControlService {
	return &ControlService{store: store, log: logger, Now: time.Now}
}

func (s *ControlService) Create(ctx context.Context, c *models.Control) error {
	now := s.Now()
	c.Code = newNumber("CTL", now)
	c.State = models.ControlPlanificado
	c.PlannedAt = &now
	c.Active = true
	return s.store.CreateControl(ctx, c)
}

// Advance moves a control along its lifecycle. Illegal moves come back
// as ErrInvalidTransition; close and cancel are accepted from any
// non-final state.
func (s *ControlService) Advance(ctx context.Context, id int64, to models.ControlState, evidence string) (models.Control, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return models.Control{}, err
	}
	if !c.State.CanTransition(to) {
		return models.Control{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.State, to)
	}

	now := s.Now()
	c.State = to
	if evidence != "" {
		c.Evidence = evidence
	}
	switch to {
	case models.ControlImplementado:
		c.ImplementedAt = &now
	case models.ControlVerificado:
		c.VerifiedAt = &now
	case models.ControlCerrado, models.ControlCancelado:
		c.ClosedAt = &now
		c.Active = false
	}
	c.UpdatedAt = now

	if err := s.store.UpdateControl(ctx, c); err != nil {
		return models.Control{}, err
	}
	s.log.Info().Str("code", c.Code).Str("state", string(to)).Msg("control state changed")
	return c, nil
}

// Evaluate scores a verified control. Effectiveness of 80% or more makes
// it Efectivo, anything lower Inefectivo; either way the next follow-up
// date is scheduled from the review time.
func (s *ControlService) Evaluate(ctx context.Context, id int64, effectiveness int) (models.Control, error) {
	if effectiveness < 0 || effectiveness > 100 {
		return models.Control{}, fmt.Errorf("%w: effectiveness out of range", ErrInvalidTransition)
	}
	c, err := s.load(ctx, id)
	if err != nil {
		return models.Control{}, err
	}
	if c.State != models.ControlVerificado {
		return models.Control{}, fmt.Errorf("%w: control must be verified before evaluation", ErrInvalidTransition)
	}

	now := s.Now()
	c.Effectiveness = effectiveness
	if effectiveness >= 80 {
		c.State = models.ControlEfectivo
	} else {
		c.State = models.ControlInefectivo
	}
	c.LastReviewedAt = &now
	if c.FollowUpEveryDays > 0 {
		next := now.AddDate(0, 0, c.FollowUpEveryDays)
		c.NextFollowUpAt = &next
	}
	c.UpdatedAt = now

	if err := s.store.UpdateControl(ctx, c); err != nil {
		return models.Control{}, err
	}
	return c, nil
}

// DueFollowUps lists active controls whose scheduled review date has
// passed.
func (s *ControlService) DueFollowUps(ctx context.Context) ([]models.Control, error) {
	return s.store.ListControlsDueFollowUp(ctx, s.Now())
}

func (s *ControlService) load(ctx context.Context, id int64) (models.Control, error) {
	c, err := s.store.GetControl(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Control{}, ErrNotFound
	}
	return c, err
}
