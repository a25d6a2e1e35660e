package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/sst-platform/backend/internal/models"
	"github.com/sst-platform/backend/internal/notify"
)

// LegalService handles legal consultations raised by employees, either
// standalone or linked to a safety report.
type LegalService struct {
	store    Datastore
	notifier notify.Service
	log      zerolog.Logger
	Now      func() time.Time
}

func NewLegalService(store Datastore, notifier notify.Service, logger zerolog.Logger) *LegalService {
	return &LegalService{store: store, notifier: notifier, log: logger, Now: time.Now}
}

func (s *LegalService) Create(ctx context.Context, c *models.Consultation) error {
	now := s.Now()
	c.Number = newNumber("CONS-JUR", now)
	c.State = models.ConsultationAbierta
	if c.Priority == "" {
		c.Priority = "Media"
	}
	if err := s.store.CreateConsultation(ctx, c); err != nil {
		return err
	}
	s.log.Info().Str("number", c.Number).Msg("legal consultation opened")
	return nil
}

// AssignLawyer hands an open consultation to a lawyer and moves it into
// review. The assignee must be an active user holding the Abogado role.
func (s *LegalService) AssignLawyer(ctx context.Context, id, lawyerID int64) (models.Consultation, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return models.Consultation{}, err
	}
	if c.State != models.ConsultationAbierta {
		return models.Consultation{}, fmt.Errorf("%w: consultation is %s", ErrInvalidTransition, c.State)
	}

	lawyer, err := s.store.GetUser(ctx, lawyerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Consultation{}, ErrNotFound
	}
	if err != nil {
		return models.Consultation{}, err
	}
	if lawyer.Role != models.RoleAbogado || !lawyer.Active {
		return models.Consultation{}, fmt.Errorf("%w: assignee must be an active lawyer", ErrInvalidTransition)
	}

	now := s.Now()
	c.LawyerID = &lawyer.ID
	c.State = models.ConsultationEnRevision
	c.AssignedAt = &now
	if err := s.store.UpdateConsultation(ctx, c); err != nil {
		return models.Consultation{}, err
	}
	s.notifier.LegalAssignmentNotice(ctx, lawyer, c)
	return c, nil
}

// Resolve records the legal opinion. Only the assigned lawyer may
// resolve, and only while the consultation is under review.
func (s *LegalService) Resolve(ctx context.Context, id, actorID int64, resolution, recommendations string) (models.Consultation, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return models.Consultation{}, err
	}
	if c.State != models.ConsultationEnRevision {
		return models.Consultation{}, fmt.Errorf("%w: consultation is %s", ErrInvalidTransition, c.State)
	}
	if c.LawyerID == nil || *c.LawyerID != actorID {
		return models.Consultation{}, ErrNotOwner
	}

	now := s.Now()
	c.State = models.ConsultationResuelta
	c.Resolution = resolution
	c.Recommendations = recommendations
	c.ResolvedAt = &now
	if err := s.store.UpdateConsultation(ctx, c); err != nil {
		return models.Consultation{}, err
	}

	if employee, err := s.store.GetUser(ctx, c.EmployeeID); err == nil {
		s.notifier.LegalResolutionNotice(ctx, employee, c)
	} else {
		s.log.Error().Err(err).Int64("employee_id", c.EmployeeID).Msg("employee lookup for resolution notice failed")
	}
	return c, nil
}

func (s *LegalService) Close(ctx context.Context, id int64) (models.Consultation, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return models.Consultation{}, err
	}
	if c.State != models.ConsultationResuelta {
		return models.Consultation{}, fmt.Errorf("%w: consultation is %s", ErrInvalidTransition, c.State)
	}

	now := s.Now()
	c.State = models.ConsultationCerrada
	c.ClosedAt = &now
	if err := s.store.UpdateConsultation(ctx, c); err != nil {
		return models.Consultation{}, err
	}
	return c, nil
}

func (s *LegalService) load(ctx context.Context, id int64) (models.Consultation, error) {
	c, err := s.store.GetConsultation(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Consultation{}, ErrNotFound
	}
	return c, err
}
