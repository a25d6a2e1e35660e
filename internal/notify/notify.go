// Package notify delivers email-style notifications through a pluggable
// sender. Delivery failures are logged and counted, never surfaced to the
// callers: a lost email must not roll back an assignment or escalation.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sst-platform/backend/internal/metrics"
	"github.com/sst-platform/backend/internal/models"
)

type Message struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	Urgent  bool     `json:"urgent"`
	Kind    string   `json:"kind"`
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

type Service struct {
	Sender Sender
	Logger zerolog.Logger
}

const timeLayout = "02/01/2006 15:04"

func (s Service) AssignmentNotice(ctx context.Context, owner models.User, report models.Report, a models.Assignment) {
	s.deliver(ctx, "assignment", Message{
		To:      []string{owner.Email},
		Subject: fmt.Sprintf("[SST-ASIGNADO] %s - %s", report.Number, report.Title),
		Body: fmt.Sprintf(
			"Se te ha asignado el reporte %s.\nVencimiento de respuesta: %s\nVencimiento de resolución: %s",
			report.Number, a.ResponseDue.Format(timeLayout), a.ResolutionDue.Format(timeLayout)),
		Kind: "assignment",
	})
}

func (s Service) EscalationNotice(ctx context.Context, newOwner models.User, report models.Report, a models.Assignment) {
	s.deliver(ctx, "escalation", Message{
		To:      []string{newOwner.Email},
		Subject: fmt.Sprintf("[SST-ESCALADO] %s - Se requiere tu atención inmediata", report.Number),
		Body: fmt.Sprintf(
			"El reporte %s fue escalado a ti por falta de respuesta (paso %d).\nVencimiento de respuesta: %s",
			report.Number, a.EscalationCount, a.ResponseDue.Format(timeLayout)),
		Urgent: true,
		Kind:   "escalation",
	})
}

func (s Service) ImminentDeadlineNotice(ctx context.Context, owner models.User, report models.Report, a models.Assignment) {
	s.deliver(ctx, "imminent_deadline", Message{
		To:      []string{owner.Email},
		Subject: fmt.Sprintf("[SST-CRITICO] %s - Vencimiento inminente", report.Number),
		Body: fmt.Sprintf(
			"El reporte %s está a punto de vencer. Vencimiento de resolución: %s. Estado actual: %s",
			report.Number, a.ResolutionDue.Format(timeLayout), a.State),
		Urgent: true,
		Kind:   "imminent_deadline",
	})
}

func (s Service) ResolutionNotice(ctx context.Context, reporter models.User, report models.Report, resolution string) {
	resolution = truncate(resolution, 300)
	s.deliver(ctx, "resolution", Message{
		To:      []string{reporter.Email},
		Subject: fmt.Sprintf("[SST-RESUELTO] %s - Tu reporte ha sido atendido", report.Number),
		Body:    fmt.Sprintf("Tu reporte %s fue resuelto.\nResolución: %s", report.Number, resolution),
		Kind:    "resolution",
	})
}

// CcNotice fans a follow-up copy out to every active holder of the
// rule's additional notify roles.
func (s Service) CcNotice(ctx context.Context, users []models.User, report models.Report, a models.Assignment) {
	if len(users) == 0 {
		return
	}
	to := make([]string, 0, len(users))
	for _, u := range users {
		to = append(to, u.Email)
	}
	s.deliver(ctx, "cc", Message{
		To:      to,
		Subject: fmt.Sprintf("[SST-CC] %s - Notificación de seguimiento", report.Number),
		Body:    fmt.Sprintf("Copia de seguimiento del reporte %s. Estado: %s", report.Number, a.State),
		Kind:    "cc",
	})
}

func (s Service) LegalAssignmentNotice(ctx context.Context, lawyer models.User, c models.Consultation) {
	s.deliver(ctx, "legal_assignment", Message{
		To:      []string{lawyer.Email},
		Subject: fmt.Sprintf("[SST-JURIDICO] %s - Nueva consulta asignada", c.Number),
		Body: fmt.Sprintf("Se te ha asignado la consulta %s: %s\nPrioridad: %s",
			c.Number, c.Title, c.Priority),
		Kind: "legal_assignment",
	})
}

func (s Service) LegalResolutionNotice(ctx context.Context, employee models.User, c models.Consultation) {
	s.deliver(ctx, "legal_resolution", Message{
		To:      []string{employee.Email},
		Subject: fmt.Sprintf("[SST-JURIDICO] %s - Tu consulta ha sido resuelta", c.Number),
		Body: fmt.Sprintf("Tu consulta %s fue resuelta.\nResolución: %s\nRecomendaciones: %s",
			c.Number, truncate(c.Resolution, 300), c.Recommendations),
		Kind: "legal_resolution",
	})
}

// truncate limits s to n runes; free-text fields must not be cut
// mid-rune or the body stops being valid UTF-8.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func (s Service) deliver(ctx context.Context, kind string, m Message) {
	if s.Sender == nil {
		return
	}
	if err := s.Sender.Send(ctx, m); err != nil {
		metrics.NotificationsTotal.WithLabelValues(kind, "error").Inc()
		s.Logger.Error().Err(err).Str("kind", kind).Strs("to", m.To).Msg("notification failed")
		return
	}
	metrics.NotificationsTotal.WithLabelValues(kind, "sent").Inc()
}
