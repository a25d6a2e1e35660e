package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/sst-platform/backend/internal/models"
)

type captureSender struct {
	msgs []Message
	err  error
}

func (c *captureSender) Send(_ context.Context, m Message) error {
	c.msgs = append(c.msgs, m)
	return c.err
}

func testFixtures() (models.User, models.Report, models.Assignment) {
	owner := models.User{ID: 1, Email: "sst@example.com", FullName: "Resp SST"}
	report := models.Report{ID: 10, Number: "REP-2026-ABC123", Title: "Cable suelto"}
	a := models.Assignment{
		ID: 20, ReportID: 10, OwnerID: 1,
		State:         models.AssignmentAssigned,
		ResponseDue:   time.Date(2026, 3, 15, 11, 0, 0, 0, time.UTC),
		ResolutionDue: time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC),
	}
	return owner, report, a
}

func TestSubjectsAndRecipients(t *testing.T) {
	owner, report, a := testFixtures()
	sender := &captureSender{}
	svc := Service{Sender: sender, Logger: zerolog.Nop()}
	ctx := context.Background()

	svc.AssignmentNotice(ctx, owner, report, a)
	svc.EscalationNotice(ctx, owner, report, a)
	svc.ImminentDeadlineNotice(ctx, owner, report, a)
	svc.ResolutionNotice(ctx, owner, report, "arreglado")

	wantPrefixes := []string{"[SST-ASIGNADO]", "[SST-ESCALADO]", "[SST-CRITICO]", "[SST-RESUELTO]"}
	if len(sender.msgs) != len(wantPrefixes) {
		t.Fatalf("messages = %d, want %d", len(sender.msgs), len(wantPrefixes))
	}
	for i, prefix := range wantPrefixes {
		m := sender.msgs[i]
		if !strings.HasPrefix(m.Subject, prefix) {
			t.Errorf("subject %d = %q, want %s prefix", i, m.Subject, prefix)
		}
		if !strings.Contains(m.Subject, report.Number) {
			t.Errorf("subject %d = %q, want report number included", i, m.Subject)
		}
		if len(m.To) != 1 || m.To[0] != owner.Email {
			t.Errorf("recipients %d = %v", i, m.To)
		}
	}
	if !sender.msgs[1].Urgent || !sender.msgs[2].Urgent {
		t.Error("escalation and imminent-deadline notices must be urgent")
	}
}

func TestCcNoticeFansOutToAllRecipients(t *testing.T) {
	_, report, a := testFixtures()
	sender := &captureSender{}
	svc := Service{Sender: sender, Logger: zerolog.Nop()}

	svc.CcNotice(context.Background(), []models.User{
		{Email: "rrhh@example.com"},
		{Email: "medico@example.com"},
	}, report, a)

	if len(sender.msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(sender.msgs))
	}
	if len(sender.msgs[0].To) != 2 {
		t.Errorf("recipients = %v, want both cc roles", sender.msgs[0].To)
	}

	svc.CcNotice(context.Background(), nil, report, a)
	if len(sender.msgs) != 1 {
		t.Error("cc notice sent with no recipients")
	}
}

func TestResolutionNoticeTruncatesOnRuneBoundary(t *testing.T) {
	owner, report, _ := testFixtures()
	sender := &captureSender{}
	svc := Service{Sender: sender, Logger: zerolog.Nop()}

	svc.ResolutionNotice(context.Background(), owner, report, strings.Repeat("ó", 400))

	if len(sender.msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(sender.msgs))
	}
	body := sender.msgs[0].Body
	if !utf8.ValidString(body) {
		t.Fatal("notice body is not valid UTF-8")
	}
	if got := strings.Count(body, "ó"); got != 300 {
		t.Errorf("resolution runes in body = %d, want 300", got)
	}
}

func TestLegalNotices(t *testing.T) {
	sender := &captureSender{}
	svc := Service{Sender: sender, Logger: zerolog.Nop()}
	lawyer := models.User{Email: "abogado@example.com"}
	c := models.Consultation{Number: "CONS-JUR-2026-ABC123", Title: "Incapacidad", Resolution: "Procede"}

	svc.LegalAssignmentNotice(context.Background(), lawyer, c)
	svc.LegalResolutionNotice(context.Background(), models.User{Email: "empleado@example.com"}, c)

	if len(sender.msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(sender.msgs))
	}
	for i, m := range sender.msgs {
		if !strings.HasPrefix(m.Subject, "[SST-JURIDICO]") {
			t.Errorf("subject %d = %q, want [SST-JURIDICO] prefix", i, m.Subject)
		}
		if !strings.Contains(m.Subject, c.Number) {
			t.Errorf("subject %d = %q, want consultation number included", i, m.Subject)
		}
	}
}

func TestDeliveryFailureIsSwallowed(t *testing.T) {
	owner, report, a := testFixtures()
	sender := &captureSender{err: errors.New("gateway down")}
	svc := Service{Sender: sender, Logger: zerolog.Nop()}

	// Must not panic or propagate; the engines treat delivery as
	// best-effort.
	svc.AssignmentNotice(context.Background(), owner, report, a)
	if len(sender.msgs) != 1 {
		t.Fatalf("messages = %d, want attempt recorded", len(sender.msgs))
	}
}
