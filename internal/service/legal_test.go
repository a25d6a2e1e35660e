package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sst-platform/backend/internal/models"
	"github.com/sst-platform/backend/internal/notify"
)

func newLegalService(store *fakeStore) (*LegalService, *recorderSender) {
	rec := &recorderSender{}
	svc := NewLegalService(store, notify.Service{Sender: rec, Logger: zerolog.Nop()}, zerolog.Nop())
	svc.Now = func() time.Time { return testNow }
	return svc, rec
}

func seedConsultation(t *testing.T, store *fakeStore, svc *LegalService) models.Consultation {
	t.Helper()
	c := models.Consultation{
		Title:       "Accidente con incapacidad",
		Description: "Consulta sobre obligaciones del empleador",
		Type:        "Laboral",
		EmployeeID:  1,
		CreatorID:   1,
	}
	if err := svc.Create(context.Background(), &c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return c
}

func TestConsultationCreate(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLegalService(store)
	c := seedConsultation(t, store, svc)

	if c.State != models.ConsultationAbierta {
		t.Errorf("state = %s, want Abierta", c.State)
	}
	if !strings.HasPrefix(c.Number, "CONS-JUR-2026-") {
		t.Errorf("number = %q, want CONS-JUR-2026- prefix", c.Number)
	}
	if c.Priority != "Media" {
		t.Errorf("priority = %q, want default Media", c.Priority)
	}
}

func TestConsultationWorkflow(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLegalService(store)
	lawyer := store.addUser(models.RoleAbogado, true)
	c := seedConsultation(t, store, svc)
	ctx := context.Background()

	assigned, err := svc.AssignLawyer(ctx, c.ID, lawyer.ID)
	if err != nil {
		t.Fatalf("AssignLawyer: %v", err)
	}
	if assigned.State != models.ConsultationEnRevision || assigned.LawyerID == nil || *assigned.LawyerID != lawyer.ID {
		t.Errorf("after assign: %+v", assigned)
	}

	resolved, err := svc.Resolve(ctx, c.ID, lawyer.ID, "Procede indemnización", "Documentar el incidente")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.State != models.ConsultationResuelta || resolved.ResolvedAt == nil {
		t.Errorf("after resolve: %+v", resolved)
	}

	closed, err := svc.Close(ctx, c.ID)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if closed.State != models.ConsultationCerrada || closed.ClosedAt == nil {
		t.Errorf("after close: %+v", closed)
	}
}

func TestConsultationNotices(t *testing.T) {
	store := newFakeStore()
	svc, rec := newLegalService(store)
	employee := store.addUser(models.RoleEmpleado, true)
	lawyer := store.addUser(models.RoleAbogado, true)
	c := seedConsultation(t, store, svc)
	ctx := context.Background()

	if _, err := svc.AssignLawyer(ctx, c.ID, lawyer.ID); err != nil {
		t.Fatalf("AssignLawyer: %v", err)
	}
	assigned := rec.byKind("legal_assignment")
	if len(assigned) != 1 || assigned[0].To[0] != lawyer.Email {
		t.Fatalf("assignment notices = %+v, want one to the lawyer", assigned)
	}
	if !strings.HasPrefix(assigned[0].Subject, "[SST-JURIDICO]") {
		t.Errorf("subject = %q, want [SST-JURIDICO] prefix", assigned[0].Subject)
	}

	if _, err := svc.Resolve(ctx, c.ID, lawyer.ID, "Procede", ""); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	resolved := rec.byKind("legal_resolution")
	if len(resolved) != 1 || resolved[0].To[0] != employee.Email {
		t.Fatalf("resolution notices = %+v, want one to the employee", resolved)
	}
}

func TestAssignLawyerRequiresLawyerRole(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLegalService(store)
	notLawyer := store.addUser(models.RoleGerente, true)
	inactive := store.addUser(models.RoleAbogado, false)
	c := seedConsultation(t, store, svc)
	ctx := context.Background()

	if _, err := svc.AssignLawyer(ctx, c.ID, notLawyer.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("assign non-lawyer: err = %v, want ErrInvalidTransition", err)
	}
	if _, err := svc.AssignLawyer(ctx, c.ID, inactive.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("assign inactive lawyer: err = %v, want ErrInvalidTransition", err)
	}
	if _, err := svc.AssignLawyer(ctx, c.ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("assign missing user: err = %v, want ErrNotFound", err)
	}
}

func TestResolveRequiresAssignedLawyer(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLegalService(store)
	lawyer := store.addUser(models.RoleAbogado, true)
	other := store.addUser(models.RoleAbogado, true)
	c := seedConsultation(t, store, svc)
	ctx := context.Background()

	if _, err := svc.Resolve(ctx, c.ID, lawyer.ID, "x", ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("resolve before assignment: err = %v, want ErrInvalidTransition", err)
	}

	if _, err := svc.AssignLawyer(ctx, c.ID, lawyer.ID); err != nil {
		t.Fatalf("AssignLawyer: %v", err)
	}
	if _, err := svc.Resolve(ctx, c.ID, other.ID, "x", ""); !errors.Is(err, ErrNotOwner) {
		t.Errorf("resolve by other lawyer: err = %v, want ErrNotOwner", err)
	}
	if _, err := svc.Close(ctx, c.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("close before resolve: err = %v, want ErrInvalidTransition", err)
	}
}
