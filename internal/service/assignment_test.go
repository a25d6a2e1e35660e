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

var testNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

// recorderSender captures every message the engines try to deliver.
type recorderSender struct {
	msgs []notify.Message
}

func (r *recorderSender) Send(_ context.Context, m notify.Message) error {
	r.msgs = append(r.msgs, m)
	return nil
}

func (r *recorderSender) byKind(kind string) []notify.Message {
	var out []notify.Message
	for _, m := range r.msgs {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

func newTestService(store *fakeStore) (*GestionService, *recorderSender) {
	rec := &recorderSender{}
	svc := NewGestionService(store, notify.Service{Sender: rec, Logger: zerolog.Nop()}, zerolog.Nop())
	svc.Now = func() time.Time { return testNow }
	return svc, rec
}

func seedRule(store *fakeStore, reportTypeID int64) models.Rule {
	rule := models.Rule{
		ID:                store.id(),
		ReportTypeID:      &reportTypeID,
		PrincipalRole:     models.RoleResponsableSST,
		BackupRole1:       rolePtr(models.RoleGerente),
		BackupRole2:       rolePtr(models.RoleDireccion),
		ResponseMinutes:   60,
		ResolutionMinutes: 480,
		Active:            true,
	}
	store.rules = append(store.rules, rule)
	return rule
}

func TestAssignCase(t *testing.T) {
	store := newFakeStore()
	rule := seedRule(store, 1)
	owner := store.addUser(models.RoleResponsableSST, true)
	svc, rec := newTestService(store)

	report := models.Report{ID: 100, Number: "REP-2026-ABC123", Title: "Cable suelto", ReportTypeID: 1}
	a, err := svc.AssignCase(context.Background(), report)
	if err != nil {
		t.Fatalf("AssignCase: %v", err)
	}

	if a.OwnerID != owner.ID || a.OwnerRole != models.RoleResponsableSST {
		t.Errorf("owner = %d/%s, want %d/%s", a.OwnerID, a.OwnerRole, owner.ID, models.RoleResponsableSST)
	}
	if a.RuleID != rule.ID {
		t.Errorf("rule id = %d, want %d", a.RuleID, rule.ID)
	}
	if want := testNow.Add(60 * time.Minute); !a.ResponseDue.Equal(want) {
		t.Errorf("response due = %v, want %v", a.ResponseDue, want)
	}
	if want := testNow.Add(480 * time.Minute); !a.ResolutionDue.Equal(want) {
		t.Errorf("resolution due = %v, want %v", a.ResolutionDue, want)
	}
	if a.State != models.AssignmentAssigned || !a.Active {
		t.Errorf("state = %s active = %v, want Assigned/true", a.State, a.Active)
	}
	if len(a.ChangeLog) != 1 || a.ChangeLog[0].Action != "AUTO_ASSIGNED" {
		t.Errorf("change log = %+v, want one AUTO_ASSIGNED entry", a.ChangeLog)
	}

	if len(store.tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(store.tasks))
	}
	for _, task := range store.tasks {
		if task.AssigneeID != owner.ID || task.State != models.TaskOpen {
			t.Errorf("task = %+v, want open task for owner", task)
		}
		if !task.DueAt.Equal(a.ResolutionDue) {
			t.Errorf("task due = %v, want %v", task.DueAt, a.ResolutionDue)
		}
	}

	sent := rec.byKind("assignment")
	if len(sent) != 1 || !strings.HasPrefix(sent[0].Subject, "[SST-ASIGNADO]") {
		t.Errorf("assignment notices = %+v, want one [SST-ASIGNADO]", sent)
	}
}

func TestAssignCaseFallsBackThroughChain(t *testing.T) {
	store := newFakeStore()
	seedRule(store, 1)
	store.addUser(models.RoleResponsableSST, false) // inactive principal
	backup := store.addUser(models.RoleGerente, true)
	svc, _ := newTestService(store)

	a, err := svc.AssignCase(context.Background(), models.Report{ID: 100, ReportTypeID: 1})
	if err != nil {
		t.Fatalf("AssignCase: %v", err)
	}
	if a.OwnerID != backup.ID || a.OwnerRole != models.RoleGerente {
		t.Errorf("owner = %d/%s, want backup %d/Gerente", a.OwnerID, a.OwnerRole, backup.ID)
	}
}

func TestAssignCaseFallsBackToAdmin(t *testing.T) {
	store := newFakeStore()
	seedRule(store, 1)
	admin := store.addUser(models.RoleAdmin, true)
	svc, _ := newTestService(store)

	a, err := svc.AssignCase(context.Background(), models.Report{ID: 100, ReportTypeID: 1})
	if err != nil {
		t.Fatalf("AssignCase: %v", err)
	}
	if a.OwnerID != admin.ID || a.OwnerRole != models.RoleAdmin {
		t.Errorf("owner = %d/%s, want admin fallback", a.OwnerID, a.OwnerRole)
	}
}

func TestAssignCaseNoRule(t *testing.T) {
	store := newFakeStore()
	store.addUser(models.RoleAdmin, true)
	svc, _ := newTestService(store)

	_, err := svc.AssignCase(context.Background(), models.Report{ID: 100, ReportTypeID: 1})
	if !errors.Is(err, ErrNoRuleConfigured) {
		t.Fatalf("err = %v, want ErrNoRuleConfigured", err)
	}
}

func TestAssignCaseNoEligibleUser(t *testing.T) {
	store := newFakeStore()
	seedRule(store, 1)
	svc, _ := newTestService(store)

	_, err := svc.AssignCase(context.Background(), models.Report{ID: 100, ReportTypeID: 1})
	if !errors.Is(err, ErrNoEligibleUser) {
		t.Fatalf("err = %v, want ErrNoEligibleUser", err)
	}
	if len(store.assignments) != 0 {
		t.Errorf("assignments = %d, want none", len(store.assignments))
	}
}

func TestAssignCaseCcFanOut(t *testing.T) {
	store := newFakeStore()
	rule := seedRule(store, 1)
	rule.NotifyRoles = []models.Role{models.RoleGestorRRHH, models.RoleMedicoOcupacional}
	store.rules[0] = rule
	store.addUser(models.RoleResponsableSST, true)
	store.addUser(models.RoleGestorRRHH, true)
	store.addUser(models.RoleMedicoOcupacional, true)
	svc, rec := newTestService(store)

	if _, err := svc.AssignCase(context.Background(), models.Report{ID: 100, ReportTypeID: 1}); err != nil {
		t.Fatalf("AssignCase: %v", err)
	}

	cc := rec.byKind("cc")
	if len(cc) != 1 || len(cc[0].To) != 2 {
		t.Fatalf("cc notices = %+v, want one notice with two recipients", cc)
	}
}

func TestCreateReportComputesRisk(t *testing.T) {
	store := newFakeStore()
	seedRule(store, 1)
	store.addUser(models.RoleResponsableSST, true)
	svc, _ := newTestService(store)

	r := models.Report{Title: "Derrame", ReportTypeID: 1, Probability: 4, Severity: 3}
	a, err := svc.CreateReport(context.Background(), &r)
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	if r.RiskScore != 12 || r.RiskLevel != models.RiskInaceptable {
		t.Errorf("risk = %d/%s, want 12/INACEPTABLE", r.RiskScore, r.RiskLevel)
	}
	if !strings.HasPrefix(r.Number, "REP-2026-") {
		t.Errorf("number = %q, want REP-2026- prefix", r.Number)
	}
	if a == nil || a.ReportID != r.ID {
		t.Errorf("assignment = %+v, want one for report %d", a, r.ID)
	}
}

func TestCreateReportWithoutRuleStillPersists(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	r := models.Report{Title: "Sin regla", ReportTypeID: 1, Probability: 1, Severity: 1}
	_, err := svc.CreateReport(context.Background(), &r)
	if !errors.Is(err, ErrNoRuleConfigured) {
		t.Fatalf("err = %v, want ErrNoRuleConfigured", err)
	}
	if len(store.reports) != 1 {
		t.Errorf("reports = %d, want report persisted despite missing rule", len(store.reports))
	}
}
