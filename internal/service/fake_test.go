package service

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sst-platform/backend/internal/models"
)

// fakeStore is an in-memory Datastore mirroring the SQL predicates of
// the real store, so engine behavior can be tested against a fixed
// clock without Postgres.
type fakeStore struct {
	users         map[int64]models.User
	rules         []models.Rule
	reports       map[int64]models.Report
	evidenceTypes map[int64]models.EvidenceType
	assignments   map[int64]models.Assignment
	tasks         map[int64]models.Task
	controls      map[int64]models.Control
	consultations map[int64]models.Consultation
	nextID        int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         map[int64]models.User{},
		reports:       map[int64]models.Report{},
		evidenceTypes: map[int64]models.EvidenceType{},
		assignments:   map[int64]models.Assignment{},
		tasks:         map[int64]models.Task{},
		controls:      map[int64]models.Control{},
		consultations: map[int64]models.Consultation{},
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) addUser(role models.Role, active bool) models.User {
	u := models.User{ID: f.id(), Email: string(role) + "@example.com", FullName: string(role), Role: role, Active: active}
	f.users[u.ID] = u
	return u
}

func (f *fakeStore) FirstActiveUserByRole(_ context.Context, role models.Role) (models.User, error) {
	ids := make([]int64, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		u := f.users[id]
		if u.Role == role && u.Active {
			return u, nil
		}
	}
	return models.User{}, pgx.ErrNoRows
}

func (f *fakeStore) ListActiveUsersByRoles(_ context.Context, roles []models.Role) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if !u.Active {
			continue
		}
		for _, r := range roles {
			if u.Role == r {
				out = append(out, u)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) GetUser(_ context.Context, id int64) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeStore) ListActiveRules(_ context.Context) ([]models.Rule, error) {
	var out []models.Rule
	for _, r := range f.rules {
		if r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) GetRule(_ context.Context, id int64) (models.Rule, error) {
	for _, r := range f.rules {
		if r.ID == id {
			return r, nil
		}
	}
	return models.Rule{}, pgx.ErrNoRows
}

func (f *fakeStore) CreateReport(_ context.Context, r *models.Report) error {
	r.ID = f.id()
	f.reports[r.ID] = *r
	return nil
}

func (f *fakeStore) GetReport(_ context.Context, id int64) (models.Report, error) {
	r, ok := f.reports[id]
	if !ok {
		return models.Report{}, pgx.ErrNoRows
	}
	return r, nil
}

func (f *fakeStore) CloseReport(_ context.Context, id int64, at time.Time) error {
	r, ok := f.reports[id]
	if !ok {
		return pgx.ErrNoRows
	}
	r.State = "Cerrado"
	r.ClosedAt = &at
	f.reports[id] = r
	return nil
}

func (f *fakeStore) GetEvidenceType(_ context.Context, id int64) (models.EvidenceType, error) {
	et, ok := f.evidenceTypes[id]
	if !ok {
		return models.EvidenceType{}, pgx.ErrNoRows
	}
	return et, nil
}

func (f *fakeStore) CreateAssignment(_ context.Context, a *models.Assignment) error {
	a.ID = f.id()
	f.assignments[a.ID] = *a
	return nil
}

func (f *fakeStore) GetAssignment(_ context.Context, id int64) (models.Assignment, error) {
	a, ok := f.assignments[id]
	if !ok {
		return models.Assignment{}, pgx.ErrNoRows
	}
	return a, nil
}

func (f *fakeStore) UpdateAssignment(_ context.Context, a models.Assignment) error {
	if _, ok := f.assignments[a.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.assignments[a.ID] = a
	return nil
}

func (f *fakeStore) ApplyEscalation(_ context.Context, a models.Assignment, expectedCount int) (bool, error) {
	cur, ok := f.assignments[a.ID]
	if !ok || !cur.Active || cur.EscalationCount != expectedCount {
		return false, nil
	}
	cur.OwnerID = a.OwnerID
	cur.OwnerRole = a.OwnerRole
	cur.State = a.State
	cur.EscalationCount = a.EscalationCount
	cur.EscalatedToID = a.EscalatedToID
	cur.ChangeLog = a.ChangeLog
	f.assignments[a.ID] = cur
	return true, nil
}

func (f *fakeStore) listAssignments(match func(models.Assignment) bool) []models.Assignment {
	var out []models.Assignment
	for _, a := range f.assignments {
		if match(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeStore) ListResponseOverdue(_ context.Context, now time.Time) ([]models.Assignment, error) {
	return f.listAssignments(func(a models.Assignment) bool {
		switch a.State {
		case models.AssignmentAssigned, models.AssignmentWaiting, models.AssignmentEscalated:
		default:
			return false
		}
		return a.Active && a.RespondedAt == nil && a.ResponseDue.Before(now)
	}), nil
}

func (f *fakeStore) ListResolutionOverdue(_ context.Context, now time.Time) ([]models.Assignment, error) {
	return f.listAssignments(func(a models.Assignment) bool {
		switch a.State {
		case models.AssignmentInProgress, models.AssignmentEscalated:
		default:
			return false
		}
		return a.Active && a.RespondedAt != nil && a.ResolvedAt == nil && a.ResolutionDue.Before(now)
	}), nil
}

func (f *fakeStore) ListResolutionImminent(_ context.Context, now time.Time, window time.Duration) ([]models.Assignment, error) {
	return f.listAssignments(func(a models.Assignment) bool {
		switch a.State {
		case models.AssignmentAssigned, models.AssignmentInProgress:
		default:
			return false
		}
		return a.Active && a.ResolvedAt == nil &&
			a.ResolutionDue.After(now) && a.ResolutionDue.Before(now.Add(window))
	}), nil
}

func (f *fakeStore) CreateTask(_ context.Context, t *models.Task) error {
	t.ID = f.id()
	f.tasks[t.ID] = *t
	return nil
}

func (f *fakeStore) CancelOpenTasks(_ context.Context, assignmentID int64) (int64, error) {
	var n int64
	for id, t := range f.tasks {
		if t.AssignmentID == assignmentID && (t.State == models.TaskOpen || t.State == models.TaskInProgress) {
			t.State = models.TaskCancelled
			f.tasks[id] = t
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CompleteOpenTasks(_ context.Context, assignmentID int64, at time.Time) (int64, error) {
	var n int64
	for id, t := range f.tasks {
		if t.AssignmentID == assignmentID && (t.State == models.TaskOpen || t.State == models.TaskInProgress) {
			t.State = models.TaskCompleted
			t.CompletedAt = &at
			f.tasks[id] = t
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) DeleteCompletedTasksBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for id, t := range f.tasks {
		if t.State == models.TaskCompleted && t.CompletedAt != nil && t.CompletedAt.Before(cutoff) {
			delete(f.tasks, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CreateControl(_ context.Context, c *models.Control) error {
	c.ID = f.id()
	f.controls[c.ID] = *c
	return nil
}

func (f *fakeStore) GetControl(_ context.Context, id int64) (models.Control, error) {
	c, ok := f.controls[id]
	if !ok {
		return models.Control{}, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeStore) UpdateControl(_ context.Context, c models.Control) error {
	if _, ok := f.controls[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.controls[c.ID] = c
	return nil
}

func (f *fakeStore) ListControlsDueFollowUp(_ context.Context, now time.Time) ([]models.Control, error) {
	var out []models.Control
	for _, c := range f.controls {
		if c.Active && c.FollowUpEveryDays > 0 && c.NextFollowUpAt != nil && !c.NextFollowUpAt.After(now) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) CreateConsultation(_ context.Context, c *models.Consultation) error {
	c.ID = f.id()
	f.consultations[c.ID] = *c
	return nil
}

func (f *fakeStore) GetConsultation(_ context.Context, id int64) (models.Consultation, error) {
	c, ok := f.consultations[id]
	if !ok {
		return models.Consultation{}, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeStore) UpdateConsultation(_ context.Context, c models.Consultation) error {
	if _, ok := f.consultations[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.consultations[c.ID] = c
	return nil
}

var _ Datastore = (*fakeStore)(nil)
