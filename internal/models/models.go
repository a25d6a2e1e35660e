package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type ReportType struct {
	ID                    int64  `json:"id"`
	Name                  string `json:"name"`
	Description           string `json:"description,omitempty"`
	RequiresInvestigation bool   `json:"requires_investigation"`
	Active                bool   `json:"active"`
}

type EvidenceType struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Code   string `json:"code"`
	Active bool   `json:"active"`
}

type Location struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Address  string `json:"address,omitempty"`
	Active   bool   `json:"active"`
}

// Report is an unsafe-condition report. Immutable input to the
// assignment and escalation engines once created.
type Report struct {
	ID             int64      `json:"id"`
	Number         string     `json:"number"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	LocationID     *int64     `json:"location_id"`
	LocationDetail string     `json:"location_detail,omitempty"`
	ReportTypeID   int64      `json:"report_type_id"`
	EvidenceTypeID *int64     `json:"evidence_type_id"`
	Probability    int        `json:"probability"`
	Severity       int        `json:"severity"`
	RiskScore      int        `json:"risk_score"`
	RiskLevel      RiskLevel  `json:"risk_level"`
	ReporterID     int64      `json:"reporter_id"`
	State          string     `json:"state"`
	CreatedAt      time.Time  `json:"created_at"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
}

// Rule maps a report type (or all report types when ReportTypeID is nil)
// to a role-based ownership chain and SLA timings. Rules are deactivated,
// never deleted.
type Rule struct {
	ID                int64      `json:"id"`
	ReportTypeID      *int64     `json:"report_type_id"`
	RiskLevel         *RiskLevel `json:"risk_level,omitempty"`
	PrincipalRole     Role       `json:"principal_role"`
	BackupRole1       *Role      `json:"backup_role_1,omitempty"`
	BackupRole2       *Role      `json:"backup_role_2,omitempty"`
	Department        *string    `json:"department,omitempty"`
	NotifyRoles       []Role     `json:"notify_roles,omitempty"`
	ResponseMinutes   int        `json:"response_minutes"`
	ResolutionMinutes int        `json:"resolution_minutes"`
	Active            bool       `json:"active"`
	CreatedAt         time.Time  `json:"created_at"`
}

// LogEntry is one event in an assignment's append-only change log.
type LogEntry struct {
	At      time.Time `json:"at"`
	ActorID int64     `json:"actor_id"`
	Action  string    `json:"action"`
	Detail  string    `json:"detail"`
}

// Assignment tracks who currently owns a report and against which
// deadlines. At most one active assignment exists per report.
type Assignment struct {
	ID              int64           `json:"id"`
	ReportID        int64           `json:"report_id"`
	OwnerID         int64           `json:"owner_id"`
	OwnerRole       Role            `json:"owner_role"`
	RuleID          int64           `json:"rule_id"`
	State           AssignmentState `json:"state"`
	AssignedAt      time.Time       `json:"assigned_at"`
	ResponseDue     time.Time       `json:"response_due"`
	ResolutionDue   time.Time       `json:"resolution_due"`
	RespondedAt     *time.Time      `json:"responded_at,omitempty"`
	ResolvedAt      *time.Time      `json:"resolved_at,omitempty"`
	EscalationCount int             `json:"escalation_count"`
	EscalatedToID   *int64          `json:"escalated_to_id,omitempty"`
	ChangeLog       []LogEntry      `json:"change_log"`
	Notes           string          `json:"notes,omitempty"`
	Active          bool            `json:"active"`
}

// AppendLog records an event in the change log. The log is append-only;
// existing entries are never modified.
func (a *Assignment) AppendLog(at time.Time, actorID int64, action, detail string) {
	a.ChangeLog = append(a.ChangeLog, LogEntry{At: at, ActorID: actorID, Action: action, Detail: detail})
}

type Task struct {
	ID           int64      `json:"id"`
	AssignmentID int64      `json:"assignment_id"`
	AssigneeID   int64      `json:"assignee_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	State        TaskState  `json:"state"`
	Priority     int        `json:"priority"`
	CreatedAt    time.Time  `json:"created_at"`
	DueAt        time.Time  `json:"due_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// Control is a risk-mitigation measure with its own lifecycle,
// optionally linked to the report whose risk it addresses.
type Control struct {
	ID                int64        `json:"id"`
	Code              string       `json:"code"`
	Name              string       `json:"name"`
	Description       string       `json:"description,omitempty"`
	Type              ControlType  `json:"type"`
	HierarchyLevel    ControlLevel `json:"hierarchy_level"`
	ReportID          *int64       `json:"report_id,omitempty"`
	ResponsibleID     int64        `json:"responsible_id"`
	CreatedByID       *int64       `json:"created_by_id,omitempty"`
	State             ControlState `json:"state"`
	Effectiveness     int          `json:"effectiveness"`
	Evidence          string       `json:"evidence,omitempty"`
	FollowUpEveryDays int          `json:"follow_up_every_days,omitempty"`
	LastReviewedAt    *time.Time   `json:"last_reviewed_at,omitempty"`
	NextFollowUpAt    *time.Time   `json:"next_follow_up_at,omitempty"`
	PlannedAt         *time.Time   `json:"planned_at,omitempty"`
	ImplementedAt     *time.Time   `json:"implemented_at,omitempty"`
	VerifiedAt        *time.Time   `json:"verified_at,omitempty"`
	ClosedAt          *time.Time   `json:"closed_at,omitempty"`
	Active            bool         `json:"active"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// Consultation is a legal consultation raised from (or independently of)
// a safety report, handled by a lawyer.
type Consultation struct {
	ID              int64             `json:"id"`
	Number          string            `json:"number"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Type            string            `json:"type"`
	ReportID        *int64            `json:"report_id,omitempty"`
	EmployeeID      int64             `json:"employee_id"`
	LawyerID        *int64            `json:"lawyer_id,omitempty"`
	CreatorID       int64             `json:"creator_id"`
	State           ConsultationState `json:"state"`
	Priority        string            `json:"priority"`
	LegalRisk       string            `json:"legal_risk,omitempty"`
	Resolution      string            `json:"resolution,omitempty"`
	Recommendations string            `json:"recommendations,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	AssignedAt      *time.Time        `json:"assigned_at,omitempty"`
	ResolvedAt      *time.Time        `json:"resolved_at,omitempty"`
	ClosedAt        *time.Time        `json:"closed_at,omitempty"`
}
