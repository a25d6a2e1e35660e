package models

// Role is the set of roles the ownership chains can point at. Roles are
// stored as strings but every transition site matches against this closed
// set.
type Role string

const (
	RoleEmpleado          Role = "Empleado"
	RoleResponsableSST    Role = "Responsable_SST"
	RoleGestorRRHH        Role = "Gestor_RRHH"
	RoleGerente           Role = "Gerente"
	RoleDireccion         Role = "Direccion"
	RoleAbogado           Role = "Abogado"
	RoleMedicoOcupacional Role = "Medico_Ocupacional"
	RoleAdmin             Role = "Admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleEmpleado, RoleResponsableSST, RoleGestorRRHH, RoleGerente,
		RoleDireccion, RoleAbogado, RoleMedicoOcupacional, RoleAdmin:
		return true
	}
	return false
}

type AssignmentState string

const (
	AssignmentAssigned   AssignmentState = "Assigned"
	AssignmentInProgress AssignmentState = "InProgress"
	AssignmentWaiting    AssignmentState = "Waiting"
	AssignmentEscalated  AssignmentState = "Escalated"
	AssignmentResolved   AssignmentState = "Resolved"
	AssignmentClosed     AssignmentState = "Closed"
)

// Terminal reports whether the assignment has left the escalation cycle.
func (s AssignmentState) Terminal() bool {
	return s == AssignmentResolved || s == AssignmentClosed
}

type TaskState string

const (
	TaskOpen       TaskState = "Open"
	TaskInProgress TaskState = "InProgress"
	TaskCompleted  TaskState = "Completed"
	TaskDelegated  TaskState = "Delegated"
	TaskCancelled  TaskState = "Cancelled"
)

// RiskLevel is the band a probability x severity score falls into.
type RiskLevel string

const (
	RiskAceptable   RiskLevel = "ACEPTABLE"
	RiskTolerable   RiskLevel = "TOLERABLE"
	RiskModerado    RiskLevel = "MODERADO"
	RiskInaceptable RiskLevel = "INACEPTABLE"
)

// RiskLevelForScore classifies a probability x severity product (1-25)
// into its band.
func RiskLevelForScore(score int) RiskLevel {
	switch {
	case score <= 2:
		return RiskAceptable
	case score <= 4:
		return RiskTolerable
	case score <= 9:
		return RiskModerado
	default:
		return RiskInaceptable
	}
}

type ControlType string

const (
	ControlPreventivo ControlType = "Preventivo"
	ControlCorrectivo ControlType = "Correctivo"
	ControlDetectivo  ControlType = "Detectivo"
	ControlMitigante  ControlType = "Mitigante"
)

// ControlLevel is the hierarchy-of-controls level a measure acts on.
type ControlLevel string

const (
	ControlFuente         ControlLevel = "En la Fuente"
	ControlMedio          ControlLevel = "En el Medio"
	ControlIndividuo      ControlLevel = "En el Individuo"
	ControlAdministrativo ControlLevel = "Administrativo"
)

type ControlState string

const (
	ControlPlanificado    ControlState = "Planificado"
	ControlAsignado       ControlState = "Asignado"
	ControlEnProceso      ControlState = "En Proceso"
	ControlImplementado   ControlState = "Implementado"
	ControlVerificado     ControlState = "Verificado"
	ControlEfectivo       ControlState = "Efectivo"
	ControlInefectivo     ControlState = "Inefectivo"
	ControlRequiereAjuste ControlState = "Requiere Ajuste"
	ControlCerrado        ControlState = "Cerrado"
	ControlCancelado      ControlState = "Cancelado"
)

// controlTransitions lists the legal forward moves of the control
// lifecycle. Close and cancel are handled separately: both are legal from
// any non-final state.
var controlTransitions = map[ControlState][]ControlState{
	ControlPlanificado:    {ControlAsignado},
	ControlAsignado:       {ControlEnProceso},
	ControlEnProceso:      {ControlImplementado},
	ControlImplementado:   {ControlVerificado},
	ControlVerificado:     {ControlEfectivo, ControlInefectivo},
	ControlEfectivo:       {ControlRequiereAjuste},
	ControlInefectivo:     {ControlRequiereAjuste},
	ControlRequiereAjuste: {ControlEnProceso},
}

// CanTransition reports whether moving a control from one state to
// another is legal.
func (s ControlState) CanTransition(to ControlState) bool {
	if to == ControlCerrado || to == ControlCancelado {
		return s != ControlCerrado && s != ControlCancelado
	}
	for _, next := range controlTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

type ConsultationState string

const (
	ConsultationAbierta    ConsultationState = "Abierta"
	ConsultationEnRevision ConsultationState = "En_Revision"
	ConsultationResuelta   ConsultationState = "Resuelta"
	ConsultationCerrada    ConsultationState = "Cerrada"
)
