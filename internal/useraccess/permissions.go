package useraccess

// PermissionFlags is the capability bundle resolved from the role-permission
// store by role title. A missing row yields the zero value: every flag false.
type PermissionFlags struct {
	CanReportInjury                  bool `json:"canReportInjury" gorm:"column:can_report_injury"`
	CanViewPII                       bool `json:"canViewPII" gorm:"column:can_view_pii"`
	CanTakeFirstReportActions        bool `json:"canTakeFirstReportActions" gorm:"column:can_take_first_report_actions"`
	CanTakeQuickFixActions           bool `json:"canTakeQuickFixActions" gorm:"column:can_take_quick_fix_actions"`
	CanTakeIncidentRCAActions        bool `json:"canTakeIncidentRCAActions" gorm:"column:can_take_incident_rca_actions"`
	CanPerformApprovalIncidentClosure bool `json:"canPerformApprovalIncidentClosure" gorm:"column:can_perform_approval_incident_closure"`
	CanViewManageOSHALogs            bool `json:"canViewManageOSHALogs" gorm:"column:can_view_manage_osha_logs"`
	CanViewOpenClosedReports         bool `json:"canViewOpenClosedReports" gorm:"column:can_view_open_closed_reports"`
	CanViewSafetyAlerts              bool `json:"canViewSafetyAlerts" gorm:"column:can_view_safety_alerts"`
	CanViewLessonsLearned            bool `json:"canViewLessonsLearned" gorm:"column:can_view_lessons_learned"`
	CanViewDashboard                 bool `json:"canViewDashboard" gorm:"column:can_view_dashboard"`
	CanSubmitDSATicket               bool `json:"canSubmitDSATicket" gorm:"column:can_submit_dsa_ticket"`
	CanApproveLessonsLearned         bool `json:"canApproveLessonsLearned" gorm:"column:can_approve_lessons_learned"`
	CanReportObservation             bool `json:"canReportObservation" gorm:"column:can_report_observation"`
	CanSafetyRecognition             bool `json:"canSafetyRecognition" gorm:"column:can_safety_recognition"`
}

// Permission names accepted by Has and by the permission gate criteria.
const (
	PermReportInjury            = "canReportInjury"
	PermViewPII                 = "canViewPII"
	PermFirstReportActions      = "canTakeFirstReportActions"
	PermQuickFixActions         = "canTakeQuickFixActions"
	PermIncidentRCAActions      = "canTakeIncidentRCAActions"
	PermApprovalIncidentClosure = "canPerformApprovalIncidentClosure"
	PermViewManageOSHALogs      = "canViewManageOSHALogs"
	PermViewOpenClosedReports   = "canViewOpenClosedReports"
	PermViewSafetyAlerts        = "canViewSafetyAlerts"
	PermViewLessonsLearned      = "canViewLessonsLearned"
	PermViewDashboard           = "canViewDashboard"
	PermSubmitDSATicket         = "canSubmitDSATicket"
	PermApproveLessonsLearned   = "canApproveLessonsLearned"
	PermReportObservation       = "canReportObservation"
	PermSafetyRecognition       = "canSafetyRecognition"
)

// Has looks a flag up by its wire name. Unknown names are false, matching the
// fail-closed defaulting of the bundle itself.
func (p PermissionFlags) Has(name string) bool {
	switch name {
	case PermReportInjury:
		return p.CanReportInjury
	case PermViewPII:
		return p.CanViewPII
	case PermFirstReportActions:
		return p.CanTakeFirstReportActions
	case PermQuickFixActions:
		return p.CanTakeQuickFixActions
	case PermIncidentRCAActions:
		return p.CanTakeIncidentRCAActions
	case PermApprovalIncidentClosure:
		return p.CanPerformApprovalIncidentClosure
	case PermViewManageOSHALogs:
		return p.CanViewManageOSHALogs
	case PermViewOpenClosedReports:
		return p.CanViewOpenClosedReports
	case PermViewSafetyAlerts:
		return p.CanViewSafetyAlerts
	case PermViewLessonsLearned:
		return p.CanViewLessonsLearned
	case PermViewDashboard:
		return p.CanViewDashboard
	case PermSubmitDSATicket:
		return p.CanSubmitDSATicket
	case PermApproveLessonsLearned:
		return p.CanApproveLessonsLearned
	case PermReportObservation:
		return p.CanReportObservation
	case PermSafetyRecognition:
		return p.CanSafetyRecognition
	default:
		return false
	}
}
