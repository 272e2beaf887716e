package useraccess

import "time"

// UserAccess mirrors the user_access table: one row per directory user with
// the organizational placement the filtering layer keys on. Optional columns
// stay pointers so the resolver can tell "absent" from a zero value.
type UserAccess struct {
	ID              int64     `gorm:"primaryKey"`
	Email           string    `gorm:"column:email;uniqueIndex;not null"`
	Name            string    `gorm:"column:name"`
	RoleTitle       string    `gorm:"column:role_title"`
	Enterprise      *string   `gorm:"column:enterprise"`
	Segment         *string   `gorm:"column:segment"`
	Platform        *string   `gorm:"column:platform"`
	Division        *string   `gorm:"column:division"`
	Plant           *string   `gorm:"column:plant"`
	HierarchyString string    `gorm:"column:hierarchy_string"`
	Level           *int      `gorm:"column:level"`
	IsActive        *bool     `gorm:"column:is_active"`
	AccessScope     *string   `gorm:"column:access_scope"`
	Groups          string    `gorm:"column:groups"` // comma-separated role group names
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (UserAccess) TableName() string { return "user_access" }

// RolePermission mirrors the role_permissions table: one row per role title
// carrying the 15 capability flags.
type RolePermission struct {
	ID        int64  `gorm:"primaryKey"`
	RoleTitle string `gorm:"column:role_title;uniqueIndex;not null"`

	CanReportInjury                   bool `gorm:"column:can_report_injury;default:false"`
	CanViewPII                        bool `gorm:"column:can_view_pii;default:false"`
	CanTakeFirstReportActions         bool `gorm:"column:can_take_first_report_actions;default:false"`
	CanTakeQuickFixActions            bool `gorm:"column:can_take_quick_fix_actions;default:false"`
	CanTakeIncidentRCAActions         bool `gorm:"column:can_take_incident_rca_actions;default:false"`
	CanPerformApprovalIncidentClosure bool `gorm:"column:can_perform_approval_incident_closure;default:false"`
	CanViewManageOSHALogs             bool `gorm:"column:can_view_manage_osha_logs;default:false"`
	CanViewOpenClosedReports          bool `gorm:"column:can_view_open_closed_reports;default:false"`
	CanViewSafetyAlerts               bool `gorm:"column:can_view_safety_alerts;default:false"`
	CanViewLessonsLearned             bool `gorm:"column:can_view_lessons_learned;default:false"`
	CanViewDashboard                  bool `gorm:"column:can_view_dashboard;default:false"`
	CanSubmitDSATicket                bool `gorm:"column:can_submit_dsa_ticket;default:false"`
	CanApproveLessonsLearned          bool `gorm:"column:can_approve_lessons_learned;default:false"`
	CanReportObservation              bool `gorm:"column:can_report_observation;default:false"`
	CanSafetyRecognition              bool `gorm:"column:can_safety_recognition;default:false"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (RolePermission) TableName() string { return "role_permissions" }
