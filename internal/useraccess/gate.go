package useraccess

import "log/slog"

// Action names accepted by the record+action gate rule.
type Action string

const (
	ActionView    Action = "view"
	ActionEdit    Action = "edit"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
)

// Record states the gate's composite rules key on. Domain packages use the
// same wire values for their own status columns.
const (
	StatusDraft         = "draft"
	StatusPendingReview = "pending_review"
	StatusClosed        = "closed"
)

// RecordRef is the minimal view of a domain record the gate needs.
type RecordRef struct {
	Hierarchy string
	Status    string
}

// Criteria is a set of independent access conditions. Nil/empty members are
// simply not evaluated. With several conditions supplied the default
// combination is OR; RequireAll opts into AND.
type Criteria struct {
	Permission string
	Level      *int
	Hierarchy  *string
	Record     *RecordRef
	Action     Action
	RequireAll bool
}

// Gate decides whether a user may see protected content or take an action.
type Gate struct {
	logger *slog.Logger
}

func NewGate(logger *slog.Logger) *Gate {
	return &Gate{logger: logger}
}

// Allow evaluates the supplied criteria against the resolved user.
//
//   - zero criteria: allow (structural wrapping)
//   - nil user with criteria: deny (resolution completed without a record)
//   - permission: named flag lookup
//   - level: user's level is numerically broader-or-equal
//   - hierarchy: single-target scope match
//   - record+action: hierarchy match is a precondition, then the per-action
//     permission/status rule applies
func (g *Gate) Allow(u *Record, c Criteria) bool {
	conditions := make([]bool, 0, 4)

	if c.Permission != "" {
		conditions = append(conditions, u != nil && u.Permissions.Has(c.Permission))
	}
	if c.Level != nil {
		conditions = append(conditions, u != nil && u.Level <= *c.Level)
	}
	if c.Hierarchy != nil {
		conditions = append(conditions, u != nil && MatchesScope(u, *c.Hierarchy))
	}
	if c.Record != nil && c.Action != "" {
		conditions = append(conditions, g.allowRecordAction(u, *c.Record, c.Action))
	}

	if len(conditions) == 0 {
		return true
	}
	if u == nil {
		g.logger.Warn("access gate denied: no resolved user", "criteria", len(conditions))
		return false
	}

	if c.RequireAll {
		for _, ok := range conditions {
			if !ok {
				return false
			}
		}
		return true
	}
	for _, ok := range conditions {
		if ok {
			return true
		}
	}
	return false
}

func (g *Gate) allowRecordAction(u *Record, rec RecordRef, action Action) bool {
	if u == nil {
		return false
	}
	if !MatchesScope(u, rec.Hierarchy) {
		return false
	}

	switch action {
	case ActionView:
		return u.Permissions.CanViewOpenClosedReports
	case ActionEdit:
		return u.Permissions.CanTakeIncidentRCAActions ||
			u.Permissions.CanTakeFirstReportActions ||
			u.Permissions.CanPerformApprovalIncidentClosure
	case ActionDelete:
		return u.Scope == ScopeEnterprise && rec.Status == StatusDraft
	case ActionApprove:
		return u.Permissions.CanPerformApprovalIncidentClosure && rec.Status == StatusPendingReview
	default:
		g.logger.Warn("access gate denied: unrecognized action", "action", string(action))
		return false
	}
}
