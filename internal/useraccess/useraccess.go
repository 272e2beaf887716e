package useraccess

import (
	"errors"
	"strings"
	"time"
)

// Record is the resolved access profile for a signed-in user. It is built
// once per session by the Resolver and treated as immutable afterwards.
type Record struct {
	Email           string          `json:"email"`
	Name            string          `json:"name"`
	RoleTitle       string          `json:"role_title"`
	Enterprise      *string         `json:"enterprise,omitempty"`
	Segment         *string         `json:"segment,omitempty"`
	Platform        *string         `json:"platform,omitempty"`
	Division        *string         `json:"division,omitempty"`
	Plant           *string         `json:"plant,omitempty"`
	HierarchyString string          `json:"hierarchy_string"`
	Level           int             `json:"level"`
	IsActive        bool            `json:"is_active"`
	Groups          []string        `json:"groups,omitempty"`
	Scope           Scope           `json:"access_scope"`
	Permissions     PermissionFlags `json:"permissions"`
	ResolvedAt      time.Time       `json:"resolved_at"`
}

// GroupHR marks role groups cleared to read reporter identity on injury
// records.
const GroupHR = "HR"

// HasGroup reports membership in a role group (the HR-only gate, orthogonal
// to hierarchy scope).
func (r *Record) HasGroup(group string) bool {
	for _, g := range r.Groups {
		if g == group {
			return true
		}
	}
	return false
}

var (
	ErrEmailRequired = errors.New("email is required")
	ErrUserNotFound  = errors.New("user not found in any access store")
)

// NormalizeEmail lowercases and trims the lookup key. Every store compares
// against this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// applyDefaults fills every optional field so callers never see a partial
// record: display name falls back to the email local part, role title to
// "User", level to the most restrictive tier, and the scope is derived from
// the level when the store did not carry one verbatim.
func applyDefaults(rec *Record) {
	rec.Email = NormalizeEmail(rec.Email)

	if rec.Name == "" {
		if at := strings.Index(rec.Email, "@"); at > 0 {
			rec.Name = rec.Email[:at]
		} else {
			rec.Name = rec.Email
		}
	}
	if rec.RoleTitle == "" {
		rec.RoleTitle = "User"
	}
	if rec.Level < LevelEnterprise || rec.Level > LevelPlant {
		rec.Level = LevelPlant
	}
	if rec.Scope == "" {
		rec.Scope = ScopeForLevel(rec.Level)
	}

	groups := rec.Groups[:0]
	for _, g := range rec.Groups {
		if g != "" {
			groups = append(groups, g)
		}
	}
	rec.Groups = groups
}
