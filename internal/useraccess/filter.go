package useraccess

import "strings"

// Scoped is any domain record carrying an organizational hierarchy path.
type Scoped interface {
	Hierarchy() string
}

// MatchesScope applies the scope rule to a single hierarchy path:
//
//	ENTERPRISE                  everything
//	SEGMENT/PLATFORM/DIVISION   own subtree and descendants (prefix match)
//	PLANT or unknown            exact match only
//
// A missing path never matches a scoped filter; a nil user matches
// everything. The nil branch fails open for the window before resolution
// completes; the backing store's queries remain the authority.
func MatchesScope(u *Record, hierarchy string) bool {
	if u == nil {
		return true
	}
	switch u.Scope {
	case ScopeEnterprise:
		return true
	case ScopeSegment, ScopePlatform, ScopeDivision:
		return hierarchy != "" && strings.HasPrefix(hierarchy, u.HierarchyString)
	default:
		return hierarchy != "" && hierarchy == u.HierarchyString
	}
}

// FilterByScope projects a record set down to what the user may see. Pure and
// idempotent: it never mutates its input and applying it twice equals once.
func FilterByScope[T Scoped](records []T, u *Record) []T {
	if u == nil || u.Scope == ScopeEnterprise {
		return records
	}

	filtered := make([]T, 0, len(records))
	for _, rec := range records {
		if MatchesScope(u, rec.Hierarchy()) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}
