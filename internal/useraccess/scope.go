package useraccess

// Scope is the coarse authority tier controlling how broadly a user's record
// visibility extends. Lower numeric levels map to broader scopes.
type Scope string

const (
	ScopeEnterprise Scope = "ENTERPRISE"
	ScopeSegment    Scope = "SEGMENT"
	ScopePlatform   Scope = "PLATFORM"
	ScopeDivision   Scope = "DIVISION"
	ScopePlant      Scope = "PLANT"
)

const (
	LevelEnterprise = 1
	LevelSegment    = 2
	LevelPlatform   = 3
	LevelDivision   = 4
	LevelPlant      = 5
)

// ScopeForLevel is the single source of truth for the level-to-scope mapping.
// Anything outside 1..4 (including zero and out-of-range values from a bad
// row) collapses to PLANT, the minimum-privilege default.
func ScopeForLevel(level int) Scope {
	switch level {
	case LevelEnterprise:
		return ScopeEnterprise
	case LevelSegment:
		return ScopeSegment
	case LevelPlatform:
		return ScopePlatform
	case LevelDivision:
		return ScopeDivision
	default:
		return ScopePlant
	}
}

// ParseScope maps a stored scope string back onto the enum. Unknown values
// return PLANT so a corrupt row can never widen visibility.
func ParseScope(s string) Scope {
	switch Scope(s) {
	case ScopeEnterprise, ScopeSegment, ScopePlatform, ScopeDivision, ScopePlant:
		return Scope(s)
	default:
		return ScopePlant
	}
}
