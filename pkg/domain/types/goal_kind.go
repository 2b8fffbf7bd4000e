package types

// GoalKind represents the time horizon of a goal
type GoalKind string

const (
	GoalKindDaily    GoalKind = "daily"
	GoalKindLongTerm GoalKind = "long_term"
)

// IsValid checks if the goal kind is valid
func (k GoalKind) IsValid() bool {
	switch k {
	case GoalKindDaily, GoalKindLongTerm:
		return true
	default:
		return false
	}
}

// Label returns a human readable label used in prompt digests
func (k GoalKind) Label() string {
	if k == GoalKindLongTerm {
		return "Long-term"
	}
	return "Daily"
}

// String returns the string representation of the goal kind
func (k GoalKind) String() string {
	return string(k)
}
