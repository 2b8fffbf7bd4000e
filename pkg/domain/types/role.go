package types

// Role represents the author of a conversation turn
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAI:
		return true
	default:
		return false
	}
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}
