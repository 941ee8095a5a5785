package workflow

import "strings"

// Role identifies what a session is allowed to do.
type Role string

// Canonical role values. Raw backend strings are normalized to these at the
// session boundary and never propagated further.
const (
	RoleStudent    Role = "student"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

// roleAliases maps known backend spelling variants to canonical roles. The
// "supervisyer" entry matches a misspelling that shipped in earlier backend
// revisions and still appears in issued tokens.
var roleAliases = map[string]Role{
	"student":     RoleStudent,
	"supervisor":  RoleSupervisor,
	"supervisyer": RoleSupervisor,
	"admin":       RoleAdmin,
}

// ParseRole normalizes a raw role string to its canonical value.
func ParseRole(raw string) (Role, bool) {
	role, ok := roleAliases[strings.ToLower(strings.TrimSpace(raw))]
	return role, ok
}

func (r Role) String() string {
	return string(r)
}

// Is reports whether the role matches any of the given candidates.
func (r Role) Is(candidates ...Role) bool {
	for _, candidate := range candidates {
		if r == candidate {
			return true
		}
	}
	return false
}
