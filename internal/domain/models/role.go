// internal/domain/models/role.go
package models

import "strings"

// Role is the single canonical account role. It is stored in users.role
// and carried in the session; every layer compares Role values, never raw strings.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// rank orders roles for minimum-role checks: user < admin < superadmin.
var rank = map[Role]int{
	RoleUser:       1,
	RoleAdmin:      2,
	RoleSuperAdmin: 3,
}

// ParseRole normalizes s (trim + lowercase) and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := rank[r]; !ok {
		return "", false
	}
	return r, true
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := rank[r]
	return ok
}

// AtLeast reports whether r meets the minimum role min.
// Unknown roles never satisfy any minimum.
func (r Role) AtLeast(min Role) bool {
	if !r.Valid() || !min.Valid() {
		return false
	}
	return rank[r] >= rank[min]
}

func (r Role) String() string { return string(r) }

// AllRoles returns the roles in ascending rank.
func AllRoles() []Role {
	return []Role{RoleUser, RoleAdmin, RoleSuperAdmin}
}
