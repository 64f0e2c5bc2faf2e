package model

// Role is the portal role carried by the authenticated actor.
type Role string

const (
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
	RoleResident Role = "resident"
)

// Actor identifies who performs an operation.
type Actor struct {
	ID   int64
	Role Role
}

// IsStaff reports whether the actor may run staff-only transitions.
func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff || a.Role == RoleAdmin
}
