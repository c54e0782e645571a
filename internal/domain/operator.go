package domain

// Role grants access to the back-office API.
type Role string

const (
	// RoleAdmin can do everything an editor can and mint tokens.
	RoleAdmin Role = "admin"
	// RoleEditor can create, edit, reorder and import sales.
	RoleEditor Role = "editor"
	// RoleViewer can only read.
	RoleViewer Role = "viewer"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// Allows reports whether r satisfies min.
func (r Role) Allows(min Role) bool {
	switch min {
	case RoleAdmin:
		return r == RoleAdmin
	case RoleEditor:
		return r == RoleAdmin || r == RoleEditor
	default:
		return r.IsValid()
	}
}

// Operator is an authenticated user of the back office.
type Operator struct {
	ID   string
	Name string
	Role Role
}
