package auth

import "database/sql/driver"

// RoleType is the closed set of roles a user can hold. It is persisted as
// text, so the mapping to and from the wire form is explicit and exhaustive:
// unrecognized strings are an error, never a default.
type RoleType string

const (
	// RoleUser is an ordinary account with no back-office privileges
	RoleUser RoleType = "user"
	// RoleAdmin manages job offers and candidates for its own company
	RoleAdmin RoleType = "admin"
	// RoleSuperAdmin provisions company accounts and sees everything
	RoleSuperAdmin RoleType = "superadmin"
)

// IsValid checks if the role is one of the predefined valid roles
func (r RoleType) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

func (r RoleType) String() string {
	return string(r)
}

// Satisfies reports whether this role meets a requirement. The model is a
// flat enumeration; superadmin implicitly satisfies any requirement, admin
// does not satisfy superadmin-only operations.
func (r RoleType) Satisfies(required RoleType) bool {
	if !r.IsValid() || !required.IsValid() {
		return false
	}
	if r == RoleSuperAdmin {
		return true
	}
	return r == required
}

// ParseRole parses the textual wire form of a role
func ParseRole(s string) (RoleType, error) {
	role := RoleType(s)
	if !role.IsValid() {
		return "", unknownRoleError(s)
	}
	return role, nil
}

// Value implements driver.Valuer so bun stores the role as text
func (r RoleType) Value() (driver.Value, error) {
	if !r.IsValid() {
		return nil, unknownRoleError(string(r))
	}
	return string(r), nil
}

// Scan implements sql.Scanner, rejecting unrecognized stored values
func (r *RoleType) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return unknownRoleError(src)
	}

	role, err := ParseRole(raw)
	if err != nil {
		return err
	}

	*r = role
	return nil
}

// AllRoles returns the closed role set
func AllRoles() []RoleType {
	return []RoleType{RoleUser, RoleAdmin, RoleSuperAdmin}
}
