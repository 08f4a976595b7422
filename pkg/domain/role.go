package domain

import (
	"errors"
	"fmt"
)

// Role is a customer account type.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleB2B   Role = "b2b"
	RoleB2C   Role = "b2c"
)

// ErrInvalidRole is returned when a role is not accepted at a boundary.
var ErrInvalidRole = errors.New("invalid role")

// Roles lists every known role with its display label.
var Roles = map[Role]string{
	RoleAdmin: "Administrator",
	RoleB2B:   "Professional",
	RoleB2C:   "Private customer",
}

// ValidRole returns true if r is a known role.
func ValidRole(r Role) bool {
	_, ok := Roles[r]
	return ok
}

// RegistrationRole validates a self-service registration role.
// Empty defaults to b2c; admin accounts cannot be self-registered.
func RegistrationRole(r Role) (Role, error) {
	switch r {
	case "":
		return RoleB2C, nil
	case RoleB2B, RoleB2C:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, r)
}
