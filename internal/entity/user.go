package entity

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleIssuer  Role = "ISSUER"
	RoleStudent Role = "STUDENT"
	RoleFaculty Role = "FACULTY"
)

func ParseRole(s string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch role {
	case RoleAdmin, RoleIssuer, RoleStudent, RoleFaculty:
		return role, nil
	default:
		return "", fmt.Errorf("unknown role %q: %w", s, ErrValidation)
	}
}

// User is the identity resolved by the access gateway.
type User struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

func (u User) Staff() bool {
	return u.Role == RoleAdmin || u.Role == RoleIssuer
}
