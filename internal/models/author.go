// Package models contains data structures for the application's domain models.
package models

import "fmt"

// Role identifies which kind of account authored a piece of content.
type Role string

const (
	RoleStudent     Role = "student"
	RoleTeacher     Role = "teacher"
	RoleInstitution Role = "institution"
)

// ParseRole converts a role tag from an identity token into a Role.
func ParseRole(tag string) (Role, error) {
	switch Role(tag) {
	case RoleStudent, RoleTeacher, RoleInstitution:
		return Role(tag), nil
	default:
		return "", fmt.Errorf("unknown role tag %q", tag)
	}
}

// Author is the resolved identity of a caller as supplied by the identity
// provider. The core trusts these values and never re-authenticates them.
type Author struct {
	Role          Role `json:"role"`
	UserID        uint `json:"user_id"`
	InstitutionID uint `json:"institution_id"`
}

// Zero reports whether the author is unauthenticated.
func (a Author) Zero() bool {
	return a.UserID == 0
}

// Reviewer reports whether the author may review flagged content for the
// given institution scope.
func (a Author) Reviewer(institutionID uint) bool {
	return a.Role == RoleInstitution && a.InstitutionID == institutionID
}
