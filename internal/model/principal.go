package model

import "github.com/google/uuid"

type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
	RoleAdmin   Role = "ADMIN"
)

// Principal is the already-authenticated caller, supplied by the identity
// layer and threaded explicitly through every core call.
type Principal struct {
	UserID uuid.UUID `json:"user_id"`
	Role   Role      `json:"role"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Owns reports whether the principal is the given user.
func (p Principal) Owns(userID uuid.UUID) bool {
	return p.UserID == userID
}
