package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID
	Name          string
	Email         string
	PasswordHash  string
	EmailVerified *time.Time
	Image         string
	CreatedAt     time.Time
}

// UserPatch enumerates the profile fields a user may change about
// themselves. Nil fields are left untouched.
type UserPatch struct {
	Name  *string
	Image *string
}

type VerificationToken struct {
	Identifier string
	Token      string
	Expires    time.Time
}
