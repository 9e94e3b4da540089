package model

import (
	"time"

	"github.com/google/uuid"
)

// PotentialCustomer is one entry of the fixed prospect pool seeded per user.
// Revealed and AddedToLeads only ever flip false to true.
type PotentialCustomer struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Name         string
	Background   string
	Reason       string
	Revealed     bool
	AddedToLeads bool
	CreatedAt    time.Time
}
