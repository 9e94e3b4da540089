package model

import (
	"time"

	"github.com/google/uuid"
)

// Challenge is the single per-user progress row: streak state, pineapple
// balance and feature unlocks. Created lazily on first access.
type Challenge struct {
	UserID                uuid.UUID
	StartDate             time.Time
	Streak                int
	LastCommitDate        *string // calendar day in the user's timezone, "2006-01-02"
	Pineapples            int
	DailyTaskCompleted    bool
	FindCustomersUnlocked bool
	HasSeenOnboarding     bool
}

// ChallengeProgress is the outcome of advancing the streak for one evidence
// submission. PineappleDelta is applied as a relative increment at the
// persistence layer so concurrent field updates are never clobbered.
type ChallengeProgress struct {
	Streak                int
	LastCommitDate        string
	PineappleDelta        int
	DailyTaskCompleted    bool
	FindCustomersUnlocked bool
	AlreadyCompleted      bool
}

// ChallengePatch enumerates the challenge fields mutable outside the
// evidence path. Nil fields are left untouched; pineapples are deliberately
// absent, balance changes go through the ledger methods only.
type ChallengePatch struct {
	Streak             *int
	DailyTaskCompleted *bool
	HasSeenOnboarding  *bool
}
