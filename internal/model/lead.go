package model

import (
	"time"

	"github.com/google/uuid"
)

type Relationship string

const (
	RelationshipKnowWell   Relationship = "know-well"
	RelationshipTalkedOnce Relationship = "talked-once"
	RelationshipDontKnow   Relationship = "dont-know"
)

func (r Relationship) Valid() bool {
	switch r {
	case RelationshipKnowWell, RelationshipTalkedOnce, RelationshipDontKnow:
		return true
	}
	return false
}

type LeadStage string

const (
	StageSetupCall   LeadStage = "setup-call"
	StageDiscovery   LeadStage = "discovery"
	StageDemo        LeadStage = "demo"
	StagePricing     LeadStage = "pricing"
	StageSecured     LeadStage = "secured"
	StageDidNotClose LeadStage = "did-not-close"
)

func (s LeadStage) Valid() bool {
	switch s {
	case StageSetupCall, StageDiscovery, StageDemo, StagePricing, StageSecured, StageDidNotClose:
		return true
	}
	return false
}

// Terminal reports whether the stage ends the pipeline.
func (s LeadStage) Terminal() bool {
	return s == StageSecured || s == StageDidNotClose
}

type Lead struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Name         string
	Relationship Relationship
	Reason       string
	Stage        LeadStage
	CreatedAt    time.Time
}

// LeadPatch enumerates the lead fields updatable by the owning user.
// Nil fields are left untouched.
type LeadPatch struct {
	Name         *string
	Relationship *Relationship
	Reason       *string
	Stage        *LeadStage
}
