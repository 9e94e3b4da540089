package model

import (
	"time"

	"github.com/google/uuid"
)

type EvidenceType string

const (
	EvidenceText       EvidenceType = "text"
	EvidenceImage      EvidenceType = "image"
	EvidenceLink       EvidenceType = "link"
	EvidenceScreenshot EvidenceType = "screenshot"
	EvidenceNote       EvidenceType = "note"
)

// Valid reports whether t is one of the accepted submission types.
func (t EvidenceType) Valid() bool {
	switch t {
	case EvidenceText, EvidenceImage, EvidenceLink, EvidenceScreenshot, EvidenceNote:
		return true
	}
	return false
}

// Evidence is an immutable proof-of-progress artifact. Date is the
// client-supplied submission instant (carries the user's UTC offset),
// Timestamp is assigned by the server at creation.
type Evidence struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      EvidenceType
	Content   string
	Date      string
	Timestamp time.Time
}
