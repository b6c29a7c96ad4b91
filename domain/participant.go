// Package domain contains core concepts of the collaboration hub.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"time"

	"github.com/google/uuid"
)

type ParticipantID string

// Participant is a connected client identity.
// The ID is unique among currently connected participants.
type Participant struct {
	ID          ParticipantID
	DisplayName string
	JoinedAt    time.Time
}

func NewParticipantID() ParticipantID {
	return ParticipantID(uuid.NewString())
}

// GuestName derives a stable display name for anonymous participants.
func GuestName(id ParticipantID) string {
	short := string(id)
	if len(short) > 8 {
		short = short[:8]
	}
	return "guest-" + short
}
