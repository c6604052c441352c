package entity

import (
	"time"

	"github.com/google/uuid"
)

type QuickActionStatus string

const (
	QuickActionPending QuickActionStatus = "pending"
	QuickActionSent    QuickActionStatus = "sent"
	QuickActionFailed  QuickActionStatus = "failed"
)

// QuickAction is a generated outreach message targeted at one emergency
// contact, tied to a specific alert. A contact holds at most one pending
// action at a time.
type QuickAction struct {
	ID                 uuid.UUID
	AlertID            uuid.UUID
	EmergencyContactID int
	ActionType         string
	Message            string
	VideoClips         []string
	Status             QuickActionStatus
	SentAt             *time.Time
	AcknowledgedAt     *time.Time
	ErrorMessage       string
	CreatedAt          time.Time
}
