package entity

import (
	"time"

	"github.com/google/uuid"
)

type ClipStatus string

const (
	ClipStatusPending    ClipStatus = "PENDING"
	ClipStatusProcessing ClipStatus = "PROCESSING"
	ClipStatusProcessed  ClipStatus = "PROCESSED"
	ClipStatusRetrying   ClipStatus = "RETRYING"
	ClipStatusFailed     ClipStatus = "FAILED"
)

// MaxAnalysisRetries caps how many times a clip is requeued after a failed
// analysis. A clip at the cap goes to FAILED terminally.
const MaxAnalysisRetries = 2

// VideoClip is an uploaded monitoring clip together with its analysis,
// folded into the same row once the worker has processed it.
type VideoClip struct {
	ID          uuid.UUID
	PetID       int
	FilePath    string // scheme://bucket/key URI of the stored clip
	Status      ClipStatus
	Activities  []Activity
	Mood        string
	Description string
	IsUnusual   bool
	RetryCount  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *VideoClip) MarkProcessing() {
	c.Status = ClipStatusProcessing
	c.UpdatedAt = time.Now().UTC()
}

// MarkProcessed stores the analysis outcome on the clip.
func (c *VideoClip) MarkProcessed(res *AnalysisResult) {
	c.Status = ClipStatusProcessed
	c.Activities = res.Activities
	c.Mood = res.SummaryMood
	c.Description = res.SummaryDescription
	c.IsUnusual = res.IsUnusual
	c.UpdatedAt = time.Now().UTC()
}

func (c *VideoClip) MarkRetrying() {
	c.Status = ClipStatusRetrying
	c.RetryCount++
	c.UpdatedAt = time.Now().UTC()
}

func (c *VideoClip) MarkFailed() {
	c.Status = ClipStatusFailed
	c.UpdatedAt = time.Now().UTC()
}

func (c *VideoClip) CanRetry() bool {
	return c.RetryCount < MaxAnalysisRetries
}

// Date is the UTC calendar date the clip was created on; digest jobs are
// keyed by it.
func (c *VideoClip) Date() time.Time {
	y, m, d := c.CreatedAt.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
