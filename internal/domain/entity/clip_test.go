package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestClipRetryBudget(t *testing.T) {
	clip := &VideoClip{ID: uuid.New(), Status: ClipStatusPending}

	assert.True(t, clip.CanRetry())
	clip.MarkRetrying()
	assert.Equal(t, 1, clip.RetryCount)
	assert.Equal(t, ClipStatusRetrying, clip.Status)

	assert.True(t, clip.CanRetry())
	clip.MarkRetrying()
	assert.Equal(t, 2, clip.RetryCount)

	// Third failure has no budget left.
	assert.False(t, clip.CanRetry())
}

func TestClipMarkProcessedCopiesResult(t *testing.T) {
	clip := &VideoClip{ID: uuid.New(), Status: ClipStatusProcessing}
	res := &AnalysisResult{
		Activities:         []Activity{{Activity: "sleeping", Mood: "calm"}},
		IsUnusual:          true,
		SummaryMood:        "anxious",
		SummaryDescription: "pacing near the door",
	}

	clip.MarkProcessed(res)

	assert.Equal(t, ClipStatusProcessed, clip.Status)
	assert.Equal(t, "anxious", clip.Mood)
	assert.Equal(t, "pacing near the door", clip.Description)
	assert.True(t, clip.IsUnusual)
	assert.Len(t, clip.Activities, 1)
}

func TestClipDateIsUTCMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	clip := &VideoClip{CreatedAt: time.Date(2026, 3, 1, 2, 30, 0, 0, loc)}

	// 02:30 at UTC+5 is still Feb 28 in UTC.
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), clip.Date())
}
