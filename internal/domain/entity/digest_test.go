package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBuildDigestAggregates(t *testing.T) {
	date := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	clips := []*VideoClip{
		{
			ID:          uuid.New(),
			Mood:        "calm",
			Description: "napping on the couch",
			Activities:  []Activity{{Activity: "sleeping"}},
			CreatedAt:   date.Add(9 * time.Hour),
		},
		{
			ID:          uuid.New(),
			Mood:        "anxious",
			Description: "pacing by the door",
			IsUnusual:   true,
			Activities:  []Activity{{Activity: "pacing"}},
			CreatedAt:   date.Add(14 * time.Hour),
		},
	}

	d := BuildDigest(7, date, clips)

	assert.Equal(t, 7, d.PetID)
	assert.Equal(t, 2, d.TotalVideos)
	assert.Equal(t, []string{"calm", "anxious"}, d.Moods)
	assert.Len(t, d.Activities, 2)
	assert.Len(t, d.UnusualEvents, 1)
	assert.Equal(t, clips[1].ID.String(), d.UnusualEvents[0].VideoID)
	assert.Contains(t, d.Summary, "Daily Summary for Pet 7")
	assert.Contains(t, d.Summary, "Videos Processed: 2")
	assert.Contains(t, d.Summary, "Moods: calm, anxious")
	assert.Contains(t, d.Summary, "Unusual Events: 1")
	assert.Contains(t, d.Summary, "pacing by the door")
}

func TestBuildDigestIsDeterministic(t *testing.T) {
	date := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	clips := []*VideoClip{
		{ID: uuid.New(), Mood: "playful", Description: "chasing a toy", CreatedAt: date},
	}

	a := BuildDigest(1, date, clips)
	b := BuildDigest(1, date, clips)
	assert.Equal(t, a.Summary, b.Summary)
	assert.Equal(t, a.UnusualEvents, b.UnusualEvents)
}

func TestBuildDigestEmptyFallbacks(t *testing.T) {
	date := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	clips := []*VideoClip{{ID: uuid.New(), IsUnusual: true, CreatedAt: date}}

	d := BuildDigest(3, date, clips)

	assert.Contains(t, d.Summary, "Moods: None")
	assert.Contains(t, d.Summary, "No descriptions available.")
	assert.Equal(t, "Unusual activity detected", d.UnusualEvents[0].Description)
}
