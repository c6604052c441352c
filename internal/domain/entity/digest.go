package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UnusualEvent is a per-clip descriptor recorded on a digest for every clip
// flagged unusual that day.
type UnusualEvent struct {
	VideoID     string `json:"video_id"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

// DailyDigest aggregates all analyzed clips for one pet on one UTC calendar
// date. At most one row exists per (pet, date); re-aggregation overwrites.
type DailyDigest struct {
	ID            uuid.UUID
	PetID         int
	Date          time.Time // calendar date, midnight UTC
	Summary       string
	Moods         []string
	Activities    []Activity
	UnusualEvents []UnusualEvent
	TotalVideos   int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BuildDigest recomputes a digest from the full clip set for the key. The
// computation is deterministic in the clip order given, so repeated runs
// over the same set produce identical output.
func BuildDigest(petID int, date time.Time, clips []*VideoClip) *DailyDigest {
	d := &DailyDigest{
		PetID:       petID,
		Date:        date,
		TotalVideos: len(clips),
	}

	var descriptions []string
	for _, c := range clips {
		d.Activities = append(d.Activities, c.Activities...)
		if c.Mood != "" {
			d.Moods = append(d.Moods, c.Mood)
		}
		if c.Description != "" {
			descriptions = append(descriptions, c.Description)
		}
		if c.IsUnusual {
			desc := c.Description
			if desc == "" {
				desc = "Unusual activity detected"
			}
			d.UnusualEvents = append(d.UnusualEvents, UnusualEvent{
				VideoID:     c.ID.String(),
				Description: desc,
				Timestamp:   c.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
	}

	moods := "None"
	if len(d.Moods) > 0 {
		moods = strings.Join(d.Moods, ", ")
	}
	descs := "No descriptions available."
	if len(descriptions) > 0 {
		descs = strings.Join(descriptions, "\n\n")
	}

	d.Summary = fmt.Sprintf(
		"Daily Summary for Pet %d\n\nVideos Processed: %d\nMoods: %s\nUnusual Events: %d\n\nDescriptions:\n%s",
		petID, len(clips), moods, len(d.UnusualEvents), descs,
	)
	return d
}
