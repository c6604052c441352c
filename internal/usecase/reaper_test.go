package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vaisu-bhut/PetPulse-Server/internal/domain/entity"
)

func TestReaperRequeuesStuckClips(t *testing.T) {
	stuck := &entity.VideoClip{
		ID:         uuid.New(),
		PetID:      42,
		Status:     entity.ClipStatusProcessing,
		RetryCount: 1,
		UpdatedAt:  time.Now().UTC().Add(-time.Hour),
	}
	fresh := &entity.VideoClip{
		ID:        uuid.New(),
		PetID:     42,
		Status:    entity.ClipStatusProcessing,
		UpdatedAt: time.Now().UTC(),
	}
	repo := newFakeClipRepo(stuck, fresh)
	vq := &fakeVideoQueue{}

	r := NewReaper(repo, vq, 15*time.Minute, time.Minute, zap.NewNop())
	require.NoError(t, r.Sweep(context.Background()))

	reaped := repo.clips[stuck.ID]
	assert.Equal(t, entity.ClipStatusRetrying, reaped.Status)
	// A stall does not consume a retry.
	assert.Equal(t, 1, reaped.RetryCount)

	require.Len(t, vq.pushed, 1)
	assert.Equal(t, stuck.ID, vq.pushed[0].VideoID)

	// The clip still inside the deadline is untouched.
	assert.Equal(t, entity.ClipStatusProcessing, repo.clips[fresh.ID].Status)
}

func TestReaperNoStuckClips(t *testing.T) {
	repo := newFakeClipRepo()
	vq := &fakeVideoQueue{}

	r := NewReaper(repo, vq, 15*time.Minute, time.Minute, zap.NewNop())
	require.NoError(t, r.Sweep(context.Background()))
	assert.Empty(t, vq.pushed)
}
