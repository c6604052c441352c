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
	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/postgres"
)

type digestKey struct {
	petID int
	date  string
}

type fakeDigestRepo struct {
	digests map[digestKey]*entity.DailyDigest
	inserts int
	updates int
}

func newFakeDigestRepo() *fakeDigestRepo {
	return &fakeDigestRepo{digests: make(map[digestKey]*entity.DailyDigest)}
}

func (r *fakeDigestRepo) key(petID int, date time.Time) digestKey {
	return digestKey{petID: petID, date: date.Format(entity.DigestDateLayout)}
}

func (r *fakeDigestRepo) FindByPetAndDate(_ context.Context, petID int, date time.Time) (*entity.DailyDigest, error) {
	d, ok := r.digests[r.key(petID, date)]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDigestRepo) Insert(_ context.Context, d *entity.DailyDigest) error {
	r.inserts++
	cp := *d
	r.digests[r.key(d.PetID, d.Date)] = &cp
	return nil
}

func (r *fakeDigestRepo) Update(_ context.Context, d *entity.DailyDigest) error {
	r.updates++
	cp := *d
	r.digests[r.key(d.PetID, d.Date)] = &cp
	return nil
}

func processedClip(petID int, created time.Time, mood string, unusual bool) *entity.VideoClip {
	return &entity.VideoClip{
		ID:        uuid.New(),
		PetID:     petID,
		Status:    entity.ClipStatusProcessed,
		Mood:      mood,
		IsUnusual: unusual,
		CreatedAt: created,
	}
}

func TestDigestInsertThenUpdateIsIdempotent(t *testing.T) {
	day := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	clips := newFakeClipRepo(
		processedClip(7, day.Add(9*time.Hour), "calm", false),
		processedClip(7, day.Add(15*time.Hour), "anxious", true),
	)
	repo := newFakeDigestRepo()
	uc := NewDigestUseCase(clips, repo, &fakeDigestQueue{}, zap.NewNop())

	msg := &entity.DigestJobMessage{PetID: 7, Date: "2026-04-10"}
	require.NoError(t, uc.Execute(context.Background(), msg))
	require.NoError(t, uc.Execute(context.Background(), msg))

	assert.Equal(t, 1, repo.inserts)
	assert.Equal(t, 1, repo.updates)
	require.Len(t, repo.digests, 1)

	d := repo.digests[digestKey{petID: 7, date: "2026-04-10"}]
	assert.Equal(t, 2, d.TotalVideos)
	assert.Len(t, d.UnusualEvents, 1)
}

func TestDigestPreservesIdentityAcrossRecompute(t *testing.T) {
	day := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	clips := newFakeClipRepo(processedClip(7, day.Add(9*time.Hour), "calm", false))
	repo := newFakeDigestRepo()
	uc := NewDigestUseCase(clips, repo, &fakeDigestQueue{}, zap.NewNop())

	msg := &entity.DigestJobMessage{PetID: 7, Date: "2026-04-10"}
	require.NoError(t, uc.Execute(context.Background(), msg))
	first := *repo.digests[digestKey{petID: 7, date: "2026-04-10"}]

	// A later clip arrives for the same day and the key is re-enqueued.
	clips.clips[uuid.New()] = processedClip(7, day.Add(20*time.Hour), "playful", false)
	require.NoError(t, uc.Execute(context.Background(), msg))

	second := repo.digests[digestKey{petID: 7, date: "2026-04-10"}]
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, 2, second.TotalVideos)
}

func TestDigestFiltersByCalendarDate(t *testing.T) {
	day := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	clips := newFakeClipRepo(
		processedClip(7, day.Add(9*time.Hour), "calm", false),
		processedClip(7, day.AddDate(0, 0, -1), "calm", false),
		processedClip(9, day.Add(9*time.Hour), "calm", false), // other pet
	)
	repo := newFakeDigestRepo()
	uc := NewDigestUseCase(clips, repo, &fakeDigestQueue{}, zap.NewNop())

	require.NoError(t, uc.Execute(context.Background(), &entity.DigestJobMessage{PetID: 7, Date: "2026-04-10"}))

	d := repo.digests[digestKey{petID: 7, date: "2026-04-10"}]
	require.NotNil(t, d)
	assert.Equal(t, 1, d.TotalVideos)
}

func TestDigestNoClipsIsNoOp(t *testing.T) {
	repo := newFakeDigestRepo()
	uc := NewDigestUseCase(newFakeClipRepo(), repo, &fakeDigestQueue{}, zap.NewNop())

	require.NoError(t, uc.Execute(context.Background(), &entity.DigestJobMessage{PetID: 7, Date: "2026-04-10"}))
	assert.Empty(t, repo.digests)
}

func TestDigestBadDateDiscarded(t *testing.T) {
	repo := newFakeDigestRepo()
	uc := NewDigestUseCase(newFakeClipRepo(), repo, &fakeDigestQueue{}, zap.NewNop())

	err := uc.Execute(context.Background(), &entity.DigestJobMessage{PetID: 7, Date: "April 10th"})
	assert.NoError(t, err)
	assert.Empty(t, repo.digests)
}
