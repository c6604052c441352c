package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vaisu-bhut/PetPulse-Server/internal/domain/entity"
	"github.com/vaisu-bhut/PetPulse-Server/internal/domain/port"
	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/metrics"
	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/postgres"
)

// DigestUseCase consumes digest jobs and recomputes the daily digest for a
// (pet, date) key from scratch. The recompute is idempotent, so the queue
// may carry any number of duplicate keys.
type DigestUseCase struct {
	clips   port.ClipRepository
	digests port.DigestRepository
	queue   port.DigestQueue
	logger  *zap.Logger
}

func NewDigestUseCase(
	clips port.ClipRepository,
	digests port.DigestRepository,
	queue port.DigestQueue,
	logger *zap.Logger,
) *DigestUseCase {
	return &DigestUseCase{
		clips:   clips,
		digests: digests,
		queue:   queue,
		logger:  logger,
	}
}

func (uc *DigestUseCase) Run(ctx context.Context, workerCount int) {
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			uc.workerLoop(ctx, id)
		}(i)
	}
	wg.Wait()
}

func (uc *DigestUseCase) workerLoop(ctx context.Context, workerID int) {
	log := uc.logger.With(zap.Int("worker", workerID))
	log.Info("digest worker started")

	for {
		msg, err := uc.queue.PopDigestJob(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("digest worker stopping")
				return
			}
			log.Error("failed to pop digest job", zap.Error(err))
			continue
		}

		if err := uc.Execute(ctx, msg); err != nil {
			log.Error("digest job failed",
				zap.Int("pet_id", msg.PetID), zap.String("date", msg.Date), zap.Error(err))
		}
	}
}

func (uc *DigestUseCase) Execute(ctx context.Context, msg *entity.DigestJobMessage) error {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "DigestUseCase.Execute")
	defer span.End()
	span.SetAttributes(attribute.Int("pet.id", msg.PetID), attribute.String("digest.date", msg.Date))

	log := uc.logger.With(zap.Int("pet_id", msg.PetID), zap.String("date", msg.Date))

	date, err := time.ParseInLocation(entity.DigestDateLayout, msg.Date, time.UTC)
	if err != nil {
		// A bad date can never become good; drop the job.
		log.Error("unparseable digest date, discarding job", zap.Error(err))
		return nil
	}

	clips, err := uc.clips.FindProcessedByPet(ctx, msg.PetID)
	if err != nil {
		return fmt.Errorf("load processed clips: %w", err)
	}

	var dayClips []*entity.VideoClip
	for _, c := range clips {
		if c.Date().Equal(date) {
			dayClips = append(dayClips, c)
		}
	}
	if len(dayClips) == 0 {
		log.Warn("no processed clips for date, skipping digest")
		return nil
	}

	digest := entity.BuildDigest(msg.PetID, date, dayClips)

	now := time.Now().UTC()
	existing, err := uc.digests.FindByPetAndDate(ctx, msg.PetID, date)
	switch {
	case errors.Is(err, postgres.ErrNotFound):
		digest.ID = uuid.New()
		digest.CreatedAt = now
		digest.UpdatedAt = now
		if err := uc.digests.Insert(ctx, digest); err != nil {
			return fmt.Errorf("insert digest: %w", err)
		}
	case err != nil:
		return fmt.Errorf("find digest: %w", err)
	default:
		digest.ID = existing.ID
		digest.CreatedAt = existing.CreatedAt
		digest.UpdatedAt = now
		if err := uc.digests.Update(ctx, digest); err != nil {
			return fmt.Errorf("update digest: %w", err)
		}
	}

	metrics.DigestsGeneratedTotal.Inc()
	log.Info("digest generated",
		zap.Int("total_videos", digest.TotalVideos),
		zap.Int("unusual_events", len(digest.UnusualEvents)),
	)
	return nil
}
