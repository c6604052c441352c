package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vaisu-bhut/PetPulse-Server/internal/domain/entity"
	"github.com/vaisu-bhut/PetPulse-Server/internal/domain/port"
	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/metrics"
)

// Reaper requeues clips left in PROCESSING past the deadline, typically by
// a worker that crashed mid-job. Re-delivery after a crash is possible, so
// the pipeline stays at-least-once.
type Reaper struct {
	clips    port.ClipRepository
	queue    port.VideoQueue
	deadline time.Duration
	interval time.Duration
	logger   *zap.Logger
}

func NewReaper(clips port.ClipRepository, queue port.VideoQueue, deadline, interval time.Duration, logger *zap.Logger) *Reaper {
	return &Reaper{
		clips:    clips,
		queue:    queue,
		deadline: deadline,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reaper started",
		zap.Duration("deadline", r.deadline), zap.Duration("interval", r.interval))

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reaper stopping")
			return
		case <-ticker.C:
			if err := r.Sweep(ctx); err != nil {
				r.logger.Error("reaper sweep failed", zap.Error(err))
			}
		}
	}
}

func (r *Reaper) Sweep(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-r.deadline)
	stuck, err := r.clips.FindStuckProcessing(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, clip := range stuck {
		log := r.logger.With(zap.String("video_id", clip.ID.String()), zap.Int("pet_id", clip.PetID))

		lastUpdate := clip.UpdatedAt

		// A reaped clip is a crash casualty, not an analysis failure, so
		// it does not spend a retry.
		clip.Status = entity.ClipStatusRetrying
		clip.UpdatedAt = time.Now().UTC()
		if err := r.clips.Update(ctx, clip); err != nil {
			log.Error("failed to mark stuck clip for retry", zap.Error(err))
			continue
		}

		msg := &entity.VideoJobMessage{VideoID: clip.ID}
		if err := r.queue.PushVideoJob(ctx, msg); err != nil {
			log.Error("failed to requeue stuck clip", zap.Error(err))
			continue
		}

		metrics.ReapedClipsTotal.Inc()
		log.Warn("stuck clip requeued",
			zap.Time("last_update", lastUpdate), zap.Int("retry_count", clip.RetryCount))
	}
	return nil
}
