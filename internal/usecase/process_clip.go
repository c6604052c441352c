package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"github.com/vaisu-bhut/PetPulse-Server/internal/domain/entity"
	"github.com/vaisu-bhut/PetPulse-Server/internal/domain/port"
	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/metrics"
	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/minio"
	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/postgres"
)

// ProcessClipUseCase drives the video analysis pipeline: pop a job, fetch
// the clip, download it, analyze it, persist the result, and fan out alerts
// and digest work.
type ProcessClipUseCase struct {
	clips    port.ClipRepository
	queue    port.VideoQueue
	digests  port.DigestQueue
	storage  port.ClipStorage
	analyzer port.ClipAnalyzer
	alerts   port.AlertSender
	logger   *zap.Logger
	tempDir  string
}

type ProcessClipConfig struct {
	TempDir string
}

func NewProcessClipUseCase(
	clips port.ClipRepository,
	queue port.VideoQueue,
	digests port.DigestQueue,
	storage port.ClipStorage,
	analyzer port.ClipAnalyzer,
	alerts port.AlertSender,
	logger *zap.Logger,
	cfg ProcessClipConfig,
) *ProcessClipUseCase {
	return &ProcessClipUseCase{
		clips:    clips,
		queue:    queue,
		digests:  digests,
		storage:  storage,
		analyzer: analyzer,
		alerts:   alerts,
		logger:   logger,
		tempDir:  cfg.TempDir,
	}
}

// Run starts workerCount consumer loops and blocks until ctx is cancelled.
// A crash between pop and the final status update leaves the clip in
// PROCESSING; the reaper requeues it later.
func (uc *ProcessClipUseCase) Run(ctx context.Context, workerCount int) {
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

func (uc *ProcessClipUseCase) workerLoop(ctx context.Context, workerID int) {
	log := uc.logger.With(zap.Int("worker", workerID))
	log.Info("video worker started")

	for {
		msg, err := uc.queue.PopVideoJob(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("video worker stopping")
				return
			}
			log.Error("failed to pop video job", zap.Error(err))
			continue
		}

		if err := uc.Execute(ctx, msg); err != nil {
			log.Error("video job failed", zap.String("video_id", msg.VideoID.String()), zap.Error(err))
		}
	}
}

func (uc *ProcessClipUseCase) Execute(ctx context.Context, msg *entity.VideoJobMessage) error {
	// Resume the trace started by whoever enqueued the job, when present.
	if len(msg.TraceContext) > 0 {
		ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(msg.TraceContext))
	}

	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "ProcessClipUseCase.Execute")
	defer span.End()
	span.SetAttributes(attribute.String("video.id", msg.VideoID.String()))

	totalTimer := time.Now()
	log := uc.logger.With(zap.String("video_id", msg.VideoID.String()))

	clip, err := uc.clips.FindByID(ctx, msg.VideoID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			// Nothing to retry against; the job is discarded.
			log.Error("video record not found, discarding job")
			metrics.VideoProcessingErrors.WithLabelValues("lookup").Inc()
			return nil
		}
		return fmt.Errorf("find clip: %w", err)
	}

	span.SetAttributes(attribute.Int("pet.id", clip.PetID))
	log = log.With(zap.Int("pet_id", clip.PetID))

	clip.MarkProcessing()
	if err := uc.clips.Update(ctx, clip); err != nil {
		return fmt.Errorf("update clip to PROCESSING: %w", err)
	}

	metrics.ActiveWorkers.Inc()
	defer metrics.ActiveWorkers.Dec()

	result, err := uc.runPipeline(ctx, clip, log)
	if err != nil {
		return uc.handleAnalysisFailure(ctx, clip, msg, err, log)
	}
	if result == nil {
		// Terminal or reaper-recoverable failure, already accounted for.
		return nil
	}

	clip.MarkProcessed(result)
	if err := uc.clips.Update(ctx, clip); err != nil {
		return fmt.Errorf("update clip to PROCESSED: %w", err)
	}

	metrics.VideosProcessedTotal.Inc()
	metrics.VideoProcessingDuration.WithLabelValues("total").Observe(time.Since(totalTimer).Seconds())

	uc.routeAlerts(clip, result, log)
	uc.enqueueDigest(ctx, clip, log)

	log.Info("clip processed",
		zap.String("mood", result.SummaryMood),
		zap.Bool("is_unusual", result.IsUnusual),
		zap.String("severity_level", result.Severity()),
	)
	return nil
}

func (uc *ProcessClipUseCase) runPipeline(ctx context.Context, clip *entity.VideoClip, log *zap.Logger) (*entity.AnalysisResult, error) {
	tracer := otel.Tracer("usecase")

	bucket, object, err := minio.ParseObjectURI(clip.FilePath)
	if err != nil {
		// A path that cannot be parsed will never download; fail now
		// rather than burn retries.
		log.Error("malformed storage path, failing clip", zap.String("file_path", clip.FilePath))
		metrics.VideoProcessingErrors.WithLabelValues("download").Inc()
		clip.MarkFailed()
		if uerr := uc.clips.Update(ctx, clip); uerr != nil {
			log.Error("failed to update clip to FAILED", zap.Error(uerr))
		}
		return nil, nil
	}

	if err := os.MkdirAll(uc.tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	localPath := filepath.Join(uc.tempDir, clip.ID.String())
	defer os.Remove(localPath)

	dlStart := time.Now()
	dlCtx, dlSpan := tracer.Start(ctx, "download_clip")
	err = uc.storage.DownloadClip(dlCtx, bucket, object, localPath)
	dlSpan.End()
	if err != nil {
		// The clip stays in PROCESSING so the reaper can requeue it
		// once the deadline passes.
		metrics.VideoProcessingErrors.WithLabelValues("download").Inc()
		return nil, nil
	}
	metrics.VideoProcessingDuration.WithLabelValues("download").Observe(time.Since(dlStart).Seconds())

	anStart := time.Now()
	anCtx, anSpan := tracer.Start(ctx, "analyze_clip")
	result, err := uc.analyzer.AnalyzeClip(anCtx, localPath)
	anSpan.End()
	if err != nil {
		metrics.VideoProcessingErrors.WithLabelValues("analysis").Inc()
		metrics.GeminiAPIErrors.Inc()
		return nil, fmt.Errorf("analyze clip: %w", err)
	}
	metrics.VideoProcessingDuration.WithLabelValues("analysis").Observe(time.Since(anStart).Seconds())

	return result, nil
}

func (uc *ProcessClipUseCase) handleAnalysisFailure(
	ctx context.Context,
	clip *entity.VideoClip,
	msg *entity.VideoJobMessage,
	cause error,
	log *zap.Logger,
) error {
	if !clip.CanRetry() {
		log.Warn("retry budget exhausted, failing clip", zap.Int("retry_count", clip.RetryCount))
		clip.MarkFailed()
		if err := uc.clips.Update(ctx, clip); err != nil {
			return fmt.Errorf("update clip to FAILED: %w", err)
		}
		return nil
	}

	clip.MarkRetrying()
	if err := uc.clips.Update(ctx, clip); err != nil {
		return fmt.Errorf("update clip to RETRYING: %w", err)
	}

	metrics.RetryTotal.WithLabelValues(strconv.Itoa(clip.RetryCount)).Inc()

	if err := uc.queue.PushVideoJob(ctx, msg); err != nil {
		return fmt.Errorf("requeue video job: %w", err)
	}

	log.Warn("analysis failed, requeued",
		zap.Int("retry_count", clip.RetryCount),
		zap.Error(cause),
	)
	return nil
}

// routeAlerts raises alert webhooks for the clip when warranted. Delivery
// runs detached: the clip is already PROCESSED, and an unreachable engine
// must not claw that back.
func (uc *ProcessClipUseCase) routeAlerts(clip *entity.VideoClip, result *entity.AnalysisResult, log *zap.Logger) {
	severity := result.Severity()
	if result.IsUnusual {
		metrics.UnusualEventsTotal.WithLabelValues(strconv.Itoa(clip.PetID)).Inc()
	}

	if severity == entity.SeverityCritical {
		metrics.CriticalAlertsTotal.WithLabelValues(strconv.Itoa(clip.PetID)).Inc()
		payload := &entity.AlertPayload{
			AlertID:            uuid.NewString(),
			PetID:              clip.PetID,
			AlertType:          entity.AlertTypeUnusualBehavior,
			Severity:           entity.SeverityCritical,
			Message:            result.SummaryDescription,
			VideoID:            clip.ID.String(),
			Timestamp:          time.Now().UTC().Format(time.RFC3339),
			Title:              "CRITICAL ALERT: Immediate Attention Required",
			State:              "critical",
			SeverityLevel:      entity.SeverityCritical,
			CriticalIndicators: result.CriticalIndicators,
			RecommendedActions: result.RecommendedActions,
			Context: &entity.AlertContext{
				Mood:          result.SummaryMood,
				Description:   result.SummaryDescription,
				SeverityLevel: entity.SeverityCritical,
			},
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := uc.alerts.SendCriticalAlert(ctx, payload); err != nil {
				metrics.AlertWebhookErrors.Inc()
				log.Error("failed to deliver critical alert", zap.Error(err))
			}
		}()
		return
	}

	if !result.IsUnusual {
		return
	}

	payload := &entity.AlertPayload{
		AlertID:       uuid.NewString(),
		PetID:         clip.PetID,
		AlertType:     entity.AlertTypeUnusualBehavior,
		Severity:      entity.LegacySeverity(severity),
		Message:       result.SummaryDescription,
		VideoID:       clip.ID.String(),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Title:         "Unusual Behavior Detected",
		State:         "alerting",
		SeverityLevel: severity,
		Context: &entity.AlertContext{
			Mood:          result.SummaryMood,
			Description:   result.SummaryDescription,
			SeverityLevel: severity,
		},
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := uc.alerts.SendAlert(ctx, payload); err != nil {
			metrics.AlertWebhookErrors.Inc()
			log.Error("failed to deliver alert", zap.Error(err))
		}
	}()
}

func (uc *ProcessClipUseCase) enqueueDigest(ctx context.Context, clip *entity.VideoClip, log *zap.Logger) {
	msg := &entity.DigestJobMessage{
		PetID: clip.PetID,
		Date:  clip.Date().Format(entity.DigestDateLayout),
	}
	if err := uc.digests.PushDigestJob(ctx, msg); err != nil {
		// The next processed clip for the same day re-enqueues the key.
		log.Error("failed to enqueue digest job", zap.Error(err))
	}
}
