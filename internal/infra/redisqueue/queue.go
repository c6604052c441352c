package redisqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vaisu-bhut/PetPulse-Server/internal/domain/entity"
	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/metrics"
)

// Queue is the durable FIFO over redis lists: RPush to the tail, BLPop from
// the head, so requeued jobs go to the back of the line.
type Queue struct {
	client      *redis.Client
	videoQueue  string
	digestQueue string
}

func New(redisURL, videoQueue, digestQueue string) (*Queue, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Queue{
		client:      redis.NewClient(opt),
		videoQueue:  videoQueue,
		digestQueue: digestQueue,
	}, nil
}

func (q *Queue) Close() error {
	return q.client.Close()
}

func (q *Queue) PopVideoJob(ctx context.Context) (*entity.VideoJobMessage, error) {
	payload, err := q.blockingPop(ctx, q.videoQueue)
	if err != nil {
		return nil, err
	}
	msg := &entity.VideoJobMessage{}
	if err := json.Unmarshal(payload, msg); err != nil {
		return nil, fmt.Errorf("decode video job: %w", err)
	}
	return msg, nil
}

func (q *Queue) PushVideoJob(ctx context.Context, msg *entity.VideoJobMessage) error {
	return q.push(ctx, q.videoQueue, msg)
}

func (q *Queue) PopDigestJob(ctx context.Context) (*entity.DigestJobMessage, error) {
	payload, err := q.blockingPop(ctx, q.digestQueue)
	if err != nil {
		return nil, err
	}
	msg := &entity.DigestJobMessage{}
	if err := json.Unmarshal(payload, msg); err != nil {
		return nil, fmt.Errorf("decode digest job: %w", err)
	}
	return msg, nil
}

func (q *Queue) PushDigestJob(ctx context.Context, msg *entity.DigestJobMessage) error {
	return q.push(ctx, q.digestQueue, msg)
}

// blockingPop waits indefinitely for the next item; the zero timeout is the
// redis convention for "block forever".
func (q *Queue) blockingPop(ctx context.Context, queue string) ([]byte, error) {
	res, err := q.client.BLPop(ctx, 0, queue).Result()
	if err != nil {
		return nil, fmt.Errorf("blpop %s: %w", queue, err)
	}
	// res[0] is the queue name, res[1] the payload.
	if len(res) != 2 {
		return nil, fmt.Errorf("blpop %s: unexpected reply of %d elements", queue, len(res))
	}
	return []byte(res[1]), nil
}

func (q *Queue) push(ctx context.Context, queue string, msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	if err := q.client.RPush(ctx, queue, payload).Err(); err != nil {
		return fmt.Errorf("rpush %s: %w", queue, err)
	}
	return nil
}

// Monitor samples both queue depths into the queue-depth gauge until the
// context is cancelled.
func (q *Queue) Monitor(ctx context.Context, period time.Duration, logger *zap.Logger) {
	logger.Info("queue monitor started", zap.Duration("period", period))

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("queue monitor stopped")
			return
		case <-ticker.C:
			for _, queue := range []string{q.videoQueue, q.digestQueue} {
				depth, err := q.client.LLen(ctx, queue).Result()
				if err != nil {
					logger.Error("failed to read queue depth",
						zap.String("queue", queue), zap.Error(err))
					continue
				}
				metrics.QueueDepth.WithLabelValues(queue).Set(float64(depth))
			}
		}
	}
}
