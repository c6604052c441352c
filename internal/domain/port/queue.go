package port

import (
	"context"

	"github.com/vaisu-bhut/PetPulse-Server/internal/domain/entity"
)

// VideoQueue is the durable FIFO of clip-analysis jobs. Pop blocks
// indefinitely until a job is available.
type VideoQueue interface {
	PopVideoJob(ctx context.Context) (*entity.VideoJobMessage, error)
	PushVideoJob(ctx context.Context, msg *entity.VideoJobMessage) error
}

// DigestQueue is the durable FIFO of digest-aggregation jobs.
type DigestQueue interface {
	PopDigestJob(ctx context.Context) (*entity.DigestJobMessage, error)
	PushDigestJob(ctx context.Context, msg *entity.DigestJobMessage) error
}
