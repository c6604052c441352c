package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vaisu-bhut/PetPulse-Server/internal/domain/entity"
)

type ClipRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.VideoClip, error)
	Update(ctx context.Context, clip *entity.VideoClip) error
	// FindProcessedByPet returns every PROCESSED clip for the pet; callers
	// filter by calendar date client-side.
	FindProcessedByPet(ctx context.Context, petID int) ([]*entity.VideoClip, error)
	// LatestProcessed returns the most recently created PROCESSED clip for
	// the pet, or nil when none exists.
	LatestProcessed(ctx context.Context, petID int) (*entity.VideoClip, error)
	// FindStuckProcessing returns clips that have sat in PROCESSING since
	// before the cutoff.
	FindStuckProcessing(ctx context.Context, cutoff time.Time) ([]*entity.VideoClip, error)
}

type DigestRepository interface {
	FindByPetAndDate(ctx context.Context, petID int, date time.Time) (*entity.DailyDigest, error)
	Insert(ctx context.Context, digest *entity.DailyDigest) error
	Update(ctx context.Context, digest *entity.DailyDigest) error
}

type AlertRepository interface {
	Insert(ctx context.Context, alert *entity.Alert) error
	// CountRecentByPetAndType counts alerts for the pet and type created at
	// or after the cutoff.
	CountRecentByPetAndType(ctx context.Context, petID int, alertType entity.AlertType, since time.Time) (int64, error)
	UpdateIntervention(ctx context.Context, id uuid.UUID, action string, at time.Time) error
	UpdateOutcome(ctx context.Context, id uuid.UUID, outcome string) error
	UpdateNotification(ctx context.Context, id uuid.UUID, channels []string, notifiedAt time.Time, action, outcome string) error
}

type QuickActionRepository interface {
	HasPendingForContact(ctx context.Context, contactID int) (bool, error)
	Insert(ctx context.Context, action *entity.QuickAction) error
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
}

type PetRepository interface {
	FindByID(ctx context.Context, id int) (*entity.Pet, error)
	// FindOwner resolves the pet together with its owning user.
	FindOwner(ctx context.Context, petID int) (*entity.Pet, *entity.User, error)
}

type ContactRepository interface {
	FindActiveByUser(ctx context.Context, userID int) ([]*entity.EmergencyContact, error)
}
