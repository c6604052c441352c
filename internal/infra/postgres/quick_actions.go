package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaisu-bhut/PetPulse-Server/internal/domain/entity"
)

// ErrDuplicatePending signals that the contact already holds a pending
// quick action; the partial unique index is the authoritative dedup check.
var ErrDuplicatePending = errors.New("pending quick action already exists for contact")

type QuickActionRepository struct {
	pool *pgxpool.Pool
}

func NewQuickActionRepository(pool *pgxpool.Pool) *QuickActionRepository {
	return &QuickActionRepository{pool: pool}
}

func (r *QuickActionRepository) HasPendingForContact(ctx context.Context, contactID int) (bool, error) {
	query := `SELECT EXISTS(
		SELECT 1 FROM quick_actions WHERE emergency_contact_id=$1 AND status=$2)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, contactID, string(entity.QuickActionPending)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check pending quick action: %w", err)
	}
	return exists, nil
}

func (r *QuickActionRepository) Insert(ctx context.Context, a *entity.QuickAction) error {
	clips, err := json.Marshal(a.VideoClips)
	if err != nil {
		return fmt.Errorf("marshal video clips: %w", err)
	}

	query := `
		INSERT INTO quick_actions (
			id, alert_id, emergency_contact_id, action_type, message,
			video_clips, status, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err = r.pool.Exec(ctx, query,
		a.ID, a.AlertID, a.EmergencyContactID, a.ActionType, a.Message,
		clips, string(a.Status), a.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicatePending
		}
		return fmt.Errorf("insert quick action: %w", err)
	}
	return nil
}

func (r *QuickActionRepository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE quick_actions SET status=$2, sent_at=$3 WHERE id=$1`
	if _, err := r.pool.Exec(ctx, query, id, string(entity.QuickActionSent), at); err != nil {
		return fmt.Errorf("mark quick action sent: %w", err)
	}
	return nil
}
