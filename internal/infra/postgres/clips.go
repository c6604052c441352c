package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaisu-bhut/PetPulse-Server/internal/domain/entity"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

type ClipRepository struct {
	pool *pgxpool.Pool
}

func NewClipRepository(pool *pgxpool.Pool) *ClipRepository {
	return &ClipRepository{pool: pool}
}

const clipColumns = `id, pet_id, file_path, status, activities, mood, description, is_unusual, retry_count, created_at, updated_at`

func (r *ClipRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.VideoClip, error) {
	query := `SELECT ` + clipColumns + ` FROM pet_videos WHERE id=$1`
	clip, err := scanClip(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find clip by id: %w", err)
	}
	return clip, nil
}

func (r *ClipRepository) Update(ctx context.Context, clip *entity.VideoClip) error {
	activities, err := json.Marshal(clip.Activities)
	if err != nil {
		return fmt.Errorf("marshal activities: %w", err)
	}

	query := `
		UPDATE pet_videos SET
			status=$2, activities=$3, mood=$4, description=$5,
			is_unusual=$6, retry_count=$7, updated_at=$8
		WHERE id=$1`

	_, err = r.pool.Exec(ctx, query,
		clip.ID, string(clip.Status), activities,
		nullable(clip.Mood), nullable(clip.Description),
		clip.IsUnusual, clip.RetryCount, clip.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update clip: %w", err)
	}
	return nil
}

func (r *ClipRepository) FindProcessedByPet(ctx context.Context, petID int) ([]*entity.VideoClip, error) {
	query := `SELECT ` + clipColumns + ` FROM pet_videos
		WHERE pet_id=$1 AND status=$2 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, petID, string(entity.ClipStatusProcessed))
	if err != nil {
		return nil, fmt.Errorf("query processed clips: %w", err)
	}
	defer rows.Close()

	return collectClips(rows)
}

func (r *ClipRepository) LatestProcessed(ctx context.Context, petID int) (*entity.VideoClip, error) {
	query := `SELECT ` + clipColumns + ` FROM pet_videos
		WHERE pet_id=$1 AND status=$2 ORDER BY created_at DESC LIMIT 1`

	clip, err := scanClip(r.pool.QueryRow(ctx, query, petID, string(entity.ClipStatusProcessed)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest processed clip: %w", err)
	}
	return clip, nil
}

func (r *ClipRepository) FindStuckProcessing(ctx context.Context, cutoff time.Time) ([]*entity.VideoClip, error) {
	query := `SELECT ` + clipColumns + ` FROM pet_videos
		WHERE status=$1 AND updated_at < $2 ORDER BY updated_at`

	rows, err := r.pool.Query(ctx, query, string(entity.ClipStatusProcessing), cutoff)
	if err != nil {
		return nil, fmt.Errorf("query stuck clips: %w", err)
	}
	defer rows.Close()

	return collectClips(rows)
}

func scanClip(row pgx.Row) (*entity.VideoClip, error) {
	clip := &entity.VideoClip{}
	var (
		status            string
		activities        []byte
		mood, description *string
	)
	err := row.Scan(
		&clip.ID, &clip.PetID, &clip.FilePath, &status, &activities,
		&mood, &description, &clip.IsUnusual, &clip.RetryCount,
		&clip.CreatedAt, &clip.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	clip.Status = entity.ClipStatus(status)
	if mood != nil {
		clip.Mood = *mood
	}
	if description != nil {
		clip.Description = *description
	}
	if len(activities) > 0 {
		if err := json.Unmarshal(activities, &clip.Activities); err != nil {
			return nil, fmt.Errorf("unmarshal activities: %w", err)
		}
	}
	return clip, nil
}

func collectClips(rows pgx.Rows) ([]*entity.VideoClip, error) {
	var clips []*entity.VideoClip
	for rows.Next() {
		clip, err := scanClip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan clip: %w", err)
		}
		clips = append(clips, clip)
	}
	return clips, rows.Err()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
