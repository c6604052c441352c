package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaisu-bhut/PetPulse-Server/internal/domain/entity"
)

type DigestRepository struct {
	pool *pgxpool.Pool
}

func NewDigestRepository(pool *pgxpool.Pool) *DigestRepository {
	return &DigestRepository{pool: pool}
}

func (r *DigestRepository) FindByPetAndDate(ctx context.Context, petID int, date time.Time) (*entity.DailyDigest, error) {
	query := `
		SELECT id, pet_id, date, summary, moods, activities, unusual_events,
			total_videos, created_at, updated_at
		FROM daily_digest WHERE pet_id=$1 AND date=$2`

	d := &entity.DailyDigest{}
	var moods, activities, unusual []byte
	err := r.pool.QueryRow(ctx, query, petID, date).Scan(
		&d.ID, &d.PetID, &d.Date, &d.Summary, &moods, &activities, &unusual,
		&d.TotalVideos, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find digest: %w", err)
	}

	if err := unmarshalInto(moods, &d.Moods); err != nil {
		return nil, err
	}
	if err := unmarshalInto(activities, &d.Activities); err != nil {
		return nil, err
	}
	if err := unmarshalInto(unusual, &d.UnusualEvents); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DigestRepository) Insert(ctx context.Context, d *entity.DailyDigest) error {
	moods, activities, unusual, err := marshalDigestFields(d)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO daily_digest (
			id, pet_id, date, summary, moods, activities, unusual_events,
			total_videos, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`

	_, err = r.pool.Exec(ctx, query,
		d.ID, d.PetID, d.Date, d.Summary, moods, activities, unusual,
		d.TotalVideos, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert digest: %w", err)
	}
	return nil
}

func (r *DigestRepository) Update(ctx context.Context, d *entity.DailyDigest) error {
	moods, activities, unusual, err := marshalDigestFields(d)
	if err != nil {
		return err
	}

	query := `
		UPDATE daily_digest SET
			summary=$2, moods=$3, activities=$4, unusual_events=$5,
			total_videos=$6, updated_at=$7
		WHERE id=$1`

	_, err = r.pool.Exec(ctx, query,
		d.ID, d.Summary, moods, activities, unusual, d.TotalVideos, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update digest: %w", err)
	}
	return nil
}

func marshalDigestFields(d *entity.DailyDigest) (moods, activities, unusual []byte, err error) {
	if moods, err = json.Marshal(d.Moods); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal moods: %w", err)
	}
	if activities, err = json.Marshal(d.Activities); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal activities: %w", err)
	}
	if unusual, err = json.Marshal(d.UnusualEvents); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal unusual events: %w", err)
	}
	return moods, activities, unusual, nil
}

func unmarshalInto(data []byte, dst any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshal digest field: %w", err)
	}
	return nil
}
