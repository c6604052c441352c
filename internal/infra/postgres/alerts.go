package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaisu-bhut/PetPulse-Server/internal/domain/entity"
)

type AlertRepository struct {
	pool *pgxpool.Pool
}

func NewAlertRepository(pool *pgxpool.Pool) *AlertRepository {
	return &AlertRepository{pool: pool}
}

func (r *AlertRepository) Insert(ctx context.Context, a *entity.Alert) error {
	indicators, err := json.Marshal(a.CriticalIndicators)
	if err != nil {
		return fmt.Errorf("marshal critical indicators: %w", err)
	}
	actions, err := json.Marshal(a.RecommendedActions)
	if err != nil {
		return fmt.Errorf("marshal recommended actions: %w", err)
	}

	query := `
		INSERT INTO alerts (
			id, pet_id, alert_type, severity, severity_level, message,
			payload, critical_indicators, recommended_actions,
			notification_sent, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`

	_, err = r.pool.Exec(ctx, query,
		a.ID, a.PetID, string(a.AlertType), a.Severity, a.SeverityLevel,
		nullable(a.Message), []byte(a.Payload), indicators, actions,
		a.NotificationSent, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

func (r *AlertRepository) CountRecentByPetAndType(ctx context.Context, petID int, alertType entity.AlertType, since time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM alerts WHERE pet_id=$1 AND alert_type=$2 AND created_at >= $3`

	var count int64
	err := r.pool.QueryRow(ctx, query, petID, string(alertType), since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count recent alerts: %w", err)
	}
	return count, nil
}

func (r *AlertRepository) UpdateIntervention(ctx context.Context, id uuid.UUID, action string, at time.Time) error {
	query := `UPDATE alerts SET intervention_action=$2, intervention_time=$3 WHERE id=$1`
	if _, err := r.pool.Exec(ctx, query, id, action, at); err != nil {
		return fmt.Errorf("update alert intervention: %w", err)
	}
	return nil
}

func (r *AlertRepository) UpdateOutcome(ctx context.Context, id uuid.UUID, outcome string) error {
	query := `UPDATE alerts SET outcome=$2 WHERE id=$1`
	if _, err := r.pool.Exec(ctx, query, id, outcome); err != nil {
		return fmt.Errorf("update alert outcome: %w", err)
	}
	return nil
}

func (r *AlertRepository) UpdateNotification(ctx context.Context, id uuid.UUID, channels []string, notifiedAt time.Time, action, outcome string) error {
	chs, err := json.Marshal(channels)
	if err != nil {
		return fmt.Errorf("marshal notification channels: %w", err)
	}

	query := `
		UPDATE alerts SET
			notification_sent=true, notification_channels=$2,
			user_notified_at=$3, intervention_action=$4, outcome=$5
		WHERE id=$1`

	if _, err := r.pool.Exec(ctx, query, id, chs, notifiedAt, action, outcome); err != nil {
		return fmt.Errorf("update alert notification: %w", err)
	}
	return nil
}
