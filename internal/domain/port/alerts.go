package port

import (
	"context"

	"github.com/vaisu-bhut/PetPulse-Server/internal/domain/entity"
)

// AlertSender forwards an alert event to the escalation engine. Delivery
// failure never affects the caller's own state.
type AlertSender interface {
	SendAlert(ctx context.Context, payload *entity.AlertPayload) error
	SendCriticalAlert(ctx context.Context, payload *entity.AlertPayload) error
}
