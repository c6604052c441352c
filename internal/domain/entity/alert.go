package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AlertType string

const (
	AlertTypePacing          AlertType = "pacing"
	AlertTypeVocalization    AlertType = "vocalization"
	AlertTypePositionChanges AlertType = "position_changes"
	AlertTypeDoorProximity   AlertType = "door_proximity"
	AlertTypeRestlessness    AlertType = "restlessness"
	AlertTypeAttentionSeek   AlertType = "attention_seeking"
	AlertTypeUnusualBehavior AlertType = "unusual_behavior"
	AlertTypeProcessingError AlertType = "processing_error"
	AlertTypeQueueDepthHigh  AlertType = "queue_depth_high"
	AlertTypeComfort         AlertType = "comfort"
)

// AlertContext carries the optional analysis detail embedded in a webhook
// payload. It is parsed once at the boundary; the engine never digs through
// raw JSON.
type AlertContext struct {
	Mood               string   `json:"mood,omitempty"`
	Description        string   `json:"description,omitempty"`
	SeverityLevel      string   `json:"severity_level,omitempty"`
	CriticalIndicators []string `json:"critical_indicators,omitempty"`
	RecommendedActions []string `json:"recommended_actions,omitempty"`
}

// AlertPayload is the wire format of the alert webhook consumed by the
// escalation engine.
type AlertPayload struct {
	AlertID         string        `json:"alert_id"`
	PetID           int           `json:"pet_id,string"`
	AlertType       AlertType     `json:"alert_type"`
	Severity        string        `json:"severity"`
	Message         string        `json:"message,omitempty"`
	MetricValue     *float64      `json:"metric_value,omitempty"`
	BaselineValue   *float64      `json:"baseline_value,omitempty"`
	DeviationFactor *float64      `json:"deviation_factor,omitempty"`
	VideoID         string        `json:"video_id,omitempty"`
	Timestamp       string        `json:"timestamp,omitempty"`
	Context         *AlertContext `json:"context,omitempty"`
	Title           string        `json:"title,omitempty"`
	State           string        `json:"state,omitempty"`

	SeverityLevel      string   `json:"severity_level,omitempty"`
	CriticalIndicators []string `json:"critical_indicators,omitempty"`
	RecommendedActions []string `json:"recommended_actions,omitempty"`
}

// ResolveSeverityLevel picks the severity level from the payload, then the
// embedded context, defaulting to low.
func (p *AlertPayload) ResolveSeverityLevel() string {
	if p.SeverityLevel != "" {
		return p.SeverityLevel
	}
	if p.Context != nil && p.Context.SeverityLevel != "" {
		return p.Context.SeverityLevel
	}
	return SeverityLow
}

func (p *AlertPayload) ResolveCriticalIndicators() []string {
	if len(p.CriticalIndicators) > 0 {
		return p.CriticalIndicators
	}
	if p.Context != nil {
		return p.Context.CriticalIndicators
	}
	return nil
}

func (p *AlertPayload) ResolveRecommendedActions() []string {
	if len(p.RecommendedActions) > 0 {
		return p.RecommendedActions
	}
	if p.Context != nil {
		return p.Context.RecommendedActions
	}
	return nil
}

// Alert is a persisted alert event. ID and CreatedAt are immutable after
// insert; every other field is an append-only update made by the engine or
// by a human acknowledging the alert.
type Alert struct {
	ID                   uuid.UUID
	PetID                int
	AlertType            AlertType
	Severity             string // legacy free-form severity string
	SeverityLevel        string
	Message              string
	Payload              json.RawMessage // full raw webhook payload, for audit
	CriticalIndicators   []string
	RecommendedActions   []string
	InterventionAction   string
	InterventionTime     *time.Time
	Outcome              string
	NotificationSent     bool
	NotificationChannels []string
	UserNotifiedAt       *time.Time
	UserAcknowledgedAt   *time.Time
	UserResponse         string
	CreatedAt            time.Time
}
