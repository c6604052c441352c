package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vaisu-bhut/PetPulse-Server/internal/domain/entity"
	"github.com/vaisu-bhut/PetPulse-Server/internal/domain/port"
	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/metrics"
	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/notify"
	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/postgres"
)

// Intervention is the autonomous action the engine takes on an alert. The
// string form is what gets persisted on the alert row.
type Intervention string

const (
	InterventionPlayCalmingMusic Intervention = "play_calming_music"
	InterventionPlayOwnerVoice   Intervention = "play_owner_voice"
	InterventionDispenseTreat    Intervention = "dispense_treat"
	InterventionDimLights        Intervention = "dim_lights"
	InterventionNotifyStandard   Intervention = "notify_user_standard"
	InterventionNotifyCritical   Intervention = "notify_user_critical"
	InterventionLogOnly          Intervention = "log_only"

	// criticalNotificationAction is the intervention label recorded when
	// the critical branch sends out the full notification fan-out.
	criticalNotificationAction = "CRITICAL_NOTIFICATION_SENT"
)

// escalationWindow is how far back same-type alerts count toward the
// repetition escalation.
const escalationWindow = time.Hour

// ComfortLoopConfig carries the tunables the engine needs. MonitoringDelay
// is how long the engine waits before re-checking the pet's latest clip for
// resolution.
type ComfortLoopConfig struct {
	MonitoringDelay   time.Duration
	DefaultOwnerEmail string
	DefaultOwnerPhone string
	DashboardBaseURL  string
}

// ComfortLoop is the alert escalation engine. One ProcessAlert call handles
// one alert end to end: persist, escalate, intervene, notify, monitor.
type ComfortLoop struct {
	alerts       port.AlertRepository
	clips        port.ClipRepository
	pets         port.PetRepository
	contacts     port.ContactRepository
	quickActions port.QuickActionRepository
	notifier     port.Notifier
	textgen      port.TextGenerator
	cfg          ComfortLoopConfig
	logger       *zap.Logger
}

func NewComfortLoop(
	alerts port.AlertRepository,
	clips port.ClipRepository,
	pets port.PetRepository,
	contacts port.ContactRepository,
	quickActions port.QuickActionRepository,
	notifier port.Notifier,
	textgen port.TextGenerator,
	cfg ComfortLoopConfig,
	logger *zap.Logger,
) *ComfortLoop {
	return &ComfortLoop{
		alerts:       alerts,
		clips:        clips,
		pets:         pets,
		contacts:     contacts,
		quickActions: quickActions,
		notifier:     notifier,
		textgen:      textgen,
		cfg:          cfg,
		logger:       logger,
	}
}

func (cl *ComfortLoop) ProcessAlert(ctx context.Context, payload *entity.AlertPayload) {
	alertID := uuid.New()
	log := cl.logger.With(
		zap.String("alert_id", alertID.String()),
		zap.Int("pet_id", payload.PetID),
		zap.String("alert_type", string(payload.AlertType)),
	)
	log.Info("processing alert", zap.String("severity", payload.Severity))

	severityLevel := payload.ResolveSeverityLevel()

	// Count same-type alerts in the window. The count is best-effort: a
	// failed read degrades to zero so the current alert still counts as
	// the first.
	since := time.Now().UTC().Add(-escalationWindow)
	recent, err := cl.alerts.CountRecentByPetAndType(ctx, payload.PetID, payload.AlertType, since)
	if err != nil {
		log.Error("failed to count recent alerts", zap.Error(err))
		recent = 0
	}
	alertCount := recent + 1
	log.Info("recent alert count", zap.Int64("count", alertCount))

	finalSeverity := severityLevel
	if alertCount >= 5 && finalSeverity != entity.SeverityCritical {
		log.Info("escalating to high severity on repetition", zap.Int64("count", alertCount))
		finalSeverity = entity.SeverityHigh
	}

	indicators := payload.ResolveCriticalIndicators()
	actions := payload.ResolveRecommendedActions()

	// The legacy severity column mirrors the final level only when it was
	// escalated that far; otherwise it keeps whatever the sender said.
	legacySeverity := payload.Severity
	switch finalSeverity {
	case entity.SeverityCritical, entity.SeverityHigh:
		legacySeverity = finalSeverity
	}

	raw, _ := json.Marshal(payload)
	alert := &entity.Alert{
		ID:                 alertID,
		PetID:              payload.PetID,
		AlertType:          payload.AlertType,
		Severity:           legacySeverity,
		SeverityLevel:      finalSeverity,
		Message:            payload.Message,
		Payload:            raw,
		CriticalIndicators: indicators,
		RecommendedActions: actions,
		CreatedAt:          time.Now().UTC(),
	}
	if err := cl.alerts.Insert(ctx, alert); err != nil {
		log.Error("failed to persist alert", zap.Error(err))
		return
	}

	intervention := cl.decideIntervention(ctx, payload, alertCount, finalSeverity, log)
	cl.executeAction(ctx, intervention, payload, log)

	if err := cl.alerts.UpdateIntervention(ctx, alertID, string(intervention), time.Now().UTC()); err != nil {
		log.Error("failed to record intervention", zap.Error(err))
	}
	metrics.InterventionsTotal.WithLabelValues(string(intervention)).Inc()

	if finalSeverity == entity.SeverityCritical {
		metrics.CriticalAlertsTotal.WithLabelValues(fmt.Sprint(payload.PetID)).Inc()
		cl.handleCriticalAlert(ctx, payload, alertID, indicators, actions, log)
		cl.generateQuickActions(ctx, alertID, payload.PetID, entity.SeverityCritical, log)
		metrics.AlertsProcessedTotal.WithLabelValues(finalSeverity).Inc()
		// Critical alerts skip the monitoring wait; resolution is the
		// owner's acknowledgement, not a calmer next clip.
		return
	}

	if finalSeverity == entity.SeverityHigh {
		cl.generateQuickActions(ctx, alertID, payload.PetID, entity.SeverityHigh, log)
	}

	cl.monitorResolution(ctx, alertID, payload.PetID, log)
	metrics.AlertsProcessedTotal.WithLabelValues(finalSeverity).Inc()
}

// monitorResolution waits, then checks whether the pet's latest processed
// clip has calmed down, recording a narrative outcome on the alert.
func (cl *ComfortLoop) monitorResolution(ctx context.Context, alertID uuid.UUID, petID int, log *zap.Logger) {
	log.Info("monitoring for resolution", zap.Duration("delay", cl.cfg.MonitoringDelay))
	select {
	case <-ctx.Done():
		return
	case <-time.After(cl.cfg.MonitoringDelay):
	}

	var outcome string
	latest, err := cl.clips.LatestProcessed(ctx, petID)
	switch {
	case err != nil || latest == nil:
		if err != nil && !errors.Is(err, postgres.ErrNotFound) {
			log.Error("failed to load latest clip", zap.Error(err))
		}
		outcome = "No new video data available for resolution check."
	case !latest.IsUnusual:
		outcome = "Resolution: Pet behavior returned to normal. Alert resolved."
	default:
		outcome = "Alert persists: Unusual behavior continues. May trigger escalation on next alert."
	}
	log.Info("monitoring outcome", zap.String("outcome", outcome))

	if err := cl.alerts.UpdateOutcome(ctx, alertID, outcome); err != nil {
		log.Error("failed to record outcome", zap.Error(err))
	}
}

// decideIntervention maps (repetition count, alert type) to an action. The
// severity check short-circuits: a critical alert always notifies.
func (cl *ComfortLoop) decideIntervention(
	ctx context.Context,
	payload *entity.AlertPayload,
	alertCount int64,
	severityLevel string,
	log *zap.Logger,
) Intervention {
	if severityLevel == entity.SeverityCritical {
		return InterventionNotifyCritical
	}

	switch {
	case alertCount <= 2:
		switch payload.AlertType {
		case entity.AlertTypePacing, entity.AlertTypeRestlessness:
			return InterventionDimLights
		case entity.AlertTypeVocalization, entity.AlertTypeAttentionSeek, entity.AlertTypeUnusualBehavior:
			return InterventionPlayCalmingMusic
		default:
			return InterventionLogOnly
		}
	case alertCount == 3:
		switch payload.AlertType {
		case entity.AlertTypeVocalization:
			return InterventionDispenseTreat
		default:
			return InterventionPlayOwnerVoice
		}
	case alertCount == 4:
		// Fourth alert takes one last autonomous action and then hands
		// off to the owner. The persisted intervention stays single
		// valued; the voice playback happens here as a side effect.
		log.Info("fourth alert, final autonomous action before notifying owner")
		cl.executeAction(ctx, InterventionPlayOwnerVoice, payload, log)
		return InterventionNotifyStandard
	default:
		return InterventionNotifyStandard
	}
}

func (cl *ComfortLoop) executeAction(ctx context.Context, action Intervention, payload *entity.AlertPayload, log *zap.Logger) {
	log.Info("executing intervention", zap.String("action", string(action)))

	switch action {
	case InterventionPlayCalmingMusic:
		log.Info("playing calming music playlist")
	case InterventionPlayOwnerVoice:
		log.Info("playing owner voice note")
	case InterventionDispenseTreat:
		log.Info("dispensing treat")
	case InterventionDimLights:
		log.Info("dimming lights")
	case InterventionNotifyStandard, InterventionNotifyCritical:
		cl.notifyOwner(ctx, action, payload, log)
	case InterventionLogOnly:
		log.Info("logging alert only")
	}
}

func (cl *ComfortLoop) notifyOwner(ctx context.Context, action Intervention, payload *entity.AlertPayload, log *zap.Logger) {
	ownerName, ownerEmail, ownerPhone, _ := cl.resolveOwner(ctx, payload.PetID, log)

	severity := "HIGH"
	if action == InterventionNotifyCritical {
		severity = "CRITICAL"
	}

	message := payload.Message
	if message == "" {
		message = "Alert triggered"
	}
	videoLink := cl.videoLink(payload.VideoID)

	cl.notifier.DispatchEmail(ownerEmail,
		fmt.Sprintf("PetPulse %s Alert: %s", severity, ownerName),
		notify.CriticalAlertEmail(ownerName, severity, message, payload.Timestamp, nil, nil, videoLink))
	cl.notifier.DispatchSMS(ownerPhone,
		notify.CriticalAlertSMS(ownerName, severity, message, videoLink))
}

// handleCriticalAlert runs the full critical fan-out: owner lookup, email
// and SMS with the complete indicator and action lists, and notification
// bookkeeping on the alert row.
func (cl *ComfortLoop) handleCriticalAlert(
	ctx context.Context,
	payload *entity.AlertPayload,
	alertID uuid.UUID,
	indicators, actions []string,
	log *zap.Logger,
) {
	log.Warn("handling critical alert")

	_, ownerEmail, ownerPhone, petName := cl.resolveOwner(ctx, payload.PetID, log)

	message := payload.Message
	if message == "" {
		message = "Critical health indicator detected"
	}
	videoLink := cl.videoLink(payload.VideoID)

	cl.notifier.DispatchEmail(ownerEmail,
		fmt.Sprintf("PetPulse CRITICAL Alert: %s", petName),
		notify.CriticalAlertEmail(petName, "CRITICAL", message, payload.Timestamp, indicators, actions, videoLink))
	cl.notifier.DispatchSMS(ownerPhone,
		notify.CriticalAlertSMS(petName, "CRITICAL", message, videoLink))

	err := cl.alerts.UpdateNotification(ctx, alertID,
		[]string{"email", "sms"}, time.Now().UTC(),
		criticalNotificationAction, "Waiting for user acknowledgement")
	if err != nil {
		log.Error("failed to record notification status", zap.Error(err))
	}
}

// generateQuickActions creates one outreach message per active emergency
// contact, skipping contacts that already hold a pending action. Creation
// is the delivery in this design: a persisted action goes straight to sent.
func (cl *ComfortLoop) generateQuickActions(ctx context.Context, alertID uuid.UUID, petID int, severity string, log *zap.Logger) {
	pet, err := cl.pets.FindByID(ctx, petID)
	if err != nil {
		log.Error("pet not found for quick actions", zap.Error(err))
		return
	}

	contacts, err := cl.contacts.FindActiveByUser(ctx, pet.UserID)
	if err != nil {
		log.Error("failed to load emergency contacts", zap.Error(err))
		return
	}
	if len(contacts) == 0 {
		log.Info("no emergency contacts, skipping quick actions")
		return
	}

	for _, contact := range contacts {
		pending, err := cl.quickActions.HasPendingForContact(ctx, contact.ID)
		if err != nil {
			log.Error("pending check failed", zap.Int("contact_id", contact.ID), zap.Error(err))
			continue
		}
		if pending {
			log.Info("contact already has a pending action, skipping", zap.Int("contact_id", contact.ID))
			continue
		}

		message := cl.quickActionMessage(ctx, pet.Name, contact, severity, log)

		now := time.Now().UTC()
		action := &entity.QuickAction{
			ID:                 uuid.New(),
			AlertID:            alertID,
			EmergencyContactID: contact.ID,
			ActionType:         "message",
			Message:            message,
			Status:             entity.QuickActionPending,
			CreatedAt:          now,
		}
		if err := cl.quickActions.Insert(ctx, action); err != nil {
			if errors.Is(err, postgres.ErrDuplicatePending) {
				// Lost the dedup race to a concurrent generator.
				log.Info("pending action appeared concurrently, skipping", zap.Int("contact_id", contact.ID))
				continue
			}
			log.Error("failed to insert quick action", zap.Int("contact_id", contact.ID), zap.Error(err))
			metrics.QuickActionsTotal.WithLabelValues(string(entity.QuickActionFailed)).Inc()
			continue
		}

		if err := cl.quickActions.MarkSent(ctx, action.ID, now); err != nil {
			log.Error("failed to mark quick action sent", zap.String("action_id", action.ID.String()), zap.Error(err))
			metrics.QuickActionsTotal.WithLabelValues(string(entity.QuickActionPending)).Inc()
			continue
		}
		metrics.QuickActionsTotal.WithLabelValues(string(entity.QuickActionSent)).Inc()
	}

	log.Info("quick actions generated", zap.String("severity", severity))
}

// quickActionMessage asks the text generator for a JSON blob with sms and
// email variants, falling back to a fixed template when generation fails.
func (cl *ComfortLoop) quickActionMessage(ctx context.Context, petName string, contact *entity.EmergencyContact, severity string, log *zap.Logger) string {
	prompt := fmt.Sprintf(
		"Write a concise, urgent message from a pet monitoring system regarding %s. "+
			"The recipient is %s, who is a %s. Severity: %s. "+
			"The pet is showing unusual behavior. "+
			"Generate a JSON object with two fields: 'sms_text' (short, <160 chars) and 'email_body' (polite, informative). "+
			"Do not use markdown.",
		petName, contact.Name, contact.ContactType, severity,
	)

	text, err := cl.textgen.GenerateText(ctx, prompt)
	if err != nil {
		log.Error("quick action text generation failed", zap.Error(err))
		return fmt.Sprintf(
			`{"sms_text": "PetPulse Alert: %s needs attention.", "email_body": "Please check on %s."}`,
			petName, petName,
		)
	}
	return text
}

// resolveOwner loads the pet and its owner, degrading to configured
// defaults when either lookup misses.
func (cl *ComfortLoop) resolveOwner(ctx context.Context, petID int, log *zap.Logger) (ownerName, email, phone, petName string) {
	pet, user, err := cl.pets.FindOwner(ctx, petID)
	if err != nil {
		if !errors.Is(err, postgres.ErrNotFound) {
			log.Error("owner lookup failed", zap.Error(err))
		}
		return "Pet Owner", cl.cfg.DefaultOwnerEmail, cl.cfg.DefaultOwnerPhone, "Your Pet"
	}

	email = user.Email
	if email == "" {
		email = cl.cfg.DefaultOwnerEmail
	}
	phone = user.Phone
	if phone == "" {
		phone = cl.cfg.DefaultOwnerPhone
	}
	return user.Name, email, phone, pet.Name
}

func (cl *ComfortLoop) videoLink(videoID string) string {
	if videoID == "" {
		return cl.cfg.DashboardBaseURL
	}
	return fmt.Sprintf("%s/videos/%s", cl.cfg.DashboardBaseURL, videoID)
}
