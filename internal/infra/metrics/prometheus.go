package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VideosProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petpulse_video_processed_total",
		Help: "Total number of clips analyzed and persisted successfully",
	})

	VideoProcessingErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petpulse_video_processing_errors_total",
		Help: "Clip pipeline errors, by stage",
	}, []string{"stage"})

	VideoProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "petpulse_video_processing_duration_seconds",
		Help:    "Duration of the clip pipeline, by stage",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"stage"})

	RetryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petpulse_video_retry_total",
		Help: "Analysis retries, by attempt number",
	}, []string{"attempt"})

	QueueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "petpulse_queue_depth",
		Help: "Current depth of the durable job queues",
	}, []string{"queue"})

	ActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "petpulse_active_workers",
		Help: "Workers currently processing a clip",
	})

	ReapedClipsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petpulse_reaped_clips_total",
		Help: "Clips requeued after being stuck in PROCESSING past the deadline",
	})

	GeminiTokensTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petpulse_gemini_tokens_total",
		Help: "Gemini token usage, by direction",
	}, []string{"type"})

	GeminiAPIErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petpulse_gemini_api_errors_total",
		Help: "Failed analysis calls",
	})

	UnusualEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petpulse_unusual_events_total",
		Help: "Clips flagged as unusual, by pet",
	}, []string{"pet_id"})

	CriticalAlertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petpulse_critical_alerts_total",
		Help: "Critical alerts raised, by pet",
	}, []string{"pet_id"})

	AlertWebhookErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petpulse_alert_webhook_errors_total",
		Help: "Alert webhook deliveries that failed",
	})

	AlertsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petpulse_alerts_processed_total",
		Help: "Alerts handled by the escalation engine, by final severity level",
	}, []string{"severity_level"})

	InterventionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petpulse_interventions_total",
		Help: "Interventions executed, by action",
	}, []string{"action"})

	DigestsGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petpulse_daily_digests_generated_total",
		Help: "Daily digests inserted or refreshed",
	})

	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petpulse_notifications_sent_total",
		Help: "Notifications delivered, by channel",
	}, []string{"channel"})

	NotificationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petpulse_notifications_failed_total",
		Help: "Notification deliveries that failed, by channel",
	}, []string{"channel"})

	QuickActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petpulse_quick_actions_total",
		Help: "Quick actions generated, by status",
	}, []string{"status"})
)
