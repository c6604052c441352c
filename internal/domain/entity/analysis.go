package entity

// Severity levels reported by the analysis model and carried on alerts.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Activity is one behavior segment within a clip, as returned by the
// analysis service.
type Activity struct {
	Activity    string `json:"activity"`
	Mood        string `json:"mood"`
	Description string `json:"description"`
	StartTime   string `json:"starttime"`
	EndTime     string `json:"endtime"`
	Duration    string `json:"duration"`
}

// AnalysisResult is the structured behavior analysis for a whole clip.
type AnalysisResult struct {
	Activities         []Activity `json:"activities"`
	IsUnusual          bool       `json:"is_unusual"`
	SummaryMood        string     `json:"summary_mood"`
	SummaryDescription string     `json:"summary_description"`
	SeverityLevel      string     `json:"severity_level"`
	CriticalIndicators []string   `json:"critical_indicators"`
	RecommendedActions []string   `json:"recommended_actions"`
}

// Severity returns the reported severity level, defaulting to low when the
// model omitted it.
func (r *AnalysisResult) Severity() string {
	if r.SeverityLevel == "" {
		return SeverityLow
	}
	return r.SeverityLevel
}

// LegacySeverity maps a severity level onto the legacy severity string used
// by the standard (non-critical) alert entry point. The mapping shifts one
// step up so that an "unusual" clip never arrives as merely informational.
func LegacySeverity(level string) string {
	switch level {
	case "info":
		return SeverityLow
	case SeverityLow:
		return SeverityMedium
	case SeverityMedium:
		return SeverityHigh
	case SeverityHigh:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}
