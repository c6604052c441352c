package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalysisResultSeverityDefaultsLow(t *testing.T) {
	res := &AnalysisResult{}
	assert.Equal(t, SeverityLow, res.Severity())

	res.SeverityLevel = SeverityCritical
	assert.Equal(t, SeverityCritical, res.Severity())
}

func TestLegacySeverityUpShift(t *testing.T) {
	cases := map[string]string{
		"info":         SeverityLow,
		SeverityLow:    SeverityMedium,
		SeverityMedium: SeverityHigh,
		SeverityHigh:   SeverityHigh,
		"garbage":      SeverityMedium,
		"":             SeverityMedium,
	}
	for in, want := range cases {
		assert.Equal(t, want, LegacySeverity(in), "input %q", in)
	}
}

func TestAlertPayloadResolveSeverityLevel(t *testing.T) {
	p := &AlertPayload{}
	assert.Equal(t, SeverityLow, p.ResolveSeverityLevel())

	p.Context = &AlertContext{SeverityLevel: SeverityMedium}
	assert.Equal(t, SeverityMedium, p.ResolveSeverityLevel())

	// Top-level field wins over the embedded context.
	p.SeverityLevel = SeverityCritical
	assert.Equal(t, SeverityCritical, p.ResolveSeverityLevel())
}

func TestAlertPayloadResolveListsPreferTopLevel(t *testing.T) {
	p := &AlertPayload{
		Context: &AlertContext{
			CriticalIndicators: []string{"from-context"},
			RecommendedActions: []string{"ctx-action"},
		},
	}
	assert.Equal(t, []string{"from-context"}, p.ResolveCriticalIndicators())
	assert.Equal(t, []string{"ctx-action"}, p.ResolveRecommendedActions())

	p.CriticalIndicators = []string{"top"}
	p.RecommendedActions = []string{"top-action"}
	assert.Equal(t, []string{"top"}, p.ResolveCriticalIndicators())
	assert.Equal(t, []string{"top-action"}, p.ResolveRecommendedActions())
}
