package notify

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestCriticalAlertEmailContainsDetails(t *testing.T) {
	body := CriticalAlertEmail(
		"Biscuit", "critical", "labored breathing observed", "2026-04-10T15:00:00Z",
		[]string{"labored breathing", "lethargy"},
		[]string{"contact veterinarian"},
		"https://petpulse.dashboard/videos/abc",
	)

	assert.Contains(t, body, "SEVERITY: CRITICAL")
	assert.Contains(t, body, "Immediate Attention Required for Biscuit")
	assert.Contains(t, body, "<li>labored breathing</li>")
	assert.Contains(t, body, "<li>lethargy</li>")
	assert.Contains(t, body, "<li>contact veterinarian</li>")
	assert.Contains(t, body, `href="https://petpulse.dashboard/videos/abc"`)
}

func TestCriticalAlertSMSTruncatesDescription(t *testing.T) {
	long := strings.Repeat("pacing ", 20)
	sms := CriticalAlertSMS("Biscuit", "high", long, "https://petpulse.dashboard")

	assert.Contains(t, sms, "Biscuit")
	assert.Contains(t, sms, "Severity: HIGH")
	assert.Contains(t, sms, "...")
	assert.NotContains(t, sms, long)
}

func TestCriticalAlertSMSTruncatesOnRunes(t *testing.T) {
	long := strings.Repeat("犬が吠える", 12)
	sms := CriticalAlertSMS("Biscuit", "high", long, "https://petpulse.dashboard")

	assert.True(t, utf8.ValidString(sms))
	assert.Contains(t, sms, string([]rune(long)[:47])+"...")
}

func TestCriticalAlertSMSShortDescriptionUntouched(t *testing.T) {
	sms := CriticalAlertSMS("Biscuit", "critical", "not eating", "https://petpulse.dashboard")
	assert.Contains(t, sms, "not eating")
	assert.NotContains(t, sms, "...")
}
