package notify

import (
	"fmt"
	"strings"
)

// CriticalAlertEmail renders the HTML body for a critical-alert email.
func CriticalAlertEmail(petName, severity, description, startedAt string, criticalIndicators, recommendedActions []string, videoLink string) string {
	var indicators strings.Builder
	for _, i := range criticalIndicators {
		fmt.Fprintf(&indicators, "<li>%s</li>", i)
	}
	var actions strings.Builder
	for _, a := range recommendedActions {
		fmt.Fprintf(&actions, "<li>%s</li>", a)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 8px; }
    .header { background-color: #dfe6e9; padding: 15px; border-radius: 8px 8px 0 0; text-align: center; }
    .alert-badge { background-color: #d63031; color: white; padding: 5px 10px; border-radius: 4px; font-weight: bold; display: inline-block; margin-top: 10px; }
    .content { padding: 20px; }
    .section { margin-bottom: 20px; }
    .section h3 { border-bottom: 2px solid #eee; padding-bottom: 5px; color: #636e72; }
    .button { display: inline-block; background-color: #0984e3; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; font-weight: bold; }
    .footer { margin-top: 30px; font-size: 12px; color: #b2bec3; text-align: center; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>PetPulse Critical Alert</h1>
      <div class="alert-badge">SEVERITY: %s</div>
    </div>
    <div class="content">
      <p><strong>Immediate Attention Required for %s</strong></p>
      <p>%s</p>
      <p><strong>Time:</strong> %s</p>
      <div class="section">
        <h3>Critical Indicators Observed</h3>
        <ul>%s</ul>
      </div>
      <div class="section">
        <h3>Recommended Actions</h3>
        <ul>%s</ul>
      </div>
      <div class="section" style="text-align: center; margin-top: 30px;">
        <a href="%s" class="button">View Video Clip</a>
      </div>
      <p style="text-align: center; margin-top: 20px;"><small>This link expires in 24 hours.</small></p>
    </div>
    <div class="footer">
      <p>Sent by PetPulse Autonomous Monitoring System</p>
    </div>
  </div>
</body>
</html>`,
		strings.ToUpper(severity), petName, description, startedAt,
		indicators.String(), actions.String(), videoLink)
}

// CriticalAlertSMS renders a short SMS body, truncating the description to
// keep the message near the single-segment limit.
func CriticalAlertSMS(petName, severity, description, videoLink string) string {
	short := description
	if runes := []rune(short); len(runes) > 50 {
		short = string(runes[:47]) + "..."
	}
	return fmt.Sprintf("PetPulse ALERT: %s - %s\nSeverity: %s\nView: %s",
		petName, short, strings.ToUpper(severity), videoLink)
}
