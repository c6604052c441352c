package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/smtp"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/metrics"
)

const sendgridMailURL = "https://api.sendgrid.com/v3/mail/send"

// Dispatcher fans notifications out over email and SMS. Every Dispatch*
// call spawns its own delivery goroutine; callers never wait on delivery,
// and completion is tracked through the sent/failed counters.
//
// Email goes through SendGrid when an API key is configured, falling back
// to plain SMTP. When a channel has no configuration at all the dispatcher
// runs in mock mode: sends are logged and counted as delivered, which
// keeps local development quiet.
type Dispatcher struct {
	sendgridKey string
	sendgridURL string
	smtpAddr    string
	emailFrom   string
	twilioSID   string
	twilioAuth  string
	smsFrom     string
	httpClient  *http.Client
	logger      *zap.Logger
	wg          sync.WaitGroup
}

type DispatcherConfig struct {
	SendGridKey string
	SMTPHost    string
	SMTPPort    int
	EmailFrom   string
	TwilioSID   string
	TwilioAuth  string
	SMSFrom     string
}

func NewDispatcher(cfg DispatcherConfig, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		sendgridKey: cfg.SendGridKey,
		sendgridURL: sendgridMailURL,
		emailFrom:   cfg.EmailFrom,
		twilioSID:   cfg.TwilioSID,
		twilioAuth:  cfg.TwilioAuth,
		smsFrom:     cfg.SMSFrom,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		logger:      logger,
	}
	if cfg.SMTPHost != "" {
		d.smtpAddr = fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort)
	}
	if cfg.SendGridKey == "" && d.smtpAddr == "" {
		logger.Warn("neither SendGrid key nor SMTP host set, email notifications will be mocked")
	}
	if cfg.TwilioSID == "" || cfg.TwilioAuth == "" {
		d.twilioSID = ""
		logger.Warn("Twilio credentials not set, SMS notifications will be mocked")
	}
	return d
}

func (d *Dispatcher) DispatchEmail(to, subject, htmlBody string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.sendEmail(to, subject, htmlBody); err != nil {
			d.logger.Error("failed to send email", zap.String("to", to), zap.Error(err))
			metrics.NotificationsFailed.WithLabelValues("email").Inc()
			return
		}
		metrics.NotificationsSent.WithLabelValues("email").Inc()
	}()
}

func (d *Dispatcher) DispatchSMS(to, body string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.sendSMS(to, body); err != nil {
			d.logger.Error("failed to send sms", zap.String("to", to), zap.Error(err))
			metrics.NotificationsFailed.WithLabelValues("sms").Inc()
			return
		}
		metrics.NotificationsSent.WithLabelValues("sms").Inc()
	}()
}

// Wait blocks until in-flight deliveries finish; used on shutdown.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) sendEmail(to, subject, htmlBody string) error {
	if d.sendgridKey != "" {
		return d.sendEmailSendgrid(to, subject, htmlBody)
	}
	if d.smtpAddr == "" {
		d.logger.Info("(mock) would send email",
			zap.String("to", to), zap.String("subject", subject),
			zap.Int("body_len", len(htmlBody)))
		return nil
	}

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		d.emailFrom, to, subject, htmlBody,
	)
	if err := smtp.SendMail(d.smtpAddr, nil, d.emailFrom, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	d.logger.Info("email sent", zap.String("to", to))
	return nil
}

func (d *Dispatcher) sendEmailSendgrid(to, subject, htmlBody string) error {
	payload := map[string]any{
		"personalizations": []map[string]any{
			{"to": []map[string]string{{"email": to}}},
		},
		"from":    map[string]string{"email": d.emailFrom},
		"subject": subject,
		"content": []map[string]string{
			{"type": "text/html", "value": htmlBody},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode sendgrid payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, d.sendgridURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sendgrid request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+d.sendgridKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("send email: sendgrid returned %s", resp.Status)
	}
	d.logger.Info("email sent", zap.String("to", to))
	return nil
}

func (d *Dispatcher) sendSMS(to, body string) error {
	if d.twilioSID == "" {
		d.logger.Info("(mock) would send sms", zap.String("to", to), zap.String("body", body))
		return nil
	}
	if d.smsFrom == "" {
		return fmt.Errorf("sms from number not configured")
	}

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", d.twilioSID)
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", d.smsFrom)
	form.Set("Body", body)

	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.SetBasicAuth(d.twilioSID, d.twilioAuth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("send sms: twilio returned %s", resp.Status)
	}
	d.logger.Info("sms sent", zap.String("to", to))
	return nil
}
