package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vaisu-bhut/PetPulse-Server/internal/domain/entity"
)

// Client posts alert events to the escalation engine's webhook.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) SendAlert(ctx context.Context, payload *entity.AlertPayload) error {
	return c.post(ctx, c.baseURL+"/alert", payload)
}

func (c *Client) SendCriticalAlert(ctx context.Context, payload *entity.AlertPayload) error {
	return c.post(ctx, c.baseURL+"/alert/critical", payload)
}

func (c *Client) post(ctx context.Context, endpoint string, payload *entity.AlertPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode alert payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post alert: agent returned %s: %s", resp.Status, msg)
	}
	return nil
}
