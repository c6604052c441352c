package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/vaisu-bhut/PetPulse-Server/internal/domain/entity"
	"github.com/vaisu-bhut/PetPulse-Server/internal/infra/metrics"
)

const (
	pollInterval = 5 * time.Second
	// maxPollAttempts bounds the wait for Gemini-side video processing;
	// long clips can take minutes.
	maxPollAttempts = 60
)

const analysisPrompt = `Analyze this video of a pet. Precise behavior analysis.
Return a JSON object (without markdown code blocks) with the following structure:
{
  "activities": [
    {
      "activity": "string (Activity name e.g., Walking, Sleeping)",
      "mood": "string (Mood e.g., Energetic, Relaxed)",
      "description": "string (Detailed description of this specific segment)",
      "starttime": "string (HH:MM:SS)",
      "endtime": "string (HH:MM:SS)",
      "duration": "string (e.g. 5s)"
    }
  ],
  "is_unusual": boolean,
  "summary_mood": "string (Overall mood)",
  "summary_description": "string (Overall description)",
  "severity_level": "string (low, medium, high or critical)",
  "critical_indicators": ["string (only when severity is high or critical)"],
  "recommended_actions": ["string (only when severity is high or critical)"]
}
Identify if there is any unusual or concerning behavior (e.g., limping,
aggression, extreme lethargy) and set "is_unusual" to true. Reserve
"critical" for conditions needing immediate attention (seizures, collapse,
labored breathing, visible injury).`

// Client analyzes clips through the Gemini Files API: upload, poll until
// the file is ACTIVE, then request structured analysis.
type Client struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func NewClient(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: c, model: model, logger: logger}, nil
}

func (c *Client) AnalyzeClip(ctx context.Context, filePath string) (*entity.AnalysisResult, error) {
	file, err := c.uploadAndWait(ctx, filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if _, err := c.client.Files.Delete(ctx, file.Name, nil); err != nil {
			c.logger.Warn("failed to delete uploaded file", zap.String("name", file.Name), zap.Error(err))
		}
	}()

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{Text: analysisPrompt},
			{FileData: &genai.FileData{
				MIMEType: "video/mp4",
				FileURI:  file.URI,
			}},
		},
	}}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if resp.UsageMetadata != nil {
		metrics.GeminiTokensTotal.WithLabelValues("input").Add(float64(resp.UsageMetadata.PromptTokenCount))
		metrics.GeminiTokensTotal.WithLabelValues("output").Add(float64(resp.UsageMetadata.CandidatesTokenCount))
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("empty analysis response")
	}
	return ParseAnalysis(text)
}

func (c *Client) uploadAndWait(ctx context.Context, filePath string) (*genai.File, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open clip: %w", err)
	}
	defer f.Close()

	file, err := c.client.Files.Upload(ctx, f, &genai.UploadFileConfig{
		MIMEType: "video/mp4",
	})
	if err != nil {
		return nil, fmt.Errorf("upload clip: %w", err)
	}

	c.logger.Debug("clip uploaded, waiting for processing",
		zap.String("name", file.Name), zap.String("uri", file.URI))

	for attempt := 0; file.State == genai.FileStateProcessing; attempt++ {
		if attempt >= maxPollAttempts {
			return nil, fmt.Errorf("timeout waiting for video processing after %d polls", maxPollAttempts)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
		file, err = c.client.Files.Get(ctx, file.Name, nil)
		if err != nil {
			return nil, fmt.Errorf("get file state: %w", err)
		}
	}

	if file.State == genai.FileStateFailed {
		return nil, fmt.Errorf("video processing failed upstream: %s", file.Name)
	}
	return file, nil
}

// GenerateText runs a plain text prompt, used for quick-action outreach copy.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate text: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty generation response")
	}
	return strings.TrimSpace(text), nil
}

// ParseAnalysis decodes the model's JSON reply, tolerating markdown fences
// the model sometimes wraps it in.
func ParseAnalysis(text string) (*entity.AnalysisResult, error) {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	result := &entity.AnalysisResult{}
	if err := json.Unmarshal([]byte(clean), result); err != nil {
		return nil, fmt.Errorf("parse analysis json: %w", err)
	}
	return result, nil
}
