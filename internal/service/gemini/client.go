package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/braz-finance/backend/internal/config"

	"github.com/pkg/errors"
)

const baseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client talks to the Google generative language API.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(cfg config.GeminiConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GenerateContent sends a single-turn prompt and returns the first
// candidate's text.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("gemini api key is not configured")
	}

	reqBody := GenerateContentRequest{
		Contents: []Content{
			{Role: "user", Parts: []Part{{Text: prompt}}},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", errors.Wrap(err, "marshal generate content request")
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", baseURL, c.model, c.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", errors.Wrap(err, "create generate content request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", errors.Wrap(err, "send generate content request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read generate content response")
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return "", errors.Wrapf(err, "unexpected status %s", resp.Status)
		}
		return "", &APIError{
			Code:    errResp.Error.Code,
			Message: errResp.Error.Message,
		}
	}

	var contentResp GenerateContentResponse
	if err := json.Unmarshal(body, &contentResp); err != nil {
		return "", errors.Wrap(err, "unmarshal generate content response")
	}

	if len(contentResp.Candidates) == 0 || len(contentResp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini returned no candidates")
	}

	return contentResp.Candidates[0].Content.Parts[0].Text, nil
}
