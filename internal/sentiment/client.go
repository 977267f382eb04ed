// Package sentiment is the HTTP client for the external sentiment
// scoring service. The core consumes it through the experiment.Scorer
// interface; this is the production implementation.
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type scoreRequest struct {
	Text string `json:"text"`
}

type scoreResponse struct {
	Compound float64 `json:"compound"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Score returns the compound sentiment of the text, clamped to [-1, 1].
// Failures propagate to the caller; the triage path treats a scorer
// failure as a failed request.
func (c *Client) Score(ctx context.Context, text string) (float64, error) {
	body, err := json.Marshal(scoreRequest{Text: text})
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/score", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("score call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return 0, fmt.Errorf("scorer error %d: %s", resp.StatusCode, errResp.Error)
		}
		return 0, fmt.Errorf("scorer error %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp scoreResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return 0, fmt.Errorf("unmarshal response: %w", err)
	}

	score := apiResp.Compound
	if score < -1 {
		score = -1
	}
	if score > 1 {
		score = 1
	}
	return score, nil
}
