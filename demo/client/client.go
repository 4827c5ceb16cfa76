// Package client is a thin HTTP client for the engine API, used by the demo.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/iammanoj/interestlens/types"
)

// Client talks to a running engine instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new engine client.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// AnalyzePage submits a page for ranking.
func (c *Client) AnalyzePage(ctx context.Context, req types.AnalyzePageRequest) (*types.AnalyzePageResponse, error) {
	var resp types.AnalyzePageResponse
	if err := c.postJSON(ctx, "/analyze_page", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendEvent records one interaction event.
func (c *Client) SendEvent(ctx context.Context, req types.EventRequest) (*types.EventResponse, error) {
	var resp types.EventResponse
	if err := c.postJSON(ctx, "/event", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProfile fetches the current profile snapshot for a user.
func (c *Client) GetProfile(ctx context.Context, userID string) (*types.UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/profile/"+userID, nil)
	if err != nil {
		return nil, err
	}
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(httpResp.Body)
		return nil, fmt.Errorf("profile request failed (%d): %s", httpResp.StatusCode, string(body))
	}

	var profile types.UserProfile
	if err := json.NewDecoder(httpResp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &profile, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body interface{}, out interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s failed (%d): %s", path, resp.StatusCode, string(respBody))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GetEnvOrDefault returns the value of an environment variable or a default value.
func GetEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
