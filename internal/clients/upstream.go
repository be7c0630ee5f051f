package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sleepstars/chatrelay/internal/models"
)

// UpstreamClient implements ModelClient over plain HTTP.
type UpstreamClient struct {
	config ModelClientConfig
	client *http.Client
}

// NewUpstreamClient creates a client for the chat completions endpoint in config.
func NewUpstreamClient(config ModelClientConfig) *UpstreamClient {
	return &UpstreamClient{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

func (c *UpstreamClient) Complete(ctx context.Context, apiKey string, req *models.ChatRequest) (*models.UpstreamResponse, error) {
	// HTML escaping would rewrite <, > and & inside the caller's messages.
	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(req); err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &models.UpstreamResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}
