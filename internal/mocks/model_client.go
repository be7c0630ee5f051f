package mocks

import (
	"context"
	"net/http"
	"sync"

	"github.com/sleepstars/chatrelay/internal/models"
)

// MockModelClient implements clients.ModelClient for testing and records every call.
type MockModelClient struct {
	CompleteFunc func(ctx context.Context, apiKey string, req *models.ChatRequest) (*models.UpstreamResponse, error)

	mu       sync.Mutex
	requests []*models.ChatRequest
	apiKeys  []string
}

func (m *MockModelClient) Complete(ctx context.Context, apiKey string, req *models.ChatRequest) (*models.UpstreamResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.apiKeys = append(m.apiKeys, apiKey)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, apiKey, req)
	}
	return &models.UpstreamResponse{
		StatusCode:  http.StatusOK,
		ContentType: "application/json",
		Body:        []byte(`{}`),
	}, nil
}

// Calls returns how many times Complete was invoked.
func (m *MockModelClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// LastRequest returns the most recent outbound payload, or nil.
func (m *MockModelClient) LastRequest() *models.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// LastAPIKey returns the credential passed with the most recent call.
func (m *MockModelClient) LastAPIKey() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.apiKeys) == 0 {
		return ""
	}
	return m.apiKeys[len(m.apiKeys)-1]
}

// Respond returns a CompleteFunc that always answers with status and body.
func Respond(status int, body string) func(context.Context, string, *models.ChatRequest) (*models.UpstreamResponse, error) {
	return func(context.Context, string, *models.ChatRequest) (*models.UpstreamResponse, error) {
		return &models.UpstreamResponse{
			StatusCode:  status,
			ContentType: "application/json",
			Body:        []byte(body),
		}, nil
	}
}
