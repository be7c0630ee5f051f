package clients

import (
	"context"
	"time"

	"github.com/sleepstars/chatrelay/internal/models"
)

// ModelClient sends one chat completion request upstream.
type ModelClient interface {
	// Complete posts req with the given bearer credential and returns the
	// upstream reply whatever its status. An error means no reply was read.
	Complete(ctx context.Context, apiKey string, req *models.ChatRequest) (*models.UpstreamResponse, error)
}

// ModelClientConfig contains configuration for model clients
type ModelClientConfig struct {
	URL     string
	Timeout time.Duration // zero means no client timeout
}
