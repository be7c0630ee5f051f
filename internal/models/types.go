package models

import "encoding/json"

// ChatRequest is the inbound relay payload and, once defaulted, the outbound
// one. Messages are forwarded as the caller sent them.
type ChatRequest struct {
	Model       string          `json:"model"`
	Messages    json.RawMessage `json:"messages"`
	Temperature *float32        `json:"temperature,omitempty"`
	MaxTokens   *int            `json:"max_tokens,omitempty"`
	RequestID   string          `json:"-"`
}

// ApplyDefaults fills sampling parameters the caller left out.
func (r *ChatRequest) ApplyDefaults(temperature float32, maxTokens int) {
	if r.Temperature == nil {
		r.Temperature = &temperature
	}
	if r.MaxTokens == nil {
		r.MaxTokens = &maxTokens
	}
}

// UpstreamResponse is the model API reply, kept as raw bytes.
type UpstreamResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// OK reports whether the upstream status is 2xx.
func (r *UpstreamResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ErrorResponse is the body of every relay-generated failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
