// Package relay forwards browser chat requests to the model API with the
// server-held credential attached.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sleepstars/chatrelay/internal/clients"
	"github.com/sleepstars/chatrelay/internal/config"
	"github.com/sleepstars/chatrelay/internal/logger"
	"github.com/sleepstars/chatrelay/internal/models"
)

const (
	credentialKey   = "OPENAI_API_KEY"
	jsonContentType = "application/json; charset=utf-8"
)

// Request is the hosting-independent view of an inbound call. CORS headers
// and the request origin stay with the adapters.
type Request struct {
	Method    string
	Body      []byte
	ReadErr   error // set when the adapter could not read the body
	RequestID string
}

// Response is what the adapter writes back. An empty Body means no body.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Relay validates chat requests and forwards them upstream. It holds no
// per-request state and is safe for concurrent use.
type Relay struct {
	apiKey   string
	defaults config.ChatDefaults
	client   clients.ModelClient
	logger   *logger.Logger
}

// New creates a relay from an immutable configuration and an upstream caller.
func New(cfg *config.Config, client clients.ModelClient, log *logger.Logger) *Relay {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Relay{
		apiKey:   strings.TrimSpace(cfg.APIKey),
		defaults: cfg.Defaults,
		client:   client,
		logger:   log.WithComponent("relay"),
	}
}

// NewFromConfig wires the relay to the HTTP upstream client named in cfg.
func NewFromConfig(cfg *config.Config, log *logger.Logger) *Relay {
	client := clients.NewUpstreamClient(clients.ModelClientConfig{
		URL:     cfg.UpstreamURL,
		Timeout: cfg.UpstreamTimeout,
	})
	return New(cfg, client, log)
}

// Handle runs one relay pass. Every failure is turned into a response.
func (r *Relay) Handle(ctx context.Context, req Request) Response {
	switch req.Method {
	case http.MethodOptions:
		return Response{StatusCode: http.StatusNoContent}
	case http.MethodPost:
	default:
		return r.fail(req, &MethodError{Method: req.Method})
	}

	resp, err := r.forward(ctx, req)
	if err != nil {
		return r.fail(req, err)
	}
	return resp
}

func (r *Relay) forward(ctx context.Context, req Request) (Response, error) {
	if r.apiKey == "" {
		return Response{}, &ConfigurationError{Key: credentialKey}
	}

	if req.ReadErr != nil {
		return Response{}, &ValidationError{Message: "Failed to read request body: " + req.ReadErr.Error()}
	}

	chatReq, count, err := parseChatRequest(req.Body)
	if err != nil {
		return Response{}, err
	}
	chatReq.RequestID = req.RequestID
	chatReq.ApplyDefaults(r.defaults.Temperature, r.defaults.MaxTokens)

	r.logger.Debug("request %s: forwarding model=%s messages=%d", req.RequestID, chatReq.Model, count)

	up, err := r.client.Complete(ctx, r.apiKey, chatReq)
	if err != nil {
		return Response{}, &TransportError{Err: err}
	}
	if !json.Valid(up.Body) {
		return Response{}, &TransportError{Err: fmt.Errorf("upstream returned a non-JSON body (status %d)", up.StatusCode)}
	}
	if !up.OK() {
		return Response{}, &UpstreamError{Response: up}
	}

	return Response{
		StatusCode:  http.StatusOK,
		ContentType: contentType(up),
		Body:        up.Body,
	}, nil
}

// parseChatRequest decodes the body and checks that messages is a non-empty
// array. The messages themselves are kept as sent.
func parseChatRequest(body []byte) (*models.ChatRequest, int, error) {
	missing := &ValidationError{Message: "Missing 'model' or 'messages' in request body."}

	var chatReq models.ChatRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &chatReq); err != nil {
			return nil, 0, &ValidationError{Message: "Invalid JSON in request body: " + err.Error()}
		}
	}
	if chatReq.Model == "" || len(chatReq.Messages) == 0 {
		return nil, 0, missing
	}

	var messages []json.RawMessage
	if err := json.Unmarshal(chatReq.Messages, &messages); err != nil {
		return nil, 0, &ValidationError{Message: "Invalid 'messages' in request body: expected an array."}
	}
	if len(messages) == 0 {
		return nil, 0, missing
	}
	return &chatReq, len(messages), nil
}

func (r *Relay) fail(req Request, err error) Response {
	var (
		cfgErr       *ConfigurationError
		upstreamErr  *UpstreamError
		transportErr *TransportError
	)
	switch {
	case errors.As(err, &upstreamErr):
		r.logger.Warn("request %s: upstream returned %d: %s", req.RequestID, upstreamErr.Response.StatusCode, upstreamMessage(upstreamErr.Response))
		return Response{
			StatusCode:  upstreamErr.Response.StatusCode,
			ContentType: contentType(upstreamErr.Response),
			Body:        upstreamErr.Response.Body,
		}
	case errors.As(err, &cfgErr):
		r.logger.Error("request %s: %s Check your environment.", req.RequestID, cfgErr.Error())
	case errors.As(err, &transportErr):
		r.logger.WithError(err).Error("request %s: upstream call failed", req.RequestID)
	default:
		r.logger.Debug("request %s: rejected: %v", req.RequestID, err)
	}

	status := http.StatusInternalServerError
	var sc statusCoder
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}
	body, _ := json.Marshal(models.ErrorResponse{Error: err.Error()})
	return Response{StatusCode: status, ContentType: jsonContentType, Body: body}
}

// upstreamMessage extracts the model API's error message for the log line.
func upstreamMessage(up *models.UpstreamResponse) string {
	var errResp openai.ErrorResponse
	if err := json.Unmarshal(up.Body, &errResp); err == nil && errResp.Error != nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	const max = 512
	if len(up.Body) > max {
		return string(up.Body[:max]) + "..."
	}
	return string(up.Body)
}

func contentType(up *models.UpstreamResponse) string {
	if up.ContentType != "" {
		return up.ContentType
	}
	return jsonContentType
}
