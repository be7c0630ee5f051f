// Package handler is the serverless entry point: the platform invokes
// Handler once per request, reusing the process across warm starts.
package handler

import (
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/sleepstars/chatrelay/internal/config"
	"github.com/sleepstars/chatrelay/internal/logger"
	"github.com/sleepstars/chatrelay/internal/relay"
)

var (
	initOnce sync.Once
	chat     http.Handler
)

func setup() {
	cfg, err := config.Load(config.FunctionProfile, "")
	if err != nil {
		// Bad optional settings fall back to profile defaults with the
		// credential still read from the environment.
		logger.GetLogger().WithComponent("function").WithError(err).Error("load config")
		cfg = config.Defaults(config.FunctionProfile)
		cfg.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	logger.InitLogger(logger.ParseLevel(cfg.LogLevel), "function")
	chat = newHandler(cfg, relay.NewFromConfig(cfg, logger.GetLogger()))
}

func newHandler(cfg *config.Config, rl *relay.Relay) http.Handler {
	return relay.NewHTTPHandler(rl, relay.CORS{Origins: cfg.AllowedOrigins})
}

// Handler serves the chat relay route.
func Handler(w http.ResponseWriter, r *http.Request) {
	initOnce.Do(setup)
	chat.ServeHTTP(w, r)
}
