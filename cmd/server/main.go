package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sleepstars/chatrelay/internal/config"
	"github.com/sleepstars/chatrelay/internal/logger"
	"github.com/sleepstars/chatrelay/internal/relay"
	"github.com/sleepstars/chatrelay/internal/server"
)

func main() {
	configPath := flag.String("config", "", "Path to an optional YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(config.ServerProfile, *configPath)
	if err != nil {
		logger.GetLogger().Fatal("load config: %v", err)
	}

	logger.InitLogger(logger.ParseLevel(cfg.LogLevel), "server")
	log := logger.GetLogger()

	if !cfg.HasAPIKey() {
		log.Warn("OPENAI_API_KEY missing or empty. Check your .env; /api/chat will answer 500.")
	}

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	rl := relay.NewFromConfig(cfg, log)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.NewRouter(cfg, rl, log),
	}

	go func() {
		log.Info("Server running on port %s, upstream %s", cfg.Port, cfg.UpstreamURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown: %v", err)
	}
}
