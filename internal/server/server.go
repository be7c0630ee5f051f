package server

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sleepstars/chatrelay/internal/config"
	"github.com/sleepstars/chatrelay/internal/logger"
	"github.com/sleepstars/chatrelay/internal/relay"
)

const requestIDKey = "request_id"

// NewRouter builds the gin engine for the long-running server shell. The
// caller picks the gin mode.
func NewRouter(cfg *config.Config, rl *relay.Relay, log *logger.Logger) *gin.Engine {
	log = log.WithComponent("http")
	origins := serverOrigins(cfg.AllowedOrigins)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(AccessLog(log))

	// Browser-facing routes go through gin-contrib/cors. The chat preflight
	// is answered on its own so it gets 204 and the CORS headers whatever
	// the Origin.
	withCORS := cors.New(corsConfig(origins))

	r.GET("/health", withCORS, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	chat := chatHandler(rl)
	r.POST("/api/chat", withCORS, chat)
	r.OPTIONS("/api/chat", preflight(relay.CORS{Origins: origins}), chat)

	return r
}

func serverOrigins(origins []string) []string {
	if len(origins) == 0 {
		return config.DefaultServerOrigins
	}
	return origins
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Content-Type", "Authorization"},
		ExposeHeaders: []string{relay.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = serverOrigins(origins)
	return cfg
}

// preflight writes the static CORS headers before the relay answers 204.
func preflight(policy relay.CORS) gin.HandlerFunc {
	return func(c *gin.Context) {
		policy.Apply(c.Writer.Header(), c.GetHeader("Origin"))
		c.Header("Access-Control-Max-Age", "43200")
		c.Next()
	}
}

func chatHandler(rl *relay.Relay) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := relay.Request{
			Method:    c.Request.Method,
			RequestID: c.GetString(requestIDKey),
		}
		if c.Request.Method == http.MethodPost {
			req.Body, req.ReadErr = io.ReadAll(c.Request.Body)
		}

		resp := rl.Handle(c.Request.Context(), req)
		if len(resp.Body) == 0 {
			c.Status(resp.StatusCode)
			return
		}
		c.Data(resp.StatusCode, resp.ContentType, resp.Body)
	}
}

// RequestID reuses the caller's X-Request-Id or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(relay.RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Header(relay.RequestIDHeader, rid)
		c.Next()
	}
}

// AccessLog writes one line per request.
func AccessLog(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("%s %s %d %s rid=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), c.GetString(requestIDKey))
	}
}
