package main

import (
	"flag"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
)

// A stand-in for the chat completions API, for running the relay locally
// without a real credential. Model names select failure modes:
//
//	model-not-found   404 model_not_found
//	rate-limited      429 rate_limit_exceeded
//	server-error      500 server_error
func main() {
	port := flag.String("port", "8001", "Port to run the server on")
	flag.Parse()

	r := gin.Default()

	r.POST("/v1/chat/completions", func(c *gin.Context) {
		if !strings.HasPrefix(c.GetHeader("Authorization"), "Bearer ") {
			apiError(c, http.StatusUnauthorized, "You didn't provide an API key.", "invalid_request_error", "missing_api_key")
			return
		}

		var req openai.ChatCompletionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apiError(c, http.StatusBadRequest, err.Error(), "invalid_request_error", "")
			return
		}

		switch req.Model {
		case "model-not-found":
			apiError(c, http.StatusNotFound, "The model '"+req.Model+"' does not exist", "invalid_request_error", "model_not_found")
			return
		case "rate-limited":
			apiError(c, http.StatusTooManyRequests, "Rate limit reached for requests", "requests", "rate_limit_exceeded")
			return
		case "server-error":
			apiError(c, http.StatusInternalServerError, "The server had an error while processing your request.", "server_error", "")
			return
		}

		var last string
		if n := len(req.Messages); n > 0 {
			last = req.Messages[n-1].Content
		}

		resp := openai.ChatCompletionResponse{
			ID:      "chatcmpl-mock",
			Object:  "chat.completion",
			Created: time.Now().Unix(),
			Model:   req.Model,
			Choices: []openai.ChatCompletionChoice{
				{
					Message: openai.ChatCompletionMessage{
						Role:    openai.ChatMessageRoleAssistant,
						Content: "mock reply to: " + last,
					},
					FinishReason: openai.FinishReasonStop,
				},
			},
		}

		c.JSON(http.StatusOK, resp)
	})

	if err := r.Run(":" + *port); err != nil {
		log.Fatal(err)
	}
}

func apiError(c *gin.Context, status int, message, errType, code string) {
	apiErr := &openai.APIError{Message: message, Type: errType}
	if code != "" {
		apiErr.Code = code
	}
	c.JSON(status, openai.ErrorResponse{Error: apiErr})
}
