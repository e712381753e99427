package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/pcrishikesh/ai-chatbot-backend/internal/config"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/logger"
)

const openRouterURL = "https://openrouter.ai/api/v1/chat/completions"

// OpenRouterGateway implements Gateway using direct OpenRouter API calls.
type OpenRouterGateway struct {
	config  config.LLMConfig
	client  *http.Client
	baseURL string
}

// NewOpenRouterGateway creates a gateway with its sampling configuration
// fixed from the app config. The HTTP client timeout bounds every call.
func NewOpenRouterGateway(llmConfig config.LLMConfig) *OpenRouterGateway {
	return &OpenRouterGateway{
		config:  llmConfig,
		client:  &http.Client{Timeout: llmConfig.Timeout},
		baseURL: openRouterURL,
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Stream      bool      `json:"stream"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p"`
	TopK        int       `json:"top_k"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Generate requests one assistant reply for prompt given the recent history.
// Every failure is mapped to a Result with a reason; nothing escapes as an
// error.
func (g *OpenRouterGateway) Generate(ctx context.Context, prompt string, history []Message) Result {
	if g.config.APIKey == "" {
		logger.Log.Warn("OpenRouter API key not configured")
		return failure(ReasonUnauthenticated)
	}

	messages := append(append([]Message{}, history...), Message{Role: "user", Content: prompt})

	reqBody := chatRequest{
		Model:       g.config.Model,
		Messages:    messages,
		Stream:      false,
		Temperature: g.config.Temperature,
		TopP:        g.config.TopP,
		TopK:        g.config.TopK,
		MaxTokens:   g.config.MaxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		logger.Log.WithError(err).Error("Error marshaling generation request")
		return failure(ReasonTransportError)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		logger.Log.WithError(err).Error("Error creating generation request")
		return failure(ReasonTransportError)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.config.APIKey)

	logger.Log.WithFields(logrus.Fields{
		"model":         g.config.Model,
		"message_count": len(messages),
	}).Info("Calling OpenRouter API")

	resp, err := g.client.Do(req)
	if err != nil {
		logger.Log.WithError(err).Warn("OpenRouter request failed")
		return failure(ReasonTransportError)
	}
	defer resp.Body.Close()

	if reason, ok := reasonForStatus(resp.StatusCode); ok {
		body, _ := io.ReadAll(resp.Body)
		logger.Log.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"body_length": len(body),
		}).Warn("OpenRouter returned non-OK status")
		return failure(reason)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Log.WithError(err).Warn("Error reading OpenRouter response body")
		return failure(ReasonTransportError)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		logger.Log.WithError(err).Warn("Error decoding OpenRouter response")
		return failure(ReasonMalformedResponse)
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		logger.Log.Warn("OpenRouter response contained no choices")
		return failure(ReasonMalformedResponse)
	}

	content := chatResp.Choices[0].Message.Content
	logger.Log.WithField("content_length", len(content)).Debug("Extracted content from response")

	return Result{Success: true, Content: content}
}

func reasonForStatus(status int) (ErrorReason, bool) {
	switch {
	case status == http.StatusOK:
		return "", false
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ReasonUnauthenticated, true
	case status == http.StatusTooManyRequests:
		return ReasonRateLimited, true
	case status >= 500:
		return ReasonUpstreamUnavailable, true
	default:
		return ReasonUpstreamUnavailable, true
	}
}
