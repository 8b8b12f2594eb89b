package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/shanto268/DishCord/internal/domain"
)

const defaultOpenRouterURL = "https://openrouter.ai/api/v1"

// OpenRouter talks to an OpenAI-compatible chat completions API
type OpenRouter struct {
	transport   *transport
	model       string
	temperature float64
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewOpenRouter(cfg Config) *OpenRouter {
	model := cfg.Model
	if model == "" {
		model = "openai/gpt-4o-mini"
	}
	t := newTransport(ProviderOpenRouter, defaultOpenRouterURL, cfg)
	t.http.
		SetHeader("Authorization", "Bearer "+cfg.APIKey).
		SetHeader("HTTP-Referer", "https://github.com/shanto268/DishCord").
		SetHeader("X-Title", "DishCord")

	return &OpenRouter{transport: t, model: model, temperature: cfg.Temperature}
}

// Complete sends a system and user message pair and returns the first choice
func (o *OpenRouter) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	body := chatRequest{
		Model:       o.model,
		Temperature: o.temperature,
	}
	if req.System != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: req.System})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: req.Prompt})
	if req.JSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	var resp chatResponse
	if err := o.transport.post(ctx, "/chat/completions", body, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in openrouter response", domain.ErrInterpreterMalformed)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty openrouter completion", domain.ErrInterpreterMalformed)
	}
	return text, nil
}
