package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/shanto268/DishCord/internal/domain"
)

const defaultOllamaURL = "http://localhost:11434"

// Ollama talks to a local Ollama server's generate endpoint
type Ollama struct {
	transport   *transport
	model       string
	temperature float64
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Stream  bool          `json:"stream"`
	Format  string        `json:"format,omitempty"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func NewOllama(cfg Config) *Ollama {
	model := cfg.Model
	if model == "" {
		model = "llama3.2"
	}
	return &Ollama{
		transport:   newTransport(ProviderOllama, defaultOllamaURL, cfg),
		model:       model,
		temperature: cfg.Temperature,
	}
}

// Complete sends one non-streaming generate request
func (o *Ollama) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	body := ollamaRequest{
		Model:   o.model,
		Prompt:  req.Prompt,
		System:  req.System,
		Options: ollamaOptions{Temperature: o.temperature},
	}
	if req.JSON {
		body.Format = "json"
	}

	var resp ollamaResponse
	if err := o.transport.post(ctx, "/api/generate", body, &resp); err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Response)
	if text == "" {
		return "", fmt.Errorf("%w: empty response from ollama", domain.ErrInterpreterMalformed)
	}
	o.transport.logger.Debug("ollama completion", zap.String("model", resp.Model), zap.Int("chars", len(text)))
	return text, nil
}
