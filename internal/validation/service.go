package validation

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"factgate/internal/model"
)

// Completer is the transport boundary to the external validation service.
// Implementations send one prompt pair and return the raw response content.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ChatService talks to an OpenAI-compatible chat completions endpoint.
// The default endpoint is Perplexity, selected via BaseURL.
type ChatService struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

// NewChatService creates a chat completions client from configuration
func NewChatService(cfg model.ValidationConfig) (*ChatService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("validation API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &ChatService{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}, nil
}

// Complete sends one validation request. No retries here: retry policy, if
// any, belongs to the caller's transport configuration, not this layer.
func (s *ChatService) Complete(ctx context.Context, system, user string) (string, error) {
	timeout := s.timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctxWithTimeout, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: s.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("validation API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from validation service")
	}

	return resp.Choices[0].Message.Content, nil
}
