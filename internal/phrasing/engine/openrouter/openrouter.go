package openrouter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/revrost/go-openrouter"

	"github.com/yungbote/vamshavali-backend/internal/config"
	"github.com/yungbote/vamshavali-backend/internal/phrasing/engine"
)

type Engine struct {
	client *openrouter.Client
}

func New(cfg config.EngineConfig) (*Engine, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openrouter: api_key required")
	}
	oc := openrouter.DefaultConfig(apiKey)
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		oc.BaseURL = base
	}
	timeout := cfg.Timeout.Duration
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	oc.HTTPClient = &http.Client{Timeout: timeout}
	oc.XTitle = "vamshavali"
	return &Engine{client: openrouter.NewClientWithConfig(*oc)}, nil
}

func (e *Engine) Name() string { return "openrouter" }

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	request := openrouter.ChatCompletionRequest{
		Model:       model,
		Temperature: float32(opts.Temperature),
		MaxTokens:   opts.MaxTokens,
	}
	for _, m := range messages {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		request.Messages = append(request.Messages, openrouter.ChatCompletionMessage{
			Role:    roleOf(m.Role),
			Content: openrouter.Content{Text: m.Content},
		})
	}
	if len(request.Messages) == 0 {
		return "", errors.New("no messages")
	}

	response, err := e.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", classify(err)
	}
	if len(response.Choices) == 0 {
		return "", errors.New("openrouter: no completion choices returned")
	}
	text := strings.TrimSpace(response.Choices[0].Message.Content.Text)
	if text == "" {
		return "", errors.New("openrouter: empty completion")
	}
	return text, nil
}

func roleOf(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "system":
		return openrouter.ChatMessageRoleSystem
	case "assistant":
		return openrouter.ChatMessageRoleAssistant
	default:
		return openrouter.ChatMessageRoleUser
	}
}

// StatusError exposes the upstream status to httpx retry classification.
type StatusError struct {
	Status int
	Err    error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openrouter: status=%d: %v", e.Status, e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }

func (e *StatusError) HTTPStatusCode() int { return e.Status }

func classify(err error) error {
	var apiErr *openrouter.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return &StatusError{Status: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openrouter.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return &StatusError{Status: reqErr.HTTPStatusCode, Err: err}
	}
	return err
}
