package openaisdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/yungbote/vamshavali-backend/internal/config"
	"github.com/yungbote/vamshavali-backend/internal/phrasing/engine"
)

type Engine struct {
	client *openai.Client
}

func New(cfg config.EngineConfig) (*Engine, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai: api_key required")
	}
	oc := openai.DefaultConfig(apiKey)
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		oc.BaseURL = base
	}
	timeout := cfg.Timeout.Duration
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	oc.HTTPClient = &http.Client{Timeout: timeout}
	return &Engine{client: openai.NewClientWithConfig(oc)}, nil
}

func (e *Engine) Name() string { return "openai" }

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: float32(opts.Temperature),
		MaxTokens:   opts.MaxTokens,
	}
	for _, m := range messages {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: roleOf(m.Role), Content: m.Content})
	}
	if len(req.Messages) == 0 {
		return "", errors.New("no messages")
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: no completion choices returned")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("openai: empty completion")
	}
	return text, nil
}

func roleOf(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "system":
		return openai.ChatMessageRoleSystem
	case "assistant":
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}

// StatusError carries the upstream status so retry classification works
// across SDK error types.
type StatusError struct {
	Status int
	Err    error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openai: status=%d: %v", e.Status, e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }

func (e *StatusError) HTTPStatusCode() int { return e.Status }

func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return &StatusError{Status: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return &StatusError{Status: reqErr.HTTPStatusCode, Err: err}
	}
	return err
}
