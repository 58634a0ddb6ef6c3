// Package oaihttp speaks the OpenAI chat completions wire format over plain
// HTTP, for self-hosted gateways (vLLM, llama.cpp, Ollama) that no SDK covers.
package oaihttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/vamshavali-backend/internal/config"
	"github.com/yungbote/vamshavali-backend/internal/phrasing/engine"
)

const (
	defaultChatPath = "/v1/chat/completions"
	maxErrorBody    = 4 << 10
)

// HTTPError is a non-2xx upstream reply. It satisfies httpx.HTTPStatusCoder
// so the augmenter can decide whether to retry.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("oai_http: upstream status %d", e.StatusCode)
	}
	return fmt.Sprintf("oai_http: upstream status %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPError) HTTPStatusCode() int { return e.StatusCode }

type Engine struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
	hc       *http.Client
}

func New(cfg config.EngineConfig) (*Engine, error) {
	return NewWithHTTPClient(cfg, nil)
}

// NewWithHTTPClient swaps the transport, mainly so tests can run offline.
func NewWithHTTPClient(cfg config.EngineConfig, hc *http.Client) (*Engine, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("oai_http: base_url required")
	}
	path := strings.TrimSpace(cfg.ChatCompletionsPath)
	if path == "" {
		path = defaultChatPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	timeout := cfg.Timeout.Duration
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if hc == nil {
		hc = &http.Client{Transport: pooledTransport()}
	}
	return &Engine{
		endpoint: base + path,
		apiKey:   strings.TrimSpace(cfg.APIKey),
		timeout:  timeout,
		hc:       hc,
	}, nil
}

func pooledTransport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        16,
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
}

func (e *Engine) Name() string { return "oai_http" }

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		// legacy completions shape, still returned by some gateways
		Text string `json:"text"`
	} `json:"choices"`
}

func (r chatCompletionResponse) firstText() string {
	for _, c := range r.Choices {
		if s := strings.TrimSpace(c.Message.Content); s != "" {
			return s
		}
		if s := strings.TrimSpace(c.Text); s != "" {
			return s
		}
	}
	return ""
}

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	req := chatCompletionRequest{
		Model:       model,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
	for _, m := range messages {
		role, content := strings.TrimSpace(m.Role), strings.TrimSpace(m.Content)
		if role != "" && content != "" {
			req.Messages = append(req.Messages, wireMessage{Role: role, Content: content})
		}
	}
	if len(req.Messages) == 0 {
		return "", errors.New("oai_http: no messages")
	}

	var resp chatCompletionResponse
	if err := e.post(ctx, req, &resp); err != nil {
		return "", err
	}
	text := resp.firstText()
	if text == "" {
		return "", errors.New("oai_http: empty completion")
	}
	return text, nil
}

func (e *Engine) post(ctx context.Context, in any, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("oai_http: encode: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("oai_http: decode: %w", err)
	}
	return nil
}
