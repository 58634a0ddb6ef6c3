package mock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/yungbote/vamshavali-backend/internal/phrasing/engine"
)

// Engine answers without network access. The reply is a stable function of
// model and messages unless Reply is set.
type Engine struct {
	Reply string
	Err   error
}

func New() *Engine {
	return &Engine{}
}

func (e *Engine) Name() string { return "mock" }

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	_ = opts
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if e.Err != nil {
		return "", e.Err
	}
	if e.Reply != "" {
		return e.Reply, nil
	}

	h := sha256.New()
	h.Write([]byte(model))
	for _, m := range messages {
		h.Write([]byte("\n" + strings.ToLower(m.Role) + ":" + m.Content))
	}
	return "mock (" + hex.EncodeToString(h.Sum(nil))[:8] + ")", nil
}
