package router

import (
	"fmt"
	"strings"

	"github.com/yungbote/vamshavali-backend/internal/config"
	"github.com/yungbote/vamshavali-backend/internal/phrasing/engine"
	"github.com/yungbote/vamshavali-backend/internal/phrasing/engine/mock"
	"github.com/yungbote/vamshavali-backend/internal/phrasing/engine/oaihttp"
	"github.com/yungbote/vamshavali-backend/internal/phrasing/engine/openaisdk"
	"github.com/yungbote/vamshavali-backend/internal/phrasing/engine/openrouter"
)

// New builds the engine named by cfg.Type. "none" yields a nil engine and no error.
func New(cfg config.EngineConfig) (engine.Engine, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "", "none":
		return nil, nil
	case "mock":
		return mock.New(), nil
	case "openai_http", "oai_http":
		c, err := oaihttp.New(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "openai":
		c, err := openaisdk.New(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "openrouter":
		c, err := openrouter.New(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported phrasing engine type %q", cfg.Type)
	}
}
