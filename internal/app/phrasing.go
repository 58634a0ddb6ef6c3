package app

import (
	"fmt"

	"github.com/yungbote/vamshavali-backend/internal/config"
	"github.com/yungbote/vamshavali-backend/internal/kinship"
	"github.com/yungbote/vamshavali-backend/internal/phrasing"
	"github.com/yungbote/vamshavali-backend/internal/phrasing/router"
	"github.com/yungbote/vamshavali-backend/internal/platform/logger"
)

// wirePhrasing returns nil when no engine is configured; Resolve then always
// answers with the deterministic term.
func wirePhrasing(cfg config.PhrasingConfig, log *logger.Logger) (kinship.Augmenter, error) {
	eng, err := router.New(cfg.Engine)
	if err != nil {
		return nil, fmt.Errorf("init phrasing engine: %w", err)
	}
	if eng == nil {
		log.Info("phrasing disabled")
		return nil, nil
	}
	aug, err := phrasing.New(eng, phrasing.Options{
		Model:         cfg.Model,
		Temperature:   cfg.Temperature,
		Timeout:       cfg.Timeout.Duration,
		RetryBackoff:  cfg.RetryBackoff.Duration,
		RatePerSecond: cfg.RatePerSecond,
		Burst:         cfg.Burst,
	}, log)
	if err != nil {
		return nil, err
	}
	log.Info("phrasing enabled", "engine", eng.Name(), "model", cfg.Model)
	return aug, nil
}
