package phrasing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"

	"github.com/yungbote/vamshavali-backend/internal/kinship"
	"github.com/yungbote/vamshavali-backend/internal/phrasing/engine"
	"github.com/yungbote/vamshavali-backend/internal/pkg/httpx"
	"github.com/yungbote/vamshavali-backend/internal/platform/logger"
)

var tracer = otel.Tracer("github.com/yungbote/vamshavali-backend/internal/phrasing")

var errEmptyReply = errors.New("empty reply")

type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int

	// Timeout bounds the whole call, both attempts included.
	Timeout      time.Duration
	RetryBackoff time.Duration

	// RatePerSecond <= 0 disables rate limiting.
	RatePerSecond float64
	Burst         int
}

// Augmenter implements kinship.Augmenter on top of a text engine.
type Augmenter struct {
	eng     engine.Engine
	opts    Options
	limiter *rate.Limiter
	log     *logger.Logger
}

func New(eng engine.Engine, opts Options, baseLog *logger.Logger) (*Augmenter, error) {
	if eng == nil {
		return nil, errors.New("phrasing: engine required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 8 * time.Second
	}
	if opts.RetryBackoff < 0 {
		opts.RetryBackoff = 0
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 64
	}
	if baseLog == nil {
		baseLog = logger.NewNop()
	}
	a := &Augmenter{
		eng:  eng,
		opts: opts,
		log:  baseLog.With("component", "PhrasingAugmenter", "engine", eng.Name()),
	}
	if opts.RatePerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		a.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}
	return a, nil
}

func (a *Augmenter) Phrase(ctx context.Context, req kinship.PhraseRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "phrasing.Phrase")
	defer span.End()
	span.SetAttributes(
		attribute.String("phrasing.engine", a.eng.Name()),
		attribute.Int("kinship.path_len", len(req.Types)),
	)

	ctx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
	defer cancel()

	text, err := a.generate(ctx, BuildMessages(req))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "phrasing unavailable")
		return "", fmt.Errorf("%w: %w", kinship.ErrAugmenterUnavailable, err)
	}
	return text, nil
}

// generate makes at most two attempts; the second only after a retryable
// failure and a jittered pause.
func (a *Augmenter) generate(ctx context.Context, messages []engine.Message) (string, error) {
	gen := engine.GenerateOptions{Temperature: a.opts.Temperature, MaxTokens: a.opts.MaxTokens}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			if !retryable(lastErr) || ctx.Err() != nil {
				break
			}
			a.log.Debug("retrying phrasing call", "error", lastErr)
			if err := sleepCtx(ctx, httpx.JitterSleep(a.opts.RetryBackoff)); err != nil {
				break
			}
		}
		if a.limiter != nil {
			if err := a.limiter.Wait(ctx); err != nil {
				return "", fmt.Errorf("rate limit: %w", err)
			}
		}

		text, err := a.eng.GenerateText(ctx, a.opts.Model, messages, gen)
		if err == nil {
			if text = cleanReply(text); text != "" {
				return text, nil
			}
			err = errEmptyReply
		}
		lastErr = err
	}
	if ctx.Err() != nil && !errors.Is(lastErr, ctx.Err()) {
		return "", fmt.Errorf("%w (%w)", lastErr, ctx.Err())
	}
	return "", lastErr
}

func retryable(err error) bool {
	if errors.Is(err, errEmptyReply) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return httpx.IsRetryableError(err)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
