package logger

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yungbote/vamshavali-backend/internal/platform/ctxutil"
	"github.com/yungbote/vamshavali-backend/internal/platform/envutil"
)

type Logger struct {
	SugaredLogger *zap.SugaredLogger
	scrub         *scrubber
}

// New builds a zap logger. "prod"/"production" selects JSON output at info
// level, anything else the development console encoder at debug level.
// LOG_LEVEL overrides the level in both modes.
func New(mode string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	if raw := envutil.String("LOG_LEVEL", ""); raw != "" {
		lvl, err := zapcore.ParseLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("LOG_LEVEL: %w", err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: z.Sugar(), scrub: scrubberFromEnv()}, nil
}

// NewNop discards everything; used by tests and the CLI's quiet mode.
func NewNop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar(), scrub: &scrubber{}}
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

func (l *Logger) Debug(msg string, kv ...any) { l.SugaredLogger.Debugw(msg, l.fields(kv)...) }
func (l *Logger) Info(msg string, kv ...any)  { l.SugaredLogger.Infow(msg, l.fields(kv)...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.SugaredLogger.Warnw(msg, l.fields(kv)...) }
func (l *Logger) Error(msg string, kv ...any) { l.SugaredLogger.Errorw(msg, l.fields(kv)...) }
func (l *Logger) Fatal(msg string, kv ...any) { l.SugaredLogger.Fatalw(msg, l.fields(kv)...) }

func (l *Logger) With(kv ...any) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(l.fields(kv)...), scrub: l.scrub}
}

// For tags the logger with the request and trace ids carried by ctx.
func (l *Logger) For(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	td, ok := ctxutil.TraceFrom(ctx)
	if !ok {
		return l
	}
	kv := make([]any, 0, 4)
	if td.RequestID != "" {
		kv = append(kv, "request_id", td.RequestID)
	}
	if td.TraceID != "" && td.TraceID != td.RequestID {
		kv = append(kv, "trace_id", td.TraceID)
	}
	if len(kv) == 0 {
		return l
	}
	return l.With(kv...)
}

func (l *Logger) fields(kv []any) []any {
	if l.scrub == nil {
		return kv
	}
	return l.scrub.apply(kv)
}
