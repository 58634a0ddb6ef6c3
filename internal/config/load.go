package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const configPathEnv = "VAMSHAVALI_CONFIG_PATH"

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar, got kind %d", node.Kind)
	}
	s := strings.TrimSpace(node.Value)
	if s == "" || s == "null" || s == "~" {
		d.Duration = 0
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		d.Duration = time.Duration(n)
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration must be a string like \"5s\" or an int nanoseconds: %w", err)
	}
	d.Duration = dd
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

func defaultConfig() *Config {
	return &Config{
		Env:     "development",
		Service: "vamshavali",
		HTTP: HTTPConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: Duration{Duration: 5 * time.Second},
			IdleTimeout:       Duration{Duration: 2 * time.Minute},
			ShutdownTimeout:   Duration{Duration: 15 * time.Second},
			MaxRequestBytes:   1 << 20,
		},
		Store: StoreConfig{
			Kind:          "file",
			FamilyFile:    "config/family.yaml",
			Watch:         true,
			WatchDebounce: Duration{Duration: 250 * time.Millisecond},
			SQL: SQLConfig{
				Driver:      "sqlite",
				DSN:         "vamshavali.db",
				AutoMigrate: true,
			},
		},
		Refresh: RefreshConfig{
			Interval: Duration{Duration: 0},
			Timeout:  Duration{Duration: 30 * time.Second},
		},
		Phrasing: PhrasingConfig{
			Timeout:       Duration{Duration: 8 * time.Second},
			RetryBackoff:  Duration{Duration: 300 * time.Millisecond},
			RatePerSecond: 2,
			Burst:         4,
			Engine:        EngineConfig{Type: "none"},
		},
	}
}

// Load reads VAMSHAVALI_CONFIG_PATH (or ./config/config.yaml when present),
// applies environment overrides and validates the result.
func Load() (*Config, error) {
	cfg := defaultConfig()

	cfgPath := strings.TrimSpace(os.Getenv(configPathEnv))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "config.yaml")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}

	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", cfgPath, err)
		}
	}

	applyEnv(cfg)

	if err := normalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := env("LOG_MODE"); v != "" {
		cfg.Env = v
	}
	if v := env("VAMSHAVALI_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := env("VAMSHAVALI_CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORSOrigins = splitList(v)
	}
	if v := env("VAMSHAVALI_STORE"); v != "" {
		cfg.Store.Kind = v
	}
	if v := env("VAMSHAVALI_FAMILY_FILE"); v != "" {
		cfg.Store.FamilyFile = v
	}
	if v := env("VAMSHAVALI_WATCH"); v != "" {
		cfg.Store.Watch = parseBool(v)
	}
	if v := env("DB_DRIVER"); v != "" {
		cfg.Store.SQL.Driver = v
	}
	if v := env("DB_DSN"); v != "" {
		cfg.Store.SQL.DSN = v
	}
	if v := env("VAMSHAVALI_REFRESH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Refresh.Interval = Duration{Duration: d}
		}
	}
	if v := env("PHRASING_ENGINE"); v != "" {
		cfg.Phrasing.Engine.Type = v
	}
	if v := env("PHRASING_MODEL"); v != "" {
		cfg.Phrasing.Model = v
	}
	if v := env("PHRASING_BASE_URL"); v != "" {
		cfg.Phrasing.Engine.BaseURL = v
	}
	if v := env("PHRASING_API_KEY"); v != "" {
		cfg.Phrasing.Engine.APIKey = v
	}
}

func normalize(cfg *Config) error {
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if strings.TrimSpace(cfg.Service) == "" {
		cfg.Service = "vamshavali"
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.MaxRequestBytes <= 0 {
		cfg.HTTP.MaxRequestBytes = 1 << 20
	}
	if cfg.HTTP.ShutdownTimeout.Duration <= 0 {
		cfg.HTTP.ShutdownTimeout = Duration{Duration: 15 * time.Second}
	}

	cfg.Store.Kind = strings.ToLower(strings.TrimSpace(cfg.Store.Kind))
	switch cfg.Store.Kind {
	case "file":
		if strings.TrimSpace(cfg.Store.FamilyFile) == "" {
			return errors.New("store.family_file is required for the file store")
		}
	case "sql":
		cfg.Store.SQL.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.SQL.Driver))
		switch cfg.Store.SQL.Driver {
		case "sqlite", "postgres":
		default:
			return fmt.Errorf("invalid store.sql.driver=%q", cfg.Store.SQL.Driver)
		}
		if strings.TrimSpace(cfg.Store.SQL.DSN) == "" {
			return errors.New("store.sql.dsn is required for the sql store")
		}
	case "neo4j":
	default:
		return fmt.Errorf("invalid store.kind=%q", cfg.Store.Kind)
	}
	if cfg.Store.WatchDebounce.Duration <= 0 {
		cfg.Store.WatchDebounce = Duration{Duration: 250 * time.Millisecond}
	}
	if cfg.Refresh.Interval.Duration < 0 {
		return errors.New("invalid refresh.interval")
	}
	if cfg.Refresh.Timeout.Duration <= 0 {
		cfg.Refresh.Timeout = Duration{Duration: 30 * time.Second}
	}

	return normalizePhrasing(&cfg.Phrasing)
}

func normalizePhrasing(p *PhrasingConfig) error {
	e := &p.Engine
	e.Type = strings.ToLower(strings.TrimSpace(e.Type))
	e.BaseURL = strings.TrimRight(strings.TrimSpace(e.BaseURL), "/")
	e.ChatCompletionsPath = strings.TrimSpace(e.ChatCompletionsPath)
	p.Model = strings.TrimSpace(p.Model)

	switch e.Type {
	case "", "none":
		e.Type = "none"
		return nil
	case "mock":
	case "openai_http", "oai_http":
		e.Type = "oai_http"
		if e.BaseURL == "" {
			return errors.New("phrasing.engine.base_url is required for oai_http")
		}
		if e.ChatCompletionsPath == "" {
			e.ChatCompletionsPath = "/v1/chat/completions"
		}
	case "openai":
		if e.APIKey == "" {
			e.APIKey = env("OPENAI_API_KEY")
		}
		if e.APIKey == "" {
			return errors.New("phrasing.engine.api_key (or OPENAI_API_KEY) is required for openai")
		}
		if p.Model == "" {
			p.Model = "gpt-4o-mini"
		}
	case "openrouter":
		if e.APIKey == "" {
			e.APIKey = env("OPENROUTER_API_KEY")
		}
		if e.APIKey == "" {
			return errors.New("phrasing.engine.api_key (or OPENROUTER_API_KEY) is required for openrouter")
		}
		if p.Model == "" {
			p.Model = "openai/gpt-4o-mini"
		}
	default:
		return fmt.Errorf("invalid phrasing.engine.type=%q", e.Type)
	}

	if p.Model == "" {
		p.Model = "kinship-phrasing"
	}
	if p.Timeout.Duration <= 0 {
		p.Timeout = Duration{Duration: 8 * time.Second}
	}
	if e.Timeout.Duration <= 0 {
		e.Timeout = p.Timeout
	}
	if p.RetryBackoff.Duration < 0 {
		return errors.New("invalid phrasing.retry_backoff")
	}
	if p.RatePerSecond < 0 {
		return errors.New("invalid phrasing.rate_per_second")
	}
	if p.Burst <= 0 {
		p.Burst = 1
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}
