package config

import "time"

type Duration struct {
	Duration time.Duration
}

type HTTPConfig struct {
	Addr              string   `yaml:"addr"`
	ReadHeaderTimeout Duration `yaml:"read_header_timeout"`
	IdleTimeout       Duration `yaml:"idle_timeout"`
	ShutdownTimeout   Duration `yaml:"shutdown_timeout"`
	MaxRequestBytes   int64    `yaml:"max_request_bytes"`

	// CORSOrigins lists browser origins allowed to call /api. Empty disables CORS headers.
	CORSOrigins []string `yaml:"cors_origins"`
}

type SQLConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver      string `yaml:"driver"`
	DSN         string `yaml:"dsn"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

type StoreConfig struct {
	// Kind selects the relation store: "file", "sql" or "neo4j".
	Kind string `yaml:"kind"`

	// FamilyFile is the YAML or JSON family document read by the "file" store.
	FamilyFile string `yaml:"family_file"`
	// Watch reloads the snapshot when FamilyFile changes on disk.
	Watch         bool     `yaml:"watch"`
	WatchDebounce Duration `yaml:"watch_debounce"`

	SQL SQLConfig `yaml:"sql"`
}

type RefreshConfig struct {
	// Interval polls the store for a new revision. Zero disables polling.
	Interval Duration `yaml:"interval"`
	// Timeout bounds one store read plus rebuild.
	Timeout Duration `yaml:"timeout"`
}

type EngineConfig struct {
	// Type is "none", "mock", "oai_http", "openai" or "openrouter".
	Type string `yaml:"type"`

	BaseURL string `yaml:"base_url,omitempty"`
	APIKey  string `yaml:"api_key,omitempty"`

	// ChatCompletionsPath is used by "oai_http" engines.
	ChatCompletionsPath string `yaml:"chat_completions_path,omitempty"`

	Timeout Duration `yaml:"timeout,omitempty"`
}

type PhrasingConfig struct {
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`

	// Timeout bounds one augmenter call including its retry.
	Timeout Duration `yaml:"timeout"`
	// RetryBackoff is the pause before the single retry.
	RetryBackoff Duration `yaml:"retry_backoff"`

	// RatePerSecond caps upstream calls; zero means unlimited.
	RatePerSecond float64 `yaml:"rate_per_second"`
	Burst         int     `yaml:"burst"`

	Engine EngineConfig `yaml:"engine"`
}

type Config struct {
	Env      string         `yaml:"env"`
	Service  string         `yaml:"service"`
	HTTP     HTTPConfig     `yaml:"http"`
	Store    StoreConfig    `yaml:"store"`
	Refresh  RefreshConfig  `yaml:"refresh"`
	Phrasing PhrasingConfig `yaml:"phrasing"`
}

func (c *Config) PhrasingEnabled() bool {
	return c != nil && c.Phrasing.Engine.Type != "" && c.Phrasing.Engine.Type != "none"
}
