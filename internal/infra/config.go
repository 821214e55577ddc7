package infra

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application settings. Loaded from YAML, then
// sensitive or deployment-specific values may be overridden through
// environment variables.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Feed struct {
		WSURL             string `yaml:"ws_url"`
		Symbol            string `yaml:"symbol"`
		HandshakeTimeoutS int    `yaml:"handshake_timeout_sec"`
	} `yaml:"feed"`

	Chart struct {
		CandleIntervalSec int64  `yaml:"candle_interval_sec"`
		Depth             int    `yaml:"depth"`
		SessionOpen       string `yaml:"session_open"` // "09:30" local time
		InboxSize         int    `yaml:"inbox_size"`
	} `yaml:"chart"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Feed.WSURL == "" || (!hasPrefix(c.Feed.WSURL, "ws://") && !hasPrefix(c.Feed.WSURL, "wss://")) {
		return fmt.Errorf("invalid feed WS URL: %s", c.Feed.WSURL)
	}
	if c.Feed.Symbol == "" {
		return fmt.Errorf("a feed symbol is required")
	}

	if c.Chart.CandleIntervalSec <= 0 {
		return fmt.Errorf("candle interval must be positive")
	}
	if c.Chart.Depth <= 0 {
		return fmt.Errorf("depth must be positive")
	}
	if c.Chart.SessionOpen != "" {
		if _, err := time.Parse("15:04", c.Chart.SessionOpen); err != nil {
			return fmt.Errorf("invalid session open time %q: %w", c.Chart.SessionOpen, err)
		}
	}
	if c.Chart.InboxSize <= 0 {
		c.Chart.InboxSize = 1024
	}

	return nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[0:len(prefix)] == prefix
}

// overrideWithEnv replaces config values when environment variables are present.
func overrideWithEnv(cfg *Config) {
	if url := os.Getenv("CHARTFEED_WS_URL"); url != "" {
		cfg.Feed.WSURL = url
	}
	if sym := os.Getenv("CHARTFEED_SYMBOL"); sym != "" {
		cfg.Feed.Symbol = sym
	}
	if lvl := os.Getenv("CHARTFEED_LOG_LEVEL"); lvl != "" {
		cfg.Logging.Level = lvl
	}
}
