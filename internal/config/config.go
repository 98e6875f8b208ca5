package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Collector CollectorConfig `yaml:"collector"`
	Session   SessionConfig   `yaml:"session"`
	Debug     DebugConfig     `yaml:"debug"`
	Sim       SimConfig       `yaml:"sim"`
}

type CollectorConfig struct {
	URL         string        `yaml:"url"`
	SendBuffer  int           `yaml:"send_buffer"`
	Heartbeat   time.Duration `yaml:"heartbeat"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

type SessionConfig struct {
	TargetID                  string            `yaml:"target_id"`
	Metadata                  map[string]string `yaml:"metadata"`
	DerivePlayingFromProgress bool              `yaml:"derive_playing_from_progress"`
}

type DebugConfig struct {
	Addr string `yaml:"addr"`
}

type SimConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	Scenario     string        `yaml:"scenario"`
}

func Default() *Config {
	return &Config{
		Collector: CollectorConfig{
			URL:         "ws://127.0.0.1:9120/ingest",
			SendBuffer:  256,
			Heartbeat:   10 * time.Second,
			DialTimeout: 5 * time.Second,
		},
		Session: SessionConfig{
			TargetID: "player0",
		},
		Debug: DebugConfig{
			Addr: "127.0.0.1:8080",
		},
		Sim: SimConfig{
			TickInterval: 250 * time.Millisecond,
			Scenario:     "full",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides the fields that commonly differ per deployment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("SHIM_COLLECTOR_URL"); v != "" {
		c.Collector.URL = v
	}
	if v := os.Getenv("SHIM_TARGET_ID"); v != "" {
		c.Session.TargetID = v
	}
	if v := os.Getenv("SHIM_DEBUG_ADDR"); v != "" {
		c.Debug.Addr = v
	}
}
