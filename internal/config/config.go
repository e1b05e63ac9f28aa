// Package config loads the service configuration for the affection
// engine host runtime.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	affection "github.com/glusyy/grok-ani-affection-system"
)

// Config holds all service configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Engine EngineConfig `yaml:"engine"`
}

type ServerConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

type StoreConfig struct {
	Backend string       `yaml:"backend"` // "memory", "redis", "sqlite"
	Redis   RedisConfig  `yaml:"redis"`
	SQLite  SQLiteConfig `yaml:"sqlite"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTL      string `yaml:"ttl"` // time.ParseDuration format; empty = sessions never expire
}

// SessionTTL parses the configured TTL. Empty means no expiry.
func (r RedisConfig) SessionTTL() (time.Duration, error) {
	if r.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.TTL)
	if err != nil {
		return 0, fmt.Errorf("parse redis ttl: %w", err)
	}
	return d, nil
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type EngineConfig struct {
	// Preset picks one of the built-in score/tier/XP variants:
	// "classic" (0-100), "compact" (0-50), "signed" (-10..15).
	Preset string `yaml:"preset"`

	// RulesLua optionally replaces the built-in rule table with a Lua
	// script.
	RulesLua string `yaml:"rules_lua"`

	MaxHistoryItems int  `yaml:"max_history_items"`
	RecordAllTurns  bool `yaml:"record_all_turns"`
}

// Default returns a Config with sensible defaults: in-memory store,
// classic engine preset.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 8642,
		},
		Store: StoreConfig{
			Backend: "memory",
			Redis:   RedisConfig{Addr: "127.0.0.1:6379"},
			SQLite:  SQLiteConfig{Path: "affection.db"},
		},
		Engine: EngineConfig{Preset: "classic"},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ListenAddr returns the bind:port address string.
func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}

// EngineConfig resolves the preset and applies the overrides.
func (e EngineConfig) EngineConfig() (affection.Config, error) {
	var cfg affection.Config
	switch e.Preset {
	case "", "classic":
		cfg = affection.DefaultConfig()
	case "compact":
		cfg = affection.CompactConfig()
	case "signed":
		cfg = affection.SignedConfig()
	default:
		return affection.Config{}, fmt.Errorf("unknown engine preset %q", e.Preset)
	}
	if e.MaxHistoryItems > 0 {
		cfg.MaxHistoryItems = e.MaxHistoryItems
	}
	cfg.RecordAllTurns = e.RecordAllTurns
	return cfg, nil
}

// BuildEngine constructs the engine, loading the Lua rule table when one
// is configured.
func (e EngineConfig) BuildEngine() (*affection.Engine, error) {
	cfg, err := e.EngineConfig()
	if err != nil {
		return nil, err
	}
	var opts []affection.Option
	if e.RulesLua != "" {
		table, err := affection.LoadRuleTableLua(e.RulesLua)
		if err != nil {
			return nil, fmt.Errorf("load rules %s: %w", e.RulesLua, err)
		}
		opts = append(opts, affection.WithRuleTable(table))
	}
	return affection.New(cfg, opts...)
}
