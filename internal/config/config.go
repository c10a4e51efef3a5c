// Package config loads vocabz settings from a .env file, an optional YAML
// file and VOCABZ_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/vocabz/internal/llm"
)

// RemoteConfig locates the mirror table.
type RemoteConfig struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"`
}

// LLMConfig picks the provider and model. Keys stay in the environment.
type LLMConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
}

// GenerationConfig controls chunked generation.
type GenerationConfig struct {
	ChunkSize  int           `yaml:"chunk_size"`
	ChunkDelay time.Duration `yaml:"chunk_delay"`
}

// SyncConfig controls `vocabz watch`.
type SyncConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// Config is the resolved runtime configuration.
type Config struct {
	DBPath     string                   `yaml:"db_path"`
	LogLevel   string                   `yaml:"log_level"`
	Remote     RemoteConfig             `yaml:"remote"`
	LLM        LLMConfig                `yaml:"llm"`
	Generation GenerationConfig         `yaml:"generation"`
	Sync       SyncConfig               `yaml:"sync"`
	Pricing    map[string]llm.ModelCost `yaml:"pricing"`

	// Path is the YAML file that was read, empty if none.
	Path string `yaml:"-"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		LogLevel: "INFO",
		Remote:   RemoteConfig{Table: "vocabulary"},
		Generation: GenerationConfig{
			ChunkSize:  10,
			ChunkDelay: time.Second,
		},
		Sync: SyncConfig{Interval: 5 * time.Minute},
	}
}

// Load reads .env (if present), the YAML file at DefaultPath (if present)
// and environment overrides.
func Load() (Config, error) {
	return LoadPath("")
}

// LoadPath is Load with an explicit YAML path. An empty path means
// DefaultPath.
func LoadPath(path string) (Config, error) {
	// Ignore error so vocabz still starts when .env is absent.
	_ = godotenv.Load()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}
	return LoadFile(path)
}

// LoadFile is Load without the .env step, reading YAML from path. A
// missing file is not an error.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
			cfg.Path = path
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPath resolves the config file path in priority order:
// 1. VOCABZ_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/vocabz/config.yaml
// 3. ~/.config/vocabz/config.yaml
func DefaultPath() (string, error) {
	if p := os.Getenv("VOCABZ_CONFIG"); p != "" {
		return p, nil
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "vocabz", "config.yaml"), nil
}

func applyEnv(cfg *Config) {
	cfg.DBPath = envOr("VOCABZ_DB", cfg.DBPath)
	cfg.LogLevel = envOr("VOCABZ_LOG_LEVEL", cfg.LogLevel)
	cfg.Remote.DSN = envOr("VOCABZ_REMOTE_DSN", envOr("DATABASE_URL", cfg.Remote.DSN))
	cfg.Remote.Table = envOr("VOCABZ_REMOTE_TABLE", cfg.Remote.Table)
	cfg.LLM.Provider = envOr("VOCABZ_LLM_PROVIDER", cfg.LLM.Provider)
	cfg.LLM.Model = envOr("VOCABZ_MODEL", cfg.LLM.Model)
	cfg.Generation.ChunkSize = envIntOr("VOCABZ_CHUNK_SIZE", cfg.Generation.ChunkSize)
	cfg.Generation.ChunkDelay = envDurationOr("VOCABZ_CHUNK_DELAY", cfg.Generation.ChunkDelay)
	cfg.Sync.Interval = envDurationOr("VOCABZ_SYNC_INTERVAL", cfg.Sync.Interval)
}

// Validate rejects values no command could work with.
func (c Config) Validate() error {
	if c.Generation.ChunkSize <= 0 {
		return fmt.Errorf("generation.chunk_size must be positive, got %d", c.Generation.ChunkSize)
	}
	if c.Generation.ChunkDelay < 0 {
		return fmt.Errorf("generation.chunk_delay must not be negative")
	}
	if c.Sync.Interval < time.Second {
		return fmt.Errorf("sync.interval must be at least 1s, got %s", c.Sync.Interval)
	}
	for model, cost := range c.Pricing {
		if cost.InputPerMTok < 0 || cost.OutputPerMTok < 0 {
			return fmt.Errorf("pricing for %s must not be negative", model)
		}
	}
	return nil
}

// ProviderConfig layers the provider and model choice over env-derived
// provider settings.
func (c Config) ProviderConfig() llm.Config {
	lc := llm.ConfigFromEnv()
	if c.LLM.Provider != "" {
		lc.Provider = c.LLM.Provider
	}
	return lc.WithModel(c.LLM.Model)
}

// Prices builds the price table with the configured overrides.
func (c Config) Prices() *llm.PriceTable {
	return llm.NewPriceTable(c.Pricing)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		fmt.Fprintf(os.Stderr, "warning: invalid value for %s=%q, using default %d\n", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		fmt.Fprintf(os.Stderr, "warning: invalid value for %s=%q, using default %s\n", key, v, def)
	}
	return def
}
