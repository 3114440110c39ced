package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"showfinder/internal/domain"
)

// Environment variables that override file settings.
const (
	EnvCatalogPath = "SHOWFINDER_CATALOG_PATH"
	EnvRedisAddr   = "SHOWFINDER_REDIS_ADDR"
	EnvLogLevel    = "SHOWFINDER_LOG_LEVEL"
)

// CatalogConfig selects where catalog rows come from.
type CatalogConfig struct {
	Type  string `yaml:"type"`
	Path  string `yaml:"path"`
	Table string `yaml:"table,omitempty"`
}

// ToolkitConfig selects the linguistic toolkit.
type ToolkitConfig struct {
	Type string `yaml:"type"`
}

// RankerConfig tunes recommendation selection.
type RankerConfig struct {
	MaxResults int `yaml:"max_results"`
}

// RedisConfig contains connection details for the Redis result cache.
type RedisConfig struct {
	Addr        string `yaml:"addr"`
	Password    string `yaml:"password"`
	DB          int    `yaml:"db"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Type    string       `yaml:"type"`
	TTLSecs int          `yaml:"ttl_secs"`
	Redis   *RedisConfig `yaml:"redis,omitempty"`
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration { return time.Duration(c.TTLSecs) * time.Second }

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr             string `yaml:"addr"`
	ReadTimeoutSecs  int    `yaml:"read_timeout_secs"`
	WriteTimeoutSecs int    `yaml:"write_timeout_secs"`
	ShutdownSecs     int    `yaml:"shutdown_secs"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Env   string `yaml:"env"`
	Level string `yaml:"level,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Toolkit ToolkitConfig `yaml:"toolkit"`
	Ranker  RankerConfig  `yaml:"ranker"`
	Cache   CacheConfig   `yaml:"cache"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// Validate rejects backends that do not exist.
func (c *AppConfig) Validate() error {
	switch c.Catalog.Type {
	case "csv", "sqlite":
	default:
		return fmt.Errorf("%w: catalog type %q", domain.ErrUnknownBackend, c.Catalog.Type)
	}
	if c.Toolkit.Type != "prose" {
		return fmt.Errorf("%w: toolkit type %q", domain.ErrUnknownBackend, c.Toolkit.Type)
	}
	switch c.Cache.Type {
	case "none":
	case "redis":
		if c.Cache.Redis == nil || c.Cache.Redis.Addr == "" {
			return errors.New("cache type redis requires cache.redis.addr")
		}
	default:
		return fmt.Errorf("%w: cache type %q", domain.ErrUnknownBackend, c.Cache.Type)
	}
	return nil
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	applyEnv(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/showfinder/config.yaml.
// If neither exists, it writes defaults to ~/.config/showfinder/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnv(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "showfinder", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Catalog: CatalogConfig{Type: "csv", Path: "netflix_titles.csv"},
		Toolkit: ToolkitConfig{Type: "prose"},
		Ranker:  RankerConfig{MaxResults: 5},
		Cache:   CacheConfig{Type: "none", TTLSecs: 600},
		Server:  ServerConfig{Addr: ":8080", ReadTimeoutSecs: 10, WriteTimeoutSecs: 30, ShutdownSecs: 10},
		Logging: LoggingConfig{Env: "dev"},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.Catalog.Type == "" {
		cfg.Catalog.Type = def.Catalog.Type
	}
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = def.Catalog.Path
	}
	if cfg.Catalog.Type == "sqlite" && cfg.Catalog.Table == "" {
		cfg.Catalog.Table = "titles"
	}
	if cfg.Toolkit.Type == "" {
		cfg.Toolkit.Type = def.Toolkit.Type
	}
	if cfg.Ranker.MaxResults <= 0 {
		cfg.Ranker.MaxResults = def.Ranker.MaxResults
	}
	if cfg.Cache.Type == "" {
		cfg.Cache.Type = def.Cache.Type
	}
	if cfg.Cache.TTLSecs == 0 {
		cfg.Cache.TTLSecs = def.Cache.TTLSecs
	}
	if cfg.Cache.Type == "redis" && cfg.Cache.Redis != nil && cfg.Cache.Redis.TimeoutSecs == 0 {
		cfg.Cache.Redis.TimeoutSecs = 5
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.Server.ReadTimeoutSecs == 0 {
		cfg.Server.ReadTimeoutSecs = def.Server.ReadTimeoutSecs
	}
	if cfg.Server.WriteTimeoutSecs == 0 {
		cfg.Server.WriteTimeoutSecs = def.Server.WriteTimeoutSecs
	}
	if cfg.Server.ShutdownSecs == 0 {
		cfg.Server.ShutdownSecs = def.Server.ShutdownSecs
	}
	if cfg.Logging.Env == "" {
		cfg.Logging.Env = def.Logging.Env
	}
}

func applyEnv(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvCatalogPath)); v != "" {
		cfg.Catalog.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRedisAddr)); v != "" {
		if cfg.Cache.Redis == nil {
			cfg.Cache.Redis = &RedisConfig{TimeoutSecs: 5}
		}
		cfg.Cache.Redis.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = v
	}
}
