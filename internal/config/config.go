// Package config loads server settings from an optional YAML file and
// CHESS_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"chessrules/internal/logging"

	yaml "gopkg.in/yaml.v3"
)

type Config struct {
	API     APIConfig      `yaml:"api"`
	Dev     bool           `yaml:"dev"`
	Storage StorageConfig  `yaml:"storage"`
	Redis   RedisConfig    `yaml:"redis"`
	Log     logging.Config `yaml:"log"`
	Wait    WaitConfig     `yaml:"wait"`
	PID     PIDConfig      `yaml:"pid"`
}

type APIConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig selects the sqlite move log; an empty path disables it
type StorageConfig struct {
	Path string `yaml:"path"`
}

// RedisConfig selects the redis move log; an empty URL disables it
type RedisConfig struct {
	URL string        `yaml:"url"`
	TTL time.Duration `yaml:"ttl"`
}

type WaitConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

type PIDConfig struct {
	Path string `yaml:"path"`
	Lock bool   `yaml:"lock"`
}

func Default() Config {
	return Config{
		API: APIConfig{
			Host: "localhost",
			Port: 8080,
		},
		Redis: RedisConfig{TTL: 24 * time.Hour},
		Log: logging.Config{
			Level:  "info",
			Format: "console",
		},
		Wait: WaitConfig{Timeout: 25 * time.Second},
	}
}

// Load starts from Default, overlays the YAML file at path when path is
// not empty, then applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path = strings.TrimSpace(path); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	str("CHESS_API_HOST", &c.API.Host)
	str("CHESS_STORAGE_PATH", &c.Storage.Path)
	str("CHESS_REDIS_URL", &c.Redis.URL)
	str("CHESS_LOG_LEVEL", &c.Log.Level)
	str("CHESS_LOG_FORMAT", &c.Log.Format)
	str("CHESS_LOG_FILE", &c.Log.File)
	str("CHESS_PID_PATH", &c.PID.Path)

	if v := strings.TrimSpace(getenv("CHESS_API_PORT")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CHESS_API_PORT: %w", err)
		}
		c.API.Port = n
	}
	if v := strings.TrimSpace(getenv("CHESS_DEV")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CHESS_DEV: %w", err)
		}
		c.Dev = b
	}
	if v := strings.TrimSpace(getenv("CHESS_REDIS_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CHESS_REDIS_TTL: %w", err)
		}
		c.Redis.TTL = d
	}
	if v := strings.TrimSpace(getenv("CHESS_WAIT_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CHESS_WAIT_TIMEOUT: %w", err)
		}
		c.Wait.Timeout = d
	}
	return nil
}

func (c Config) Validate() error {
	if c.API.Port < 1 || c.API.Port > 65535 {
		return fmt.Errorf("api port %d out of range", c.API.Port)
	}
	if c.Storage.Path != "" && c.Redis.URL != "" {
		return errors.New("storage.path and redis.url are mutually exclusive")
	}
	if c.Redis.TTL < 0 {
		return errors.New("redis ttl must not be negative")
	}
	if c.Wait.Timeout <= 0 {
		return errors.New("wait timeout must be positive")
	}
	if c.PID.Lock && c.PID.Path == "" {
		return errors.New("pid lock requires a pid path")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Addr is the host:port the API listens on
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}
