// Package config loads eventdesk settings from an optional YAML file and the environment.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env            string        `yaml:"env" env:"EVENTDESK_ENV" env-default:"prod"`
	APIURL         string        `yaml:"api_url" env:"EVENTDESK_API_URL" env-default:"http://localhost:5000"`
	PageSize       int           `yaml:"page_size" env:"EVENTDESK_PAGE_SIZE" env-default:"10"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"EVENTDESK_REQUEST_TIMEOUT" env-default:"30s"`
	SearchDebounce time.Duration `yaml:"search_debounce" env:"EVENTDESK_SEARCH_DEBOUNCE" env-default:"400ms"`
	NoticeTTL      time.Duration `yaml:"notice_ttl" env:"EVENTDESK_NOTICE_TTL" env-default:"5s"`
	SessionPath    string        `yaml:"session_path" env:"EVENTDESK_SESSION_PATH"`
	LogPath        string        `yaml:"log_path" env:"EVENTDESK_LOG_PATH"`
	DevServer      DevServer     `yaml:"dev_server"`
}

// DevServer configures the in-memory development backend.
type DevServer struct {
	Address     string        `yaml:"address" env:"EVENTDESK_DEV_ADDRESS" env-default:"localhost:5000"`
	Timeout     time.Duration `yaml:"timeout" env:"EVENTDESK_DEV_TIMEOUT" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"EVENTDESK_DEV_IDLE_TIMEOUT" env-default:"60s"`
	Seed        int           `yaml:"seed" env:"EVENTDESK_DEV_SEED" env-default:"25"`
}

// MustLoad is Load that exits on error.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("EVENTDESK_CONFIG"))
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load reads the YAML file at path (if non-empty) and then the environment.
// Environment values win over the file.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.fillPaths(); err != nil {
		return nil, err
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("page_size must be positive, got %d", cfg.PageSize)
	}
	return &cfg, nil
}

// fillPaths defaults SessionPath and LogPath under ~/.eventdesk.
func (c *Config) fillPaths() error {
	if c.SessionPath != "" && c.LogPath != "" {
		return nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("get home dir: %w", err)
	}
	dir := filepath.Join(home, ".eventdesk")
	if c.SessionPath == "" {
		c.SessionPath = filepath.Join(dir, "session.json")
	}
	if c.LogPath == "" {
		c.LogPath = filepath.Join(dir, "eventdesk.log")
	}
	return nil
}
