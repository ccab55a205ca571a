package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	BaseURL             string `yaml:"base_url"`
	AgentTimeoutSeconds int    `yaml:"agent_timeout_seconds"`
	PageLimit           int    `yaml:"page_limit"`
	DataRoot            string `yaml:"data_root"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:             "http://localhost:3333",
		AgentTimeoutSeconds: 60,
		PageLimit:           10,
	}
}

// LoadConfig reads the YAML config at path, filling in defaults for missing
// fields. A missing file is not an error. STUDYROOM_BASE_URL overrides the
// configured base URL, which is how .env files reach the client.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		}
	}

	if env := strings.TrimSpace(os.Getenv("STUDYROOM_BASE_URL")); env != "" {
		cfg.BaseURL = env
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	if cfg.AgentTimeoutSeconds <= 0 {
		cfg.AgentTimeoutSeconds = 60
	}
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = 10
	}
	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		return errors.New("no path provided for config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "studyroom", "config.yml")
}
