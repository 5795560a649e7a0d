package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors config.yaml. Secrets never live here.
type fileConfig struct {
	Telegram struct {
		WebhookURL  string `yaml:"webhook_url"`
		WebhookPath string `yaml:"webhook_path"`
	} `yaml:"telegram"`

	SeaLion struct {
		Provider          string   `yaml:"provider"`
		Model             string   `yaml:"model"`
		BaseURL           string   `yaml:"base_url"`
		Temperature       *float64 `yaml:"temperature"`
		MaxTokens         int      `yaml:"max_tokens"`
		RequestsPerSecond float64  `yaml:"requests_per_second"`
	} `yaml:"sea_lion"`

	SystemPrompt string `yaml:"system_prompt"`

	RateLimit struct {
		Requests      int `yaml:"requests"`
		WindowSeconds int `yaml:"window_seconds"`
	} `yaml:"rate_limit"`

	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
}

// readFile parses the YAML config. A missing file yields an empty config
// so that everything can come from the environment.
func readFile(path string) (*fileConfig, error) {
	cfg := &fileConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}
