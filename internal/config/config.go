// Package config handles loading and validating jirapeek configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Jira    JiraConfig    `yaml:"jira"`
	Search  SearchConfig  `yaml:"search"`
	History HistoryConfig `yaml:"history"`
}

// JiraConfig holds Jira connection configuration. Connection details
// live in config.yaml; credentials live in a separate secrets.yaml that
// is never committed. Environment variables override both files:
// JIRA_BASE_URL, JIRA_EMAIL, JIRA_API_TOKEN.
type JiraConfig struct {
	BaseURL        string `yaml:"base_url"`
	Email          string `yaml:"email"` // loaded from secrets or env, not config
	APIToken       string `yaml:"api_token"`
	DefaultProject string `yaml:"default_project,omitempty"`
}

// SearchConfig tunes the search surface.
type SearchConfig struct {
	MaxResults int      `yaml:"max_results"` // page size, default 50
	DebounceMs int      `yaml:"debounce_ms"` // autocomplete debounce, default 200
	Fields     []string `yaml:"fields,omitempty"`
}

// HistoryConfig tunes the on-disk histories.
type HistoryConfig struct {
	MaxEntries int `yaml:"max_entries"` // cap per history file, default 50
}

// SecretsConfig holds sensitive credentials loaded from a separate file.
type SecretsConfig struct {
	Jira JiraSecrets `yaml:"jira"`
}

// JiraSecrets holds the Jira credentials.
type JiraSecrets struct {
	Email    string `yaml:"email"`
	APIToken string `yaml:"api_token"`
}

// defaultSearchFields is requested on searches when search.fields is
// not configured.
var defaultSearchFields = []string{
	"summary", "status", "priority", "issuetype", "assignee",
	"reporter", "project", "created", "updated", "duedate",
}

// DefaultConfigDir returns the jirapeek directory under the user
// config dir (~/.config/jirapeek on Linux).
func DefaultConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("finding user config dir: %w", err)
	}
	return filepath.Join(base, "jirapeek"), nil
}

// Load reads and parses the config and secrets files, applies
// environment overrides, and validates the result.
//
// Both files are optional: a missing file contributes nothing, so a
// setup driven purely by JIRA_BASE_URL / JIRA_EMAIL / JIRA_API_TOKEN
// works with no files at all.
func Load(configPath, secretsPath string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	secretsData, err := os.ReadFile(secretsPath)
	if err == nil {
		var secrets SecretsConfig
		if err := yaml.Unmarshal(secretsData, &secrets); err != nil {
			return nil, fmt.Errorf("parsing secrets file: %w", err)
		}
		if secrets.Jira.Email != "" {
			cfg.Jira.Email = secrets.Jira.Email
		}
		if secrets.Jira.APIToken != "" {
			cfg.Jira.APIToken = secrets.Jira.APIToken
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading secrets file: %w", err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyEnv overlays environment variables onto cfg.
func applyEnv(cfg *Config) {
	if v := os.Getenv("JIRA_BASE_URL"); v != "" {
		cfg.Jira.BaseURL = v
	}
	if v := os.Getenv("JIRA_EMAIL"); v != "" {
		cfg.Jira.Email = v
	}
	if v := os.Getenv("JIRA_API_TOKEN"); v != "" {
		cfg.Jira.APIToken = v
	}
}

// applyDefaults fills zero values.
func applyDefaults(cfg *Config) {
	if cfg.Search.MaxResults <= 0 {
		cfg.Search.MaxResults = 50
	}
	if cfg.Search.DebounceMs <= 0 {
		cfg.Search.DebounceMs = 200
	}
	if len(cfg.Search.Fields) == 0 {
		cfg.Search.Fields = append([]string(nil), defaultSearchFields...)
	}
	if cfg.History.MaxEntries <= 0 {
		cfg.History.MaxEntries = 50
	}
}

// Validate checks that all required config fields are set.
func (c *Config) Validate() error {
	if c.Jira.BaseURL == "" {
		return fmt.Errorf("jira.base_url is required (or set JIRA_BASE_URL)")
	}
	if c.Jira.Email == "" {
		return fmt.Errorf("jira.email is required (or set JIRA_EMAIL)")
	}
	if c.Jira.APIToken == "" {
		return fmt.Errorf("jira.api_token is required (or set JIRA_API_TOKEN)")
	}
	return nil
}
