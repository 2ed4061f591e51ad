package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func clearJiraEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JIRA_BASE_URL", "")
	t.Setenv("JIRA_EMAIL", "")
	t.Setenv("JIRA_API_TOKEN", "")
}

func TestLoadMergesConfigAndSecrets(t *testing.T) {
	clearJiraEnv(t)
	dir := t.TempDir()
	configPath := writeTestFile(t, dir, "config.yaml", `
jira:
  base_url: https://example.atlassian.net/
  default_project: PROJ
search:
  max_results: 25
`)
	secretsPath := writeTestFile(t, dir, "secrets.yaml", `
jira:
  email: dev@example.com
  api_token: token123
`)

	cfg, err := Load(configPath, secretsPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Jira.BaseURL != "https://example.atlassian.net/" {
		t.Errorf("unexpected base URL: %s", cfg.Jira.BaseURL)
	}
	if cfg.Jira.Email != "dev@example.com" || cfg.Jira.APIToken != "token123" {
		t.Errorf("secrets not merged: %+v", cfg.Jira)
	}
	if cfg.Jira.DefaultProject != "PROJ" {
		t.Errorf("unexpected default project: %s", cfg.Jira.DefaultProject)
	}
	if cfg.Search.MaxResults != 25 {
		t.Errorf("expected configured max_results 25, got %d", cfg.Search.MaxResults)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	clearJiraEnv(t)
	dir := t.TempDir()
	configPath := writeTestFile(t, dir, "config.yaml", `
jira:
  base_url: https://example.atlassian.net
`)
	secretsPath := writeTestFile(t, dir, "secrets.yaml", `
jira:
  email: dev@example.com
  api_token: token123
`)

	cfg, err := Load(configPath, secretsPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Search.MaxResults != 50 {
		t.Errorf("expected default max_results 50, got %d", cfg.Search.MaxResults)
	}
	if cfg.Search.DebounceMs != 200 {
		t.Errorf("expected default debounce_ms 200, got %d", cfg.Search.DebounceMs)
	}
	if cfg.History.MaxEntries != 50 {
		t.Errorf("expected default history cap 50, got %d", cfg.History.MaxEntries)
	}
	if len(cfg.Search.Fields) == 0 {
		t.Error("expected default search fields")
	}
}

func TestLoadEnvOverridesFiles(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestFile(t, dir, "config.yaml", `
jira:
  base_url: https://file.atlassian.net
`)
	secretsPath := writeTestFile(t, dir, "secrets.yaml", `
jira:
  email: file@example.com
  api_token: filetoken
`)
	t.Setenv("JIRA_BASE_URL", "https://env.atlassian.net")
	t.Setenv("JIRA_EMAIL", "env@example.com")
	t.Setenv("JIRA_API_TOKEN", "envtoken")

	cfg, err := Load(configPath, secretsPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Jira.BaseURL != "https://env.atlassian.net" {
		t.Errorf("env base URL not applied: %s", cfg.Jira.BaseURL)
	}
	if cfg.Jira.Email != "env@example.com" || cfg.Jira.APIToken != "envtoken" {
		t.Errorf("env credentials not applied: %+v", cfg.Jira)
	}
}

func TestLoadEnvOnlyNoFiles(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JIRA_BASE_URL", "https://env.atlassian.net")
	t.Setenv("JIRA_EMAIL", "env@example.com")
	t.Setenv("JIRA_API_TOKEN", "envtoken")

	cfg, err := Load(filepath.Join(dir, "config.yaml"), filepath.Join(dir, "secrets.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Jira.BaseURL != "https://env.atlassian.net" {
		t.Errorf("unexpected base URL: %s", cfg.Jira.BaseURL)
	}
}

func TestLoadMissingCredentials(t *testing.T) {
	clearJiraEnv(t)
	dir := t.TempDir()
	configPath := writeTestFile(t, dir, "config.yaml", `
jira:
  base_url: https://example.atlassian.net
`)

	_, err := Load(configPath, filepath.Join(dir, "secrets.yaml"))
	if err == nil {
		t.Fatal("expected error for missing credentials")
	}
	if !strings.Contains(err.Error(), "jira.email") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadMalformedConfig(t *testing.T) {
	clearJiraEnv(t)
	dir := t.TempDir()
	configPath := writeTestFile(t, dir, "config.yaml", "jira: [not: a mapping")

	_, err := Load(configPath, filepath.Join(dir, "secrets.yaml"))
	if err == nil {
		t.Fatal("expected error for malformed config")
	}
	if !strings.Contains(err.Error(), "parsing config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.Jira.BaseURL = "https://example.atlassian.net"
	cfg.Jira.Email = "dev@example.com"
	cfg.Jira.APIToken = "token"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.Jira.APIToken = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing api token")
	}
}

func TestInitScaffoldsFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "jirapeek")
	res, err := Init(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.WroteConfig || !res.WroteSecrets {
		t.Errorf("expected both files written, got %+v", res)
	}
	for _, path := range []string{res.ConfigPath, res.SecretsPath} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s to exist: %v", path, err)
		}
	}

	// A second init must not clobber existing files.
	if err := os.WriteFile(res.ConfigPath, []byte("jira:\n  base_url: https://mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	res2, err := Init(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res2.WroteConfig || res2.WroteSecrets {
		t.Errorf("expected existing files untouched, got %+v", res2)
	}
	data, _ := os.ReadFile(res.ConfigPath)
	if !strings.Contains(string(data), "https://mine") {
		t.Error("init overwrote existing config")
	}
}
