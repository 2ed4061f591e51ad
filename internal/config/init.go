package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const sampleConfig = `# jirapeek configuration.
jira:
  # Your Jira Cloud base URL.
  base_url: https://yourcompany.atlassian.net

  # Optional default project key used when a search has no project clause.
  # default_project: PROJ

search:
  # Page size for search results.
  max_results: 50

  # Delay in milliseconds before autocomplete suggestions are requested.
  debounce_ms: 200

history:
  # Entries kept per history file (searches and viewed issues).
  max_entries: 50
`

const sampleSecrets = `# jirapeek credentials. Keep this file out of version control.
jira:
  # The email address of your Atlassian account.
  email: you@yourcompany.com

  # Create an API token at https://id.atlassian.com/manage-profile/security/api-tokens
  api_token: your-api-token
`

// InitResult reports which files Init created.
type InitResult struct {
	Dir          string
	WroteConfig  bool
	WroteSecrets bool
	ConfigPath   string
	SecretsPath  string
}

// Init scaffolds the config directory with commented sample files.
// Existing files are left untouched.
func Init(dir string) (*InitResult, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}

	res := &InitResult{
		Dir:         dir,
		ConfigPath:  filepath.Join(dir, "config.yaml"),
		SecretsPath: filepath.Join(dir, "secrets.yaml"),
	}

	var err error
	res.WroteConfig, err = writeIfNotExists(res.ConfigPath, sampleConfig, 0o644)
	if err != nil {
		return nil, err
	}
	// Secrets are created read-only for the owner.
	res.WroteSecrets, err = writeIfNotExists(res.SecretsPath, sampleSecrets, 0o600)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// writeIfNotExists writes content to path unless the file already
// exists. It reports whether the file was written.
func writeIfNotExists(path, content string, perm os.FileMode) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
