package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Trading Diary Configuration

[database]
# Path to the SQLite database. Defaults to diary.db in the config directory.
path = ""

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
# Display currency: INR
currency = "INR"

[coach]
# LLM model to use for trade analysis
model = "gpt-4o"
# Temperature for LLM responses (0.0 - 2.0)
temperature = 0.7
# Maximum tokens for LLM responses
max_tokens = 2048
# Retry attempts for failed coach calls
max_retries = 3
`

const credentialsTemplate = `# Trading Diary Credentials
# WARNING: Keep this file secure! Do not commit to version control.

[openai]
api_key = ""
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return fmt.Errorf("config file not found, created template at %s", path)
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	// Use restricted permissions for credentials file
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}

	return fmt.Errorf("credentials file not found, created template at %s", path)
}
