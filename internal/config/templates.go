package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# staymate configuration

[api]
# Base URL of the rental backend
base_url = "http://localhost:5005"
# Request timeout (e.g. "15s", "1m")
timeout = "15s"

[polling]
# Poll bookings for live notifications in watch mode
enabled = true
# Poll interval (minimum "1s")
interval = "30s"

[notifications]
# Notification level: all, requests_only, none
level = "all"

[notifications.webhook]
enabled = false
url = ""

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "2006-01-02"

[logging]
# Log level: debug, info, warn, error
level = "info"
console = true
file = true
`

// WriteTemplate writes a commented config.toml into configDir. It
// refuses to overwrite an existing file.
func WriteTemplate(configDir string) (string, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return "", fmt.Errorf("writing config template: %w", err)
	}
	return path, nil
}
