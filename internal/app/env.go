package app

import (
	"fmt"
	"os"
	"strings"

	"monebot/internal/config"
)

// Hosting platforms inject secrets and the listen port through the
// environment; these override the corresponding config fields.
const (
	envBotToken   = "BOT_TOKEN"
	envCredsJSON  = "GOOGLE_CREDS_JSON"
	envPort       = "PORT"
	envWebhookURL = "WEBHOOK_URL"
)

const defaultCredentialsFile = "credentials.json"

func applyEnvOverrides(cfg *config.Config) error {
	if v := strings.TrimSpace(os.Getenv(envBotToken)); v != "" {
		cfg.Telegram.Token = v
	}
	if v := strings.TrimSpace(os.Getenv(envWebhookURL)); v != "" {
		cfg.Telegram.Webhook.URL = v
	}
	if v := strings.TrimSpace(os.Getenv(envPort)); v != "" {
		cfg.Health.Addr = ":" + v
	}

	// The credentials arrive as raw JSON in the environment; the Google
	// client wants a file on disk.
	if v := os.Getenv(envCredsJSON); strings.TrimSpace(v) != "" {
		path := strings.TrimSpace(cfg.Sheets.CredentialsFile)
		if path == "" {
			path = defaultCredentialsFile
			cfg.Sheets.CredentialsFile = path
		}
		if err := os.WriteFile(path, []byte(v), 0o600); err != nil {
			return fmt.Errorf("write %s to %s: %w", envCredsJSON, path, err)
		}
	}
	return nil
}
