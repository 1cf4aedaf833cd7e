package app

import (
	"os"
	"path/filepath"
	"testing"

	"monebot/internal/config"
)

func TestApplyEnvOverrides(t *testing.T) {
	creds := filepath.Join(t.TempDir(), "creds.json")
	t.Setenv(envBotToken, "111:env")
	t.Setenv(envWebhookURL, "https://bot.example.com/hook")
	t.Setenv(envPort, "9090")
	t.Setenv(envCredsJSON, `{"type":"service_account"}`)

	cfg := &config.Config{}
	cfg.Telegram.Token = "from-config"
	cfg.Sheets.CredentialsFile = creds

	if err := applyEnvOverrides(cfg); err != nil {
		t.Fatalf("applyEnvOverrides: %v", err)
	}
	if cfg.Telegram.Token != "111:env" {
		t.Fatalf("token = %q", cfg.Telegram.Token)
	}
	if cfg.Telegram.Webhook.URL != "https://bot.example.com/hook" {
		t.Fatalf("webhook = %q", cfg.Telegram.Webhook.URL)
	}
	if cfg.Health.Addr != ":9090" {
		t.Fatalf("health addr = %q", cfg.Health.Addr)
	}
	data, err := os.ReadFile(creds)
	if err != nil {
		t.Fatalf("credentials file: %v", err)
	}
	if string(data) != `{"type":"service_account"}` {
		t.Fatalf("credentials = %s", data)
	}
}

func TestApplyEnvOverridesNoEnv(t *testing.T) {
	t.Setenv(envBotToken, "")
	t.Setenv(envWebhookURL, "")
	t.Setenv(envPort, "")
	t.Setenv(envCredsJSON, "")

	cfg := &config.Config{}
	cfg.Telegram.Token = "from-config"
	cfg.Health.Addr = ":8080"

	if err := applyEnvOverrides(cfg); err != nil {
		t.Fatalf("applyEnvOverrides: %v", err)
	}
	if cfg.Telegram.Token != "from-config" || cfg.Health.Addr != ":8080" {
		t.Fatalf("cfg mutated: %+v", cfg.Telegram)
	}
}
