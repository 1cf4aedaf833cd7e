package config

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Telegram  TelegramConfig  `json:"telegram"`
	Sheets    SheetsConfig    `json:"sheets"`
	Notify    NotifyConfig    `json:"notify"`
	Broadcast BroadcastConfig `json:"broadcast"`
	Logging   LoggingConfig   `json:"logging"`
	Health    HealthConfig    `json:"health"`
	Storage   *StorageConfig  `json:"storage,omitempty"`
}

type TelegramConfig struct {
	Token string `json:"token"`

	// AdminChatID receives registration notifications.
	AdminChatID int64 `json:"admin_chat_id"`

	// PollTimeout is a Go duration string (e.g. "10s", "2m"). Long-poll mode only.
	PollTimeout string `json:"poll_timeout,omitempty"`

	// Webhook switches delivery from long-polling to webhook mode when URL is set.
	Webhook WebhookConfig `json:"webhook,omitempty"`
}

type WebhookConfig struct {
	URL    string `json:"url,omitempty"`
	Listen string `json:"listen,omitempty"`
}

// SheetsConfig locates the Google spreadsheet backing the club data.
//
// SpreadsheetID wins when set; otherwise the spreadsheet is looked up by
// name through the Drive API at startup.
type SheetsConfig struct {
	SpreadsheetName string `json:"spreadsheet_name"`
	SpreadsheetID   string `json:"spreadsheet_id,omitempty"`

	// CredentialsFile is the service-account JSON path. The GOOGLE_CREDS_JSON
	// environment variable, when present, is written to this path at startup.
	CredentialsFile string `json:"credentials_file"`
}

// NotifyConfig controls the event notification scheduler.
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1h").
type NotifyConfig struct {
	Enabled bool `json:"enabled"`

	// Interval between cycles; default "1h".
	Interval string `json:"interval,omitempty"`

	// InitialDelay before the first cycle after boot; default "3s".
	InitialDelay string `json:"initial_delay,omitempty"`

	// AnnounceDays/RemindDays are the exact day distances that trigger the
	// advance announcement and the day-before reminder. Defaults: 14 and 1.
	AnnounceDays int `json:"announce_days,omitempty"`
	RemindDays   int `json:"remind_days,omitempty"`

	// Timezone for the "days until event" computation; default local.
	Timezone string `json:"timezone,omitempty"`
}

// BroadcastConfig controls the notification fan-out pool.
type BroadcastConfig struct {
	Workers    int `json:"workers,omitempty"`
	RatePerSec int `json:"rate_per_sec,omitempty"`

	// RetryMax is the number of extra send attempts per recipient after a
	// failure. 0 (the default) sends once.
	RetryMax int `json:"retry_max,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// HealthConfig controls the liveness HTTP endpoint.
// The PORT environment variable, when set, overrides the port part of Addr.
type HealthConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr,omitempty"` // default ":8080"
}

// StorageConfig controls the optional local marker store.
//
// When omitted, notification dedup markers are disabled and the scheduler
// re-sends within the same qualifying day after a restart.
//
// Example:
//
//	"storage": { "driver": "file", "path": "./monebot_store" }
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

// ParseDurationField parses a duration-typed config string ("10s", "2m").
// Empty means unset and yields zero so callers can substitute their own
// defaults; negative values are rejected.
func ParseDurationField(field, raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	switch {
	case err != nil:
		return 0, fmt.Errorf("%s: invalid duration %q: %w", field, raw, err)
	case d < 0:
		return 0, fmt.Errorf("%s: duration must be >= 0, got %q", field, raw)
	}
	return d, nil
}
