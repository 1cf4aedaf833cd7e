package app

import (
	"fmt"
	"strings"
	"time"

	"monebot/internal/config"
	"monebot/internal/repository"
	"monebot/internal/services/broadcast"
	"monebot/internal/services/health"
	"monebot/internal/services/notify"
	"monebot/internal/storage"
	telegram "monebot/internal/transport/telegram/adapter"
)

func mapAdapterConfig(cfg *config.Config) (telegram.Config, error) {
	pollTimeout, err := config.ParseDurationField("telegram.poll_timeout", cfg.Telegram.PollTimeout)
	if err != nil {
		return telegram.Config{}, err
	}
	if pollTimeout == 0 {
		pollTimeout = 10 * time.Second
	}
	return telegram.Config{
		Token:         cfg.Telegram.Token,
		PollTimeout:   pollTimeout,
		WebhookURL:    cfg.Telegram.Webhook.URL,
		WebhookListen: cfg.Telegram.Webhook.Listen,
	}, nil
}

func mapRepositoryConfig(cfg *config.Config) repository.Config {
	return repository.Config{
		SpreadsheetName: cfg.Sheets.SpreadsheetName,
		SpreadsheetID:   cfg.Sheets.SpreadsheetID,
		CredentialsFile: cfg.Sheets.CredentialsFile,
		Timezone:        cfg.Notify.Timezone,
	}
}

func mapNotifyConfig(cfg *config.Config) (notify.Config, error) {
	interval, err := config.ParseDurationField("notify.interval", cfg.Notify.Interval)
	if err != nil {
		return notify.Config{}, err
	}
	if interval == 0 {
		interval = time.Hour
	}
	initialDelay, err := config.ParseDurationField("notify.initial_delay", cfg.Notify.InitialDelay)
	if err != nil {
		return notify.Config{}, err
	}
	if initialDelay == 0 {
		initialDelay = 3 * time.Second
	}
	if cfg.Notify.AnnounceDays < 0 {
		return notify.Config{}, fmt.Errorf("notify.announce_days must be >= 0")
	}
	if cfg.Notify.RemindDays < 0 {
		return notify.Config{}, fmt.Errorf("notify.remind_days must be >= 0")
	}
	return notify.Config{
		Enabled:      cfg.Notify.Enabled,
		Interval:     interval,
		InitialDelay: initialDelay,
		AnnounceDays: cfg.Notify.AnnounceDays,
		RemindDays:   cfg.Notify.RemindDays,
	}, nil
}

func mapBroadcastConfig(cfg *config.Config) broadcast.Config {
	return broadcast.Config{
		Workers:    cfg.Broadcast.Workers,
		RatePerSec: cfg.Broadcast.RatePerSec,
		RetryMax:   cfg.Broadcast.RetryMax,
	}
}

func mapHealthConfig(cfg *config.Config) health.Config {
	return health.Config{
		Enabled: cfg.Health.Enabled,
		Addr:    cfg.Health.Addr,
	}
}

// mapStorageConfig returns (cfg, enabled, err). Storage is optional.
func mapStorageConfig(cfg *config.Config) (storage.Config, bool, error) {
	if cfg.Storage == nil {
		return storage.Config{}, false, nil
	}
	driver := strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	if driver == "" || driver == "none" {
		return storage.Config{}, false, nil
	}
	busy, err := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout)
	if err != nil {
		return storage.Config{}, false, err
	}
	return storage.Config{
		Driver:      driver,
		Path:        cfg.Storage.Path,
		BusyTimeout: busy,
	}, true, nil
}

func notifyLocation(cfg *config.Config) (*time.Location, error) {
	tz := strings.TrimSpace(cfg.Notify.Timezone)
	if tz == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("notify.timezone: invalid %q: %w", tz, err)
	}
	return loc, nil
}
