package app

import (
	"testing"
	"time"

	"monebot/internal/config"
)

func TestMapAdapterConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Telegram.Token = "t"

	ac, err := mapAdapterConfig(cfg)
	if err != nil {
		t.Fatalf("mapAdapterConfig: %v", err)
	}
	if ac.PollTimeout != 10*time.Second {
		t.Fatalf("default poll timeout = %v", ac.PollTimeout)
	}

	cfg.Telegram.PollTimeout = "bogus"
	if _, err := mapAdapterConfig(cfg); err == nil {
		t.Fatal("bad duration accepted")
	}
}

func TestMapNotifyConfigDefaults(t *testing.T) {
	cfg := &config.Config{}
	cfg.Notify.Enabled = true

	nc, err := mapNotifyConfig(cfg)
	if err != nil {
		t.Fatalf("mapNotifyConfig: %v", err)
	}
	if nc.Interval != time.Hour {
		t.Fatalf("interval = %v", nc.Interval)
	}
	if nc.InitialDelay != 3*time.Second {
		t.Fatalf("initial delay = %v", nc.InitialDelay)
	}
}

func TestMapBroadcastConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Broadcast.Workers = 8
	cfg.Broadcast.RatePerSec = 20
	cfg.Broadcast.RetryMax = 2

	bc := mapBroadcastConfig(cfg)
	if bc.Workers != 8 || bc.RatePerSec != 20 || bc.RetryMax != 2 {
		t.Fatalf("bc = %+v", bc)
	}
}

func TestMapStorageConfig(t *testing.T) {
	cfg := &config.Config{}
	if _, enabled, err := mapStorageConfig(cfg); err != nil || enabled {
		t.Fatalf("nil storage: enabled=%v err=%v", enabled, err)
	}

	cfg.Storage = &config.StorageConfig{Driver: "none"}
	if _, enabled, _ := mapStorageConfig(cfg); enabled {
		t.Fatal("driver none should disable storage")
	}

	cfg.Storage = &config.StorageConfig{Driver: "File", Path: "/tmp/x", BusyTimeout: "250ms"}
	sc, enabled, err := mapStorageConfig(cfg)
	if err != nil || !enabled {
		t.Fatalf("enabled=%v err=%v", enabled, err)
	}
	if sc.Driver != "file" || sc.BusyTimeout != 250*time.Millisecond {
		t.Fatalf("sc = %+v", sc)
	}
}

func TestNotifyLocation(t *testing.T) {
	cfg := &config.Config{}
	if loc, err := notifyLocation(cfg); err != nil || loc != time.Local {
		t.Fatalf("default loc = %v err = %v", loc, err)
	}

	cfg.Notify.Timezone = "Europe/Moscow"
	loc, err := notifyLocation(cfg)
	if err != nil || loc.String() != "Europe/Moscow" {
		t.Fatalf("loc = %v err = %v", loc, err)
	}

	cfg.Notify.Timezone = "Nowhere/Imaginary"
	if _, err := notifyLocation(cfg); err == nil {
		t.Fatal("bad timezone accepted")
	}
}
