package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	logx "monebot/pkg/logx"
)

// Store is the minimal persistence API used by the services.
//
// Markers are write-once facts ("this announcement went out"); SetMarker
// overwrites the timestamp on repeat, which callers never do in practice.
type Store interface {
	AppendAudit(ctx context.Context, e AuditEntry) error
	SetMarker(ctx context.Context, key string) error
	GetMarker(ctx context.Context, key string) (at time.Time, ok bool, err error)
	Close() error
}

// Open initializes the configured store.
// It returns (nil, nil) if storage is disabled.
func Open(cfg Config, log logx.Logger) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" || driver == "none" {
		return nil, nil
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	switch driver {
	case "file":
		return openFile(cfg, log)
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, errors.New("unknown storage driver: " + driver)
	}
}
