package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures storage.
//
// Driver values:
//   - "file": dependency-free file backend (jsonl + snapshot)
//   - "sqlite": SQLite database file (optional build tag)
//
// If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// AuditEntry records a user-visible action the bot performed.
// Keep it compact and schema-stable.
type AuditEntry struct {
	At       time.Time
	UserID   int64
	Username string
	ChatID   int64
	Action   string // "register", "announce", "remind", "send_file"
	Target   string // book or event title
	OK       int
	Fail     int
	Error    string
	TookMS   int64
}
