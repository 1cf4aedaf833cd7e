package storage

// Package storage provides a minimal persistence layer used by the bot.
//
// It currently supports:
//   - Audit log appends (registrations, broadcast outcomes)
//   - Notification markers (so announcements survive restarts)
