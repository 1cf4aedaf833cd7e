// Package tgui holds small helpers for building Telegram reply/inline
// keyboards and for encoding callback data as "prefix_payload" strings.
package tgui
