package tgui

import (
	"strconv"
	"strings"
)

// Data formats inline callback data as "prefix_payload".
// The payload is kept as-is (no escaping); prefixes must not contain '_'
// ambiguity beyond the first separator, which is why Split cuts on the
// FIRST underscore only.
func Data(prefix, payload string) string {
	prefix = strings.TrimSpace(prefix)
	if payload == "" {
		return prefix
	}
	return prefix + "_" + payload
}

// Split cuts callback data at the first underscore into (prefix, payload).
// Telegram clients may deliver the data with a leading "\f"; it is stripped.
func Split(data string) (prefix, payload string) {
	data = strings.TrimPrefix(data, "\f")
	i := strings.IndexByte(data, '_')
	if i < 0 {
		return data, ""
	}
	return data[:i], data[i+1:]
}

// Payload returns the remainder of data after the given "prefix_" marker,
// and whether the marker matched. Unlike Split it supports multi-token
// prefixes such as "formats_title".
func Payload(data, prefix string) (string, bool) {
	data = strings.TrimPrefix(data, "\f")
	marker := prefix + "_"
	if !strings.HasPrefix(data, marker) {
		return "", false
	}
	return data[len(marker):], true
}

// Index parses a payload as a non-negative row index.
func Index(payload string) (int, bool) {
	n, err := strconv.Atoi(payload)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
