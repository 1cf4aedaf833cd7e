package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	logx "monebot/pkg/logx"
)

// fileStore is a dependency-free persistence backend.
//
// Files:
//   - <prefix>.audit.jsonl           (append-only JSON Lines)
//   - <prefix>.markers.snapshot.json (periodic snapshot)
//   - <prefix>.markers.journal.jsonl (append-only journal)
//
// The journal is periodically compacted into the snapshot.
type fileStore struct {
	log logx.Logger

	mu sync.Mutex

	auditFile *os.File

	markerSnapshotPath string
	markerJournalFile  *os.File
	markers            map[string]int64 // unix milli of when set

	markerWrites int
}

type markerRecord struct {
	Key string `json:"key"`
	At  int64  `json:"at"`
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage.path is required for file driver")
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	prefix := filepath.Join(dir, base)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	auditPath := prefix + ".audit.jsonl"
	snapPath := prefix + ".markers.snapshot.json"
	journalPath := prefix + ".markers.journal.jsonl"

	af, err := os.OpenFile(auditPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	// Load markers from snapshot + journal.
	markers := map[string]int64{}
	_ = loadMarkerSnapshot(snapPath, markers)
	_ = replayMarkerJournal(journalPath, markers)

	jf, err := os.OpenFile(journalPath, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0o600)
	if err != nil {
		_ = af.Close()
		return nil, err
	}

	return &fileStore{
		log:                log,
		auditFile:          af,
		markerSnapshotPath: snapPath,
		markerJournalFile:  jf,
		markers:            markers,
	}, nil
}

func (s *fileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err1, err2 error
	if s.auditFile != nil {
		err1 = s.auditFile.Close()
		s.auditFile = nil
	}
	if s.markerJournalFile != nil {
		err2 = s.markerJournalFile.Close()
		s.markerJournalFile = nil
	}
	if err1 != nil {
		return err1
	}
	return err2
}

func (s *fileStore) AppendAudit(ctx context.Context, e AuditEntry) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.auditFile == nil {
		return errors.New("audit file closed")
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	return json.NewEncoder(s.auditFile).Encode(e)
}

func (s *fileStore) SetMarker(ctx context.Context, key string) error {
	_ = ctx
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	ms := time.Now().UnixMilli()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.markerJournalFile == nil {
		return errors.New("marker journal closed")
	}
	if s.markers == nil {
		s.markers = map[string]int64{}
	}
	s.markers[key] = ms

	enc := json.NewEncoder(s.markerJournalFile)
	if err := enc.Encode(markerRecord{Key: key, At: ms}); err != nil {
		return err
	}
	s.markerWrites++
	if s.markerWrites%1000 == 0 {
		// Best-effort compact.
		if err := s.compactLocked(); err != nil {
			s.log.Debug("marker compact failed", logx.Any("err", err))
		}
	}
	return nil
}

func (s *fileStore) GetMarker(ctx context.Context, key string) (time.Time, bool, error) {
	_ = ctx
	key = strings.TrimSpace(key)
	if key == "" {
		return time.Time{}, false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ms, ok := s.markers[key]
	if !ok {
		return time.Time{}, false, nil
	}
	return time.UnixMilli(ms), true, nil
}

func (s *fileStore) compactLocked() error {
	if s.markers == nil {
		return nil
	}
	tmp := s.markerSnapshotPath + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(f).Encode(s.markers); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.markerSnapshotPath); err != nil {
		return err
	}
	// Truncate journal.
	if err := s.markerJournalFile.Truncate(0); err != nil {
		return err
	}
	_, err = s.markerJournalFile.Seek(0, 2)
	return err
}

func loadMarkerSnapshot(path string, out map[string]int64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	var m map[string]int64
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return err
	}
	for k, v := range m {
		out[k] = v
	}
	return nil
}

func replayMarkerJournal(path string, out map[string]int64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	s := bufio.NewScanner(f)
	for s.Scan() {
		var r markerRecord
		if err := json.Unmarshal(s.Bytes(), &r); err != nil {
			continue
		}
		if r.Key == "" {
			continue
		}
		out[r.Key] = r.At
	}
	return s.Err()
}
