package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
telegram:
  token: "123:abc"
  admin_chat_id: 99
  poll_timeout: "10s"
sheets:
  spreadsheet_name: "ЛитКафе"
  credentials_file: "creds.json"
notify:
  enabled: true
  announce_days: 14
  remind_days: 1
broadcast:
  workers: 4
logging:
  level: "DEBUG"
  console: true
  file:
    enabled: false
    path: ""
health:
  enabled: true
  addr: ":8080"
storage:
  driver: "file"
  path: "./data/bot"
`)

	cfg, err := NewManager(path).Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Telegram.Token != "123:abc" || cfg.Telegram.AdminChatID != 99 {
		t.Fatalf("telegram = %+v", cfg.Telegram)
	}
	if cfg.Sheets.SpreadsheetName != "ЛитКафе" {
		t.Fatalf("sheets = %+v", cfg.Sheets)
	}
	if !cfg.Notify.Enabled || cfg.Notify.AnnounceDays != 14 {
		t.Fatalf("notify = %+v", cfg.Notify)
	}
	if cfg.Storage == nil || cfg.Storage.Driver != "file" {
		t.Fatalf("storage = %+v", cfg.Storage)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
telegram:
  token: "123:abc"
  totally_unknown_knob: true
`)
	if _, err := NewManager(path).Parse(); err == nil {
		t.Fatal("unknown field accepted")
	}
}

func TestParseJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"telegram":{"token":"t"},"sheets":{"spreadsheet_name":"x","credentials_file":"c"},"notify":{"enabled":false},"broadcast":{},"logging":{"level":"INFO","console":true,"file":{"enabled":false,"path":""}},"health":{"enabled":false}}`)
	cfg, err := NewManager(path).Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Telegram.Token != "t" {
		t.Fatalf("token = %q", cfg.Telegram.Token)
	}
	if cfg.Storage != nil {
		t.Fatal("storage should be nil when omitted")
	}
}

func TestCommitSkipsUnchanged(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
telegram:
  token: "t"
`)
	m := NewManager(path)
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Get() != cfg {
		t.Fatal("Get returned a different pointer")
	}

	// Same content hashes equal, so a reload publishes nothing.
	h1 := hashConfig(cfg)
	cfg2, _ := m.Parse()
	if h1 != hashConfig(cfg2) {
		t.Fatal("identical configs hash differently")
	}
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		raw     string
		want    string // parsed duration string, "" = error expected
		wantErr bool
	}{
		{"10s", "10s", false},
		{" 2m ", "2m0s", false},
		{"", "0s", false},
		{"-1s", "", true},
		{"soon", "", true},
	}
	for _, tc := range cases {
		d, err := ParseDurationField("x", tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%q: want error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", tc.raw, err)
			continue
		}
		if d.String() != tc.want {
			t.Errorf("%q: got %v, want %v", tc.raw, d, tc.want)
		}
	}
}
