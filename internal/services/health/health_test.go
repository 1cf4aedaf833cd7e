package health

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	logx "monebot/pkg/logx"
)

func TestHealthEndpoint(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(Config{Enabled: true, Addr: "127.0.0.1:0"}, logx.Nop())
	s.Start(ctx)
	defer s.Stop(context.Background())

	var addr string
	deadline := time.Now().Add(2 * time.Second)
	for addr == "" {
		if time.Now().After(deadline) {
			t.Fatal("listener never came up")
		}
		addr = s.Addr()
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := http.Get("http://" + addr + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "OK" {
		t.Fatalf("body = %q", body)
	}

	// Unknown paths must 404, not probe as healthy.
	resp2, err := http.Get("http://" + addr + "/nope")
	if err != nil {
		t.Fatalf("GET /nope: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown path status = %d", resp2.StatusCode)
	}
}

func TestDisabledDoesNotListen(t *testing.T) {
	s := New(Config{Enabled: false, Addr: "127.0.0.1:0"}, logx.Nop())
	s.Start(context.Background())
	if s.Addr() != "" {
		t.Fatal("disabled service opened a listener")
	}
	s.Stop(context.Background())
}
