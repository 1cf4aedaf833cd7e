package drive

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testFetcher(maxSize int64) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: 5 * time.Second},
		maxSize: maxSize,
	}
}

func TestFetch(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	got, err := testFetcher(4096).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: %d bytes", len(got))
	}
}

func TestFetchRefusesByContentLength(t *testing.T) {
	var gotGet bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			gotGet = true
		}
		w.Header().Set("Content-Length", "10485760")
		if r.Method == http.MethodHead {
			return
		}
		w.Write(bytes.Repeat([]byte("x"), 10<<20))
	}))
	defer srv.Close()

	_, err := testFetcher(1024).Fetch(context.Background(), srv.URL)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
	if gotGet {
		t.Fatal("body was transferred despite oversized Content-Length")
	}
}

func TestFetchRefusesUnadvertisedOversize(t *testing.T) {
	// Chunked responses carry no Content-Length; the cap is enforced while reading.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			return
		}
		fl, _ := w.(http.Flusher)
		for i := 0; i < 8; i++ {
			w.Write(bytes.Repeat([]byte("x"), 512))
			if fl != nil {
				fl.Flush()
			}
		}
	}))
	defer srv.Close()

	_, err := testFetcher(1024).Fetch(context.Background(), srv.URL)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
}

func TestFetchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := testFetcher(1024).Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("want error on 404")
	}
	if errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want plain failure", err)
	}
}

func TestFetchContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := testFetcher(1024).Fetch(ctx, srv.URL)
	if err == nil {
		t.Fatal("want error on cancelled context")
	}
}
