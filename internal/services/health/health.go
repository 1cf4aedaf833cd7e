// Package health exposes the liveness endpoint hosting platforms probe to
// keep the bot instance awake.
package health

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	rtsup "monebot/internal/runtime/supervisor"
	logx "monebot/pkg/logx"
)

type Config struct {
	Enabled bool
	Addr    string // default ":8080"
}

type Service struct {
	mu  sync.Mutex
	log logx.Logger
	cfg Config

	ln  net.Listener
	srv *http.Server
	sup *rtsup.Supervisor
}

func New(cfg Config, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{cfg: cfg, log: log}
}

func (s *Service) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Enabled
}

// Addr returns the bound listen address, or "" before the listener is up.
func (s *Service) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if !s.cfg.Enabled || s.sup != nil {
		s.mu.Unlock()
		return
	}
	s.sup = rtsup.New(ctx,
		rtsup.WithLogger(s.log.With(logx.String("comp", "health"))),
		// Liveness is auxiliary; never take the bot down with it.
		rtsup.WithCancelOnError(false),
	)
	sup := s.sup
	s.mu.Unlock()

	sup.GoRestart("http.serve", func(c context.Context) error {
		return s.serveOnce(c)
	},
		rtsup.WithRestartBackoff(500*time.Millisecond, 10*time.Second),
	)
}

func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	srv := s.srv
	ln := s.ln
	sup := s.sup
	s.srv = nil
	s.ln = nil
	s.sup = nil
	s.mu.Unlock()
	if sup == nil {
		return
	}

	if srv != nil {
		_ = srv.Shutdown(ctx)
		_ = srv.Close()
	}
	if ln != nil {
		_ = ln.Close()
	}
	sup.Cancel()
	_ = sup.Wait(ctx)
	s.log.Info("health server stopped")
}

func (s *Service) serveOnce(ctx context.Context) error {
	s.mu.Lock()
	addr := s.cfg.Addr
	s.mu.Unlock()
	if addr == "" {
		addr = ":8080"
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	srv := &http.Server{
		Handler:     mux,
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	defer srv.Close()

	s.mu.Lock()
	s.ln = ln
	s.srv = srv
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		cctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = srv.Shutdown(cctx)
		cancel()
	}()

	s.log.Info("health server started", logx.String("addr", ln.Addr().String()))

	err = srv.Serve(ln)
	if ctx.Err() != nil {
		return context.Canceled
	}
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return errors.New("health server exited unexpectedly")
	}
	return err
}
