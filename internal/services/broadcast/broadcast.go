// Package broadcast fans one message out to many chats with a worker pool
// and a global rate limit, staying under the platform's messages-per-second
// ceiling.
package broadcast

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"monebot/internal/transport"
	logx "monebot/pkg/logx"
)

type Config struct {
	Workers    int
	RatePerSec int
	RetryMax   int
}

// Message is one broadcast payload. A non-empty PhotoURL sends the text as a
// photo caption; otherwise plain text.
type Message struct {
	Text     string
	PhotoURL string
	Opt      *transport.SendOptions
}

// Outcome counts per-recipient results of one finished broadcast.
type Outcome struct {
	Total  int
	Sent   int
	Failed int
}

type Service struct {
	cfg     Config
	adapter transport.Adapter
	log     logx.Logger
	limiter *rate.Limiter
}

func New(cfg Config, adapter transport.Adapter, log logx.Logger) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 10
	}
	if cfg.RetryMax < 0 {
		cfg.RetryMax = 0
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		cfg:     cfg,
		adapter: adapter,
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec),
	}
}

// Run delivers msg to every chat id and blocks until all sends finish or ctx
// is cancelled. Per-recipient failures are counted, never fatal: one blocked
// chat must not stop an announcement.
func (s *Service) Run(ctx context.Context, name string, chatIDs []int64, msg Message) Outcome {
	out := Outcome{Total: len(chatIDs)}
	if len(chatIDs) == 0 {
		return out
	}

	start := time.Now()
	targets := make(chan int64)
	var mu sync.Mutex
	var wg sync.WaitGroup

	workers := s.cfg.Workers
	if workers > len(chatIDs) {
		workers = len(chatIDs)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range targets {
				err := s.sendOne(ctx, transport.ChatTarget{ChatID: id}, msg)
				mu.Lock()
				if err != nil {
					out.Failed++
				} else {
					out.Sent++
				}
				mu.Unlock()
				if err != nil {
					s.log.Warn("broadcast send failed",
						logx.String("name", name), logx.Int64("chat_id", id), logx.Err(err))
				}
			}
		}()
	}

feed:
	for _, id := range chatIDs {
		select {
		case targets <- id:
		case <-ctx.Done():
			break feed
		}
	}
	close(targets)
	wg.Wait()

	s.log.Info("broadcast finished",
		logx.String("name", name),
		logx.Int("total", out.Total), logx.Int("sent", out.Sent), logx.Int("failed", out.Failed),
		logx.Duration("took", time.Since(start)))
	return out
}

func (s *Service) sendOne(ctx context.Context, t transport.ChatTarget, msg Message) error {
	var last error
	for attempt := 0; ; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		if msg.PhotoURL != "" {
			last = s.adapter.SendPhoto(ctx, t, msg.PhotoURL, msg.Text, msg.Opt)
		} else {
			last = s.adapter.SendText(ctx, t, msg.Text, msg.Opt)
		}
		if last == nil {
			return nil
		}
		if attempt >= s.cfg.RetryMax {
			return last
		}
		// Back off only between attempts; the final failure returns at once.
		select {
		case <-ctx.Done():
			return last
		case <-time.After(time.Duration(200+100*attempt) * time.Millisecond):
		}
	}
}
