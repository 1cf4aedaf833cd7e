// Package notify runs the periodic event announcement cycle: a club-wide
// announcement N days before the meeting and a reminder to registrants the
// day before.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"monebot/internal/drive"
	"monebot/internal/repository"
	"monebot/internal/services/broadcast"
	"monebot/internal/storage"
	"monebot/internal/transport"
	logx "monebot/pkg/logx"
	"monebot/pkg/tgui"
)

type Config struct {
	Enabled      bool
	Interval     time.Duration // cycle period, default 24h
	InitialDelay time.Duration // first run after start, default 10s
	AnnounceDays int           // default 14
	RemindDays   int           // default 1
}

type Service struct {
	mu  sync.Mutex
	cfg Config

	repo  repository.Store
	bcast *broadcast.Service
	store storage.Store // may be nil; markers then live only in memory
	log   logx.Logger
	loc   *time.Location

	c   *cron.Cron
	now func() time.Time

	// sent backs the storage markers so a nil store still suppresses
	// repeats within one process lifetime.
	sentMu sync.Mutex
	sent   map[string]bool
}

func New(cfg Config, repo repository.Store, bcast *broadcast.Service, store storage.Store, loc *time.Location, log logx.Logger) *Service {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = 10 * time.Second
	}
	if cfg.AnnounceDays <= 0 {
		cfg.AnnounceDays = 14
	}
	if cfg.RemindDays <= 0 {
		cfg.RemindDays = 1
	}
	if loc == nil {
		loc = time.Local
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		cfg:   cfg,
		repo:  repo,
		bcast: bcast,
		store: store,
		log:   log,
		loc:   loc,
		now:   time.Now,
		sent:  map[string]bool{},
	}
}

// Apply updates the day thresholds at runtime. Interval changes require a
// restart; the cron entry is registered once.
func (s *Service) Apply(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg.AnnounceDays > 0 {
		s.cfg.AnnounceDays = cfg.AnnounceDays
	}
	if cfg.RemindDays > 0 {
		s.cfg.RemindDays = cfg.RemindDays
	}
	s.cfg.Enabled = cfg.Enabled
}

func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cfg.Enabled || s.c != nil {
		return nil
	}

	c := cron.New(cron.WithLocation(s.loc))
	_, err := c.AddFunc(fmt.Sprintf("@every %s", s.cfg.Interval), func() { s.Cycle(ctx) })
	if err != nil {
		return fmt.Errorf("register notify cycle: %w", err)
	}
	c.Start()
	s.c = c

	// First pass soon after start so a freshly deployed bot catches up
	// without waiting a full interval.
	delay := s.cfg.InitialDelay
	go func() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
			s.Cycle(ctx)
		}
	}()

	s.log.Info("notify cycle scheduled",
		logx.Duration("interval", s.cfg.Interval),
		logx.Int("announce_days", s.cfg.AnnounceDays),
		logx.Int("remind_days", s.cfg.RemindDays))
	return nil
}

func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.c
	s.c = nil
	s.mu.Unlock()
	if c == nil {
		return
	}
	stopped := c.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
	}
}

// Cycle runs one announcement pass. Errors are logged and dropped; the next
// tick retries.
func (s *Service) Cycle(ctx context.Context) {
	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()
	if !cfg.Enabled {
		return
	}

	ev, err := s.repo.NextEvent(ctx)
	if err != nil {
		s.log.Warn("notify cycle: next event lookup failed", logx.Err(err))
		return
	}
	if ev == nil {
		return
	}

	today := s.today()
	days := repository.DaysUntil(ev.Date, today)
	s.log.Debug("notify cycle",
		logx.String("title", ev.Book.Title),
		logx.Time("event_date", ev.Date),
		logx.Int("days_until", days))

	switch days {
	case cfg.AnnounceDays:
		s.announce(ctx, ev)
	case cfg.RemindDays:
		s.remind(ctx, ev)
	}
}

func (s *Service) announce(ctx context.Context, ev *repository.Event) {
	key := markerKey("announce", ev)
	if s.alreadySent(ctx, key) {
		return
	}

	ids, err := s.repo.AllUserIDs(ctx)
	if err != nil {
		s.log.Warn("announce: user list failed", logx.Err(err))
		return
	}

	text := ev.Book.Announce
	if text == "" {
		text = fmt.Sprintf("Скоро встреча по книге «%s».", ev.Book.Title)
	}
	kb := tgui.NewInline().
		Row(tgui.Btn("Записаться", tgui.Data("going", ev.Book.Title))).
		Row(tgui.Btn("Начать читать", tgui.Data("formats_title", ev.Book.Title)))
	msg := broadcast.Message{
		Text: text,
		Opt:  &transport.SendOptions{ReplyMarkup: kb.Markup()},
	}
	if ev.Book.CoverURL != "" {
		msg.PhotoURL = drive.ViewURLFromLink(ev.Book.CoverURL)
	}

	out := s.bcast.Run(ctx, "announce", ids, msg)
	s.markSent(ctx, key)
	s.audit(ctx, "announce", ev.Book.Title, out)
}

func (s *Service) remind(ctx context.Context, ev *repository.Event) {
	key := markerKey("remind", ev)
	if s.alreadySent(ctx, key) {
		return
	}

	ids, err := s.repo.RegistrantIDs(ctx, ev.Book.Title)
	if err != nil {
		s.log.Warn("remind: registrant list failed", logx.Err(err))
		return
	}

	text := ev.Book.Reminder
	if text == "" {
		text = fmt.Sprintf("Напоминание: завтра встреча по книге «%s».", ev.Book.Title)
	}

	out := s.bcast.Run(ctx, "remind", ids, broadcast.Message{Text: text})
	s.markSent(ctx, key)
	s.audit(ctx, "remind", ev.Book.Title, out)
}

func (s *Service) today() time.Time {
	y, m, d := s.now().In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

func markerKey(kind string, ev *repository.Event) string {
	return fmt.Sprintf("notify:%s:%s:%s", kind, ev.Book.Title, ev.Date.Format("02.01.2006"))
}

func (s *Service) alreadySent(ctx context.Context, key string) bool {
	s.sentMu.Lock()
	hit := s.sent[key]
	s.sentMu.Unlock()
	if hit {
		return true
	}
	if s.store != nil {
		if _, ok, err := s.store.GetMarker(ctx, key); err == nil && ok {
			return true
		}
	}
	return false
}

func (s *Service) markSent(ctx context.Context, key string) {
	s.sentMu.Lock()
	s.sent[key] = true
	s.sentMu.Unlock()
	if s.store != nil {
		if err := s.store.SetMarker(ctx, key); err != nil {
			s.log.Warn("notify marker persist failed", logx.String("key", key), logx.Err(err))
		}
	}
}

func (s *Service) audit(ctx context.Context, action, title string, out broadcast.Outcome) {
	if s.store == nil {
		return
	}
	err := s.store.AppendAudit(ctx, storage.AuditEntry{
		At:     s.now(),
		Action: action,
		Target: title,
		OK:     out.Sent,
		Fail:   out.Failed,
	})
	if err != nil {
		s.log.Debug("notify audit append failed", logx.Err(err))
	}
}
