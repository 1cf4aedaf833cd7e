package adapter

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	tele "gopkg.in/telebot.v4"

	rtsup "monebot/internal/runtime/supervisor"
	kit "monebot/internal/transport"
	logx "monebot/pkg/logx"
)

type Config struct {
	Token       string
	PollTimeout time.Duration

	// WebhookURL switches the bot from long-polling to webhook delivery.
	// WebhookListen is the local listen address for webhook mode (":8443" style).
	WebhookURL    string
	WebhookListen string
}

type Adapter struct {
	cfg Config
	log logx.Logger

	bot     *tele.Bot
	out     atomic.Value // stores (chan<- kit.Update)
	runMu   sync.Mutex
	running bool

	// sup owns adapter internal goroutines (poll loop, drop logger, stop watcher).
	// It is created on Start() and cancelled on Stop().
	sup *rtsup.Supervisor

	// droppedUpdates counts updates dropped because the consumer was slower
	// than the Telegram poll loop. Logged periodically to avoid per-update spam.
	droppedUpdates uint64
}

func New(cfg Config, log logx.Logger) (*Adapter, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	var poller tele.Poller
	if u := strings.TrimSpace(cfg.WebhookURL); u != "" {
		listen := strings.TrimSpace(cfg.WebhookListen)
		if listen == "" {
			listen = ":8443"
		}
		poller = &tele.Webhook{
			Listen:   listen,
			Endpoint: &tele.WebhookEndpoint{PublicURL: u},
		}
	} else {
		timeout := cfg.PollTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		poller = &tele.LongPoller{Timeout: timeout}
	}

	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Poller: poller,
	})
	if err != nil {
		return nil, err
	}

	a := &Adapter{cfg: cfg, log: log, bot: b}
	// Ensure atomic.Value is initialized with a stable dynamic type.
	var nilOut chan<- kit.Update
	a.out.Store(nilOut)
	a.registerHandlers()
	return a, nil
}

func (a *Adapter) registerHandlers() {
	// Handlers forward to the CURRENT output channel. Start() may swap it.
	command := func(name string) func(tele.Context) error {
		return func(c tele.Context) error {
			m := c.Message()
			if m == nil || m.Sender == nil {
				return nil
			}
			a.sendUpdate(kit.Update{
				Kind: kit.UpdateCommand,
				Message: &kit.Message{
					ID:      m.ID,
					ChatID:  m.Chat.ID,
					From:    senderOf(m.Sender),
					Text:    m.Text,
					Command: name,
					Payload: m.Payload,
				},
			})
			return nil
		}
	}
	a.bot.Handle("/start", command("start"))
	a.bot.Handle("/events", command("events"))

	a.bot.Handle(tele.OnText, func(c tele.Context) error {
		m := c.Message()
		if m == nil || m.Sender == nil {
			return nil
		}
		a.sendUpdate(kit.Update{
			Kind: kit.UpdateMessage,
			Message: &kit.Message{
				ID:     m.ID,
				ChatID: m.Chat.ID,
				From:   senderOf(m.Sender),
				Text:   m.Text,
			},
		})
		return nil
	})

	a.bot.Handle(tele.OnCallback, func(c tele.Context) error {
		cb := c.Callback()
		m := c.Message()
		if cb == nil || m == nil {
			return nil
		}
		a.sendUpdate(kit.Update{
			Kind: kit.UpdateCallback,
			Callback: &kit.Callback{
				ID:        cb.ID,
				ChatID:    m.Chat.ID,
				From:      senderOf(cb.Sender),
				MessageID: m.ID,
				Data:      strings.TrimPrefix(cb.Data, "\f"),
			},
		})
		return nil
	})
}

func senderOf(u *tele.User) kit.User {
	if u == nil {
		return kit.User{}
	}
	return kit.User{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func (a *Adapter) sendUpdate(up kit.Update) {
	v := a.out.Load()
	out, _ := v.(chan<- kit.Update)
	if out == nil {
		return
	}
	select {
	case out <- up:
	default:
		atomic.AddUint64(&a.droppedUpdates, 1)
	}
}

func (a *Adapter) Start(ctx context.Context, out chan<- kit.Update) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a.runMu.Lock()
	if a.running {
		a.runMu.Unlock()
		return nil
	}
	a.running = true
	a.out.Store(out)
	a.sup = rtsup.New(ctx,
		rtsup.WithLogger(a.log.With(logx.String("comp", "telegram.adapter"))),
		// adapter errors should not take down the whole app; treat as best-effort.
		rtsup.WithCancelOnError(false),
	)
	sup := a.sup
	a.runMu.Unlock()

	// Periodic summary for dropped updates (avoid noisy per-update logs).
	sup.Go0("updates.drop_report", func(c context.Context) {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-c.Done():
				// Final flush.
				if n := atomic.SwapUint64(&a.droppedUpdates, 0); n > 0 {
					a.log.Warn("incoming updates dropped (channel full)", logx.Any("count", n))
				}
				return
			case <-ticker.C:
				if n := atomic.SwapUint64(&a.droppedUpdates, 0); n > 0 {
					a.log.Warn("incoming updates dropped (channel full)", logx.Any("count", n))
				}
			}
		}
	})

	// Ensure we stop telebot when the adapter context is cancelled.
	sup.Go0("telebot.stop_on_cancel", func(c context.Context) {
		<-c.Done()
		if a.bot != nil {
			a.bot.Stop()
		}
	})

	// Telebot's Start() is a long-running loop. In some failure modes it can
	// exit unexpectedly; run it under a restart loop so the adapter self-heals.
	sup.GoRestart0("telebot.poll", func(c context.Context) {
		a.log.Info("polling started")
		// Start blocks until Stop() called.
		if a.bot != nil {
			a.bot.Start()
		}
		a.log.Info("polling stopped")
	},
		rtsup.WithRestartBackoff(500*time.Millisecond, 10*time.Second),
		rtsup.WithPublishFirstError(true),
		// Restart if Start() returns while context is still active.
		rtsup.WithStopOnCleanExit(false),
	)

	return nil
}

func (a *Adapter) Stop(ctx context.Context) error {
	// Best-effort graceful stop. Never block shutdown for too long on Telegram long-poll.
	a.runMu.Lock()
	sup := a.sup
	a.sup = nil
	wasRunning := a.running
	a.running = false
	var nilOut chan<- kit.Update
	a.out.Store(nilOut)
	a.runMu.Unlock()

	if !wasRunning {
		a.log.Debug("telegram stop called but not running")
		return nil
	}

	if sup != nil {
		sup.Cancel()
	}

	// telebot Stop is expected to be fast; run it async just in case.
	if a.bot != nil {
		go a.bot.Stop()
	}

	if sup == nil {
		return nil
	}

	// Grace window: keep shutdown snappy even if getUpdates long-poll is still waiting.
	grace := 2 * time.Second
	if dl, ok := ctx.Deadline(); ok {
		if rem := time.Until(dl); rem > 0 && rem < grace {
			grace = rem
		}
	}
	wctx, cancel := context.WithTimeout(ctx, grace)
	defer cancel()

	if err := sup.Wait(wctx); err != nil {
		// Don't hard-fail shutdown for adapter; just report.
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			a.log.Warn("telegram stop timed out", logx.Err(err))
			return nil
		}
		a.log.Warn("telegram stop error", logx.Err(err))
	}
	return nil
}

const telegramTextLimit = 4000

// splitText splits long messages into chunks that are safe to send to
// Telegram, preferring newline boundaries.
func splitText(s string, limit int) []string {
	if limit <= 0 {
		limit = telegramTextLimit
	}
	rs := []rune(s)
	if len(rs) <= limit {
		return []string{s}
	}

	out := make([]string, 0, (len(rs)+limit-1)/limit)
	start := 0
	for start < len(rs) {
		end := start + limit
		if end > len(rs) {
			end = len(rs)
		}

		// Prefer splitting on a newline near the end of the window.
		if end < len(rs) {
			for i := end - 1; i > start; i-- {
				if rs[i] == '\n' {
					// Avoid extremely small chunks.
					if i-start >= limit/3 {
						end = i + 1
					}
					break
				}
			}
		}

		chunk := strings.TrimRight(string(rs[start:end]), "\n")
		out = append(out, chunk)

		start = end
		for start < len(rs) && rs[start] == '\n' {
			start++
		}
	}
	return out
}

func sendOptions(opt *kit.SendOptions) *tele.SendOptions {
	if opt == nil {
		return &tele.SendOptions{}
	}
	so := &tele.SendOptions{
		ParseMode:             opt.ParseMode,
		DisableWebPagePreview: opt.DisablePreview,
	}
	if rm, ok := opt.ReplyMarkup.(*tele.ReplyMarkup); ok {
		so.ReplyMarkup = rm
	}
	return so
}

func ctxErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func (a *Adapter) SendText(ctx context.Context, to kit.ChatTarget, text string, opt *kit.SendOptions) error {
	chunks := splitText(text, telegramTextLimit)
	chat := &tele.Chat{ID: to.ChatID}

	for i, chunk := range chunks {
		if err := ctxErr(ctx); err != nil {
			return err
		}
		so := sendOptions(opt)
		// Attach markup only to the first message.
		if i > 0 {
			so.ReplyMarkup = nil
		}
		if _, err := a.bot.Send(chat, chunk, so); err != nil {
			return err
		}
	}
	return nil
}

func (a *Adapter) SendPhoto(ctx context.Context, to kit.ChatTarget, photoURL, caption string, opt *kit.SendOptions) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	photo := &tele.Photo{File: tele.FromURL(photoURL), Caption: caption}
	_, err := a.bot.Send(&tele.Chat{ID: to.ChatID}, photo, sendOptions(opt))
	return err
}

func (a *Adapter) SendDocument(ctx context.Context, to kit.ChatTarget, doc kit.Document, opt *kit.SendOptions) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	d := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(doc.Data)),
		FileName: doc.FileName,
	}
	_, err := a.bot.Send(&tele.Chat{ID: to.ChatID}, d, sendOptions(opt))
	return err
}

func (a *Adapter) SendLocation(ctx context.Context, to kit.ChatTarget, lat, lng float64) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	loc := &tele.Location{Lat: float32(lat), Lng: float32(lng)}
	_, err := a.bot.Send(&tele.Chat{ID: to.ChatID}, loc)
	return err
}

func (a *Adapter) AnswerCallback(ctx context.Context, callbackID string, text string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	return a.bot.Respond(&tele.Callback{ID: callbackID}, &tele.CallbackResponse{Text: text})
}
