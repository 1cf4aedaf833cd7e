// Package bot routes incoming chat updates to the club's features: the
// library, event cards, registrations and the static info screens.
package bot

import (
	"context"
	"time"

	"monebot/internal/drive"
	"monebot/internal/repository"
	"monebot/internal/storage"
	"monebot/internal/transport"
	logx "monebot/pkg/logx"
	"monebot/pkg/tgui"
)

type Config struct {
	// AdminChatID receives a note on every new event registration. 0 disables.
	AdminChatID int64
}

type Handler struct {
	cfg     Config
	repo    repository.Store
	fetcher *drive.Fetcher
	adapter transport.Adapter
	store   storage.Store // optional audit trail, may be nil
	log     logx.Logger
}

func New(cfg Config, repo repository.Store, fetcher *drive.Fetcher, adapter transport.Adapter, store storage.Store, log logx.Logger) *Handler {
	if fetcher == nil {
		fetcher = drive.NewFetcher()
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Handler{
		cfg:     cfg,
		repo:    repo,
		fetcher: fetcher,
		adapter: adapter,
		store:   store,
		log:     log,
	}
}

// Dispatch handles one update start to finish. It never returns an error:
// user-facing failures become chat messages, the rest is logged.
func (h *Handler) Dispatch(ctx context.Context, u transport.Update) {
	switch u.Kind {
	case transport.UpdateCommand:
		if u.Message != nil {
			h.onCommand(ctx, u.Message)
		}
	case transport.UpdateMessage:
		if u.Message != nil {
			h.onText(ctx, u.Message)
		}
	case transport.UpdateCallback:
		if u.Callback != nil {
			h.onCallback(ctx, u.Callback)
		}
	}
}

func (h *Handler) onCommand(ctx context.Context, m *transport.Message) {
	switch m.Command {
	case "start":
		h.onStart(ctx, m)
	case "events":
		h.events(ctx, m.ChatID)
	}
}

func (h *Handler) onStart(ctx context.Context, m *transport.Message) {
	// Deep-link /start hello shows the greeting without touching the user
	// sheet (used in promo QR codes).
	if m.Payload != "hello" {
		created, err := h.repo.EnsureUser(ctx, repository.User{
			ID:        m.From.ID,
			Username:  m.From.Username,
			FirstName: m.From.FirstName,
			LastName:  m.From.LastName,
		})
		if err != nil {
			h.log.Warn("save user failed", logx.Int64("user_id", m.From.ID), logx.Err(err))
		} else if created {
			h.log.Info("new club member", logx.Int64("user_id", m.From.ID), logx.String("username", m.From.Username))
		}
	}

	h.send(ctx, m.ChatID, greetingText, &transport.SendOptions{ReplyMarkup: mainMenu()})
}

func mainMenu() any {
	return tgui.ReplyMenu(
		[]string{menuLibrary},
		[]string{menuEvents},
		[]string{menuAbout, menuContacts},
	)
}

func (h *Handler) onText(ctx context.Context, m *transport.Message) {
	switch m.Text {
	case menuLibrary:
		h.library(ctx, m.ChatID)
	case menuEvents:
		h.events(ctx, m.ChatID)
	case menuAbout:
		h.send(ctx, m.ChatID, aboutText, &transport.SendOptions{
			ParseMode:      "Markdown",
			DisablePreview: true,
		})
	case menuContacts:
		if err := h.adapter.SendLocation(ctx, transport.ChatTarget{ChatID: m.ChatID}, cafeLat, cafeLng); err != nil {
			h.log.Warn("send location failed", logx.Err(err))
		}
		h.send(ctx, m.ChatID, contactsText, &transport.SendOptions{ParseMode: "Markdown"})
	default:
		h.send(ctx, m.ChatID, textUseMenu, nil)
	}
}

func (h *Handler) onCallback(ctx context.Context, cb *transport.Callback) {
	defer func() {
		if err := h.adapter.AnswerCallback(ctx, cb.ID, ""); err != nil {
			h.log.Debug("answer callback failed", logx.Err(err))
		}
	}()

	// formats_title carries a book title and must be matched before the
	// index-based formats prefix.
	if title, ok := tgui.Payload(cb.Data, "formats_title"); ok {
		h.formatsByTitle(ctx, cb.ChatID, title)
		return
	}
	if title, ok := tgui.Payload(cb.Data, "going"); ok {
		h.going(ctx, cb, title)
		return
	}

	prefix, payload := tgui.Split(cb.Data)
	idx, okIdx := tgui.Index(payload)
	if !okIdx {
		h.log.Debug("callback with bad index", logx.String("data", cb.Data))
		return
	}
	switch prefix {
	case "book":
		h.bookDetails(ctx, cb.ChatID, idx)
	case "formats":
		h.formatsByIndex(ctx, cb.ChatID, idx)
	case "getpdf":
		h.sendFormat(ctx, cb, idx, formatPDF)
	case "getepub":
		h.sendFormat(ctx, cb, idx, formatEPUB)
	case "getfb2":
		h.sendFormat(ctx, cb, idx, formatFB2)
	default:
		h.log.Debug("unknown callback", logx.String("data", cb.Data))
	}
}

func (h *Handler) send(ctx context.Context, chatID int64, text string, opt *transport.SendOptions) {
	if err := h.adapter.SendText(ctx, transport.ChatTarget{ChatID: chatID}, text, opt); err != nil {
		h.log.Warn("send failed", logx.Int64("chat_id", chatID), logx.Err(err))
	}
}

func (h *Handler) audit(ctx context.Context, e storage.AuditEntry) {
	if h.store == nil {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	if err := h.store.AppendAudit(ctx, e); err != nil {
		h.log.Debug("audit append failed", logx.Err(err))
	}
}
