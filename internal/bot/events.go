package bot

import (
	"context"
	"fmt"

	"monebot/internal/drive"
	"monebot/internal/repository"
	"monebot/internal/storage"
	"monebot/internal/transport"
	logx "monebot/pkg/logx"
	"monebot/pkg/tgui"
)

func (h *Handler) events(ctx context.Context, chatID int64) {
	ev, err := h.repo.NextEvent(ctx)
	if err != nil {
		h.log.Warn("next event lookup failed", logx.Err(err))
		return
	}
	if ev == nil {
		h.send(ctx, chatID, textNoEvents, nil)
		return
	}

	text := ev.Book.Announce
	if text == "" {
		text = fmt.Sprintf("Встреча по книге «%s».", ev.Book.Title)
	}
	kb := tgui.NewInline().Row(
		tgui.Btn("Записаться", tgui.Data("going", ev.Book.Title)),
		tgui.Btn("Начать читать", tgui.Data("formats_title", ev.Book.Title)),
	)
	opt := &transport.SendOptions{ReplyMarkup: kb.Markup()}

	if ev.Book.CoverURL != "" {
		cover := drive.ViewURLFromLink(ev.Book.CoverURL)
		if err := h.adapter.SendPhoto(ctx, transport.ChatTarget{ChatID: chatID}, cover, text, opt); err == nil {
			return
		}
	}
	h.send(ctx, chatID, text, opt)
}

func (h *Handler) going(ctx context.Context, cb *transport.Callback, title string) {
	u := repository.User{
		ID:        cb.From.ID,
		Username:  cb.From.Username,
		FirstName: cb.From.FirstName,
		LastName:  cb.From.LastName,
	}
	created, err := h.repo.Register(ctx, u, title)
	if err != nil {
		h.log.Warn("registration failed", logx.Int64("user_id", u.ID), logx.String("title", title), logx.Err(err))
		return
	}
	if !created {
		h.send(ctx, cb.ChatID, textAlreadyGoing, nil)
		return
	}

	h.send(ctx, cb.ChatID, fmt.Sprintf(textRegistered, title), nil)
	h.audit(ctx, storage.AuditEntry{
		UserID:   u.ID,
		Username: u.Username,
		ChatID:   cb.ChatID,
		Action:   "register",
		Target:   title,
		OK:       1,
	})

	if h.cfg.AdminChatID != 0 {
		username := u.Username
		if username == "" {
			username = "—"
		}
		note := fmt.Sprintf("*Новый участник*\n%s\n@%s\nКнига: %s", u.FullName(), username, title)
		if err := h.adapter.SendText(ctx, transport.ChatTarget{ChatID: h.cfg.AdminChatID}, note,
			&transport.SendOptions{ParseMode: "Markdown"}); err != nil {
			h.log.Warn("admin notification failed", logx.Err(err))
		}
	}
}
