package bot

import (
	"context"
	"errors"
	"fmt"

	"monebot/internal/drive"
	"monebot/internal/repository"
	"monebot/internal/storage"
	"monebot/internal/transport"
	logx "monebot/pkg/logx"
	"monebot/pkg/tgui"
)

// bookFormat describes one downloadable format and how it is offered.
type bookFormat struct {
	ext        string
	prefix     string // callback prefix: getpdf / getepub / getfb2
	button     string
	missing    string // reply when the catalog has no link for this format
	fetchError string
	link       func(repository.Book) string
}

var (
	formatPDF = bookFormat{
		ext:        "pdf",
		prefix:     "getpdf",
		button:     "📕 PDF — подходит для всех устройств",
		missing:    textPDFMissing,
		fetchError: "Ошибка загрузки PDF.",
		link:       func(b repository.Book) string { return b.PDFLink },
	}
	formatEPUB = bookFormat{
		ext:        "epub",
		prefix:     "getepub",
		button:     "📘 EPUB — удобно для iPhone и iPad",
		missing:    textFileMissing,
		fetchError: "Ошибка загрузки файла.",
		link:       func(b repository.Book) string { return b.EPUBLink },
	}
	formatFB2 = bookFormat{
		ext:        "fb2",
		prefix:     "getfb2",
		button:     "📗 FB2 — для Android и электронных книг",
		missing:    textFileMissing,
		fetchError: "Ошибка загрузки файла.",
		link:       func(b repository.Book) string { return b.FB2Link },
	}
)

func (h *Handler) library(ctx context.Context, chatID int64) {
	books, err := h.repo.Books(ctx)
	if err != nil {
		h.log.Warn("library listing failed", logx.Err(err))
		return
	}
	if len(books) == 0 {
		h.send(ctx, chatID, textEmptyLibrary, nil)
		return
	}

	kb := tgui.NewInline()
	for i, b := range books {
		label := fmt.Sprintf("%s — %s", b.Title, b.Author)
		kb.Row(tgui.Btn(label, tgui.Data("book", fmt.Sprint(i))))
	}
	h.send(ctx, chatID, textChooseBook, &transport.SendOptions{ReplyMarkup: kb.Markup()})
}

func (h *Handler) bookDetails(ctx context.Context, chatID int64, idx int) {
	book, ok := h.bookAt(ctx, idx)
	if !ok {
		return
	}

	caption := fmt.Sprintf("📖 *%s*\nАвтор: %s\n\n%s", book.Title, book.Author, book.Description)
	kb := tgui.NewInline().Row(tgui.Btn("📖 Начать читать", tgui.Data("formats", fmt.Sprint(idx))))
	opt := &transport.SendOptions{ParseMode: "Markdown", ReplyMarkup: kb.Markup()}

	if book.CoverURL != "" {
		cover := drive.ViewURLFromLink(book.CoverURL)
		err := h.adapter.SendPhoto(ctx, transport.ChatTarget{ChatID: chatID}, cover, caption, opt)
		if err == nil {
			return
		}
		h.log.Warn("cover send failed", logx.String("title", book.Title), logx.Err(err))
		h.send(ctx, chatID, textCoverFailed, nil)
	}
	h.send(ctx, chatID, caption, opt)
}

func (h *Handler) formatsByIndex(ctx context.Context, chatID int64, idx int) {
	book, ok := h.bookAt(ctx, idx)
	if !ok {
		return
	}
	h.sendFormats(ctx, chatID, book, idx)
}

func (h *Handler) formatsByTitle(ctx context.Context, chatID int64, title string) {
	book, idx, err := h.repo.FindBook(ctx, title)
	if err != nil {
		h.log.Warn("book lookup failed", logx.String("title", title), logx.Err(err))
		return
	}
	if book == nil {
		h.send(ctx, chatID, textBookNotFound, nil)
		return
	}
	h.sendFormats(ctx, chatID, book, idx)
}

func (h *Handler) sendFormats(ctx context.Context, chatID int64, book *repository.Book, idx int) {
	kb := tgui.NewInline()
	for _, f := range []bookFormat{formatPDF, formatEPUB, formatFB2} {
		if f.link(*book) == "" {
			continue
		}
		kb.Row(tgui.Btn(f.button, tgui.Data(f.prefix, fmt.Sprint(idx))))
	}
	text := fmt.Sprintf("📚 *Форматы книги «%s»*", book.Title)
	h.send(ctx, chatID, text, &transport.SendOptions{ParseMode: "Markdown", ReplyMarkup: kb.Markup()})
}

func (h *Handler) sendFormat(ctx context.Context, cb *transport.Callback, idx int, f bookFormat) {
	book, ok := h.bookAt(ctx, idx)
	if !ok {
		return
	}
	link := f.link(*book)
	if link == "" {
		h.send(ctx, cb.ChatID, f.missing, nil)
		return
	}

	url := link
	if id := drive.ExtractFileID(link); id != "" {
		url = drive.DirectDownloadURL(id)
	}
	data, err := h.fetcher.Fetch(ctx, url)
	if err != nil {
		if errors.Is(err, drive.ErrTooLarge) {
			// The document won't go through chat; hand out the link instead.
			h.send(ctx, cb.ChatID, fmt.Sprintf("Файл слишком большой.\n%s", link), nil)
			return
		}
		h.log.Warn("book download failed", logx.String("title", book.Title), logx.String("ext", f.ext), logx.Err(err))
		h.send(ctx, cb.ChatID, f.fetchError, nil)
		return
	}

	if f.ext == "pdf" {
		h.send(ctx, cb.ChatID, textHereIsYourBook, &transport.SendOptions{ParseMode: "Markdown"})
	}
	doc := transport.Document{
		Data:     data,
		FileName: fmt.Sprintf("%s.%s", book.Title, f.ext),
	}
	if err := h.adapter.SendDocument(ctx, transport.ChatTarget{ChatID: cb.ChatID}, doc, nil); err != nil {
		h.log.Warn("document send failed", logx.String("title", book.Title), logx.Err(err))
		h.send(ctx, cb.ChatID, f.fetchError, nil)
		return
	}
	h.audit(ctx, storage.AuditEntry{
		UserID:   cb.From.ID,
		Username: cb.From.Username,
		ChatID:   cb.ChatID,
		Action:   "send_file",
		Target:   book.Title + "." + f.ext,
		OK:       1,
	})
}

// bookAt fetches the catalog and bounds-checks a row index coming from
// callback data (the catalog may have changed since the keyboard was sent).
func (h *Handler) bookAt(ctx context.Context, idx int) (*repository.Book, bool) {
	books, err := h.repo.Books(ctx)
	if err != nil {
		h.log.Warn("catalog read failed", logx.Err(err))
		return nil, false
	}
	if idx < 0 || idx >= len(books) {
		h.log.Debug("stale book index", logx.Int("idx", idx), logx.Int("books", len(books)))
		return nil, false
	}
	return &books[idx], true
}
