package repository

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Catalog column headers as they appear in the hand-maintained sheet.
const (
	colTitle    = "Название"
	colAuthor   = "Автор"
	colDesc     = "Описание"
	colCover    = "Обложка_URL"
	colPDF      = "PDF_ссылка"
	colEPUB     = "EPUB_ссылка"
	colFB2      = "FB2_ссылка"
	colDate     = "Дата_вечера"
	colAnnounce = "Анонс_текст"
	colReminder = "Напоминание_текст"
)

// Users / Registrations headers.
const (
	colUserID     = "user_id"
	colUsername   = "username"
	colFirstName  = "first_name"
	colLastName   = "last_name"
	colFullName   = "full_name"
	colEventTitle = "event_title"
	colRegDate    = "date"
)

// record is one sheet row keyed by header name. Missing cells are "".
type record map[string]string

func (r record) get(key string) string { return strings.TrimSpace(r[key]) }

func (r record) int64(key string) (int64, bool) {
	s := r.get(key)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// recordsFrom pairs a header row with the remaining rows, the way
// spreadsheet clients expose "all records". Short rows are padded with "".
func recordsFrom(values [][]any) []record {
	if len(values) < 2 {
		return nil
	}
	headers := make([]string, len(values[0]))
	for i, h := range values[0] {
		headers[i] = strings.TrimSpace(fmt.Sprint(h))
	}

	out := make([]record, 0, len(values)-1)
	for _, row := range values[1:] {
		rec := make(record, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(row) && row[i] != nil {
				rec[h] = fmt.Sprint(row[i])
			} else {
				rec[h] = ""
			}
		}
		out = append(out, rec)
	}
	return out
}

func bookFrom(r record) Book {
	return Book{
		Title:       r.get(colTitle),
		Author:      r.get(colAuthor),
		Description: r.get(colDesc),
		CoverURL:    r.get(colCover),
		PDFLink:     r.get(colPDF),
		EPUBLink:    r.get(colEPUB),
		FB2Link:     r.get(colFB2),
		EventDate:   r.get(colDate),
		Announce:    r.get(colAnnounce),
		Reminder:    r.get(colReminder),
	}
}

// nextEvent selects the catalog row with the earliest parseable event date
// that is today or later. Ties keep the earlier row (stable).
func nextEvent(books []Book, today time.Time, loc *time.Location) *Event {
	var best *Event
	for i := range books {
		d, ok := ParseEventDate(books[i].EventDate, loc)
		if !ok || d.Before(today) {
			continue
		}
		if best == nil || d.Before(best.Date) {
			best = &Event{Date: d, Book: books[i]}
		}
	}
	return best
}

// matchTitle is the lenient comparison used when jumping from an event card
// back into the catalog.
func matchTitle(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
