package tgui

import (
	tele "gopkg.in/telebot.v4"
)

// Inline is a small builder for inline keyboards (ReplyMarkup).
// It stores rows as tele.Row ([]tele.Btn) and applies them via ReplyMarkup.Inline().
type Inline struct {
	rm   *tele.ReplyMarkup
	rows []tele.Row
}

func NewInline() *Inline {
	return &Inline{rm: &tele.ReplyMarkup{}}
}

// Row appends a new row (buttons) to the inline keyboard.
func (i *Inline) Row(btn ...tele.Btn) *Inline {
	i.rows = append(i.rows, i.rm.Row(btn...))
	i.rm.Inline(i.rows...)
	return i
}

// Empty reports whether no rows were added.
func (i *Inline) Empty() bool { return len(i.rows) == 0 }

// Markup returns underlying reply markup.
func (i *Inline) Markup() *tele.ReplyMarkup { return i.rm }

// Btn creates a callback button with raw callback_data (we do NOT encode it).
// Use Data() from callback.go to build "prefix_payload" strings safely.
func Btn(text, data string) tele.Btn {
	return tele.Btn{Text: text, Data: data}
}

// URLBtn creates a URL button.
func URLBtn(text, url string) tele.Btn {
	return tele.Btn{Text: text, URL: url}
}

// ReplyMenu builds a persistent reply keyboard from rows of labels.
func ReplyMenu(rows ...[]string) *tele.ReplyMarkup {
	rm := &tele.ReplyMarkup{ResizeKeyboard: true}
	out := make([]tele.Row, 0, len(rows))
	for _, labels := range rows {
		btns := make([]tele.Btn, 0, len(labels))
		for _, l := range labels {
			btns = append(btns, rm.Text(l))
		}
		out = append(out, rm.Row(btns...))
	}
	rm.Reply(out...)
	return rm
}
