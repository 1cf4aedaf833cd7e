package transport

import "context"

type UpdateKind string

const (
	UpdateCommand  UpdateKind = "command"
	UpdateMessage  UpdateKind = "message"
	UpdateCallback UpdateKind = "callback"
)

type Update struct {
	Kind     UpdateKind
	Message  *Message
	Callback *Callback
}

// Message carries both plain text messages and slash commands.
// For commands, Command holds the bare name ("start") and Payload the
// argument string after it ("hello").
type Message struct {
	ID      int
	ChatID  int64
	From    User
	Text    string
	Command string
	Payload string
}

type Callback struct {
	ID        string
	ChatID    int64
	From      User
	MessageID int
	Data      string
}

// User is the sender profile as the chat platform reports it.
type User struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

type ChatTarget struct {
	ChatID int64
}

type SendOptions struct {
	ParseMode      string
	DisablePreview bool
	ReplyMarkup    any // adapter-specific markup (Telegram: *telebot.ReplyMarkup)
}

// Document is a file attachment sent from memory.
type Document struct {
	Data     []byte
	FileName string
}

type Adapter interface {
	Start(ctx context.Context, out chan<- Update) error
	Stop(ctx context.Context) error

	SendText(ctx context.Context, to ChatTarget, text string, opt *SendOptions) error
	SendPhoto(ctx context.Context, to ChatTarget, photoURL, caption string, opt *SendOptions) error
	SendDocument(ctx context.Context, to ChatTarget, doc Document, opt *SendOptions) error
	SendLocation(ctx context.Context, to ChatTarget, lat, lng float64) error
	AnswerCallback(ctx context.Context, callbackID string, text string) error
}
