package repository

import (
	"context"
	"time"
)

// Book is one catalog row. All fields are raw spreadsheet strings; format
// links and the event date may be empty.
type Book struct {
	Title       string
	Author      string
	Description string
	CoverURL    string
	PDFLink     string
	EPUBLink    string
	FB2Link     string
	EventDate   string
	Announce    string
	Reminder    string
}

// User mirrors one Users row.
type User struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// FullName renders "first last" the way the Registrations sheet stores it.
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Registration mirrors one Registrations row.
type Registration struct {
	UserID     int64
	Username   string
	FullName   string
	EventTitle string
	Date       string
}

// Event is the derived "next upcoming meeting" view: the catalog row with
// the earliest today-or-future parseable event date.
type Event struct {
	Date time.Time // date-only, in the repository's location
	Book Book
}

// Store is the narrow query surface over the three club collections.
//
// EnsureUser and Register are insert-if-absent: the existence check and the
// append run under a single writer lock, so two concurrent identical calls
// yield exactly one row.
type Store interface {
	Books(ctx context.Context) ([]Book, error)
	// BookByTitle returns the first catalog row whose title matches exactly
	// (case-sensitive), or nil when absent.
	BookByTitle(ctx context.Context, title string) (*Book, error)
	// FindBook matches trimmed and case-insensitively and also reports the
	// row index within Books() order (-1 when absent).
	FindBook(ctx context.Context, title string) (*Book, int, error)
	NextEvent(ctx context.Context) (*Event, error)

	EnsureUser(ctx context.Context, u User) (bool, error)
	AllUserIDs(ctx context.Context) ([]int64, error)

	Register(ctx context.Context, u User, title string) (bool, error)
	RegistrantIDs(ctx context.Context, title string) ([]int64, error)
}
