package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	logx "monebot/pkg/logx"
)

const (
	usersSheet         = "Users"
	registrationsSheet = "Registrations"
)

// Config locates the spreadsheet and the service-account credentials.
type Config struct {
	SpreadsheetName string
	SpreadsheetID   string
	CredentialsFile string
	Timezone        string
}

// Sheets implements Store against a Google spreadsheet with three tabs:
// the catalog (first sheet), "Users" and "Registrations".
//
// Every read is a full-range fetch with no caching; collections are small
// (a hand-maintained club catalog) and freshness beats round-trip cost here.
type Sheets struct {
	svc           *sheets.Service
	spreadsheetID string
	catalogRange  string
	loc           *time.Location
	log           logx.Logger

	now func() time.Time

	// writeMu serializes the check-then-append pairs in EnsureUser and
	// Register so identical concurrent calls cannot both observe "absent".
	writeMu sync.Mutex
}

func NewSheets(ctx context.Context, cfg Config, log logx.Logger) (*Sheets, error) {
	if log.IsZero() {
		log = logx.Nop()
	}

	creds, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	jwt, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsScope, drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}
	ts := jwt.TokenSource(ctx)

	svc, err := sheets.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	id := strings.TrimSpace(cfg.SpreadsheetID)
	if id == "" {
		id, err = lookupSpreadsheetID(ctx, ts, cfg.SpreadsheetName)
		if err != nil {
			return nil, err
		}
	}

	loc := time.Local
	if tz := strings.TrimSpace(cfg.Timezone); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
		}
	}

	s := &Sheets{
		svc:           svc,
		spreadsheetID: id,
		loc:           loc,
		log:           log,
		now:           time.Now,
	}
	if err := s.resolveCatalogRange(ctx); err != nil {
		return nil, err
	}
	log.Info("spreadsheet connected", logx.String("id", id))
	return s, nil
}

// lookupSpreadsheetID resolves a spreadsheet by name through the Drive API,
// mirroring how spreadsheet clients "open by title".
func lookupSpreadsheetID(ctx context.Context, ts oauth2.TokenSource, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("sheets: spreadsheet name or id is required")
	}
	dsvc, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return "", fmt.Errorf("create drive service: %w", err)
	}
	q := fmt.Sprintf("name = '%s' and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false",
		strings.ReplaceAll(name, "'", `\'`))
	list, err := dsvc.Files.List().Q(q).Fields("files(id,name)").PageSize(2).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("lookup spreadsheet %q: %w", name, err)
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("spreadsheet %q not found (is it shared with the service account?)", name)
	}
	return list.Files[0].Id, nil
}

// resolveCatalogRange pins the catalog range to the first sheet's title so
// reads don't depend on which tab is currently "visible first".
func (s *Sheets) resolveCatalogRange(ctx context.Context) error {
	meta, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets(properties(title,index))").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read spreadsheet metadata: %w", err)
	}
	if len(meta.Sheets) == 0 || meta.Sheets[0].Properties == nil {
		return errors.New("spreadsheet has no sheets")
	}
	s.catalogRange = fmt.Sprintf("'%s'!A1:Z", meta.Sheets[0].Properties.Title)
	return nil
}

func (s *Sheets) read(ctx context.Context, readRange string) ([]record, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", readRange, err)
	}
	return recordsFrom(resp.Values), nil
}

func (s *Sheets) append(ctx context.Context, writeRange string, row []any) error {
	vr := &sheets.ValueRange{Values: [][]any{row}}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append %s: %w", writeRange, err)
	}
	return nil
}

func (s *Sheets) Books(ctx context.Context) ([]Book, error) {
	recs, err := s.read(ctx, s.catalogRange)
	if err != nil {
		return nil, err
	}
	books := make([]Book, 0, len(recs))
	for _, r := range recs {
		books = append(books, bookFrom(r))
	}
	return books, nil
}

func (s *Sheets) BookByTitle(ctx context.Context, title string) (*Book, error) {
	books, err := s.Books(ctx)
	if err != nil {
		return nil, err
	}
	for i := range books {
		if books[i].Title == title {
			return &books[i], nil
		}
	}
	return nil, nil
}

func (s *Sheets) FindBook(ctx context.Context, title string) (*Book, int, error) {
	books, err := s.Books(ctx)
	if err != nil {
		return nil, -1, err
	}
	for i := range books {
		if matchTitle(books[i].Title, title) {
			return &books[i], i, nil
		}
	}
	return nil, -1, nil
}

func (s *Sheets) NextEvent(ctx context.Context) (*Event, error) {
	books, err := s.Books(ctx)
	if err != nil {
		return nil, err
	}
	today := dateOf(s.now(), s.loc)
	return nextEvent(books, today, s.loc), nil
}

func (s *Sheets) EnsureUser(ctx context.Context, u User) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	recs, err := s.read(ctx, usersSheet+"!A1:Z")
	if err != nil {
		return false, err
	}
	for _, r := range recs {
		if id, ok := r.int64(colUserID); ok && id == u.ID {
			return false, nil
		}
	}
	row := []any{u.ID, u.Username, u.FirstName, u.LastName}
	if err := s.append(ctx, usersSheet+"!A:D", row); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Sheets) AllUserIDs(ctx context.Context) ([]int64, error) {
	recs, err := s.read(ctx, usersSheet+"!A1:Z")
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(recs))
	for _, r := range recs {
		if id, ok := r.int64(colUserID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *Sheets) Register(ctx context.Context, u User, title string) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	recs, err := s.read(ctx, registrationsSheet+"!A1:Z")
	if err != nil {
		return false, err
	}
	for _, r := range recs {
		if id, ok := r.int64(colUserID); ok && id == u.ID && r.get(colEventTitle) == title {
			return false, nil
		}
	}
	row := []any{u.ID, u.Username, u.FullName(), title, s.now().In(s.loc).Format("2006-01-02")}
	if err := s.append(ctx, registrationsSheet+"!A:E", row); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Sheets) RegistrantIDs(ctx context.Context, title string) ([]int64, error) {
	recs, err := s.read(ctx, registrationsSheet+"!A1:Z")
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(recs))
	for _, r := range recs {
		if r.get(colEventTitle) != title {
			continue
		}
		if id, ok := r.int64(colUserID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
