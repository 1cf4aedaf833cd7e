package broadcast

import (
	"context"
	"errors"
	"sync"
	"testing"

	"monebot/internal/transport"
	logx "monebot/pkg/logx"
)

// fakeAdapter records sends and fails for chat ids listed in failFor.
// failTimes makes the first N attempts for a chat fail before succeeding.
type fakeAdapter struct {
	mu        sync.Mutex
	texts     []int64
	photos    []int64
	attempts  map[int64]int
	failFor   map[int64]bool
	failTimes map[int64]int
}

func (f *fakeAdapter) Start(ctx context.Context, out chan<- transport.Update) error { return nil }
func (f *fakeAdapter) Stop(ctx context.Context) error                               { return nil }

func (f *fakeAdapter) SendText(ctx context.Context, to transport.ChatTarget, text string, opt *transport.SendOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attempts == nil {
		f.attempts = map[int64]int{}
	}
	f.attempts[to.ChatID]++
	if f.failFor[to.ChatID] {
		return errors.New("blocked")
	}
	if f.failTimes[to.ChatID] > 0 {
		f.failTimes[to.ChatID]--
		return errors.New("flaky")
	}
	f.texts = append(f.texts, to.ChatID)
	return nil
}

func (f *fakeAdapter) SendPhoto(ctx context.Context, to transport.ChatTarget, photoURL, caption string, opt *transport.SendOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[to.ChatID] {
		return errors.New("blocked")
	}
	f.photos = append(f.photos, to.ChatID)
	return nil
}

func (f *fakeAdapter) SendDocument(ctx context.Context, to transport.ChatTarget, doc transport.Document, opt *transport.SendOptions) error {
	return nil
}
func (f *fakeAdapter) SendLocation(ctx context.Context, to transport.ChatTarget, lat, lng float64) error {
	return nil
}
func (f *fakeAdapter) AnswerCallback(ctx context.Context, callbackID, text string) error { return nil }

func TestRunText(t *testing.T) {
	fa := &fakeAdapter{}
	s := New(Config{Workers: 3, RatePerSec: 1000}, fa, logx.Nop())

	out := s.Run(context.Background(), "announce", []int64{1, 2, 3, 4, 5}, Message{Text: "привет"})
	if out.Total != 5 || out.Sent != 5 || out.Failed != 0 {
		t.Fatalf("outcome = %+v", out)
	}
	if len(fa.texts) != 5 {
		t.Fatalf("sent %d texts", len(fa.texts))
	}
}

func TestRunPhoto(t *testing.T) {
	fa := &fakeAdapter{}
	s := New(Config{Workers: 2, RatePerSec: 1000}, fa, logx.Nop())

	out := s.Run(context.Background(), "announce", []int64{1, 2}, Message{
		Text:     "анонс",
		PhotoURL: "https://drive.google.com/uc?export=view&id=abc",
	})
	if out.Sent != 2 {
		t.Fatalf("outcome = %+v", out)
	}
	if len(fa.photos) != 2 || len(fa.texts) != 0 {
		t.Fatalf("photos=%d texts=%d", len(fa.photos), len(fa.texts))
	}
}

func TestRunCountsFailures(t *testing.T) {
	fa := &fakeAdapter{failFor: map[int64]bool{2: true, 4: true}}
	s := New(Config{Workers: 2, RatePerSec: 1000}, fa, logx.Nop())

	out := s.Run(context.Background(), "remind", []int64{1, 2, 3, 4}, Message{Text: "напоминание"})
	if out.Total != 4 || out.Sent != 2 || out.Failed != 2 {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestRunRetries(t *testing.T) {
	fa := &fakeAdapter{failTimes: map[int64]int{7: 2}}
	s := New(Config{Workers: 1, RatePerSec: 1000, RetryMax: 2}, fa, logx.Nop())

	out := s.Run(context.Background(), "remind", []int64{7}, Message{Text: "напоминание"})
	if out.Sent != 1 || out.Failed != 0 {
		t.Fatalf("outcome = %+v", out)
	}
	if fa.attempts[7] != 3 {
		t.Fatalf("attempts = %d, want 3", fa.attempts[7])
	}
}

func TestRunNoRetryByDefault(t *testing.T) {
	fa := &fakeAdapter{failTimes: map[int64]int{7: 1}}
	s := New(Config{Workers: 1, RatePerSec: 1000}, fa, logx.Nop())

	out := s.Run(context.Background(), "remind", []int64{7}, Message{Text: "напоминание"})
	if out.Sent != 0 || out.Failed != 1 {
		t.Fatalf("outcome = %+v", out)
	}
	if fa.attempts[7] != 1 {
		t.Fatalf("attempts = %d, want 1", fa.attempts[7])
	}
}

func TestRunEmpty(t *testing.T) {
	s := New(Config{}, &fakeAdapter{}, logx.Nop())
	out := s.Run(context.Background(), "announce", nil, Message{Text: "x"})
	if out.Total != 0 || out.Sent != 0 || out.Failed != 0 {
		t.Fatalf("outcome = %+v", out)
	}
}
