package tgui

import "testing"

func TestData(t *testing.T) {
	if got := Data("book", "3"); got != "book_3" {
		t.Fatalf("got %q", got)
	}
	if got := Data("going", "Мы"); got != "going_Мы" {
		t.Fatalf("got %q", got)
	}
	if got := Data("events", ""); got != "events" {
		t.Fatalf("got %q", got)
	}
}

func TestSplit(t *testing.T) {
	cases := []struct {
		data, prefix, payload string
	}{
		{"book_3", "book", "3"},
		{"going_Война и мир", "going", "Война и мир"},
		{"formats_title_Мы", "formats", "title_Мы"}, // first underscore only
		{"\fbook_0", "book", "0"},
		{"plain", "plain", ""},
	}
	for _, tc := range cases {
		p, pl := Split(tc.data)
		if p != tc.prefix || pl != tc.payload {
			t.Errorf("Split(%q) = (%q, %q), want (%q, %q)", tc.data, p, pl, tc.prefix, tc.payload)
		}
	}
}

func TestPayload(t *testing.T) {
	if got, ok := Payload("formats_title_Мы и они", "formats_title"); !ok || got != "Мы и они" {
		t.Fatalf("got %q ok=%v", got, ok)
	}
	if got, ok := Payload("\fgoing_Мы", "going"); !ok || got != "Мы" {
		t.Fatalf("got %q ok=%v", got, ok)
	}
	if _, ok := Payload("book_1", "going"); ok {
		t.Fatal("mismatched prefix accepted")
	}
}

func TestIndex(t *testing.T) {
	if n, ok := Index("12"); !ok || n != 12 {
		t.Fatalf("n=%d ok=%v", n, ok)
	}
	for _, bad := range []string{"", "-1", "x", "1.5", "title_Мы"} {
		if _, ok := Index(bad); ok {
			t.Errorf("Index(%q) accepted", bad)
		}
	}
}
