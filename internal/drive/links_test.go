package drive

import "testing"

func TestExtractFileID(t *testing.T) {
	cases := []struct {
		name string
		link string
		want string
	}{
		{
			"file view link",
			"https://drive.google.com/file/d/1AbC-d_9xYz/view?usp=sharing",
			"1AbC-d_9xYz",
		},
		{
			"open link",
			"https://drive.google.com/open?id=1AbC-d_9xYz",
			"1AbC-d_9xYz",
		},
		{
			"uc download link",
			"https://drive.google.com/uc?export=download&id=1AbC-d_9xYz",
			"1AbC-d_9xYz",
		},
		{"plain url", "https://example.com/cover.jpg", ""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractFileID(tc.link); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDirectURLs(t *testing.T) {
	if got := DirectViewURL("abc"); got != "https://drive.google.com/uc?export=view&id=abc" {
		t.Fatalf("view url = %q", got)
	}
	if got := DirectDownloadURL("abc"); got != "https://drive.google.com/uc?export=download&id=abc" {
		t.Fatalf("download url = %q", got)
	}
}

func TestViewURLFromLink(t *testing.T) {
	link := "https://drive.google.com/file/d/xyz/view"
	if got := ViewURLFromLink(link); got != DirectViewURL("xyz") {
		t.Fatalf("got %q", got)
	}
	plain := "https://example.com/cover.jpg"
	if got := ViewURLFromLink(plain); got != plain {
		t.Fatalf("plain url changed: %q", got)
	}
}
