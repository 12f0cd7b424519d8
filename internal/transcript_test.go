package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"A/B:C*D", "A_B_C_D"},
		{`He said "hi" <now>`, "He said _hi_ _now_"},
		{"  spaced   out  ", "spaced out"},
		{"trailing dots...", "trailing dots"},
		{"////", "_"},
		{"???", "_"},
		{"", "output"},
		{" . ", "output"},
	}
	for _, tc := range cases {
		if got := SanitizeFilename(tc.input); got != tc.want {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestSanitizeFilename_CapsLength(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("a", 300))
	if len(got) != 200 {
		t.Fatalf("got length %d, want 200", len(got))
	}
}

func TestSanitizeFilename_CapsOnRuneBoundary(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("字", 300))
	if n := utf8.RuneCountInString(got); n != 200 {
		t.Fatalf("got %d runes, want 200", n)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncation produced invalid UTF-8: %q", got)
	}
}

func TestFormatUploadDate(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"20240131", "2024-01-31"},
		{"", "Unknown"},
		{"2024-01-31", "2024-01-31"},
		{"not a date", "not a date"},
	}
	for _, tc := range cases {
		if got := FormatUploadDate(tc.input); got != tc.want {
			t.Fatalf("FormatUploadDate(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestComposeTranscript(t *testing.T) {
	meta := &VideoMetadata{
		Title:      "My Video",
		WebpageURL: "https://www.youtube.com/watch?v=abc",
		UploadDate: "20240102",
		Channel:    "My Channel",
	}
	sections := []TranscriptSection{
		{Language: "en", Text: "hello world"},
		{Language: "zh-Hans", Text: "你好"},
	}

	got := ComposeTranscript(meta, sections, "ignored")
	want := strings.Join([]string{
		"Title: My Video",
		"URL: https://www.youtube.com/watch?v=abc",
		"Upload Date: 2024-01-02",
		"Channel: My Channel",
		"",
		"--- Subtitle (en) ---",
		"hello world",
		"",
		"--- Subtitle (zh-Hans) ---",
		"你好",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("got:\n%q\nwant:\n%q", got, want)
	}
	if !strings.HasSuffix(got, "\n") || strings.HasSuffix(got, "\n\n") {
		t.Fatalf("transcript must end with exactly one newline: %q", got)
	}
}

func TestComposeTranscript_MissingFields(t *testing.T) {
	meta := &VideoMetadata{}
	got := ComposeTranscript(meta, []TranscriptSection{{Language: "en", Text: "x"}}, "https://youtu.be/abc")
	if !strings.Contains(got, "Title: Unknown\n") {
		t.Fatalf("missing title fallback in %q", got)
	}
	if !strings.Contains(got, "URL: https://youtu.be/abc\n") {
		t.Fatalf("missing url fallback in %q", got)
	}
	if strings.Contains(got, "Channel:") {
		t.Fatalf("channel line must be omitted when unknown: %q", got)
	}
}

func TestTranscriptFilename(t *testing.T) {
	meta := &VideoMetadata{Channel: "Some: Channel", Title: "A/B"}
	got := TranscriptFilename(meta)
	want := "YouTube - Some_ Channel - A_B"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestTranscriptFilename_Fallbacks(t *testing.T) {
	if got := TranscriptFilename(&VideoMetadata{}); got != "YouTube - Unknown - Unknown Title" {
		t.Fatalf("got %q", got)
	}
	meta := &VideoMetadata{Uploader: "Uploader Name"}
	if got := TranscriptFilename(meta); got != "YouTube - Uploader Name - Unknown Title" {
		t.Fatalf("uploader fallback missing: got %q", got)
	}
}

func TestWriteTranscript_CollisionSuffix(t *testing.T) {
	dir := t.TempDir()
	meta := &VideoMetadata{Title: "X", Channel: "C"}
	sections := []TranscriptSection{{Language: "en", Text: "first"}}

	first, err := WriteTranscript(meta, sections, "url", dir)
	if err != nil {
		t.Fatal(err)
	}
	second, err := WriteTranscript(meta, sections, "url", dir)
	if err != nil {
		t.Fatal(err)
	}
	third, err := WriteTranscript(meta, sections, "url", dir)
	if err != nil {
		t.Fatal(err)
	}

	if filepath.Base(first) != "YouTube - C - X.txt" {
		t.Fatalf("got %q", first)
	}
	if filepath.Base(second) != "YouTube - C - X (1).txt" {
		t.Fatalf("got %q", second)
	}
	if filepath.Base(third) != "YouTube - C - X (2).txt" {
		t.Fatalf("got %q", third)
	}

	content, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "first") {
		t.Fatalf("first file was overwritten: %q", content)
	}
}
