package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var invalidFilenameChars = regexp.MustCompile(`[\\/:*?"<>|]+`)

// SanitizeFilename makes a string safe as a filename on common filesystems:
// reserved characters become underscores, whitespace runs collapse, trailing
// periods and spaces are stripped, and the result is capped at 200 characters.
// An input with nothing usable left sanitizes to "output".
func SanitizeFilename(value string) string {
	cleaned := invalidFilenameChars.ReplaceAllString(value, "_")
	cleaned = rxWhitespace.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "output"
	}
	cleaned = strings.TrimRight(cleaned, " .")
	if cleaned == "" {
		return "output"
	}
	if runes := []rune(cleaned); len(runes) > 200 {
		cleaned = string(runes[:200])
	}
	return cleaned
}

// FormatUploadDate converts yt-dlp's 8-digit YYYYMMDD into YYYY-MM-DD.
// Anything else passes through; empty input reports "Unknown".
func FormatUploadDate(raw string) string {
	if raw == "" {
		return "Unknown"
	}
	if len(raw) == 8 && isAllDigits(raw) {
		return raw[:4] + "-" + raw[4:6] + "-" + raw[6:]
	}
	return raw
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ComposeTranscript renders the final transcript document: a metadata header
// followed by one "--- Subtitle (<lang>) ---" block per section. The result
// ends with exactly one trailing newline.
func ComposeTranscript(meta *VideoMetadata, sections []TranscriptSection, videoURL string) string {
	title := meta.Title
	if title == "" {
		title = "Unknown"
	}
	url := meta.WebpageURL
	if url == "" {
		url = videoURL
	}

	lines := []string{
		"Title: " + title,
		"URL: " + url,
		"Upload Date: " + FormatUploadDate(meta.UploadDate),
	}
	if meta.Channel != "" {
		lines = append(lines, "Channel: "+meta.Channel)
	}
	lines = append(lines, "")

	for _, section := range sections {
		lines = append(lines, fmt.Sprintf("--- Subtitle (%s) ---", section.Language))
		lines = append(lines, section.Text)
		lines = append(lines, "")
	}

	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n"
}

// TranscriptFilename builds the sanitized base name (without extension) for a
// video's transcript file.
func TranscriptFilename(meta *VideoMetadata) string {
	author := meta.Author()
	if author == "" {
		author = "Unknown"
	}
	title := meta.Title
	if title == "" {
		title = "Unknown Title"
	}
	return SanitizeFilename(fmt.Sprintf("YouTube - %s - %s", author, title))
}

// uniqueTranscriptPath returns the first non-existing "<base>.txt",
// "<base> (1).txt", "<base> (2).txt", ... inside dir. Existing files are never
// overwritten.
func uniqueTranscriptPath(dir, base string) string {
	path := filepath.Join(dir, base+".txt")
	for counter := 1; FileExists(path); counter++ {
		path = filepath.Join(dir, fmt.Sprintf("%s (%d).txt", base, counter))
	}
	return path
}

// WriteTranscript assembles the transcript document and writes it into
// finalDir with a collision-safe name. It returns the written path.
func WriteTranscript(meta *VideoMetadata, sections []TranscriptSection, videoURL, finalDir string) (string, error) {
	if err := EnsureDirs(finalDir); err != nil {
		return "", fmt.Errorf("creating transcript directory: %w", err)
	}

	path := uniqueTranscriptPath(finalDir, TranscriptFilename(meta))
	content := ComposeTranscript(meta, sections, videoURL)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing transcript: %w", err)
	}
	return path, nil
}
