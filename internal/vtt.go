package internal

import (
	"fmt"
	"html"
	"io"
	"os"
	"regexp"
	"strings"
)

var (
	// Header/metadata lines at the top of a WebVTT file and STYLE/NOTE/REGION blocks.
	rxCaptionMeta = regexp.MustCompile(`(?i)^(WEBVTT|Kind:|Language:|STYLE|NOTE|REGION|Region:)`)
	// Cue timing lines, e.g. "00:00:01.000 --> 00:00:04.000 align:start".
	rxCueTiming = regexp.MustCompile(`-->\s`)
	// Inline word-level timestamps, e.g. "<00:00:00.359>".
	rxInlineStamp = regexp.MustCompile(`<\d{2}:\d{2}:\d{2}\.\d{3}>`)
	// Inline markup tags such as <c>, </c>, <i>, <b.color>.
	rxInlineTag = regexp.MustCompile(`</?[^>]+>`)
	// \p{Zs} covers the non-breaking spaces html entities decode to.
	rxWhitespace = regexp.MustCompile(`[\s\p{Zs}]+`)
)

// normalizeCueLine strips inline timestamps, markup and entities from a single
// cue text line and collapses whitespace.
func normalizeCueLine(line string) string {
	line = rxInlineStamp.ReplaceAllString(line, "")
	line = rxInlineTag.ReplaceAllString(line, "")
	line = html.UnescapeString(line)
	line = rxWhitespace.ReplaceAllString(line, " ")
	return strings.TrimSpace(line)
}

// NormalizeCaptions converts raw cue-timed caption content (WebVTT) into plain
// text: metadata and timing lines dropped, inline junk stripped, and any line
// already seen earlier in the file discarded. Auto-captions repeat the previous
// line on almost every cue for the scroll effect, so deduplication is global,
// not just consecutive. Output is newline-joined in first-seen order with a
// trailing newline; empty input yields an empty string. Cue lines carry no
// length guarantee, so the whole input is read before splitting.
func NormalizeCaptions(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading captions: %w", err)
	}

	seen := make(map[string]struct{})
	var out []string
	for _, raw := range strings.Split(string(data), "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		if rxCaptionMeta.MatchString(raw) || rxCueTiming.MatchString(raw) {
			continue
		}
		text := normalizeCueLine(raw)
		if text == "" {
			continue
		}
		if _, ok := seen[text]; ok {
			continue
		}
		seen[text] = struct{}{}
		out = append(out, text)
	}

	if len(out) == 0 {
		return "", nil
	}
	return strings.Join(out, "\n") + "\n", nil
}

// ConvertCaptionFile normalizes one caption file and writes the plain text next
// to it with a .txt extension, returning the path of the text file.
func ConvertCaptionFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening caption file: %w", err)
	}
	defer f.Close()

	text, err := NormalizeCaptions(f)
	if err != nil {
		return "", err
	}

	txtPath := strings.TrimSuffix(path, ".vtt") + ".txt"
	if err := os.WriteFile(txtPath, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("writing converted captions: %w", err)
	}
	return txtPath, nil
}

// CaptionLanguage extracts the language code from a caption filename whose
// stem's final dot-segment is the language, e.g. "abc123.en.vtt" -> "en".
// Files without a language segment report "unknown".
func CaptionLanguage(filename string) string {
	stem := filename
	if idx := strings.LastIndex(stem, "."); idx >= 0 {
		stem = stem[:idx] // drop extension
	}
	parts := strings.Split(stem, ".")
	if len(parts) < 2 {
		return "unknown"
	}
	return parts[len(parts)-1]
}
