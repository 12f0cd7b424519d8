package internal

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// FileExists checks if a file exists.
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// EnsureDirs creates directories if needed.
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if !FileExists(dir) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
	}
	return nil
}

// cleanupFiles removes temporary files, logging nothing; callers that care
// about failures should remove files themselves.
func cleanupFiles(files ...string) {
	for _, file := range files {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove file %s: %v\n", file, err)
		}
	}
}

// cleanupDir removes a per-video working directory. Best effort: a failure is
// logged and swallowed so it never blocks a result from being returned.
func cleanupDir(dir string, logger *slog.Logger) {
	if !FileExists(dir) {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		logger.Warn("unable to remove working directory", "dir", dir, "error", err)
		return
	}
	logger.Debug("removed working directory", "dir", dir)
}

// NormalizeChannelHandle strips a leading @ and validates the handle. Invalid
// handles are rejected before any network call happens.
func NormalizeChannelHandle(name string) (string, error) {
	slug := strings.TrimSpace(name)
	slug = strings.TrimPrefix(slug, "@")
	if slug == "" {
		return "", fmt.Errorf("channel handle cannot be empty")
	}
	return slug, nil
}

// ChannelVideosURL builds the canonical video-listing URL for a channel slug.
func ChannelVideosURL(slug string) string {
	return fmt.Sprintf("https://www.youtube.com/@%s/videos", slug)
}

// ParseVideoArg normalizes a video URL or bare video ID into a watch URL.
func ParseVideoArg(arg string) string {
	arg = strings.TrimSpace(arg)
	if strings.HasPrefix(arg, "https://") || strings.HasPrefix(arg, "http://") {
		return arg
	}
	return "https://www.youtube.com/watch?v=" + arg
}

// VideoIDFromURL extracts the video ID from common YouTube URL shapes; it
// returns an empty string when none is found.
func VideoIDFromURL(videoURL string) string {
	u, err := url.Parse(strings.TrimSpace(videoURL))
	if err != nil {
		return ""
	}
	if v := u.Query().Get("v"); v != "" {
		return v
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) > 0 && parts[len(parts)-1] != "" {
		return parts[len(parts)-1]
	}
	return ""
}

// getTerminalWidth gets terminal width with fallback.
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}
	if width > 10 {
		return width - 4
	}
	return width
}

// RenderMarkdown renders markdown content with glamour for terminal display.
func RenderMarkdown(content string) (string, error) {
	width := getTerminalWidth()
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.EnvColorProfile()),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}

	rendered, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return rendered, nil
}
