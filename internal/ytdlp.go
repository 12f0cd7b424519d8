package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// VideoMetadata is the slice of yt-dlp's info dict that the pipeline needs.
// It is read-only once fetched.
type VideoMetadata struct {
	ID                string                     `json:"id"`
	Title             string                     `json:"title"`
	WebpageURL        string                     `json:"webpage_url"`
	UploadDate        string                     `json:"upload_date"`
	Channel           string                     `json:"channel"`
	Uploader          string                     `json:"uploader"`
	Language          string                     `json:"language"`
	Duration          float64                    `json:"duration"`
	Subtitles         map[string]json.RawMessage `json:"subtitles"`
	AutomaticCaptions map[string]json.RawMessage `json:"automatic_captions"`
}

// Author returns the best available channel/uploader name.
func (m *VideoMetadata) Author() string {
	if m.Channel != "" {
		return m.Channel
	}
	return m.Uploader
}

// Extractor is the narrow capability interface over the video platform. The
// pipeline and batch controller only talk to this, so everything above it is
// testable with fakes.
type Extractor interface {
	// ListVideos returns the ordered video entries of a channel listing URL.
	ListVideos(ctx context.Context, channelURL string) ([]VideoEntry, error)
	// Metadata fetches a single video's metadata without downloading anything.
	Metadata(ctx context.Context, videoURL string) (*VideoMetadata, error)
	// DownloadCaptions fetches one language's caption track into dir as
	// <id>.<lang>.vtt.
	DownloadCaptions(ctx context.Context, videoURL, lang, dir string) error
	// DownloadAudio fetches the best available audio into dir and returns the
	// file path.
	DownloadAudio(ctx context.Context, videoURL, videoID, dir string) (string, error)
}

// YTDLP implements Extractor using the yt-dlp binary via go-ytdlp.
type YTDLP struct {
	cookieFile string
	logger     *slog.Logger
}

// NewYTDLP creates a yt-dlp backed extractor. cookieFile may be empty; when the
// file does not exist it is ignored, matching yt-dlp's optional cookie jar.
func NewYTDLP(cookieFile string, logger *slog.Logger) *YTDLP {
	if cookieFile != "" && !FileExists(cookieFile) {
		cookieFile = ""
	}
	return &YTDLP{cookieFile: cookieFile, logger: logger}
}

// Install makes sure a usable yt-dlp binary is available, downloading one into
// the cache if the system has none.
func Install(ctx context.Context) {
	ytdlp.MustInstall(ctx, nil)
}

func (y *YTDLP) withCookies(dl *ytdlp.Command) *ytdlp.Command {
	if y.cookieFile != "" {
		dl = dl.Cookies(y.cookieFile)
	}
	return dl
}

// flatListing is the shape of a --flat-playlist info dump.
type flatListing struct {
	Entries []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"entries"`
}

// ListVideos returns basic metadata for every video listed on the channel.
func (y *YTDLP) ListVideos(ctx context.Context, channelURL string) ([]VideoEntry, error) {
	dl := ytdlp.New().
		FlatPlaylist().
		DumpSingleJSON().
		SkipDownload()
	dl = y.withCookies(dl)

	result, err := dl.Run(ctx, channelURL)
	if err != nil {
		return nil, fmt.Errorf("fetching channel listing: %w", err)
	}

	var listing flatListing
	if err := json.Unmarshal([]byte(result.Stdout), &listing); err != nil {
		return nil, fmt.Errorf("parsing channel listing: %w", err)
	}

	entries := make([]VideoEntry, 0, len(listing.Entries))
	for _, e := range listing.Entries {
		if e.URL == "" && e.ID == "" {
			continue
		}
		url := e.URL
		if !strings.HasPrefix(url, "http") {
			id := url
			if id == "" {
				id = e.ID
			}
			url = "https://www.youtube.com/watch?v=" + id
		}
		entries = append(entries, VideoEntry{ID: e.ID, Title: e.Title, URL: url})
	}
	y.logger.Debug("channel listing fetched", "url", channelURL, "entries", len(entries))
	return entries, nil
}

// Metadata fetches video details in metadata-only mode.
func (y *YTDLP) Metadata(ctx context.Context, videoURL string) (*VideoMetadata, error) {
	dl := ytdlp.New().
		DumpSingleJSON().
		NoPlaylist().
		SkipDownload()
	dl = y.withCookies(dl)

	result, err := dl.Run(ctx, videoURL)
	if err != nil {
		return nil, fmt.Errorf("extracting video metadata: %w", err)
	}

	var meta VideoMetadata
	if err := json.Unmarshal([]byte(result.Stdout), &meta); err != nil {
		return nil, fmt.Errorf("parsing video metadata: %w", err)
	}
	return &meta, nil
}

// DownloadCaptions fetches one language's caption track for the video. yt-dlp
// appends the language code before the extension, so the output template
// produces <id>.<lang>.vtt inside dir.
func (y *YTDLP) DownloadCaptions(ctx context.Context, videoURL, lang, dir string) error {
	dl := ytdlp.New().
		WriteSubs().
		WriteAutoSubs().
		SubLangs(lang).
		SubFormat("vtt").
		SkipDownload().
		NoPlaylist().
		IgnoreErrors().
		Output(filepath.Join(dir, "%(id)s.%(ext)s"))
	dl = y.withCookies(dl)

	if _, err := dl.Run(ctx, videoURL); err != nil {
		return fmt.Errorf("downloading captions (%s): %w", lang, err)
	}
	return nil
}

// DownloadAudio fetches best-available audio as mp3 into dir.
func (y *YTDLP) DownloadAudio(ctx context.Context, videoURL, videoID, dir string) (string, error) {
	dl := ytdlp.New().
		Format("bestaudio").
		ExtractAudio().
		AudioFormat("mp3").
		NoPlaylist().
		Output(filepath.Join(dir, "%(id)s.%(ext)s"))
	dl = y.withCookies(dl)

	if _, err := dl.Run(ctx, videoURL); err != nil {
		return "", fmt.Errorf("downloading audio: %w", err)
	}
	return filepath.Join(dir, videoID+".mp3"), nil
}
