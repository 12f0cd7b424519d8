package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const finalDirName = "final"

// Pipeline turns one video entry into a transcript artifact. It owns the
// per-video working directory for the duration of one call and always removes
// it before returning.
type Pipeline struct {
	extractor    Extractor
	transcriber  Transcriber
	retry        RetryPolicy
	maxLanguages int
	logger       *slog.Logger

	// Pacing between caption downloads; injectable so tests run instantly.
	sleep           func(ctx context.Context, d time.Duration) error
	captionPaceWait time.Duration
	captionFailWait time.Duration
}

// NewPipeline wires a video pipeline. transcriber may be nil when no
// speech-to-text fallback is configured.
func NewPipeline(extractor Extractor, transcriber Transcriber, retry RetryPolicy, maxLanguages int, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		extractor:       extractor,
		transcriber:     transcriber,
		retry:           retry,
		maxLanguages:    maxLanguages,
		logger:          logger,
		sleep:           sleepCtx,
		captionPaceWait: 500 * time.Millisecond,
		captionFailWait: 1500 * time.Millisecond,
	}
}

// ProcessOptions adjust one video's processing.
type ProcessOptions struct {
	// PrintTo, when set, receives the composed transcript instead of a file
	// being written; the manifest is not touched in this mode.
	PrintTo io.Writer
	// FallbackWhisper enables speech-to-text when no caption track exists.
	FallbackWhisper bool
	// Manifest, when set, gets one row appended per successful transcript.
	Manifest *Manifest
}

// ProcessVideo runs the full pipeline for one video: metadata fetch (with
// retry), language selection, caption download, optional speech-to-text
// fallback, transcript assembly, and cleanup. Errors from the metadata fetch
// after exhausted retries are returned; everything downstream degrades to a
// missing_subtitle result instead of failing.
func (p *Pipeline) ProcessVideo(ctx context.Context, entry VideoEntry, outputDir string, opts ProcessOptions) (VideoResult, error) {
	videoURL := entry.URL
	p.logger.Info("processing video", "url", videoURL)

	meta, err := Do(ctx, p.retry, p.logger, func() (*VideoMetadata, error) {
		return p.extractor.Metadata(ctx, videoURL)
	})
	if err != nil {
		return VideoResult{}, fmt.Errorf("fetching metadata for %s: %w", videoURL, err)
	}

	videoID := meta.ID
	if videoID == "" {
		videoID = entry.ID
	}
	if videoID == "" {
		videoID = "unknown"
	}

	languages := SelectLanguages(meta, p.maxLanguages)
	p.logger.Debug("languages selected", "url", videoURL, "languages", languages)

	// Fresh working directory per video; stale files from an earlier run could
	// mix languages into the transcript.
	videoDir := filepath.Join(outputDir, videoID)
	if FileExists(videoDir) {
		if err := os.RemoveAll(videoDir); err != nil {
			return VideoResult{}, fmt.Errorf("clearing working directory %s: %w", videoDir, err)
		}
	}
	if err := EnsureDirs(videoDir); err != nil {
		return VideoResult{}, fmt.Errorf("creating working directory %s: %w", videoDir, err)
	}
	defer cleanupDir(videoDir, p.logger)

	downloaded := p.downloadCaptions(ctx, videoURL, languages, videoDir, meta)

	sections, usedLanguages := p.assembleSections(videoDir)

	source := SubtitleSource("")
	if len(usedLanguages) > 0 {
		source = SourceForLanguage(meta, usedLanguages[0])
	}

	if len(sections) == 0 && opts.FallbackWhisper {
		if section, ok := p.fallbackTranscribe(ctx, videoURL, videoID, videoDir); ok {
			sections = append(sections, section)
			usedLanguages = append(usedLanguages, section.Language)
			source = SourceWhisper
		}
	}

	result := VideoResult{
		VideoID:    videoID,
		Title:      firstNonEmpty(meta.Title, entry.Title),
		URL:        firstNonEmpty(meta.WebpageURL, videoURL),
		UploadDate: FormatUploadDate(meta.UploadDate),
		Channel:    meta.Channel,
		Duration:   meta.Duration,
		Source:     source,
		Languages:  usedLanguages,
	}
	if len(result.Languages) == 0 {
		result.Languages = downloaded
	}

	if opts.PrintTo != nil {
		if len(sections) > 0 {
			fmt.Fprintln(opts.PrintTo, ComposeTranscript(meta, sections, videoURL))
		} else {
			p.logger.Warn("no subtitles available to print", "url", videoURL)
		}
		result.Status = StatusPrinted
		result.Message = "Transcript printed to stdout."
		return result, nil
	}

	if len(sections) == 0 {
		p.logger.Warn("no subtitles were produced", "url", videoURL)
		result.Status = StatusMissingSubtitle
		result.Message = "Transcript file was not created."
		return result, nil
	}

	finalDir := filepath.Join(outputDir, finalDirName)
	transcriptPath, err := WriteTranscript(meta, sections, videoURL, finalDir)
	if err != nil {
		return VideoResult{}, err
	}
	p.logger.Info("transcript saved", "path", transcriptPath)
	result.TranscriptPath = transcriptPath
	result.Status = StatusSuccess

	if opts.Manifest != nil {
		rel, err := filepath.Rel(outputDir, transcriptPath)
		if err != nil {
			rel = transcriptPath
		}
		if err := opts.Manifest.Append(result, rel); err != nil {
			return VideoResult{}, fmt.Errorf("updating manifest: %w", err)
		}
	}
	return result, nil
}

// downloadCaptions fetches each selected language. A per-language failure is
// logged and skipped with a short backoff; it never aborts the video.
func (p *Pipeline) downloadCaptions(ctx context.Context, videoURL string, languages []string, videoDir string, meta *VideoMetadata) []string {
	var downloaded []string
	for _, lang := range languages {
		if err := p.extractor.DownloadCaptions(ctx, videoURL, lang, videoDir); err != nil {
			p.logger.Warn("unable to download captions", "language", lang, "url", videoURL, "error", err)
			_ = p.sleep(ctx, p.captionFailWait)
			continue
		}
		downloaded = append(downloaded, lang)
		if SourceForLanguage(meta, lang) == SourceManual {
			p.logger.Debug("downloaded subtitle", "language", lang, "url", videoURL)
		} else {
			p.logger.Debug("downloaded auto-caption", "language", lang, "url", videoURL)
		}
		_ = p.sleep(ctx, p.captionPaceWait)
	}
	if len(downloaded) == 0 {
		p.logger.Warn("no captions were downloaded", "url", videoURL)
	}
	return downloaded
}

// assembleSections normalizes every caption file in the working directory and
// groups unique content by language in priority order.
func (p *Pipeline) assembleSections(videoDir string) ([]TranscriptSection, []string) {
	vttFiles, err := filepath.Glob(filepath.Join(videoDir, "*.vtt"))
	if err != nil || len(vttFiles) == 0 {
		return nil, nil
	}
	sort.Strings(vttFiles)

	languageToPath := make(map[string]string)
	var langs []string
	for _, vtt := range vttFiles {
		lang := CaptionLanguage(filepath.Base(vtt))
		if _, ok := languageToPath[lang]; !ok {
			langs = append(langs, lang)
		}
		languageToPath[lang] = vtt
	}

	var sections []TranscriptSection
	var used []string
	for _, lang := range OrderLanguages(langs) {
		vttPath := languageToPath[lang]
		txtPath, err := ConvertCaptionFile(vttPath)
		if err != nil {
			p.logger.Warn("failed to convert captions", "file", vttPath, "error", err)
			continue
		}
		content, err := os.ReadFile(txtPath)
		if err != nil {
			p.logger.Warn("missing converted text", "file", vttPath, "error", err)
			continue
		}
		text := strings.TrimSpace(string(content))
		if text == "" {
			p.logger.Debug("skipping empty transcript", "file", txtPath)
			continue
		}
		sections = append(sections, TranscriptSection{Language: lang, Text: text})
		used = append(used, lang)
	}
	return sections, used
}

// fallbackTranscribe downloads audio and runs the speech-to-text collaborator.
// Any failure is logged and reported as "no section"; it is never fatal.
func (p *Pipeline) fallbackTranscribe(ctx context.Context, videoURL, videoID, videoDir string) (TranscriptSection, bool) {
	if p.transcriber == nil {
		p.logger.Debug("no speech-to-text engine configured", "url", videoURL)
		return TranscriptSection{}, false
	}

	p.logger.Info("no captions found, falling back to speech-to-text", "url", videoURL)

	audioFile, err := p.extractor.DownloadAudio(ctx, videoURL, videoID, videoDir)
	if err != nil {
		p.logger.Warn("audio download failed", "url", videoURL, "error", err)
		return TranscriptSection{}, false
	}

	text, lang, err := p.transcriber.Transcribe(ctx, audioFile)
	if err != nil {
		p.logger.Warn("speech-to-text failed", "url", videoURL, "error", err)
		return TranscriptSection{}, false
	}
	if strings.TrimSpace(text) == "" {
		p.logger.Warn("speech-to-text produced no text", "url", videoURL)
		return TranscriptSection{}, false
	}

	return TranscriptSection{Language: "whisper-" + lang, Text: strings.TrimSpace(text)}, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
