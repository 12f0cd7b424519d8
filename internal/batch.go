package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	manifestFileName    = "subtitles_summary.csv"
	defaultURLsFileName = "video_urls.txt"
)

// Controller drives a batch of videos through the pipeline and keeps the
// channel-level bookkeeping (manifest, URL side file) consistent.
type Controller struct {
	extractor Extractor
	pipeline  *Pipeline
	ui        UIManager
	logger    *slog.Logger
}

func NewController(extractor Extractor, pipeline *Pipeline, ui UIManager, logger *slog.Logger) *Controller {
	return &Controller{
		extractor: extractor,
		pipeline:  pipeline,
		ui:        ui,
		logger:    logger,
	}
}

// ChannelOptions adjust one channel run.
type ChannelOptions struct {
	// OutputDir overrides the default from-channel-<slug> directory.
	OutputDir string
	// URLsFile overrides where the resolved video URL list is written.
	// Relative paths are joined onto the output directory.
	URLsFile string
	// Limit truncates the work list to the first N videos. Zero means all.
	Limit int
	// Full reprocesses every video instead of skipping manifest entries.
	Full bool
	// FallbackWhisper enables speech-to-text for videos without captions.
	FallbackWhisper bool
}

// DefaultChannelDir is the directory a channel run writes into when no
// output directory was given.
func DefaultChannelDir(slug string) string {
	return "from-channel-" + strings.ToLower(slug)
}

// DownloadChannel lists a channel's videos and processes each through the
// pipeline. In incremental mode (the default) videos already recorded in the
// manifest are skipped; in full mode the manifest is reset first. A failing
// video is recorded as an error result and never aborts the batch.
func (c *Controller) DownloadChannel(ctx context.Context, channelName string, opts ChannelOptions) (*BatchResult, error) {
	slug, err := NormalizeChannelHandle(channelName)
	if err != nil {
		return nil, err
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = DefaultChannelDir(slug)
	}
	if err := EnsureDirs(outputDir); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}

	listURL := ChannelVideosURL(slug)
	c.logger.Info("listing channel videos", "channel", slug, "url", listURL)
	entries, err := c.extractor.ListVideos(ctx, listURL)
	if err != nil {
		return nil, fmt.Errorf("listing videos for @%s: %w", slug, err)
	}

	result := &BatchResult{ChannelSlug: slug, OutputDir: outputDir}
	if len(entries) == 0 {
		c.ui.Printf("No videos found for @%s.\n", slug)
		return result, nil
	}

	manifest := NewManifest(filepath.Join(outputDir, manifestFileName))
	if opts.Full {
		if err := manifest.Remove(); err != nil {
			return nil, fmt.Errorf("resetting manifest: %w", err)
		}
	}

	done := manifest.ExistingIDs()
	var work []VideoEntry
	for _, entry := range entries {
		if _, ok := done[entry.ID]; ok {
			c.logger.Debug("skipping already processed video", "id", entry.ID)
			continue
		}
		work = append(work, entry)
	}
	skipped := len(entries) - len(work)
	if skipped > 0 {
		c.ui.Printf("Skipping %d already processed video(s).\n", skipped)
	}
	if opts.Limit > 0 && len(work) > opts.Limit {
		work = work[:opts.Limit]
	}
	if len(work) == 0 {
		c.ui.Printf("Nothing to do for @%s, all %d video(s) are processed.\n", slug, len(entries))
		return result, nil
	}

	urlsFile := opts.URLsFile
	if urlsFile == "" {
		urlsFile = defaultURLsFileName
	}
	// Relative paths land inside the channel directory.
	if !filepath.IsAbs(urlsFile) {
		urlsFile = filepath.Join(outputDir, urlsFile)
	}
	if err := writeURLList(urlsFile, work); err != nil {
		return nil, err
	}
	result.URLsFile = urlsFile

	bar := c.ui.NewProgressBar(len(work), fmt.Sprintf("@%s", slug))
	defer bar.Finish()

	for i, entry := range work {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		bar.Describe(fmt.Sprintf("[%d/%d] %s", i+1, len(work), entry.ID))

		videoResult, err := c.pipeline.ProcessVideo(ctx, entry, outputDir, ProcessOptions{
			FallbackWhisper: opts.FallbackWhisper,
			Manifest:        manifest,
		})
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			c.logger.Error("video failed", "id", entry.ID, "error", err)
			videoResult = failureResult(entry, err)
		}
		result.Results = append(result.Results, videoResult)
		bar.Set(i + 1)
	}

	success, failed := result.Counts()
	c.ui.Printf("Done: %d succeeded, %d failed. Transcripts in %s\n",
		success, failed, filepath.Join(outputDir, finalDirName))
	return result, nil
}

// VideoOptions adjust a single-video run.
type VideoOptions struct {
	// ChannelName, when set, places output in that channel's directory and
	// records the video in its manifest.
	ChannelName string
	// OutputDir overrides the output directory.
	OutputDir string
	// PrintTo, when set, streams the transcript instead of writing files.
	PrintTo io.Writer
	// FallbackWhisper enables speech-to-text when no captions exist.
	FallbackWhisper bool
}

// DownloadVideo processes one video URL or ID. Without an explicit channel or
// output directory the channel is taken from the video's own metadata so the
// transcript lands next to batch runs for the same channel.
func (c *Controller) DownloadVideo(ctx context.Context, videoArg string, opts VideoOptions) (VideoResult, error) {
	videoURL := ParseVideoArg(videoArg)
	entry := VideoEntry{ID: VideoIDFromURL(videoURL), URL: videoURL}

	if opts.PrintTo != nil {
		tmpDir, err := os.MkdirTemp("", "ytsubs-*")
		if err != nil {
			return VideoResult{}, fmt.Errorf("creating temp directory: %w", err)
		}
		defer cleanupDir(tmpDir, c.logger)
		return c.pipeline.ProcessVideo(ctx, entry, tmpDir, ProcessOptions{
			PrintTo:         opts.PrintTo,
			FallbackWhisper: opts.FallbackWhisper,
		})
	}

	outputDir := opts.OutputDir
	var slug string
	if opts.ChannelName != "" {
		var err error
		if slug, err = NormalizeChannelHandle(opts.ChannelName); err != nil {
			return VideoResult{}, err
		}
	} else if outputDir == "" {
		// Resolve the channel from the video itself.
		meta, err := Do(ctx, c.pipeline.retry, c.logger, func() (*VideoMetadata, error) {
			return c.extractor.Metadata(ctx, videoURL)
		})
		if err != nil {
			return VideoResult{}, fmt.Errorf("fetching metadata for %s: %w", videoURL, err)
		}
		slug = channelSlugFromMetadata(meta)
		entry.Title = meta.Title
	}
	if outputDir == "" {
		outputDir = DefaultChannelDir(slug)
	}
	if err := EnsureDirs(outputDir); err != nil {
		return VideoResult{}, fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}

	manifest := NewManifest(filepath.Join(outputDir, manifestFileName))
	if entry.ID != "" {
		if _, ok := manifest.ExistingIDs()[entry.ID]; ok {
			c.ui.Printf("Video %s is already in %s.\n", entry.ID, manifest.Path)
		}
	}

	result, err := c.pipeline.ProcessVideo(ctx, entry, outputDir, ProcessOptions{
		FallbackWhisper: opts.FallbackWhisper,
		Manifest:        manifest,
	})
	if err != nil {
		return VideoResult{}, err
	}
	if result.Status == StatusSuccess {
		c.ui.Printf("Transcript saved to %s\n", result.TranscriptPath)
	}
	return result, nil
}

// writeURLList replaces the side file with the URLs about to be processed.
func writeURLList(path string, entries []VideoEntry) error {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.URL)
		b.WriteByte('\n')
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := EnsureDirs(dir); err != nil {
			return fmt.Errorf("creating directory for url list: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing url list %s: %w", path, err)
	}
	return nil
}

func failureResult(entry VideoEntry, err error) VideoResult {
	return VideoResult{
		VideoID: entry.ID,
		Title:   entry.Title,
		URL:     entry.URL,
		Status:  StatusError,
		Message: err.Error(),
	}
}

// channelSlugFromMetadata derives a directory slug from whatever channel
// identity the metadata carries.
func channelSlugFromMetadata(meta *VideoMetadata) string {
	name := meta.Channel
	if name == "" {
		name = meta.Uploader
	}
	if name == "" {
		return "unknown"
	}
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	slug = invalidFilenameChars.ReplaceAllString(slug, "_")
	if slug == "" {
		return "unknown"
	}
	return slug
}
