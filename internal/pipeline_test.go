package internal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const fakeCueText = "WEBVTT\n\n00:00:00.000 --> 00:00:02.000\nhello from %s\n"

// fakeExtractor satisfies Extractor without touching the network.
type fakeExtractor struct {
	entries       []VideoEntry
	listErr       error
	meta          map[string]*VideoMetadata
	metaErr       error
	metaFailures  int // number of Metadata calls that fail before succeeding
	metaCalls     int
	captionErr    map[string]error // per-language download failures
	captionCalls  []string
	audioErr      error
	audioContents string
}

func (f *fakeExtractor) ListVideos(ctx context.Context, channelURL string) ([]VideoEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.entries, nil
}

func (f *fakeExtractor) Metadata(ctx context.Context, videoURL string) (*VideoMetadata, error) {
	f.metaCalls++
	if f.metaFailures > 0 {
		f.metaFailures--
		return nil, errors.New("metadata fetch failed")
	}
	if f.metaErr != nil {
		return nil, f.metaErr
	}
	if meta, ok := f.meta[videoURL]; ok {
		return meta, nil
	}
	return nil, errors.New("unknown video " + videoURL)
}

func (f *fakeExtractor) DownloadCaptions(ctx context.Context, videoURL, lang, dir string) error {
	f.captionCalls = append(f.captionCalls, lang)
	if err, ok := f.captionErr[lang]; ok {
		return err
	}
	meta := f.meta[videoURL]
	name := meta.ID + "." + lang + ".vtt"
	return os.WriteFile(filepath.Join(dir, name), []byte(fmt.Sprintf(fakeCueText, lang)), 0644)
}

func (f *fakeExtractor) DownloadAudio(ctx context.Context, videoURL, videoID, dir string) (string, error) {
	if f.audioErr != nil {
		return "", f.audioErr
	}
	path := filepath.Join(dir, videoID+".mp3")
	return path, os.WriteFile(path, []byte(f.audioContents), 0644)
}

type fakeTranscriber struct {
	text string
	lang string
	err  error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioFile string) (string, string, error) {
	return f.text, f.lang, f.err
}

func fastPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff:     func(attempt int) time.Duration { return 0 },
		Sleep:       func(ctx context.Context, d time.Duration) error { return nil },
	}
}

func quietPipeline(extractor Extractor, transcriber Transcriber, maxLanguages int) *Pipeline {
	p := NewPipeline(extractor, transcriber, fastPolicy(), maxLanguages, testLogger())
	p.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return p
}

func videoMeta(id string) *VideoMetadata {
	return &VideoMetadata{
		ID:         id,
		Title:      "Video " + id,
		WebpageURL: "https://www.youtube.com/watch?v=" + id,
		UploadDate: "20240102",
		Channel:    "TestChannel",
		Duration:   120,
		Subtitles:  tracks("en"),
	}
}

func extractorFor(metas ...*VideoMetadata) *fakeExtractor {
	f := &fakeExtractor{meta: make(map[string]*VideoMetadata)}
	for _, m := range metas {
		f.meta[m.WebpageURL] = m
		f.entries = append(f.entries, VideoEntry{ID: m.ID, Title: m.Title, URL: m.WebpageURL})
	}
	return f
}

func TestProcessVideo_Success(t *testing.T) {
	meta := videoMeta("vid1")
	extractor := extractorFor(meta)
	p := quietPipeline(extractor, nil, 1)

	outputDir := t.TempDir()
	manifest := NewManifest(filepath.Join(outputDir, manifestFileName))

	result, err := p.ProcessVideo(context.Background(), VideoEntry{ID: "vid1", URL: meta.WebpageURL},
		outputDir, ProcessOptions{Manifest: manifest})
	require.NoError(t, err)

	require.Equal(t, StatusSuccess, result.Status)
	require.Equal(t, "vid1", result.VideoID)
	require.Equal(t, []string{"en"}, result.Languages)
	require.Equal(t, SourceManual, result.Source)
	require.Equal(t, "2024-01-02", result.UploadDate)

	content, err := os.ReadFile(result.TranscriptPath)
	require.NoError(t, err)
	require.Contains(t, string(content), "Title: Video vid1")
	require.Contains(t, string(content), "--- Subtitle (en) ---")
	require.Contains(t, string(content), "hello from en")

	require.Contains(t, manifest.ExistingIDs(), "vid1")

	// Working directory is removed after assembly.
	require.NoDirExists(t, filepath.Join(outputDir, "vid1"))
}

func TestProcessVideo_MetadataRetries(t *testing.T) {
	meta := videoMeta("vid1")
	extractor := extractorFor(meta)
	extractor.metaFailures = 2
	p := quietPipeline(extractor, nil, 1)

	result, err := p.ProcessVideo(context.Background(), VideoEntry{URL: meta.WebpageURL},
		t.TempDir(), ProcessOptions{})
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, result.Status)
	require.Equal(t, 3, extractor.metaCalls)
}

func TestProcessVideo_MetadataExhaustion(t *testing.T) {
	meta := videoMeta("vid1")
	extractor := extractorFor(meta)
	extractor.metaFailures = 5
	p := quietPipeline(extractor, nil, 1)

	_, err := p.ProcessVideo(context.Background(), VideoEntry{URL: meta.WebpageURL},
		t.TempDir(), ProcessOptions{})
	require.Error(t, err)
	require.Equal(t, 3, extractor.metaCalls)
}

func TestProcessVideo_CaptionFailureIsNotFatal(t *testing.T) {
	meta := videoMeta("vid1")
	meta.Subtitles = tracks("en", "en-GB")
	extractor := extractorFor(meta)
	extractor.captionErr = map[string]error{"en": errors.New("throttled")}
	p := quietPipeline(extractor, nil, 2)

	result, err := p.ProcessVideo(context.Background(), VideoEntry{URL: meta.WebpageURL},
		t.TempDir(), ProcessOptions{})
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, result.Status)
	require.Equal(t, []string{"en-GB"}, result.Languages)
}

func TestProcessVideo_NoCaptions(t *testing.T) {
	meta := videoMeta("vid1")
	meta.Subtitles = nil
	extractor := extractorFor(meta)
	extractor.captionErr = map[string]error{"en": errors.New("no captions")}
	p := quietPipeline(extractor, nil, 1)

	result, err := p.ProcessVideo(context.Background(), VideoEntry{URL: meta.WebpageURL},
		t.TempDir(), ProcessOptions{})
	require.NoError(t, err)
	require.Equal(t, StatusMissingSubtitle, result.Status)
	require.Empty(t, result.TranscriptPath)
}

func TestProcessVideo_WhisperFallback(t *testing.T) {
	meta := videoMeta("vid1")
	meta.Subtitles = nil
	extractor := extractorFor(meta)
	extractor.captionErr = map[string]error{"en": errors.New("no captions")}
	transcriber := &fakeTranscriber{text: "spoken words", lang: "en"}
	p := quietPipeline(extractor, transcriber, 1)

	outputDir := t.TempDir()
	result, err := p.ProcessVideo(context.Background(), VideoEntry{URL: meta.WebpageURL},
		outputDir, ProcessOptions{FallbackWhisper: true})
	require.NoError(t, err)

	require.Equal(t, StatusSuccess, result.Status)
	require.Equal(t, SourceWhisper, result.Source)
	require.Equal(t, []string{"whisper-en"}, result.Languages)

	content, err := os.ReadFile(result.TranscriptPath)
	require.NoError(t, err)
	require.Contains(t, string(content), "--- Subtitle (whisper-en) ---")
	require.Contains(t, string(content), "spoken words")
}

func TestProcessVideo_WhisperFailureDegrades(t *testing.T) {
	meta := videoMeta("vid1")
	meta.Subtitles = nil
	extractor := extractorFor(meta)
	extractor.captionErr = map[string]error{"en": errors.New("no captions")}
	transcriber := &fakeTranscriber{err: errors.New("api down")}
	p := quietPipeline(extractor, transcriber, 1)

	result, err := p.ProcessVideo(context.Background(), VideoEntry{URL: meta.WebpageURL},
		t.TempDir(), ProcessOptions{FallbackWhisper: true})
	require.NoError(t, err)
	require.Equal(t, StatusMissingSubtitle, result.Status)
}

func TestProcessVideo_PrintMode(t *testing.T) {
	meta := videoMeta("vid1")
	extractor := extractorFor(meta)
	p := quietPipeline(extractor, nil, 1)

	outputDir := t.TempDir()
	var buf bytes.Buffer
	result, err := p.ProcessVideo(context.Background(), VideoEntry{URL: meta.WebpageURL},
		outputDir, ProcessOptions{PrintTo: &buf})
	require.NoError(t, err)

	require.Equal(t, StatusPrinted, result.Status)
	require.Contains(t, buf.String(), "hello from en")
	require.NoDirExists(t, filepath.Join(outputDir, finalDirName))
}

func TestProcessVideo_OrdersSectionsByPriority(t *testing.T) {
	meta := videoMeta("vid1")
	meta.Subtitles = tracks("zh-Hans", "en")
	extractor := extractorFor(meta)
	p := quietPipeline(extractor, nil, 2)

	result, err := p.ProcessVideo(context.Background(), VideoEntry{URL: meta.WebpageURL},
		t.TempDir(), ProcessOptions{})
	require.NoError(t, err)
	require.Equal(t, []string{"en", "zh-Hans"}, result.Languages)

	content, err := os.ReadFile(result.TranscriptPath)
	require.NoError(t, err)
	enIdx := bytes.Index(content, []byte("--- Subtitle (en) ---"))
	zhIdx := bytes.Index(content, []byte("--- Subtitle (zh-Hans) ---"))
	require.Greater(t, zhIdx, enIdx)
	require.GreaterOrEqual(t, enIdx, 0)
}
