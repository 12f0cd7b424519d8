package internal

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// artifactTimestamp names files by generation time; injectable for tests.
var artifactTimestamp = func() time.Time { return time.Now().UTC() }

func timestampSlug() string {
	return artifactTimestamp().Format("20060102-150405")
}

// uniqueArtifactPath appends -1, -2, ... before the extension until the name
// is free in dir.
func uniqueArtifactPath(dir, filename string) string {
	candidate := filepath.Join(dir, filename)
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	for counter := 1; FileExists(candidate); counter++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, counter, ext))
	}
	return candidate
}

// CreateMarkdownArtifact renders one video's transcript as a markdown file in
// artifactDir. Returns "" when the video produced no transcript.
func CreateMarkdownArtifact(result VideoResult, artifactDir string) (string, error) {
	if result.TranscriptPath == "" || !FileExists(result.TranscriptPath) {
		return "", nil
	}
	if err := EnsureDirs(artifactDir); err != nil {
		return "", fmt.Errorf("creating artifact directory %s: %w", artifactDir, err)
	}

	content, err := os.ReadFile(result.TranscriptPath)
	if err != nil {
		return "", fmt.Errorf("reading transcript %s: %w", result.TranscriptPath, err)
	}

	base := filepath.Base(result.TranscriptPath)
	filename := strings.TrimSuffix(base, filepath.Ext(base)) + ".md"
	if filename = SanitizeFilename(filename); filename == "output" {
		filename = "subtitle-" + result.VideoID + ".md"
	}
	mdPath := uniqueArtifactPath(artifactDir, filename)

	title := result.Title
	if title == "" {
		title = "Unknown Title"
	}
	languages := "unknown"
	if len(result.Languages) > 0 {
		languages = strings.Join(result.Languages, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "- **URL**: %s\n", result.URL)
	fmt.Fprintf(&b, "- **Upload Date**: %s\n", result.UploadDate)
	if result.Channel != "" {
		fmt.Fprintf(&b, "- **Channel**: %s\n", result.Channel)
	}
	fmt.Fprintf(&b, "- **Languages**: %s\n\n", languages)
	b.WriteString("## Subtitle\n\n```text\n")
	b.WriteString(strings.TrimSpace(string(content)))
	b.WriteString("\n```\n")

	if err := os.WriteFile(mdPath, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing markdown artifact %s: %w", mdPath, err)
	}
	return mdPath, nil
}

// BuildMarkdownArtifacts renders a markdown file per successful result.
func BuildMarkdownArtifacts(results []VideoResult, artifactDir string) ([]string, error) {
	var files []string
	for _, result := range results {
		mdPath, err := CreateMarkdownArtifact(result, artifactDir)
		if err != nil {
			return files, err
		}
		if mdPath != "" {
			files = append(files, mdPath)
		}
	}
	return files, nil
}

// ZipMarkdownArtifacts bundles the markdown files into a timestamped zip.
func ZipMarkdownArtifacts(markdownFiles []string, artifactDir string) (string, error) {
	if err := EnsureDirs(artifactDir); err != nil {
		return "", fmt.Errorf("creating artifact directory %s: %w", artifactDir, err)
	}
	zipPath := uniqueArtifactPath(artifactDir, fmt.Sprintf("subtitles-%s.zip", timestampSlug()))

	f, err := os.Create(zipPath)
	if err != nil {
		return "", fmt.Errorf("creating archive %s: %w", zipPath, err)
	}
	defer f.Close()

	archive := zip.NewWriter(f)
	for _, path := range markdownFiles {
		src, err := os.Open(path)
		if err != nil {
			archive.Close()
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		w, err := archive.Create(filepath.Base(path))
		if err == nil {
			_, err = io.Copy(w, src)
		}
		src.Close()
		if err != nil {
			archive.Close()
			return "", fmt.Errorf("archiving %s: %w", path, err)
		}
	}
	if err := archive.Close(); err != nil {
		return "", fmt.Errorf("finishing archive %s: %w", zipPath, err)
	}
	return zipPath, nil
}

// CreateSummaryMarkdown writes a run overview listing each video's status.
func CreateSummaryMarkdown(results []VideoResult, artifactDir string) (string, error) {
	if err := EnsureDirs(artifactDir); err != nil {
		return "", fmt.Errorf("creating artifact directory %s: %w", artifactDir, err)
	}
	summaryPath := uniqueArtifactPath(artifactDir, fmt.Sprintf("download-summary-%s.md", timestampSlug()))

	var b strings.Builder
	b.WriteString("# Download Summary\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", artifactTimestamp().Format(time.RFC3339))
	if len(results) == 0 {
		b.WriteString("No videos were processed.\n")
	} else {
		b.WriteString("## Videos\n\n")
		for _, result := range results {
			title := result.Title
			if title == "" {
				title = result.VideoID
			}
			fmt.Fprintf(&b, "- **%s** (status `%s`): [Link](%s)\n", title, result.Status, result.URL)
			if result.Message != "" {
				fmt.Fprintf(&b, "  - %s\n", result.Message)
			}
		}
	}

	if err := os.WriteFile(summaryPath, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing summary %s: %w", summaryPath, err)
	}
	return summaryPath, nil
}
