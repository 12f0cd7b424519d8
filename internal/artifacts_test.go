package internal

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writtenResult(t *testing.T, dir, id, text string) VideoResult {
	t.Helper()
	path := filepath.Join(dir, "YouTube - C - "+id+".txt")
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	return VideoResult{
		VideoID:        id,
		Title:          "Video " + id,
		URL:            "https://www.youtube.com/watch?v=" + id,
		UploadDate:     "2024-01-02",
		Channel:        "C",
		TranscriptPath: path,
		Languages:      []string{"en"},
		Status:         StatusSuccess,
	}
}

func TestCreateMarkdownArtifact(t *testing.T) {
	dir := t.TempDir()
	artifactDir := filepath.Join(dir, "artifacts")
	result := writtenResult(t, dir, "vid1", "transcript body\n")

	mdPath, err := CreateMarkdownArtifact(result, artifactDir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(mdPath) != "YouTube - C - vid1.md" {
		t.Fatalf("got %q", mdPath)
	}

	content, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatal(err)
	}
	text := string(content)
	for _, want := range []string{
		"# Video vid1",
		"- **URL**: https://www.youtube.com/watch?v=vid1",
		"- **Channel**: C",
		"- **Languages**: en",
		"```text\ntranscript body\n```",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in:\n%s", want, text)
		}
	}
}

func TestCreateMarkdownArtifact_SkipsMissingTranscript(t *testing.T) {
	result := VideoResult{VideoID: "vid1", Status: StatusMissingSubtitle}
	mdPath, err := CreateMarkdownArtifact(result, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if mdPath != "" {
		t.Fatalf("expected no artifact, got %q", mdPath)
	}
}

func TestCreateMarkdownArtifact_UniqueNames(t *testing.T) {
	dir := t.TempDir()
	artifactDir := filepath.Join(dir, "artifacts")
	result := writtenResult(t, dir, "vid1", "body\n")

	first, err := CreateMarkdownArtifact(result, artifactDir)
	if err != nil {
		t.Fatal(err)
	}
	second, err := CreateMarkdownArtifact(result, artifactDir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(first) != "YouTube - C - vid1.md" {
		t.Fatalf("got %q", first)
	}
	if filepath.Base(second) != "YouTube - C - vid1-1.md" {
		t.Fatalf("got %q", second)
	}
}

func TestZipMarkdownArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifactDir := filepath.Join(dir, "artifacts")
	results := []VideoResult{
		writtenResult(t, dir, "vid1", "one\n"),
		writtenResult(t, dir, "vid2", "two\n"),
	}

	mdFiles, err := BuildMarkdownArtifacts(results, artifactDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(mdFiles) != 2 {
		t.Fatalf("got %d markdown files, want 2", len(mdFiles))
	}

	zipPath, err := ZipMarkdownArtifacts(mdFiles, artifactDir)
	if err != nil {
		t.Fatal(err)
	}

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if len(r.File) != 2 {
		t.Fatalf("got %d archived files, want 2", len(r.File))
	}
	names := map[string]bool{}
	for _, f := range r.File {
		names[f.Name] = true
	}
	if !names["YouTube - C - vid1.md"] || !names["YouTube - C - vid2.md"] {
		t.Fatalf("unexpected archive contents: %v", names)
	}
}

func TestCreateSummaryMarkdown(t *testing.T) {
	old := artifactTimestamp
	artifactTimestamp = func() time.Time {
		return time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	}
	defer func() { artifactTimestamp = old }()

	results := []VideoResult{
		{VideoID: "vid1", Title: "Good", URL: "u1", Status: StatusSuccess},
		{VideoID: "vid2", URL: "u2", Status: StatusError, Message: "boom"},
	}

	artifactDir := t.TempDir()
	summaryPath, err := CreateSummaryMarkdown(results, artifactDir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(summaryPath) != "download-summary-20240304-050607.md" {
		t.Fatalf("got %q", summaryPath)
	}

	content, err := os.ReadFile(summaryPath)
	if err != nil {
		t.Fatal(err)
	}
	text := string(content)
	for _, want := range []string{
		"# Download Summary",
		"Generated: 2024-03-04T05:06:07Z",
		"**Good** (status `success`)",
		"**vid2** (status `error`)",
		"- boom",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in:\n%s", want, text)
		}
	}
}

func TestCreateSummaryMarkdown_NoResults(t *testing.T) {
	summaryPath, err := CreateSummaryMarkdown(nil, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	content, err := os.ReadFile(summaryPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "No videos were processed.") {
		t.Fatalf("unexpected summary: %s", content)
	}
}
