package internal

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// manifestHeader is written once when the file is first created. Rows are
// append-only; video IDs present here are considered done on incremental runs.
var manifestHeader = []string{
	"video_id",
	"title",
	"url",
	"upload_date",
	"transcript_path",
	"languages",
	"duration",
	"subtitle_source",
}

// Manifest is the persisted CSV record of successfully transcribed videos.
type Manifest struct {
	Path string
}

// NewManifest points at (but does not create) the manifest file.
func NewManifest(path string) *Manifest {
	return &Manifest{Path: path}
}

// Append writes one row for a finished video and flushes it to disk, so an
// interrupted batch stays consistent up to the last completed video.
func (m *Manifest) Append(result VideoResult, relTranscriptPath string) error {
	writeHeader := !FileExists(m.Path)

	f, err := os.OpenFile(m.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(manifestHeader); err != nil {
			return fmt.Errorf("writing manifest header: %w", err)
		}
	}

	duration := ""
	if result.Duration > 0 {
		duration = strconv.FormatFloat(result.Duration, 'f', -1, 64)
	}
	row := []string{
		result.VideoID,
		result.Title,
		result.URL,
		result.UploadDate,
		relTranscriptPath,
		strings.Join(result.Languages, ","),
		duration,
		string(result.Source),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("writing manifest row: %w", err)
	}
	w.Flush()
	return w.Error()
}

// ExistingIDs reads the manifest and returns the set of already-processed
// video IDs. A missing or unreadable manifest yields an empty set; incremental
// runs then process everything.
func (m *Manifest) ExistingIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	f, err := os.Open(m.Path)
	if err != nil {
		return ids
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate rows from older header variants
	records, err := r.ReadAll()
	if err != nil || len(records) < 2 {
		return ids
	}
	for _, record := range records[1:] {
		if len(record) > 0 && record[0] != "" {
			ids[record[0]] = struct{}{}
		}
	}
	return ids
}

// Remove deletes the manifest file; full-reprocess mode truncates history this
// way before redoing every video.
func (m *Manifest) Remove() error {
	if !FileExists(m.Path) {
		return nil
	}
	return os.Remove(m.Path)
}
