package internal

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// Audio handles audio file operations using FFmpeg.
type Audio struct {
	cmdRunner CommandRunner
}

// NewAudio creates a new audio processor.
func NewAudio(cmdRunner CommandRunner) *Audio {
	return &Audio{cmdRunner: cmdRunner}
}

// Duration returns the audio file duration in seconds.
func (a *Audio) Duration(ctx context.Context, audioFile string) (float64, error) {
	output, err := a.cmdRunner.Run(ctx, "ffprobe",
		"-i", audioFile,
		"-show_entries", "format=duration",
		"-v", "quiet",
		"-of", "csv=p=0")
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w\nOutput: %s", err, string(output))
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing duration: %w", err)
	}
	return duration, nil
}

// ConvertToWAV resamples an audio file to 16 kHz mono WAV next to the input,
// the container the speech-to-text engine is happiest with.
func (a *Audio) ConvertToWAV(ctx context.Context, audioFile string) (string, error) {
	output := strings.TrimSuffix(audioFile, filepath.Ext(audioFile)) + ".wav"
	cmdOutput, err := a.cmdRunner.Run(ctx, "ffmpeg",
		"-v", "quiet",
		"-i", audioFile,
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y", output)
	if err != nil {
		return "", fmt.Errorf("ffmpeg failed: %w\nOutput: %s", err, string(cmdOutput))
	}
	return output, nil
}

// Split divides an audio file into numChunks smaller files in the same
// directory, for transcription APIs with per-request size limits.
func (a *Audio) Split(ctx context.Context, audioFile string, numChunks int) ([]string, error) {
	duration, err := a.Duration(ctx, audioFile)
	if err != nil {
		return nil, fmt.Errorf("getting audio duration: %w", err)
	}

	chunkDuration := int(math.Ceil(duration / float64(numChunks)))
	chunks := make([]string, 0, numChunks)

	ext := filepath.Ext(audioFile)
	base := strings.TrimSuffix(audioFile, ext)
	for i := range numChunks {
		start := i * chunkDuration
		output := fmt.Sprintf("%s_chunk_%d%s", base, i, ext)
		if err := a.chunk(ctx, audioFile, start, chunkDuration, output); err != nil {
			cleanupFiles(chunks...)
			return nil, fmt.Errorf("creating chunk %d: %w", i, err)
		}
		chunks = append(chunks, output)
	}
	return chunks, nil
}

// chunk extracts a segment from an audio file.
func (a *Audio) chunk(ctx context.Context, audioFile string, start, duration int, output string) error {
	cmdOutput, err := a.cmdRunner.Run(ctx, "ffmpeg",
		"-v", "quiet",
		"-i", audioFile,
		"-ss", strconv.Itoa(start),
		"-t", strconv.Itoa(duration),
		"-c:a", "copy",
		"-y", output)
	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w\nOutput: %s", err, string(cmdOutput))
	}
	return nil
}
