package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// WhisperLimit is the maximum file size accepted by OpenAI's Whisper API (25 MiB).
const WhisperLimit int64 = 25 << 20

// ErrWhisperUnavailable reports that no speech-to-text engine is configured.
var ErrWhisperUnavailable = errors.New("whisper transcription unavailable: no OpenAI API key configured")

// Transcriber is the speech-to-text collaborator: audio file in, transcribed
// text and detected language out.
type Transcriber interface {
	Transcribe(ctx context.Context, audioFile string) (text, language string, err error)
}

// TranscriptionClient is the slice of the OpenAI SDK the Whisper transcriber
// needs, kept narrow so tests can fake it.
type TranscriptionClient interface {
	CreateTranscription(ctx context.Context, file *os.File, model string) (text, language string, err error)
}

// OpenAIClient wraps the official OpenAI Go SDK.
type OpenAIClient struct {
	client openai.Client
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{client: openai.NewClient(option.WithAPIKey(apiKey))}
}

// CreateTranscription sends one audio file to the Whisper API. The verbose
// response format carries the detected language alongside the text.
func (c *OpenAIClient) CreateTranscription(ctx context.Context, file *os.File, model string) (string, string, error) {
	resp, err := c.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:           file,
		Model:          openai.AudioModel(model),
		ResponseFormat: openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return "", "", err
	}

	var verbose struct {
		Text     string `json:"text"`
		Language string `json:"language"`
	}
	if err := json.Unmarshal([]byte(resp.RawJSON()), &verbose); err != nil || verbose.Text == "" {
		return resp.Text, verbose.Language, nil
	}
	return verbose.Text, verbose.Language, nil
}

// Whisper transcribes audio via the OpenAI Whisper API, splitting files that
// exceed the API's size limit.
type Whisper struct {
	client     TranscriptionClient
	audio      *Audio
	model      string
	limit      int64
	timeout    time.Duration
	logger     *slog.Logger
	apiKey     string
	clientOnce sync.Once
}

// NewWhisper creates a Whisper transcriber with lazy client initialization;
// the API key is only validated when a transcription is actually attempted.
func NewWhisper(apiKey, model string, audio *Audio, timeout time.Duration, logger *slog.Logger) *Whisper {
	return &Whisper{
		audio:   audio,
		model:   model,
		limit:   WhisperLimit,
		timeout: timeout,
		logger:  logger,
		apiKey:  apiKey,
	}
}

// NewWhisperWithClient wires a prebuilt transcription client, used by tests.
func NewWhisperWithClient(client TranscriptionClient, model string, audio *Audio, logger *slog.Logger) *Whisper {
	return &Whisper{client: client, model: model, audio: audio, limit: WhisperLimit, logger: logger}
}

func (w *Whisper) ensureClient() error {
	if w.client != nil {
		return nil
	}
	if w.apiKey == "" {
		return ErrWhisperUnavailable
	}
	w.clientOnce.Do(func() {
		w.client = NewOpenAIClient(w.apiKey)
	})
	return nil
}

// Transcribe implements Transcriber. Oversized audio is split into chunks and
// transcribed sequentially; the detected language of the first chunk wins.
func (w *Whisper) Transcribe(ctx context.Context, audioFile string) (string, string, error) {
	if err := w.ensureClient(); err != nil {
		return "", "", err
	}

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	// Resampling to 16 kHz mono keeps most uploads under the API size limit.
	if !strings.EqualFold(filepath.Ext(audioFile), ".wav") {
		wavFile, err := w.audio.ConvertToWAV(ctx, audioFile)
		if err != nil {
			return "", "", fmt.Errorf("converting audio: %w", err)
		}
		defer cleanupFiles(wavFile)
		audioFile = wavFile
	}

	info, err := os.Stat(audioFile)
	if err != nil {
		return "", "", fmt.Errorf("getting audio file info: %w", err)
	}

	numChunks := int(math.Ceil(float64(info.Size()) / float64(w.limit)))
	chunks := []string{audioFile}
	if numChunks > 1 {
		chunks, err = w.audio.Split(ctx, audioFile, numChunks)
		if err != nil {
			return "", "", fmt.Errorf("splitting audio: %w", err)
		}
		defer cleanupFiles(chunks...)
	}

	w.logger.Debug("transcribing audio", "file", audioFile, "chunks", len(chunks))

	var sb strings.Builder
	language := ""
	for i, chunkPath := range chunks {
		file, err := os.Open(chunkPath)
		if err != nil {
			return "", "", fmt.Errorf("opening chunk %s: %w", chunkPath, err)
		}

		text, lang, err := w.client.CreateTranscription(ctx, file, w.model)
		if closeErr := file.Close(); closeErr != nil {
			w.logger.Warn("closing audio chunk", "file", chunkPath, "error", closeErr)
		}
		if err != nil {
			return "", "", fmt.Errorf("transcribing chunk %d: %w", i+1, err)
		}

		if language == "" && lang != "" {
			language = lang
		}
		sb.WriteString(text)
		if i < len(chunks)-1 {
			sb.WriteString("\n")
		}
	}

	if language == "" {
		language = "unknown"
	}
	return sb.String(), language, nil
}
