package internal

import (
	"log/slog"
)

// App holds the application state and dependencies
type App struct {
	Extractor   Extractor
	Transcriber Transcriber
	Controller  *Controller
	UI          UIManager
	Config      *Config
	Logger      *slog.Logger
}

// NewApp initializes the application from config
func NewApp(config *Config, options ...AppOption) *App {
	logger := NewLogger(config)
	ui := NewUIManager(config.Quiet)
	audio := NewAudio(&DefaultCommandRunner{})

	app := &App{
		Extractor:   NewYTDLP(config.CookieFile, logger),
		Transcriber: NewWhisper(config.OpenAIAPIKey, config.WhisperModel, audio, config.WhisperTimeout, logger),
		UI:          ui,
		Config:      config,
		Logger:      logger,
	}

	for _, option := range options {
		option(app)
	}

	pipeline := NewPipeline(app.Extractor, app.Transcriber, DefaultRetryPolicy(), config.MaxLanguages, logger)
	app.Controller = NewController(app.Extractor, pipeline, ui, logger)

	return app
}

// AppOption customizes App creation
type AppOption func(*App)

// WithExtractor sets a custom video extractor
func WithExtractor(extractor Extractor) AppOption {
	return func(a *App) {
		a.Extractor = extractor
	}
}

// WithTranscriber sets a custom speech-to-text engine
func WithTranscriber(transcriber Transcriber) AppOption {
	return func(a *App) {
		a.Transcriber = transcriber
	}
}
