package app

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"speech-analyzer-service/internal/config"
	"speech-analyzer-service/internal/events"
	"speech-analyzer-service/internal/observability/logging"
	"speech-analyzer-service/internal/schema"
	"speech-analyzer-service/internal/service/analysis"
	"speech-analyzer-service/internal/service/audio"
)

// Application holds process-wide state for the service.
type Application struct {
	StartupTime time.Time
	Logger      zerolog.Logger
	Cfg         *config.Configuration

	Analyzer  *analysis.Analyzer
	Uploader  *audio.Uploader
	Recorder  *audio.Recorder
	Publisher *events.Publisher

	release func()
	ready   atomic.Bool
}

// New constructs a new Application from the provided configuration.
func New(cfg *config.Configuration) *Application {
	a := &Application{
		Cfg:     cfg,
		release: func() {},
	}
	a.setupLogger()

	appLogger := a.Logger.With().
		Str("method", "New").
		Logger()

	appLogger.Info().Msg("Speech analyzer application created")
	return a
}

// setupLogger configures zerolog for the service.
func (a *Application) setupLogger() {
	logging.Init(logging.Config{
		Level:  a.Cfg.Observability.LogLevel,
		Format: a.Cfg.Observability.LogFormat,
	})
	a.Logger = logging.WithComponent("application").With().
		Str("service", "speech-analyzer-service").
		Logger()

	a.Logger.Info().
		Str("logLevel", zerolog.GlobalLevel().String()).
		Str("logFormat", a.Cfg.Observability.LogFormat).
		Msg("Logger setup completed")
}

// Limits returns the audio bounds from configuration.
func (a *Application) Limits() audio.Limits {
	return audio.Limits{
		SampleRateHz:   a.Cfg.Audio.SampleRateHz,
		DefaultSeconds: a.Cfg.Audio.DefaultSeconds,
		MinSeconds:     a.Cfg.Audio.MinSeconds,
		MaxSeconds:     a.Cfg.Audio.MaxSeconds,
		MaxUploadBytes: a.Cfg.Audio.MaxUploadBytes,
	}
}

// Start loads the models and builds the pipeline. capture may be nil, in
// which case recording is unavailable.
func (a *Application) Start(ctx context.Context, capture audio.Capture) error {
	startLogger := a.Logger.With().
		Str("method", "Start").
		Logger()

	a.StartupTime = time.Now().UTC()
	startLogger.Info().
		Time("startupTime", a.StartupTime).
		Msg("Speech analyzer starting")

	models, release, err := LoadModels(ctx, a.Cfg)
	if err != nil {
		release()
		return fmt.Errorf("load models: %w", err)
	}
	a.release = release

	a.Publisher = events.New(&events.Config{
		Enabled:         a.Cfg.Kafka.Enabled,
		Brokers:         a.Cfg.Kafka.Brokers,
		TopicTranscript: a.Cfg.Kafka.TopicTranscript,
		TopicAnalysis:   a.Cfg.Kafka.TopicAnalysis,
		Principal:       a.Cfg.Kafka.Principal,
	})

	a.Analyzer = analysis.New(models, analysis.Options{
		LanguageCode: a.Cfg.STT.LanguageCode,
		Publisher:    a.Publisher,
		Validator:    schema.New(),
	})

	tempDir := a.Cfg.Audio.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	limits := a.Limits()
	a.Uploader = audio.NewUploader(limits, tempDir)
	if capture != nil {
		a.Recorder = audio.NewRecorder(capture, limits, tempDir)
	} else {
		startLogger.Warn().Msg("No capture device, recording disabled")
	}

	a.ready.Store(true)
	startLogger.Info().Msg("Speech analyzer ready")
	return nil
}

// Ready reports whether Start completed.
func (a *Application) Ready() bool {
	return a.ready.Load()
}

// Shutdown performs a best-effort cleanup before process exit.
func (a *Application) Shutdown() {
	shutdownLogger := a.Logger.With().
		Str("method", "Shutdown").
		Logger()

	a.ready.Store(false)
	if a.Publisher != nil {
		if err := a.Publisher.Close(); err != nil {
			shutdownLogger.Warn().Err(err).Msg("Failed to close publisher")
		}
	}
	a.release()

	shutdownLogger.Info().Msg("Speech analyzer shutting down")
}
