package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"speech-analyzer-service/internal/config"
	"speech-analyzer-service/internal/observability/logging"
	"speech-analyzer-service/internal/service/analysis"
	"speech-analyzer-service/internal/service/huggingface"
	nerhf "speech-analyzer-service/internal/service/ner/huggingface"
	nermock "speech-analyzer-service/internal/service/ner/mock"
	sentimenthf "speech-analyzer-service/internal/service/sentiment/huggingface"
	sentimentmock "speech-analyzer-service/internal/service/sentiment/mock"
	"speech-analyzer-service/internal/service/stt"
	"speech-analyzer-service/internal/service/stt/assemblyai"
	"speech-analyzer-service/internal/service/stt/google"
	"speech-analyzer-service/internal/service/stt/mock"
	sttopenai "speech-analyzer-service/internal/service/stt/openai"
)

// LoadModels builds the collaborator handles selected by cfg. Hosted text
// models are warmed up when enabled so the first run does not hit a cold
// start. The returned release func closes provider clients.
func LoadModels(ctx context.Context, cfg *config.Configuration) (analysis.Models, func(), error) {
	var m analysis.Models
	release := func() {}

	transcriber, closeSTT, err := newTranscriber(ctx, cfg)
	if err != nil {
		return m, release, fmt.Errorf("load transcriber: %w", err)
	}
	release = closeSTT
	m.Transcriber = transcriber

	var hf *huggingface.Client
	hfClient := func() *huggingface.Client {
		if hf == nil {
			hf = huggingface.New(huggingface.Config{
				BaseURL:  cfg.HuggingFace.BaseURL,
				APIToken: cfg.HuggingFace.APIToken,
				Timeout:  cfg.HuggingFace.Timeout,
			})
		}
		return hf
	}

	type warmup struct{ collaborator, model string }
	var warm []warmup
	switch cfg.Sentiment.Provider {
	case "mock":
		m.Sentiment = sentimentmock.New()
	case "huggingface":
		m.Sentiment = sentimenthf.New(hfClient(), cfg.Sentiment.Model)
		warm = append(warm, warmup{analysis.StageSentiment, cfg.Sentiment.Model})
	default:
		return m, release, fmt.Errorf("unknown sentiment provider %q", cfg.Sentiment.Provider)
	}

	switch cfg.NER.Provider {
	case "mock":
		m.Entities = nermock.New()
	case "huggingface":
		m.Entities = nerhf.New(hfClient(), cfg.NER.Model)
		warm = append(warm, warmup{analysis.StageEntities, cfg.NER.Model})
	default:
		return m, release, fmt.Errorf("unknown NER provider %q", cfg.NER.Provider)
	}

	if hf != nil && cfg.HuggingFace.Warmup {
		wcfg := huggingface.DefaultWarmupConfig(cfg.HuggingFace.WarmupMaxWait)
		for _, w := range warm {
			wlog := logging.WithCollaborator(w.collaborator, "huggingface")
			wlog.Info().Str("model", w.model).Msg("Warming up model")
			if err := hf.Warmup(ctx, w.model, wcfg); err != nil {
				return m, release, fmt.Errorf("warm up %s model: %w", w.collaborator, err)
			}
		}
	}

	log.Info().
		Str("stt", m.Transcriber.Name()).
		Str("sentiment", m.Sentiment.Name()).
		Str("ner", m.Entities.Name()).
		Msg("Models loaded")

	return m, release, nil
}

func newTranscriber(ctx context.Context, cfg *config.Configuration) (stt.Transcriber, func(), error) {
	noop := func() {}

	switch cfg.STT.Provider {
	case "mock":
		return mock.New(), noop, nil
	case "google":
		gcfg := google.DefaultConfig()
		gcfg.LanguageCode = cfg.STT.GoogleLanguageCode
		a, err := google.New(ctx, gcfg)
		if err != nil {
			return nil, noop, err
		}
		return a, func() {
			if err := a.Close(); err != nil {
				clog := logging.WithCollaborator(analysis.StageTranscription, a.Name())
				clog.Warn().Err(err).Msg("Failed to close STT client")
			}
		}, nil
	case "openai":
		a, err := sttopenai.New(sttopenai.Config{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.STT.Model,
		})
		return a, noop, err
	case "assemblyai":
		a, err := assemblyai.New(cfg.AssemblyAI.APIKey)
		return a, noop, err
	default:
		return nil, noop, fmt.Errorf("unknown STT provider %q", cfg.STT.Provider)
	}
}
