// Package analysis runs the speech analysis pipeline: transcription, then
// sentiment, entities and intent over the transcript, then the canned reply.
package analysis

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"speech-analyzer-service/internal/models"
	"speech-analyzer-service/internal/observability/logging"
	"speech-analyzer-service/internal/observability/metrics"
	"speech-analyzer-service/internal/schema"
	"speech-analyzer-service/internal/service/assistant"
	"speech-analyzer-service/internal/service/audio"
	"speech-analyzer-service/internal/service/intent"
	"speech-analyzer-service/internal/service/ner"
	"speech-analyzer-service/internal/service/run"
	"speech-analyzer-service/internal/service/sentiment"
	"speech-analyzer-service/internal/service/stt"
)

// Models holds the collaborator handles built once at startup.
type Models struct {
	Transcriber stt.Transcriber
	Sentiment   sentiment.Classifier
	Entities    ner.Extractor
}

// Publisher receives run events. *events.Publisher implements it.
type Publisher interface {
	PublishTranscript(ctx context.Context, key string, event any) error
	PublishAnalysis(ctx context.Context, key string, event any) error
}

// ClipSource produces the audio for a run, e.g. by recording or saving an upload.
type ClipSource func(ctx context.Context) (*audio.Clip, error)

// Options configures an Analyzer. Zero values select defaults.
type Options struct {
	LanguageCode string
	Publisher    Publisher
	Validator    *schema.Validator
	Metrics      *metrics.Metrics
}

// Analyzer runs one analysis at a time.
type Analyzer struct {
	models    Models
	language  string
	publisher Publisher
	validator *schema.Validator
	metrics   *metrics.Metrics
	runs      *run.Generator
	sem       chan struct{}
}

// New creates an analyzer over m.
func New(m Models, opts Options) *Analyzer {
	if opts.LanguageCode == "" {
		opts.LanguageCode = "en"
	}
	if opts.Validator == nil {
		opts.Validator = schema.New()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.DefaultMetrics
	}
	return &Analyzer{
		models:    m,
		language:  opts.LanguageCode,
		publisher: opts.Publisher,
		validator: opts.Validator,
		metrics:   opts.Metrics,
		runs:      run.New(),
		sem:       make(chan struct{}, 1),
	}
}

// AnalyzeAudio obtains a clip from src, transcribes it and analyzes the
// transcript. The clip is removed when the run ends. An empty interactionID
// gets a generated one.
func (a *Analyzer) AnalyzeAudio(ctx context.Context, interactionID, source string, src ClipSource) (*models.AnalysisResult, error) {
	if err := a.acquire(ctx); err != nil {
		return nil, err
	}
	defer a.release()

	r := a.begin(interactionID, source)

	clip, err := src(ctx)
	if err != nil {
		if IsInputError(err) {
			return nil, r.reject(err)
		}
		return nil, r.fail(&StageError{Stage: StageCapture, Provider: source, Err: err})
	}
	defer func() {
		if err := clip.Remove(); err != nil {
			r.log.Warn().Err(err).Str("path", clip.Path).Msg("Failed to remove clip")
		}
	}()
	a.metrics.RecordAudioReceived(clip.Bytes)

	r.log.Info().
		Str("format", clip.Format).
		Dur("clipDuration", clip.Duration).
		Int64("bytes", clip.Bytes).
		Msg("Clip ready, transcribing")

	text, serr := a.transcribe(ctx, clip.Path)
	if serr != nil {
		return nil, r.fail(serr)
	}

	return a.finish(ctx, r, text)
}

// AnalyzeText analyzes text directly, skipping transcription.
func (a *Analyzer) AnalyzeText(ctx context.Context, interactionID, text string) (*models.AnalysisResult, error) {
	if err := a.acquire(ctx); err != nil {
		return nil, err
	}
	defer a.release()

	r := a.begin(interactionID, models.SourceText)
	if strings.TrimSpace(text) == "" {
		return nil, r.reject(ErrEmptyText)
	}
	return a.finish(ctx, r, text)
}

func (a *Analyzer) acquire(ctx context.Context) error {
	select {
	case a.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Analyzer) release() {
	<-a.sem
}

// runState tracks a single run between begin and its terminal transition.
type runState struct {
	a             *Analyzer
	interactionID string
	runID         string
	source        string
	started       time.Time
	lifecycle     *run.Lifecycle
	log           zerolog.Logger
}

func (a *Analyzer) begin(interactionID, source string) *runState {
	interactionID, runID := a.runs.Next(interactionID)
	r := &runState{
		a:             a,
		interactionID: interactionID,
		runID:         runID,
		source:        source,
		started:       time.Now(),
		lifecycle:     run.NewLifecycle(runID),
		log:           logging.WithRun(interactionID, runID, source),
	}
	a.metrics.RecordRunStart(source)
	r.log.Info().Msg("Run started")
	return r
}

func (r *runState) reject(err error) error {
	r.lifecycle.Fail(StageInput)
	r.a.metrics.RecordInputRejected(rejectReason(err))
	r.a.metrics.RecordRunEnd(StageInput, time.Since(r.started).Seconds())
	r.log.Warn().Err(err).Msg("Input rejected")
	return err
}

func (r *runState) fail(err *StageError) error {
	r.lifecycle.Fail(err.Stage)
	r.a.metrics.RecordRunEnd(err.Stage, time.Since(r.started).Seconds())
	r.log.Error().
		Err(err.Err).
		Str("stage", err.Stage).
		Str("provider", err.Provider).
		Msg("Run failed")
	return err
}

func (a *Analyzer) transcribe(ctx context.Context, path string) (string, *StageError) {
	t := a.models.Transcriber
	start := time.Now()
	text, err := t.Transcribe(ctx, path, a.language)
	a.metrics.RecordCollaboratorCall(StageTranscription, t.Name(), err, time.Since(start).Seconds())
	if err != nil {
		return "", &StageError{Stage: StageTranscription, Provider: t.Name(), Err: err}
	}
	return text, nil
}

// finish analyzes the transcript and completes the run.
func (a *Analyzer) finish(ctx context.Context, r *runState, raw string) (*models.AnalysisResult, error) {
	text := strings.TrimSpace(raw)
	_ = r.lifecycle.Transcribed()
	a.publishTranscript(ctx, r, text)

	senti, entities, serr := a.analyzeText(ctx, text)
	if serr != nil {
		return nil, r.fail(serr)
	}
	if text == "" {
		a.metrics.RecordEmptyTranscript()
		r.log.Info().Msg("Empty transcript, using neutral defaults")
	}

	in := intent.Classify(text)
	result := &models.AnalysisResult{
		RunID:         r.runID,
		InteractionID: r.interactionID,
		Source:        r.source,
		Transcript:    text,
		Sentiment:     senti,
		Intent:        in,
		Entities:      entities,
		Response:      assistant.Generate(in, senti.Label),
		StartedAt:     r.started,
		Duration:      time.Since(r.started),
	}

	_ = r.lifecycle.Complete()
	a.metrics.RecordAnalysis(string(in), senti.Label, len(entities))
	a.metrics.RecordRunEnd("", result.Duration.Seconds())

	r.log.Info().
		Str("intent", string(in)).
		Str("sentiment", senti.Label).
		Float64("score", senti.Score).
		Int("entities", len(entities)).
		Dur("duration", result.Duration).
		Msg("Run completed")

	a.publishAnalysis(ctx, r, result)
	return result, nil
}

// analyzeText calls the text collaborators. Empty text never reaches them.
func (a *Analyzer) analyzeText(ctx context.Context, text string) (models.Sentiment, []models.Entity, *StageError) {
	if text == "" {
		return models.NeutralSentiment(), []models.Entity{}, nil
	}

	sc := a.models.Sentiment
	start := time.Now()
	senti, err := sc.Classify(ctx, text)
	a.metrics.RecordCollaboratorCall(StageSentiment, sc.Name(), err, time.Since(start).Seconds())
	if err != nil {
		return models.Sentiment{}, nil, &StageError{Stage: StageSentiment, Provider: sc.Name(), Err: err}
	}

	ex := a.models.Entities
	start = time.Now()
	entities, err := ex.Extract(ctx, text)
	a.metrics.RecordCollaboratorCall(StageEntities, ex.Name(), err, time.Since(start).Seconds())
	if err != nil {
		return models.Sentiment{}, nil, &StageError{Stage: StageEntities, Provider: ex.Name(), Err: err}
	}
	if entities == nil {
		entities = []models.Entity{}
	}
	return senti, entities, nil
}

// publishTranscript emits the transcript event. Text runs have no transcript
// of their own and only publish the analysis.
func (a *Analyzer) publishTranscript(ctx context.Context, r *runState, text string) {
	if a.publisher == nil || r.source == models.SourceText {
		return
	}
	provider := ""
	if a.models.Transcriber != nil {
		provider = a.models.Transcriber.Name()
	}
	ev := models.TranscriptFinal{
		EventType:     models.EventTypeTranscriptFinal,
		InteractionID: r.interactionID,
		RunID:         r.runID,
		Timestamp:     time.Now().UnixMilli(),
		Source:        r.source,
		Provider:      provider,
		Text:          text,
	}
	a.publish(ctx, r, ev, a.publisher.PublishTranscript)
}

func (a *Analyzer) publishAnalysis(ctx context.Context, r *runState, res *models.AnalysisResult) {
	if a.publisher == nil {
		return
	}
	ev := models.AnalysisCompleted{
		EventType:     models.EventTypeAnalysisComplete,
		InteractionID: res.InteractionID,
		RunID:         res.RunID,
		Timestamp:     time.Now().UnixMilli(),
		Transcript:    res.Transcript,
		Sentiment:     res.Sentiment,
		Intent:        res.Intent,
		Entities:      res.Entities,
		Response:      res.Response,
		DurationMs:    res.Duration.Milliseconds(),
	}
	a.publish(ctx, r, ev, a.publisher.PublishAnalysis)
}

// publish validates ev and hands it to fn. Failures are logged; the run's
// result does not depend on event delivery.
func (a *Analyzer) publish(ctx context.Context, r *runState, ev any, fn func(context.Context, string, any) error) {
	if err := a.validator.Validate(ev); err != nil {
		r.log.Error().Err(err).Msg("Event failed validation, not published")
		return
	}
	if err := fn(ctx, r.interactionID, ev); err != nil {
		r.log.Warn().Err(err).Msg("Failed to publish event")
	}
}
