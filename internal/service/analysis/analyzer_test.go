package analysis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"speech-analyzer-service/internal/models"
	"speech-analyzer-service/internal/observability/metrics"
	"speech-analyzer-service/internal/service/assistant"
	"speech-analyzer-service/internal/service/audio"
)

type fakeTranscriber struct {
	text    string
	err     error
	calls   int
	gotLang string
	block   chan struct{}
}

func (f *fakeTranscriber) Name() string { return "fake-stt" }

func (f *fakeTranscriber) Transcribe(ctx context.Context, path, languageCode string) (string, error) {
	f.calls++
	f.gotLang = languageCode
	if f.block != nil {
		<-f.block
	}
	return f.text, f.err
}

type fakeSentiment struct {
	result models.Sentiment
	err    error
	calls  int
}

func (f *fakeSentiment) Name() string { return "fake-sentiment" }

func (f *fakeSentiment) Classify(ctx context.Context, text string) (models.Sentiment, error) {
	f.calls++
	return f.result, f.err
}

type fakeExtractor struct {
	entities []models.Entity
	err      error
	calls    int
}

func (f *fakeExtractor) Name() string { return "fake-ner" }

func (f *fakeExtractor) Extract(ctx context.Context, text string) ([]models.Entity, error) {
	f.calls++
	return f.entities, f.err
}

type fakePublisher struct {
	mu          sync.Mutex
	transcripts []models.TranscriptFinal
	analyses    []models.AnalysisCompleted
	err         error
}

func (p *fakePublisher) PublishTranscript(ctx context.Context, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transcripts = append(p.transcripts, event.(models.TranscriptFinal))
	return p.err
}

func (p *fakePublisher) PublishAnalysis(ctx context.Context, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.analyses = append(p.analyses, event.(models.AnalysisCompleted))
	return p.err
}

type fixture struct {
	stt       *fakeTranscriber
	sentiment *fakeSentiment
	ner       *fakeExtractor
	publisher *fakePublisher
	metrics   *metrics.Metrics
	analyzer  *Analyzer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		stt:       &fakeTranscriber{},
		sentiment: &fakeSentiment{result: models.Sentiment{Label: models.SentimentPositive, Score: 0.91}},
		ner:       &fakeExtractor{},
		publisher: &fakePublisher{},
		metrics:   metrics.NewMetrics(prometheus.NewRegistry()),
	}
	f.analyzer = New(
		Models{Transcriber: f.stt, Sentiment: f.sentiment, Entities: f.ner},
		Options{Publisher: f.publisher, Metrics: f.metrics},
	)
	return f
}

// clipSource writes a throwaway clip file and returns a source for it.
func clipSource(t *testing.T) (ClipSource, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o600); err != nil {
		t.Fatalf("write clip: %v", err)
	}
	return func(ctx context.Context) (*audio.Clip, error) {
		return &audio.Clip{Path: path, Format: audio.FormatWAV, Bytes: 4}, nil
	}, path
}

func TestAnalyzeAudio_Complaint(t *testing.T) {
	f := newFixture(t)
	f.stt.text = "  The camera on this model is not working, it's a real problem \n"
	f.ner.entities = []models.Entity{{Text: "camera", Label: "PRODUCT"}}
	src, path := clipSource(t)

	res, err := f.analyzer.AnalyzeAudio(context.Background(), "int-1", models.SourceUpload, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Transcript != "The camera on this model is not working, it's a real problem" {
		t.Errorf("expected trimmed transcript, got %q", res.Transcript)
	}
	if res.Intent != models.IntentComplaint {
		t.Errorf("expected Complaint, got %s", res.Intent)
	}
	if res.Response != assistant.Generate(models.IntentComplaint, models.SentimentPositive) {
		t.Errorf("unexpected response %+v", res.Response)
	}
	if res.Response.NextQuestion != "Could you explain the issue you're facing?" {
		t.Errorf("expected complaint question, got %q", res.Response.NextQuestion)
	}
	if res.Sentiment.Label != models.SentimentPositive || len(res.Entities) != 1 {
		t.Errorf("unexpected sentiment/entities %+v %+v", res.Sentiment, res.Entities)
	}
	if res.InteractionID != "int-1" || res.RunID != "int-1-run-1" || res.Source != models.SourceUpload {
		t.Errorf("unexpected identity %s/%s/%s", res.InteractionID, res.RunID, res.Source)
	}
	if f.stt.gotLang != "en" {
		t.Errorf("expected default language hint 'en', got %q", f.stt.gotLang)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected clip removed after run")
	}

	if len(f.publisher.transcripts) != 1 || len(f.publisher.analyses) != 1 {
		t.Fatalf("expected one event of each kind, got %d/%d", len(f.publisher.transcripts), len(f.publisher.analyses))
	}
	if f.publisher.transcripts[0].Provider != "fake-stt" {
		t.Errorf("expected transcript provider fake-stt, got %s", f.publisher.transcripts[0].Provider)
	}
	if f.publisher.analyses[0].Intent != models.IntentComplaint {
		t.Errorf("expected published intent Complaint, got %s", f.publisher.analyses[0].Intent)
	}

	if got := testutil.ToFloat64(f.metrics.RunsSuccess); got != 1 {
		t.Errorf("expected 1 successful run, got %v", got)
	}
	if got := testutil.ToFloat64(f.metrics.IntentsTotal.WithLabelValues(string(models.IntentComplaint))); got != 1 {
		t.Errorf("expected complaint intent counted, got %v", got)
	}
	if got := testutil.ToFloat64(f.metrics.AudioBytesReceived); got != 4 {
		t.Errorf("expected 4 audio bytes, got %v", got)
	}
}

func TestAnalyzeAudio_EmptyTranscript(t *testing.T) {
	f := newFixture(t)
	f.stt.text = "   "
	src, _ := clipSource(t)

	res, err := f.analyzer.AnalyzeAudio(context.Background(), "", models.SourceRecord, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.sentiment.calls != 0 || f.ner.calls != 0 {
		t.Errorf("expected text collaborators skipped, got %d/%d calls", f.sentiment.calls, f.ner.calls)
	}
	if res.Transcript != "" {
		t.Errorf("expected empty transcript, got %q", res.Transcript)
	}
	if res.Sentiment != models.NeutralSentiment() {
		t.Errorf("expected neutral sentiment, got %+v", res.Sentiment)
	}
	if res.Entities == nil || len(res.Entities) != 0 {
		t.Errorf("expected empty non-nil entities, got %#v", res.Entities)
	}
	if res.Intent != models.IntentGeneral {
		t.Errorf("expected General, got %s", res.Intent)
	}
	if res.Response.NextQuestion != "How can I assist you further?" {
		t.Errorf("expected default reply, got %+v", res.Response)
	}
	if res.InteractionID == "" {
		t.Error("expected generated interaction ID")
	}
	if got := testutil.ToFloat64(f.metrics.TranscriptsEmpty); got != 1 {
		t.Errorf("expected empty transcript counted, got %v", got)
	}
}

func TestAnalyzeAudio_CollaboratorFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name         string
		setup        func(*fixture)
		wantStage    string
		wantProvider string
	}{
		{"transcription", func(f *fixture) { f.stt.err = boom }, StageTranscription, "fake-stt"},
		{"sentiment", func(f *fixture) { f.stt.text = "hello"; f.sentiment.err = boom }, StageSentiment, "fake-sentiment"},
		{"entities", func(f *fixture) { f.stt.text = "hello"; f.ner.err = boom }, StageEntities, "fake-ner"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)
			src, path := clipSource(t)

			res, err := f.analyzer.AnalyzeAudio(context.Background(), "int-1", models.SourceUpload, src)
			if res != nil {
				t.Errorf("expected no result, got %+v", res)
			}

			var stageErr *StageError
			if !errors.As(err, &stageErr) {
				t.Fatalf("expected *StageError, got %T (%v)", err, err)
			}
			if stageErr.Stage != tt.wantStage || stageErr.Provider != tt.wantProvider {
				t.Errorf("expected %s/%s, got %s/%s", tt.wantStage, tt.wantProvider, stageErr.Stage, stageErr.Provider)
			}
			if !errors.Is(err, boom) {
				t.Error("expected StageError to wrap the collaborator error")
			}
			if IsInputError(err) {
				t.Error("collaborator failure must not be an input error")
			}
			if len(f.publisher.analyses) != 0 {
				t.Error("expected no analysis event on failure")
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Error("expected clip removed after failed run")
			}
			if got := testutil.ToFloat64(f.metrics.RunsFailed.WithLabelValues(tt.wantStage)); got != 1 {
				t.Errorf("expected failure counted for %s, got %v", tt.wantStage, got)
			}
			if got := testutil.ToFloat64(f.metrics.CollaboratorErrors.WithLabelValues(tt.wantStage, tt.wantProvider)); got != 1 {
				t.Errorf("expected collaborator error counted, got %v", got)
			}
		})
	}
}

func TestAnalyzeAudio_SourceErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.analyzer.AnalyzeAudio(context.Background(), "int-1", models.SourceUpload, func(ctx context.Context) (*audio.Clip, error) {
		return nil, audio.ErrTooLarge
	})
	if !errors.Is(err, audio.ErrTooLarge) || !IsInputError(err) {
		t.Errorf("expected input error ErrTooLarge, got %v", err)
	}
	if got := testutil.ToFloat64(f.metrics.InputsRejected.WithLabelValues("size")); got != 1 {
		t.Errorf("expected rejected input counted, got %v", got)
	}

	deviceErr := errors.New("no input device")
	_, err = f.analyzer.AnalyzeAudio(context.Background(), "int-1", models.SourceRecord, func(ctx context.Context) (*audio.Clip, error) {
		return nil, deviceErr
	})
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageCapture {
		t.Errorf("expected capture StageError, got %v", err)
	}
	if f.stt.calls != 0 {
		t.Error("expected no transcription without a clip")
	}
}

func TestAnalyzeText(t *testing.T) {
	f := newFixture(t)
	f.analyzer.models.Transcriber = nil
	f.sentiment.result = models.Sentiment{Label: models.SentimentNegative, Score: 0.8}

	res, err := f.analyzer.AnalyzeText(context.Background(), "int-9", "Do you have a better deal?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Intent != models.IntentAskForOffers {
		t.Errorf("expected Ask for Offers, got %s", res.Intent)
	}
	if res.Response.NextQuestion != "What would you like us to improve?" {
		t.Errorf("expected negative reply, got %+v", res.Response)
	}
	if res.Source != models.SourceText {
		t.Errorf("expected text source, got %s", res.Source)
	}
	if len(f.publisher.transcripts) != 0 {
		t.Errorf("expected no transcript event for a text run, got %+v", f.publisher.transcripts)
	}
	if len(f.publisher.analyses) != 1 || f.publisher.analyses[0].Transcript != "Do you have a better deal?" {
		t.Errorf("expected one analysis event, got %+v", f.publisher.analyses)
	}
}

func TestAnalyzeText_Empty(t *testing.T) {
	f := newFixture(t)

	for _, text := range []string{"", "  \t\n"} {
		if _, err := f.analyzer.AnalyzeText(context.Background(), "", text); !errors.Is(err, ErrEmptyText) {
			t.Errorf("AnalyzeText(%q): expected ErrEmptyText, got %v", text, err)
		}
	}
	if f.sentiment.calls != 0 {
		t.Error("expected no collaborator calls")
	}
}

func TestAnalyzer_PublishFailureDoesNotFailRun(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("kafka down")

	if _, err := f.analyzer.AnalyzeText(context.Background(), "int-1", "How much is it?"); err != nil {
		t.Fatalf("expected run to succeed despite publish error, got %v", err)
	}
}

func TestAnalyzer_OneRunAtATime(t *testing.T) {
	f := newFixture(t)
	f.stt.text = "hello"
	f.stt.block = make(chan struct{})
	src, _ := clipSource(t)

	done := make(chan error, 1)
	go func() {
		_, err := f.analyzer.AnalyzeAudio(context.Background(), "int-1", models.SourceRecord, src)
		done <- err
	}()

	// Wait until the first run holds the slot.
	deadline := time.Now().Add(2 * time.Second)
	for len(f.analyzer.sem) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := f.analyzer.AnalyzeText(ctx, "int-2", "buy"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected second run to wait and time out, got %v", err)
	}

	close(f.stt.block)
	if err := <-done; err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	if _, err := f.analyzer.AnalyzeText(context.Background(), "int-2", "buy"); err != nil {
		t.Errorf("expected slot free after first run, got %v", err)
	}
}
