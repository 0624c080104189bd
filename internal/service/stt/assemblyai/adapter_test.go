package assemblyai

import (
	"errors"
	"testing"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
)

func TestNew_MissingAPIKey(t *testing.T) {
	if _, err := New(""); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}

	a, err := New("key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Name() != "assemblyai" {
		t.Errorf("expected name 'assemblyai', got %s", a.Name())
	}
}

func TestRequestParams(t *testing.T) {
	p := requestParams("en")
	if p.LanguageCode != aai.TranscriptLanguageCode("en") {
		t.Errorf("expected language code 'en', got %s", p.LanguageCode)
	}
	if p.Punctuate == nil || !*p.Punctuate {
		t.Error("expected punctuation enabled")
	}

	if p := requestParams(""); p.LanguageCode != "" {
		t.Errorf("expected no language code, got %s", p.LanguageCode)
	}
}

func TestTranscriptText(t *testing.T) {
	text := "  I want a discount  "
	msg := "audio too short"

	tests := []struct {
		name       string
		transcript aai.Transcript
		want       string
		wantErr    bool
	}{
		{"completed", aai.Transcript{Status: aai.TranscriptStatusCompleted, Text: &text}, "I want a discount", false},
		{"no text", aai.Transcript{Status: aai.TranscriptStatusCompleted}, "", false},
		{"error", aai.Transcript{Status: aai.TranscriptStatusError, Error: &msg}, "", true},
		{"error without message", aai.Transcript{Status: aai.TranscriptStatusError}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := transcriptText(tt.transcript)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
