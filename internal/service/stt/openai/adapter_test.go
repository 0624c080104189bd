package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestNew_MissingAPIKey(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestNew_DefaultModel(t *testing.T) {
	a, err := New(Config{APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.model != "whisper-1" {
		t.Errorf("expected default model 'whisper-1', got %s", a.model)
	}
	if a.Name() != "openai" {
		t.Errorf("expected name 'openai', got %s", a.Name())
	}
}

func TestAdapter_Transcribe(t *testing.T) {
	var gotPath, gotModel, gotLanguage, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotModel = r.FormValue("model")
		gotLanguage = r.FormValue("language")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "  How much does it cost?  "})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(path, []byte("RIFF0000WAVE"), 0o600); err != nil {
		t.Fatalf("write clip: %v", err)
	}

	a, err := New(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, err := a.Transcribe(context.Background(), path, "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "How much does it cost?" {
		t.Errorf("expected trimmed transcript, got %q", text)
	}
	if gotPath != "/v1/audio/transcriptions" {
		t.Errorf("unexpected request path %s", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if gotModel != "whisper-1" || gotLanguage != "en" {
		t.Errorf("unexpected form values model=%q language=%q", gotModel, gotLanguage)
	}
}

func TestAdapter_Transcribe_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o600); err != nil {
		t.Fatalf("write clip: %v", err)
	}

	a, _ := New(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	if _, err := a.Transcribe(context.Background(), path, "en"); err == nil {
		t.Error("expected error from failing server")
	}
}
