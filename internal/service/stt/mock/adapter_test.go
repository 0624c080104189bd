package mock

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"speech-analyzer-service/internal/service/stt"
)

func writeClip(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o600); err != nil {
		t.Fatalf("write clip: %v", err)
	}
	return path
}

func TestAdapter_CyclesUtterances(t *testing.T) {
	a := NewWithUtterances([]string{"one", "two"}, 0)
	path := writeClip(t)

	want := []string{"one", "two", "one"}
	for i, w := range want {
		got, err := a.Transcribe(context.Background(), path, "en")
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if got != w {
			t.Errorf("call %d: expected %q, got %q", i, w, got)
		}
	}
}

func TestAdapter_EmptyUtterances(t *testing.T) {
	a := NewWithUtterances(nil, 0)

	got, err := a.Transcribe(context.Background(), writeClip(t), "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty transcript, got %q", got)
	}
}

func TestAdapter_MissingClip(t *testing.T) {
	a := New()

	if _, err := a.Transcribe(context.Background(), "", "en"); !errors.Is(err, stt.ErrNoAudio) {
		t.Errorf("expected ErrNoAudio, got %v", err)
	}
	if _, err := a.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.wav"), "en"); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestAdapter_DelayRespectsContext(t *testing.T) {
	a := NewWithUtterances([]string{"slow"}, time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := a.Transcribe(ctx, writeClip(t), "en")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestAdapter_Name(t *testing.T) {
	var tr stt.Transcriber = New()
	if tr.Name() != "mock" {
		t.Errorf("expected name 'mock', got %s", tr.Name())
	}
}
