package audio

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// encodeWAV builds an in-memory WAV file through a temp file.
func encodeWAV(t *testing.T, samples []int, rate, bitDepth, channels int) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "src.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	enc := wav.NewEncoder(f, rate, bitDepth, channels, 1)
	if err := enc.Write(&goaudio.IntBuffer{
		Data:           samples,
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: rate},
		SourceBitDepth: bitDepth,
	}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return data
}

func readClip(t *testing.T, path string) (*goaudio.IntBuffer, *wav.Decoder) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open clip: %v", err)
	}
	defer f.Close()
	d := wav.NewDecoder(f)
	buf, err := d.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode clip: %v", err)
	}
	return buf, d
}

func TestLimits_RecordDuration(t *testing.T) {
	l := DefaultLimits()

	tests := []struct {
		seconds int
		want    time.Duration
		wantErr bool
	}{
		{0, 5 * time.Second, false},
		{2, 2 * time.Second, false},
		{20, 20 * time.Second, false},
		{1, 0, true},
		{21, 0, true},
		{-3, 0, true},
	}

	for _, tt := range tests {
		got, err := l.RecordDuration(tt.seconds)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidDuration) {
				t.Errorf("RecordDuration(%d): expected ErrInvalidDuration, got %v", tt.seconds, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("RecordDuration(%d) = %v, %v; want %v", tt.seconds, got, err, tt.want)
		}
	}
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"call.wav", FormatWAV, false},
		{"CALL.MP3", FormatMP3, false},
		{"voice memo.m4a", FormatM4A, false},
		{"notes.txt", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		got, err := FormatOf(tt.name)
		if tt.wantErr != (err != nil) {
			t.Errorf("FormatOf(%q) error = %v", tt.name, err)
		}
		if tt.wantErr && !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("FormatOf(%q): expected ErrUnsupportedFormat, got %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("FormatOf(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestUploader_Save_WAV_DownmixesToMono(t *testing.T) {
	// Interleaved stereo frames: (100, 300), (-200, -400), (0, 10)
	src := encodeWAV(t, []int{100, 300, -200, -400, 0, 10}, 8000, 16, 2)

	u := NewUploader(DefaultLimits(), t.TempDir())
	clip, err := u.Save("call.wav", bytes.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer clip.Remove()

	if clip.Format != FormatWAV || clip.SampleRateHz != 8000 {
		t.Errorf("unexpected clip %+v", clip)
	}
	if clip.Bytes <= 0 {
		t.Errorf("expected clip size, got %d", clip.Bytes)
	}

	buf, d := readClip(t, clip.Path)
	if d.NumChans != 1 || d.BitDepth != 16 {
		t.Errorf("expected mono 16-bit, got %d channels %d bits", d.NumChans, d.BitDepth)
	}
	want := []int{200, -300, 5}
	if len(buf.Data) != len(want) {
		t.Fatalf("expected %d samples, got %v", len(want), buf.Data)
	}
	for i := range want {
		if buf.Data[i] != want[i] {
			t.Errorf("sample %d: expected %d, got %d", i, want[i], buf.Data[i])
		}
	}
}

func TestUploader_Save_M4A_StoredVerbatim(t *testing.T) {
	payload := []byte("....ftypM4A ....")
	u := NewUploader(DefaultLimits(), t.TempDir())

	clip, err := u.Save("memo.m4a", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer clip.Remove()

	if clip.Format != FormatM4A || !strings.HasSuffix(clip.Path, ".m4a") {
		t.Errorf("unexpected clip %+v", clip)
	}
	got, _ := os.ReadFile(clip.Path)
	if !bytes.Equal(got, payload) {
		t.Error("expected m4a bytes stored unchanged")
	}
}

func TestUploader_Save_Errors(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxUploadBytes = 16

	tests := []struct {
		name     string
		filename string
		data     []byte
		want     error
	}{
		{"unsupported extension", "notes.txt", []byte("hello"), ErrUnsupportedFormat},
		{"empty", "call.wav", nil, ErrEmptyAudio},
		{"too large", "call.m4a", bytes.Repeat([]byte{1}, 17), ErrTooLarge},
		{"not a wav", "call.wav", []byte("definitely not"), ErrUnsupportedFormat},
		{"not an mp3", "call.mp3", []byte("definitely not"), ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			_, err := NewUploader(limits, dir).Save(tt.filename, bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			entries, _ := os.ReadDir(dir)
			if len(entries) != 0 {
				t.Errorf("expected no files left behind, got %d", len(entries))
			}
		})
	}
}

type fakeCapture struct {
	samples []int16
	err     error
	gotRate int
	gotDur  time.Duration
}

func (f *fakeCapture) Capture(ctx context.Context, sampleRate int, d time.Duration) ([]int16, error) {
	f.gotRate = sampleRate
	f.gotDur = d
	return f.samples, f.err
}

func TestRecorder_Record(t *testing.T) {
	limits := DefaultLimits()
	limits.SampleRateHz = 1000
	capture := &fakeCapture{samples: make([]int16, 2000)}
	capture.samples[0] = 1234

	r := NewRecorder(capture, limits, t.TempDir())
	clip, err := r.Record(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer clip.Remove()

	if capture.gotRate != 1000 || capture.gotDur != 2*time.Second {
		t.Errorf("unexpected capture args rate=%d dur=%v", capture.gotRate, capture.gotDur)
	}
	if clip.Duration != 2*time.Second {
		t.Errorf("expected 2s clip, got %v", clip.Duration)
	}

	buf, d := readClip(t, clip.Path)
	if d.SampleRate != 1000 || d.NumChans != 1 {
		t.Errorf("unexpected wav header rate=%d channels=%d", d.SampleRate, d.NumChans)
	}
	if len(buf.Data) != 2000 || buf.Data[0] != 1234 {
		t.Errorf("unexpected samples len=%d first=%d", len(buf.Data), buf.Data[0])
	}
}

func TestRecorder_Record_Errors(t *testing.T) {
	captureErr := errors.New("no input device")

	tests := []struct {
		name    string
		seconds int
		capture *fakeCapture
		want    error
	}{
		{"too short", 1, &fakeCapture{}, ErrInvalidDuration},
		{"too long", 30, &fakeCapture{}, ErrInvalidDuration},
		{"silent device", 3, &fakeCapture{}, ErrEmptyAudio},
		{"device error", 3, &fakeCapture{err: captureErr}, captureErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecorder(tt.capture, DefaultLimits(), t.TempDir())
			if _, err := r.Record(context.Background(), tt.seconds); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestClip_Remove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.wav")
	os.WriteFile(path, []byte("x"), 0o600)

	c := &Clip{Path: path}
	if err := c.Remove(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected file removed")
	}
	if err := c.Remove(); err != nil {
		t.Errorf("expected second remove to be a no-op, got %v", err)
	}

	var nilClip *Clip
	if err := nilClip.Remove(); err != nil {
		t.Errorf("expected nil clip remove to be a no-op, got %v", err)
	}
}
