// Package google provides a Google Cloud Speech-to-Text adapter.
package google

import (
	"context"
	"fmt"
	"os"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
)

// Config holds recognition settings.
type Config struct {
	LanguageCode string
	// SampleRateHz of 0 lets the service read the rate from the WAV header.
	SampleRateHz      int32
	AudioEncoding     string
	EnablePunctuation bool
}

// DefaultConfig returns the recognition settings used for recorded clips.
func DefaultConfig() Config {
	return Config{
		LanguageCode:      "en-US",
		SampleRateHz:      0,
		AudioEncoding:     "LINEAR16",
		EnablePunctuation: true,
	}
}

// Adapter implements stt.Transcriber using Google Cloud Speech-to-Text.
type Adapter struct {
	client *speech.Client
	cfg    Config
}

// New creates a new Google STT adapter.
// Requires GOOGLE_APPLICATION_CREDENTIALS environment variable to be set.
func New(ctx context.Context, cfg Config) (*Adapter, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Adapter{client: c, cfg: cfg}, nil
}

// Name returns the provider identifier.
func (a *Adapter) Name() string {
	return "google"
}

// Transcribe runs a synchronous recognition over the whole clip and joins
// the top alternative of every result.
func (a *Adapter) Transcribe(ctx context.Context, path, languageCode string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read clip: %w", err)
	}

	resp, err := a.client.Recognize(ctx, buildRequest(a.cfg, languageCode, data))
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		if t := strings.TrimSpace(r.Alternatives[0].Transcript); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " "), nil
}

// Close releases the underlying client.
func (a *Adapter) Close() error {
	return a.client.Close()
}

// buildRequest prefers the configured language code; a bare hint like "en"
// is used only when none is configured.
func buildRequest(cfg Config, languageCode string, audio []byte) *speechpb.RecognizeRequest {
	lang := cfg.LanguageCode
	if lang == "" {
		lang = languageCode
	}
	return &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   parseAudioEncoding(cfg.AudioEncoding),
			SampleRateHertz:            cfg.SampleRateHz,
			LanguageCode:               lang,
			EnableAutomaticPunctuation: cfg.EnablePunctuation,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	}
}

func parseAudioEncoding(s string) speechpb.RecognitionConfig_AudioEncoding {
	switch s {
	case "LINEAR16":
		return speechpb.RecognitionConfig_LINEAR16
	case "MULAW":
		return speechpb.RecognitionConfig_MULAW
	case "FLAC":
		return speechpb.RecognitionConfig_FLAC
	case "AMR":
		return speechpb.RecognitionConfig_AMR
	case "AMR_WB":
		return speechpb.RecognitionConfig_AMR_WB
	case "OGG_OPUS":
		return speechpb.RecognitionConfig_OGG_OPUS
	case "SPEEX_WITH_HEADER_BYTE":
		return speechpb.RecognitionConfig_SPEEX_WITH_HEADER_BYTE
	case "MP3":
		return speechpb.RecognitionConfig_MP3
	case "WEBM_OPUS":
		return speechpb.RecognitionConfig_WEBM_OPUS
	default:
		return speechpb.RecognitionConfig_LINEAR16
	}
}
