// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Configuration is the full service configuration.
type Configuration struct {
	Service       ServiceConfig
	STT           STTConfig
	Sentiment     ModelConfig
	NER           ModelConfig
	HuggingFace   HuggingFaceConfig
	OpenAI        OpenAIConfig
	AssemblyAI    AssemblyAIConfig
	Audio         AudioConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// ServiceConfig holds listener and identity settings.
type ServiceConfig struct {
	Principal       string
	HTTPPort        string
	GRPCPort        string
	MetricsAddr     string
	ShutdownTimeout time.Duration
}

// STTConfig selects and tunes the transcription collaborator.
type STTConfig struct {
	Provider           string // mock, google, openai, assemblyai
	LanguageCode       string
	Model              string
	GoogleLanguageCode string
}

// ModelConfig selects a text model collaborator.
type ModelConfig struct {
	Provider string // mock, huggingface
	Model    string
}

// HuggingFaceConfig configures the hosted inference client.
type HuggingFaceConfig struct {
	APIToken      string
	BaseURL       string
	Timeout       time.Duration
	Warmup        bool
	WarmupMaxWait time.Duration
}

// OpenAIConfig configures the Whisper transcription client.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
}

// AssemblyAIConfig configures the AssemblyAI transcription client.
type AssemblyAIConfig struct {
	APIKey string
}

// AudioConfig bounds recording and uploads.
type AudioConfig struct {
	RecordEnabled  bool
	SampleRateHz   int
	DefaultSeconds int
	MinSeconds     int
	MaxSeconds     int
	MaxUploadBytes int64
	TempDir        string
}

// KafkaConfig configures event publishing.
type KafkaConfig struct {
	Enabled         bool
	Brokers         []string
	TopicTranscript string
	TopicAnalysis   string
	Principal       string
}

// ObservabilityConfig configures logging.
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment, after loading a .env file
// if one exists. Unparseable values fall back to their defaults.
func Load() *Configuration {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("Loaded environment from .env")
	}

	principal := envOrDefault("SERVICE_PRINCIPAL", "svc-speech-analyzer")

	return &Configuration{
		Service: ServiceConfig{
			Principal:       principal,
			HTTPPort:        envOrDefault("HTTP_PORT", "8080"),
			GRPCPort:        envOrDefault("GRPC_PORT", "50051"),
			MetricsAddr:     envOrDefault("METRICS_ADDR", ":9090"),
			ShutdownTimeout: envOrDefaultDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		STT: STTConfig{
			Provider:           envOrDefault("STT_PROVIDER", "mock"),
			LanguageCode:       envOrDefault("STT_LANGUAGE_CODE", "en"),
			Model:              envOrDefault("STT_MODEL", "whisper-1"),
			GoogleLanguageCode: envOrDefault("GOOGLE_LANGUAGE_CODE", "en-US"),
		},
		Sentiment: ModelConfig{
			Provider: envOrDefault("SENTIMENT_PROVIDER", "mock"),
			Model:    envOrDefault("SENTIMENT_MODEL", "distilbert/distilbert-base-uncased-finetuned-sst-2-english"),
		},
		NER: ModelConfig{
			Provider: envOrDefault("NER_PROVIDER", "mock"),
			Model:    envOrDefault("NER_MODEL", "dslim/bert-base-NER"),
		},
		HuggingFace: HuggingFaceConfig{
			APIToken:      os.Getenv("HF_API_TOKEN"),
			BaseURL:       envOrDefault("HF_BASE_URL", "https://router.huggingface.co/hf-inference/models"),
			Timeout:       envOrDefaultDuration("HF_TIMEOUT", 30*time.Second),
			Warmup:        envOrDefaultBool("HF_WARMUP", true),
			WarmupMaxWait: envOrDefaultDuration("HF_WARMUP_MAX_WAIT", 2*time.Minute),
		},
		OpenAI: OpenAIConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
		},
		AssemblyAI: AssemblyAIConfig{
			APIKey: os.Getenv("ASSEMBLYAI_API_KEY"),
		},
		Audio: AudioConfig{
			RecordEnabled:  envOrDefaultBool("RECORD_ENABLED", true),
			SampleRateHz:   envOrDefaultInt("RECORD_SAMPLE_RATE_HZ", 44100),
			DefaultSeconds: envOrDefaultInt("RECORD_DEFAULT_SECONDS", 5),
			MinSeconds:     envOrDefaultInt("RECORD_MIN_SECONDS", 2),
			MaxSeconds:     envOrDefaultInt("RECORD_MAX_SECONDS", 20),
			MaxUploadBytes: envOrDefaultInt64("UPLOAD_MAX_BYTES", 25*1024*1024),
			TempDir:        envOrDefault("AUDIO_TEMP_DIR", os.TempDir()),
		},
		Kafka: KafkaConfig{
			Enabled:         envOrDefaultBool("KAFKA_ENABLED", false),
			Brokers:         envOrDefaultList("KAFKA_BROKERS", nil),
			TopicTranscript: envOrDefault("KAFKA_TOPIC_TRANSCRIPT", "interaction.transcript.final"),
			TopicAnalysis:   envOrDefault("KAFKA_TOPIC_ANALYSIS", "interaction.analysis.completed"),
			Principal:       envOrDefault("KAFKA_PRINCIPAL", principal),
		},
		Observability: ObservabilityConfig{
			LogLevel:  envOrDefault("LOG_LEVEL", "info"),
			LogFormat: envOrDefault("LOG_FORMAT", "json"),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// envOrDefaultList splits a comma-separated value, dropping empty entries.
func envOrDefaultList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
