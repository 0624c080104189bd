// Analysis Viewer - live display of published transcript and analysis events.
// Consumes from Kafka topics and pushes events to the browser over WebSocket.
package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"io/fs"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"speech-analyzer-service/internal/observability/logging"
	"speech-analyzer-service/internal/viewer"
)

//go:embed static/*
var staticFiles embed.FS

func main() {
	port := flag.String("port", "8081", "HTTP server port")
	brokers := flag.String("brokers", "localhost:9092", "Kafka brokers (comma-separated)")
	topicTranscript := flag.String("topic-transcript", "interaction.transcript.final", "Transcript topic")
	topicAnalysis := flag.String("topic-analysis", "interaction.analysis.completed", "Analysis topic")
	lookback := flag.Duration("lookback", time.Hour, "Replay events published within this window")
	logFormat := flag.String("log-format", "console", "Log format (json, console)")
	flag.Parse()

	logCfg := logging.DefaultConfig()
	logCfg.Format = *logFormat
	logging.Init(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := viewer.NewHub()
	go hub.Run()
	defer hub.Stop()

	brokerList := strings.Split(*brokers, ",")
	for _, topic := range []string{*topicTranscript, *topicAnalysis} {
		reader := viewer.NewReader(ctx, brokerList, topic, *lookback)
		defer reader.Close()
		go viewer.Consume(ctx, hub, reader, topic, time.Second)
	}

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load static files")
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/ws", hub)
	r.Handle("/*", http.FileServer(http.FS(staticFS)))

	srv := &http.Server{Addr: ":" + *port, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().
		Str("url", "http://localhost:"+*port).
		Strs("brokers", brokerList).
		Str("topicTranscript", *topicTranscript).
		Str("topicAnalysis", *topicAnalysis).
		Msg("Analysis viewer starting")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server error")
	}
}
