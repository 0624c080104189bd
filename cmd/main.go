package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	grpcapi "speech-analyzer-service/internal/api/grpc"
	"speech-analyzer-service/internal/app"
	"speech-analyzer-service/internal/config"
	httpapi "speech-analyzer-service/internal/http"
	"speech-analyzer-service/internal/observability"
	"speech-analyzer-service/internal/service/audio"
	"speech-analyzer-service/internal/service/audio/portaudio"
)

func main() {
	cfg := config.Load()
	application := app.New(cfg)

	obs := observability.NewServer(cfg.Service.MetricsAddr)
	obs.Start()

	var capture audio.Capture
	if cfg.Audio.RecordEnabled {
		pa, err := portaudio.New()
		if err != nil {
			log.Warn().Err(err).Msg("PortAudio unavailable, recording disabled")
		} else {
			defer pa.Close()
			capture = pa
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lis, err := net.Listen("tcp", ":"+cfg.Service.GRPCPort)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to listen")
	}

	server := grpc.NewServer(
		grpc.UnaryInterceptor(observability.UnaryServerInterceptor(nil)),
		grpc.MaxRecvMsgSize(int(cfg.Audio.MaxUploadBytes)+1<<20),
	)

	// Register gRPC health check service
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(grpcapi.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	// Register application services
	grpcapi.Register(server, application)

	// Enable gRPC reflection for debugging tools like grpcurl
	grpcapi.RegisterReflection(server)

	go func() {
		log.Info().Str("port", cfg.Service.GRPCPort).Msg("gRPC server started")
		if err := server.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("grpc serve failed")
		}
	}()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Service.HTTPPort,
		Handler:           httpapi.NewRouter(application),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.Service.HTTPPort).Msg("HTTP server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http serve failed")
		}
	}()

	// Listeners report not-ready until hosted models have warmed up.
	if err := application.Start(ctx, capture); err != nil {
		log.Fatal().Err(err).Msg("failed to start application")
	}
	defer application.Shutdown()
	obs.SetReady(true)

	<-ctx.Done()

	log.Info().Msg("shutting down")
	obs.SetReady(false)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Service.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("HTTP shutdown incomplete")
	}
	server.GracefulStop()
	if err := obs.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("observability shutdown incomplete")
	}
}
