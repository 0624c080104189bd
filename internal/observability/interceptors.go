package observability

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"speech-analyzer-service/internal/observability/metrics"
)

// RequestIDKey is the metadata key carrying a caller-supplied request id.
const RequestIDKey = "x-request-id"

// requestID returns the caller's request id, or a fresh one.
func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(RequestIDKey); len(ids) > 0 && ids[0] != "" {
			return ids[0]
		}
	}
	return uuid.NewString()
}

// UnaryServerInterceptor returns a gRPC unary interceptor for metrics and
// logging. A nil m records to the default metrics.
func UnaryServerInterceptor(m *metrics.Metrics) grpc.UnaryServerInterceptor {
	if m == nil {
		m = metrics.DefaultMetrics
	}
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		start := time.Now()
		reqID := requestID(ctx)
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDKey, reqID))

		resp, err := handler(ctx, req)

		duration := time.Since(start)
		st, _ := status.FromError(err)
		m.RecordGRPCRequest(info.FullMethod, st.Code().String(), duration.Seconds())

		event := log.Info()
		if err != nil {
			event = log.Warn().Str("error", st.Message())
		}
		event.
			Str("method", info.FullMethod).
			Str("code", st.Code().String()).
			Str("requestId", reqID).
			Dur("duration", duration).
			Msg("gRPC unary call")

		return resp, err
	}
}
