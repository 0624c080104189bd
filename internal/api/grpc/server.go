package grpcapi

import (
	"bytes"
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"speech-analyzer-service/internal/api/view"
	"speech-analyzer-service/internal/app"
	"speech-analyzer-service/internal/models"
	"speech-analyzer-service/internal/schema"
	"speech-analyzer-service/internal/service/analysis"
	"speech-analyzer-service/internal/service/audio"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "speech.analyzer.v1.AnalyzerService"

// AnalyzeAudioRequest carries an uploaded clip.
type AnalyzeAudioRequest struct {
	InteractionID string `json:"interactionId" validate:"omitempty,max=128"`
	Filename      string `json:"filename" validate:"required,max=255"`
	Audio         []byte `json:"audio"`
}

// AnalyzeRecordingRequest asks the server to record from its microphone.
type AnalyzeRecordingRequest struct {
	InteractionID string `json:"interactionId" validate:"omitempty,max=128"`
	Seconds       int    `json:"seconds" validate:"gte=0"`
}

// AnalyzeTextRequest carries text to analyze without transcription.
type AnalyzeTextRequest struct {
	InteractionID string `json:"interactionId" validate:"omitempty,max=128"`
	Text          string `json:"text" validate:"required,max=10000"`
}

// ListIntentsRequest is empty.
type ListIntentsRequest struct{}

// ListIntentsReply lists the classifier rules in order.
type ListIntentsReply struct {
	Rules []view.IntentRuleView `json:"rules"`
}

// AnalyzerServer is the server API for the analyzer service.
type AnalyzerServer interface {
	AnalyzeAudio(context.Context, *AnalyzeAudioRequest) (*view.AnalysisResponse, error)
	AnalyzeRecording(context.Context, *AnalyzeRecordingRequest) (*view.AnalysisResponse, error)
	AnalyzeText(context.Context, *AnalyzeTextRequest) (*view.AnalysisResponse, error)
	ListIntents(context.Context, *ListIntentsRequest) (*ListIntentsReply, error)
}

type Server struct {
	app       *app.Application
	validator *schema.Validator
}

// Register adds the analyzer service to g.
func Register(g *grpc.Server, application *app.Application) {
	g.RegisterService(&serviceDesc, &Server{app: application, validator: schema.New()})
}

func (s *Server) AnalyzeAudio(ctx context.Context, req *AnalyzeAudioRequest) (*view.AnalysisResponse, error) {
	if err := s.checkRequest(req); err != nil {
		return nil, err
	}
	res, err := s.app.Analyzer.AnalyzeAudio(ctx, req.InteractionID, models.SourceUpload,
		func(ctx context.Context) (*audio.Clip, error) {
			return s.app.Uploader.Save(req.Filename, bytes.NewReader(req.Audio))
		})
	return reply(res, err)
}

func (s *Server) AnalyzeRecording(ctx context.Context, req *AnalyzeRecordingRequest) (*view.AnalysisResponse, error) {
	if err := s.checkRequest(req); err != nil {
		return nil, err
	}
	if s.app.Recorder == nil {
		return nil, status.Error(codes.FailedPrecondition, "recording is not available on this host")
	}
	res, err := s.app.Analyzer.AnalyzeAudio(ctx, req.InteractionID, models.SourceRecord,
		func(ctx context.Context) (*audio.Clip, error) {
			return s.app.Recorder.Record(ctx, req.Seconds)
		})
	return reply(res, err)
}

func (s *Server) AnalyzeText(ctx context.Context, req *AnalyzeTextRequest) (*view.AnalysisResponse, error) {
	if err := s.checkRequest(req); err != nil {
		return nil, err
	}
	res, err := s.app.Analyzer.AnalyzeText(ctx, req.InteractionID, req.Text)
	return reply(res, err)
}

func (s *Server) ListIntents(ctx context.Context, _ *ListIntentsRequest) (*ListIntentsReply, error) {
	return &ListIntentsReply{Rules: view.PresentRules()}, nil
}

// checkRequest rejects calls before the models are loaded and requests that
// fail the same field rules as the HTTP API.
func (s *Server) checkRequest(req any) error {
	if !s.app.Ready() {
		return status.Error(codes.Unavailable, "models are loading")
	}
	if err := s.validator.Validate(req); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}

func reply(res *models.AnalysisResult, err error) (*view.AnalysisResponse, error) {
	if err != nil {
		return nil, StatusError(err)
	}
	out := view.Present(res)
	return &out, nil
}

// StatusError maps a run error to a gRPC status.
func StatusError(err error) error {
	var stageErr *analysis.StageError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case analysis.IsInputError(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.As(err, &stageErr):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func unaryHandler[Req any, Resp any](method string, call func(AnalyzerServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AnalyzerServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + method,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(AnalyzerServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AnalyzerServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("AnalyzeAudio", AnalyzerServer.AnalyzeAudio),
		unaryHandler("AnalyzeRecording", AnalyzerServer.AnalyzeRecording),
		unaryHandler("AnalyzeText", AnalyzerServer.AnalyzeText),
		unaryHandler("ListIntents", AnalyzerServer.ListIntents),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "",
}
