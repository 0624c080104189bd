package grpcapi

import (
	"context"

	"google.golang.org/grpc"

	"speech-analyzer-service/internal/api/view"
)

// Client calls the analyzer service with the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) AnalyzeAudio(ctx context.Context, req *AnalyzeAudioRequest, opts ...grpc.CallOption) (*view.AnalysisResponse, error) {
	out := new(view.AnalysisResponse)
	if err := c.invoke(ctx, "AnalyzeAudio", req, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AnalyzeRecording(ctx context.Context, req *AnalyzeRecordingRequest, opts ...grpc.CallOption) (*view.AnalysisResponse, error) {
	out := new(view.AnalysisResponse)
	if err := c.invoke(ctx, "AnalyzeRecording", req, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AnalyzeText(ctx context.Context, req *AnalyzeTextRequest, opts ...grpc.CallOption) (*view.AnalysisResponse, error) {
	out := new(view.AnalysisResponse)
	if err := c.invoke(ctx, "AnalyzeText", req, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListIntents(ctx context.Context, opts ...grpc.CallOption) (*ListIntentsReply, error) {
	out := new(ListIntentsReply)
	if err := c.invoke(ctx, "ListIntents", &ListIntentsRequest{}, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...)
}
