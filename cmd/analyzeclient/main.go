package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	grpcapi "speech-analyzer-service/internal/api/grpc"
	"speech-analyzer-service/internal/api/view"
)

func main() {
	audioFile := flag.String("audio", "", "Path to a WAV, MP3 or M4A clip to upload")
	record := flag.Int("record", -1, "Record this many seconds on the server instead of uploading (0 = server default)")
	serverAddr := flag.String("server", "localhost:50051", "gRPC server address")
	interactionId := flag.String("interaction", "test-audio-"+time.Now().Format("150405"), "Interaction ID")
	timeout := flag.Duration("timeout", 2*time.Minute, "Request timeout")
	flag.Parse()

	if *audioFile == "" && *record < 0 {
		log.Fatal("one of -audio or -record is required")
	}

	conn, err := grpc.NewClient(*serverAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	log.Printf("Connected to %s", *serverAddr)

	client := grpcapi.NewClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var resp *view.AnalysisResponse
	if *record >= 0 {
		log.Printf("Recording on server: interactionId=%s seconds=%d", *interactionId, *record)
		resp, err = client.AnalyzeRecording(ctx, &grpcapi.AnalyzeRecordingRequest{
			InteractionID: *interactionId,
			Seconds:       *record,
		})
	} else {
		data, readErr := os.ReadFile(*audioFile)
		if readErr != nil {
			log.Fatalf("Failed to read audio file: %v", readErr)
		}
		describeWAV(*audioFile)

		log.Printf("Uploading %s (%d bytes): interactionId=%s", filepath.Base(*audioFile), len(data), *interactionId)
		resp, err = client.AnalyzeAudio(ctx, &grpcapi.AnalyzeAudioRequest{
			InteractionID: *interactionId,
			Filename:      filepath.Base(*audioFile),
			Audio:         data,
		}, grpc.MaxCallSendMsgSize(len(data)+1<<20))
	}
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	printResult(resp)
}

// describeWAV logs the header of WAV clips before upload.
func describeWAV(path string) {
	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		log.Printf("Warning: %s is not a valid PCM WAV file", path)
		return
	}
	d, _ := dec.Duration()
	log.Printf("WAV file: channels=%d sampleRate=%d bitsPerSample=%d duration=%v",
		dec.NumChans, dec.SampleRate, dec.BitDepth, d)
}

func printResult(r *view.AnalysisResponse) {
	log.Printf("Run %s completed in %dms (source=%s)", r.RunID, r.DurationMs, r.Source)
	log.Printf("Transcript: %q", r.Transcript)
	log.Printf("Sentiment:  %s (%.2f)", r.Sentiment.Label, r.Sentiment.Score)
	log.Printf("Intent:     %s", r.Intent)
	for _, e := range r.Entities {
		log.Printf("Entity:     %s [%s]", e.Text, e.Label)
	}
	log.Printf("Next question:  %s", r.Response.NextQuestion)
	log.Printf("Soft handling:  %s", r.Response.SoftHandling)
	log.Printf("Recommendation: %s", r.Response.Recommendation)
}
