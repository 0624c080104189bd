package main

import (
	"context"
	"flag"
	"log"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	grpcapi "speech-analyzer-service/internal/api/grpc"
)

func main() {
	serverAddr := flag.String("server", "localhost:50051", "gRPC server address")
	flag.Parse()

	conn, err := grpc.NewClient(*serverAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer conn.Close()

	log.Println("Connected to server")

	client := grpcapi.NewClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rules, err := client.ListIntents(ctx)
	if err != nil {
		log.Fatalf("failed to list intents: %v", err)
	}
	for _, r := range rules.Rules {
		log.Printf("rule %d: %s %v", r.Order, r.Intent, r.Keywords)
	}

	texts := []string{
		"I'm interested in buying the new phone for my daughter",
		"How much does the premium plan cost?",
		"My charger is not working and I want to file a complaint",
		"Can you compare the camera specs of these two phones?",
		"Do you have any discounts this weekend?",
		"Hello there",
	}

	for i, text := range texts {
		resp, err := client.AnalyzeText(ctx, &grpcapi.AnalyzeTextRequest{
			InteractionID: "int-123",
			Text:          text,
		})
		if err != nil {
			log.Fatalf("text %d failed: %v", i, err)
		}
		log.Printf("%s: intent=%s sentiment=%s(%.2f) entities=%d",
			resp.RunID, resp.Intent, resp.Sentiment.Label, resp.Sentiment.Score, len(resp.Entities))
	}
}
