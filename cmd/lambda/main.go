package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/advayc/visits/internal/config"
	"github.com/advayc/visits/internal/lambdaproxy"
	"github.com/advayc/visits/internal/store"
	"github.com/advayc/visits/internal/visits"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	inc, closer, err := store.Open(context.Background(), cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closer.Close()

	log.Printf(`Function "update-leaderboard-visits" up and running! (backend=%s)`, cfg.Backend)
	lambda.Start(lambdaproxy.Handler(visits.New(inc)))
}
