package main

import (
	"log"
	"net/http"
	"os"

	"github.com/advayc/visits/api"
)

// Dev server to exercise the serverless handler locally.
// Usage:
//
//	set -a; source .env; set +a
//	go run ./dev
//
// Then in another terminal:
//
//	curl -i -X POST "http://localhost:${PORT:-8080}/" \
//	  -H "Authorization: Bearer $SUPABASE_ANON_KEY" \
//	  -H "Content-Type: application/json" \
//	  -d '{"company_name":"Acme"}'
func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/", api.Handler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("dev visit counter listening on :%s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
