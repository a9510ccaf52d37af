package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/advayc/visits/internal/config"
	"github.com/advayc/visits/internal/store"
	"github.com/advayc/visits/internal/visits"
)

// Endpoint is built on first use and shared by every invocation of a warm
// instance. Only a successful build is kept; a failed one is retried on the
// next request.
var (
	endpointMu sync.Mutex
	endpoint   http.Handler
	openStore  = store.Open
)

func getEndpoint() (http.Handler, error) {
	endpointMu.Lock()
	defer endpointMu.Unlock()
	if endpoint != nil {
		return endpoint, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	inc, _, err := openStore(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	endpoint = visits.New(inc)
	log.Printf(`Function "update-leaderboard-visits" up and running! (backend=%s)`, cfg.Backend)
	return endpoint, nil
}

// Handler is the Vercel entrypoint for the visit endpoint.
func Handler(w http.ResponseWriter, r *http.Request) {
	h, err := getEndpoint()
	if err != nil {
		log.Printf("(warn) visit endpoint unavailable: %v", err)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	h.ServeHTTP(w, r)
}
