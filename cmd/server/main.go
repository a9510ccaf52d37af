package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/advayc/visits/internal/config"
	"github.com/advayc/visits/internal/metrics"
	"github.com/advayc/visits/internal/store"
	"github.com/advayc/visits/internal/visits"
)

// Path the Supabase CLI serves the function under; kept so existing
// clients can point at this server unchanged.
const functionPath = "/functions/v1/update-leaderboard-visits"

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

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           requestLogger(newHandler(cfg, inc, metrics.New())),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("visit counter server listening on :%s (backend=%s)", cfg.Port, cfg.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
	log.Println("bye")
}

// newHandler wires the visit endpoint and the auxiliary routes. The visit
// endpoint sets its own CORS headers; rs/cors only covers /healthz and
// /metrics.
func newHandler(cfg *config.Config, inc visits.Incrementer, rec *metrics.Recorder) http.Handler {
	endpoint := visits.New(inc, visits.WithObserver(rec))

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	aux := http.NewServeMux()
	aux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	aux.Handle("/metrics", rec.Handler())

	mux := http.NewServeMux()
	mux.Handle("/", endpoint)
	mux.Handle(functionPath, endpoint)
	mux.Handle("/healthz", c.Handler(aux))
	mux.Handle("/metrics", c.Handler(aux))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Cache-Control", "no-store")
		mux.ServeHTTP(w, r)
	})
}

// requestLogger logs minimal info about each request and tags it with an id.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		lrw := &loggingResponseWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(lrw, r)
		log.Printf("%s %s %d %s id=%s", r.Method, r.URL.Path, lrw.status, time.Since(start), id)
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	status int
}

func (l *loggingResponseWriter) WriteHeader(code int) {
	l.status = code
	l.ResponseWriter.WriteHeader(code)
}
