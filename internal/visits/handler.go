// Package visits implements the leaderboard visit endpoint: validate the
// caller, delegate to the increment procedure, translate the result.
package visits

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
)

const (
	allowHeaders   = "authorization, x-client-info, apikey, content-type"
	successMessage = "Visit incremented successfully"
)

// Incrementer bumps the counter for companyName on behalf of the caller
// identified by token and returns the new count as a raw JSON value.
type Incrementer interface {
	IncrementVisit(ctx context.Context, token, companyName string) (json.RawMessage, error)
}

// Observer is told the outcome of every request. outcome is a Kind string,
// "preflight" or "method_not_allowed".
type Observer interface {
	Observe(outcome string)
}

// Handler serves the visit endpoint. It holds no per-request state.
type Handler struct {
	store    Incrementer
	observer Observer
}

// Option configures a Handler.
type Option func(*Handler)

// WithObserver attaches o to the handler.
func WithObserver(o Observer) Option {
	return func(h *Handler) { h.observer = o }
}

// New returns a Handler that delegates increments to store.
func New(store Incrementer, opts ...Option) *Handler {
	h := &Handler{store: store}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type incrementRequest struct {
	CompanyName string `json:"company_name"`
}

type incrementResponse struct {
	Message string          `json:"message"`
	Visits  json.RawMessage `json:"visits"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCORS(w.Header())

	switch r.Method {
	case http.MethodOptions:
		h.observe("preflight")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
		return
	case http.MethodPost:
	default:
		h.observe("method_not_allowed")
		w.Header().Set("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = io.WriteString(w, "Method not allowed")
		return
	}

	visits, err := h.increment(r)
	if err != nil {
		kind := KindOf(err)
		h.observe(kind.String())
		if kind == RemoteFailure {
			log.Printf("(warn) increment_visit failed: %v", err)
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	h.observe(KindNone.String())
	writeJSON(w, http.StatusOK, incrementResponse{Message: successMessage, Visits: visits})
}

func (h *Handler) increment(r *http.Request) (json.RawMessage, error) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return nil, newError(MissingAuth, "Authorization header missing", nil)
	}
	token := strings.Replace(auth, "Bearer ", "", 1)

	req, err := decodeRequest(r.Body)
	if err != nil {
		return nil, err
	}
	if req.CompanyName == "" {
		return nil, newError(MissingField, "company_name is required", nil)
	}

	visits, err := h.store.IncrementVisit(r.Context(), token, req.CompanyName)
	if err != nil {
		var ve *Error
		if errors.As(err, &ve) {
			return nil, ve
		}
		return nil, newError(RemoteFailure, err.Error(), err)
	}
	if len(visits) == 0 {
		visits = json.RawMessage("null")
	}
	return visits, nil
}

func (h *Handler) observe(outcome string) {
	if h.observer != nil {
		h.observer.Observe(outcome)
	}
}

// decodeRequest parses the whole body as one JSON value; trailing data is
// a parse failure.
func decodeRequest(body io.Reader) (incrementRequest, error) {
	var req incrementRequest
	data, err := io.ReadAll(body)
	if err != nil {
		return req, newError(ParseFailure, err.Error(), err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return req, newError(ParseFailure, "Unexpected end of JSON input", io.EOF)
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, newError(ParseFailure, err.Error(), err)
	}
	return req, nil
}

func setCORS(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Headers", allowHeaders)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
