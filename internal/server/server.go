// Package server exposes the configuration documents over HTTP.
//
//	GET  /api/config/{resource}   stored list
//	POST /api/config/{resource}   replace the list, respond with the stored list
//	PUT  /api/config/{resource}   same as POST
//
// resource is one of settings, presets, statuses.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/snowoball/statusrota/internal/configapi"
	"github.com/snowoball/statusrota/internal/store"
)

// MaxBodyBytes bounds a replace request body.
const MaxBodyBytes = 1 << 20

// Handler serves the configuration API for one store.
type Handler struct {
	store  store.Store
	logger *slog.Logger
	locks  map[configapi.Resource]*sync.Mutex
	mux    *http.ServeMux
}

// NewHandler builds the API routes over st.
func NewHandler(st store.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		store:  st,
		logger: logger,
		locks:  make(map[configapi.Resource]*sync.Mutex, len(configapi.Resources)),
		mux:    http.NewServeMux(),
	}
	for _, r := range configapi.Resources {
		h.locks[r] = &sync.Mutex{}
	}

	h.mux.HandleFunc("GET /api/config/{resource}", h.handleGet)
	h.mux.HandleFunc("POST /api/config/{resource}", h.handleReplace)
	h.mux.HandleFunc("PUT /api/config/{resource}", h.handleReplace)
	h.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok\n")
	})
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	h.mux.ServeHTTP(rec, r)
	h.logger.Info("http_request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

func (h *Handler) resource(w http.ResponseWriter, r *http.Request) (configapi.Resource, bool) {
	resource, err := configapi.ParseResource(r.PathValue("resource"))
	if err != nil {
		http.Error(w, "Unknown configuration type", http.StatusBadRequest)
		return "", false
	}
	return resource, true
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	resource, ok := h.resource(w, r)
	if !ok {
		return
	}
	body, err := h.store.Read(r.Context(), resource)
	if err != nil {
		h.logger.Error("config_read_failed", "resource", string(resource), "error", err)
		http.Error(w, "Failed to read configuration", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) handleReplace(w http.ResponseWriter, r *http.Request) {
	resource, ok := h.resource(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	canonical, err := configapi.Canonicalize(resource, body)
	if err != nil {
		http.Error(w, "Invalid JSON structure", http.StatusBadRequest)
		return
	}

	stored, err := h.replace(r.Context(), resource, canonical)
	if err != nil {
		h.logger.Error("config_write_failed", "resource", string(resource), "error", err)
		http.Error(w, "Failed to write configuration", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// replace writes and reads back under the resource lock so the echo is the
// state this request produced.
func (h *Handler) replace(ctx context.Context, resource configapi.Resource, body []byte) ([]byte, error) {
	mu := h.locks[resource]
	mu.Lock()
	defer mu.Unlock()

	if err := h.store.Write(ctx, resource, body); err != nil {
		return nil, err
	}
	stored, err := h.store.Read(ctx, resource)
	if err != nil {
		return nil, fmt.Errorf("reading back %s: %w", resource, err)
	}
	return stored, nil
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Serve runs an HTTP server for h on addr until ctx is done, then shuts it
// down gracefully.
func Serve(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("config_server_listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("config server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down config server: %w", err)
		}
		return nil
	}
}
