// Package api serves collections, reviews, stats and study sessions as JSON
// over HTTP.
package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/abhisek/recall/internal/stats"
	"github.com/abhisek/recall/internal/store"
)

// Options configures a Server.
type Options struct {
	Collections   store.CollectionRepo
	Items         store.ItemRepo
	Events        store.EventRepo
	Stats         *stats.Service
	DefaultTarget int
	Seed          uint64
	Clock         func() time.Time
	Logger        *log.Logger
}

// Server holds the API's dependencies and live study sessions.
type Server struct {
	collections   store.CollectionRepo
	items         store.ItemRepo
	events        store.EventRepo
	stats         *stats.Service
	defaultTarget int
	seed          uint64
	clock         func() time.Time
	logger        *log.Logger

	sessions *registry
}

// New creates a Server.
func New(opts Options) *Server {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		collections:   opts.Collections,
		items:         opts.Items,
		events:        opts.Events,
		stats:         opts.Stats,
		defaultTarget: opts.DefaultTarget,
		seed:          opts.Seed,
		clock:         clock,
		logger:        logger,
		sessions:      newRegistry(),
	}
}

// Router returns the HTTP handler with every route registered.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	api := r.PathPrefix("/api").Subrouter()

	// Collection routes
	api.HandleFunc("/collections", s.handleListCollections).Methods("GET")
	api.HandleFunc("/collections", s.handleCreateCollection).Methods("POST")
	api.HandleFunc("/collections/{id}/items", s.handleListItems).Methods("GET")
	api.HandleFunc("/collections/{id}/items", s.handleCreateItem).Methods("POST")
	api.HandleFunc("/collections/{id}/stats", s.handleCollectionStats).Methods("GET")

	// Item routes
	api.HandleFunc("/items/{id}/review", s.handleReview).Methods("POST")
	api.HandleFunc("/items/{id}/stats", s.handleItemStats).Methods("GET")

	// Session routes
	api.HandleFunc("/collections/{id}/sessions", s.handleStartSession).Methods("POST")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}/answer", s.handleAnswer).Methods("POST")
	api.HandleFunc("/sessions/{id}", s.handleEndSession).Methods("DELETE")

	return r
}

// ListenAndServe serves the API on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("listening on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.finishAll(shutdownCtx)
		return srv.Shutdown(shutdownCtx)
	}
}
