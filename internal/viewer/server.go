// Package viewer serves the lineage graph over HTTP: a JSON API plus a
// minimal HTML page rendering it.
package viewer

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/idlab-discover/AIBOM/internal/graph"
)

//go:embed index.html
var indexPage []byte

// LoadFunc produces the current graph snapshot. Invoked per request, so
// the viewer always reflects the store as of the latest call.
type LoadFunc func(ctx context.Context) (graph.JSONGraph, error)

// Server serves the lineage viewer.
type Server struct {
	addr   string
	load   LoadFunc
	logger *slog.Logger
}

// NewServer creates a viewer server. A nil logger discards output.
func NewServer(addr string, load LoadFunc, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{addr: addr, load: load, logger: logger}
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(indexPage)
	})
	r.Get("/api/graph", s.handleGraph)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	g, err := s.load(r.Context())
	if err != nil {
		s.logger.Error("graph load failed", "error", err)
		http.Error(w, "failed to load graph", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(g); err != nil {
		s.logger.Error("graph encode failed", "error", err)
	}
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting viewer", "addr", s.addr)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Routes(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("viewer server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Debug("shutting down viewer")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
