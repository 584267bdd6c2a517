// Package server exposes the package-metadata services over a JSON HTTP
// API. Handlers translate between URL space and the domain services and
// emit plain data view models only.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/ghostdevv/npm-alt/pkg/changelog"
	"github.com/ghostdevv/npm-alt/pkg/depgraph"
	"github.com/ghostdevv/npm-alt/pkg/filetree"
	"github.com/ghostdevv/npm-alt/pkg/npmpkg"
	"github.com/ghostdevv/npm-alt/pkg/replacements"
	"github.com/ghostdevv/npm-alt/pkg/score"
	"github.com/ghostdevv/npm-alt/pkg/search"
)

const shutdownTimeout = 10 * time.Second

// Server wires the domain services into an HTTP handler.
type Server struct {
	packages     *npmpkg.Service
	changelogs   *changelog.Resolver
	scores       *score.Engine
	graphs       *depgraph.Builder
	files        *filetree.Service
	searches     *search.Service
	replacements *replacements.Service
	log          *charmlog.Logger
}

// New creates a server over the given services.
func New(
	packages *npmpkg.Service,
	changelogs *changelog.Resolver,
	scores *score.Engine,
	graphs *depgraph.Builder,
	files *filetree.Service,
	searches *search.Service,
	repl *replacements.Service,
	logger *charmlog.Logger,
) *Server {
	if logger == nil {
		logger = charmlog.Default()
	}
	return &Server{
		packages:     packages,
		changelogs:   changelogs,
		scores:       scores,
		graphs:       graphs,
		files:        files,
		searches:     searches,
		replacements: repl,
		log:          logger,
	}
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(logRequests(s.log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Get("/author/{username}", s.handleAuthor)
		// Package specifiers contain slashes (scoped names), so the whole
		// subtree goes through one wildcard dispatcher.
		r.Get("/package/*", s.handlePackageTree)
	})

	return r
}

// Run serves the API on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
