// Package httpnav exposes the navigation core over plain HTTP+JSON: a
// single POST /v1/find-path endpoint accepting and returning the §6 wire
// shapes, instrumented the way the source's web server wraps every handler
// with httpsnoop-captured request metrics.
package httpnav

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"

	"github.com/felixge/httpsnoop"

	"github.com/pkmnav/navcore/internal/navwire"
	"github.com/pkmnav/navcore/lib"
)

// Server wraps a RegionRouter behind an HTTP handler.
type Server struct {
	Address string
	Router  *lib.RegionRouter
}

// NewServer builds an httpnav.Server over router.
func NewServer(address string, router *lib.RegionRouter) *Server {
	return &Server{Address: address, Router: router}
}

// Handler returns the server's http.Handler, wrapped with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/find-path", s.handleFindPath)
	return withLogging(mux)
}

// Start runs the HTTP server until ctx is canceled.
func (s *Server) Start(ctx context.Context, srvErr chan error) error {
	server := &http.Server{
		Addr:        s.Address,
		BaseContext: func(_ net.Listener) context.Context { return ctx },
		Handler:     s.Handler(),
	}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	slog.Info("navcore http server starting", "addr", s.Address)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			srvErr <- err
		}
	}()
	return nil
}

func (s *Server) handleFindPath(w http.ResponseWriter, r *http.Request) {
	var req navwire.FindPathRequestWire
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	from, to, hms, prefs, defeated := navwire.ToFindPathArgs(req)
	plan := lib.FindPath(r.Context(), s.Router, from, to, hms, prefs, defeated)

	w.Header().Set("Content-Type", "application/json")
	if !plan.Success {
		w.WriteHeader(http.StatusOK) // a failed RoutePlan is still a valid response body
	}
	_ = json.NewEncoder(w).Encode(navwire.FromRoutePlan(plan))
}

func withLogging(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(handler, w, r)
		slog.Info("http request", "status", m.Code, "duration", m.Duration, "path", r.URL.Path)
	})
}
