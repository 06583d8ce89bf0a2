package grpcnav

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/pkmnav/navcore/internal/navwire"
	"github.com/pkmnav/navcore/lib"
)

// Server wraps a RegionRouter behind the NavService gRPC surface.
type Server struct {
	Address string
	Router  *lib.RegionRouter
}

// NewServer builds a grpcnav.Server over router.
func NewServer(address string, router *lib.RegionRouter) *Server {
	return &Server{Address: address, Router: router}
}

// FindPath implements NavServiceServer.
func (s *Server) FindPath(ctx context.Context, req *navwire.FindPathRequestWire) (*navwire.RoutePlanWire, error) {
	from, to, hms, prefs, defeated := navwire.ToFindPathArgs(*req)
	plan := lib.FindPath(ctx, s.Router, from, to, hms, prefs, defeated)
	wire := navwire.FromRoutePlan(plan)
	return &wire, nil
}

// Start runs the gRPC server until shutdownCh fires, reporting any serve
// error on srvErr.
func (s *Server) Start(ctx context.Context, srvErr chan error, shutdownCh chan bool) error {
	server := grpc.NewServer()
	RegisterNavServiceServer(server, s)
	reflection.Register(server)

	l, err := net.Listen("tcp", s.Address)
	if err != nil {
		return fmt.Errorf("grpcnav: listen on %s: %w", s.Address, err)
	}

	slog.Info("navcore grpc server starting", "addr", s.Address)
	go func() {
		if err := server.Serve(l); err != nil && err != grpc.ErrServerStopped {
			srvErr <- err
		}
	}()

	go func() {
		select {
		case <-shutdownCh:
		case <-ctx.Done():
		}
		slog.Info("navcore grpc server stopping")
		server.GracefulStop()
	}()

	return nil
}
