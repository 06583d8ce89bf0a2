// Package grpcnav exposes the navigation core over gRPC using a
// hand-written ServiceDesc and a JSON encoding.Codec instead of generated
// protobuf stubs: there is no .proto file, the wire messages are the same
// navwire structs the HTTP and CLI transports already share.
package grpcnav

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"

	"github.com/pkmnav/navcore/internal/navwire"
)

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

const (
	// ServiceName is the fully-qualified gRPC service name.
	ServiceName = "navcore.v1.NavService"
	// MethodFindPath is the single unary RPC this service exposes.
	MethodFindPath = "FindPath"
)

// NavServiceServer is implemented by anything that can answer FindPath RPCs.
type NavServiceServer interface {
	FindPath(ctx context.Context, req *navwire.FindPathRequestWire) (*navwire.RoutePlanWire, error)
}

func findPathHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(navwire.FindPathRequestWire)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NavServiceServer).FindPath(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + MethodFindPath}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(NavServiceServer).FindPath(ctx, req.(*navwire.FindPathRequestWire))
	}
	return interceptor(ctx, in, info, handler)
}

// serviceDesc is the hand-rolled equivalent of a protoc-generated
// *_grpc.pb.go ServiceDesc.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*NavServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: MethodFindPath,
			Handler:    findPathHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "navcore/grpcnav",
}

// RegisterNavServiceServer registers srv against s.
func RegisterNavServiceServer(s *grpc.Server, srv NavServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

// NavServiceClient calls the NavService RPCs.
type NavServiceClient interface {
	FindPath(ctx context.Context, in *navwire.FindPathRequestWire, opts ...grpc.CallOption) (*navwire.RoutePlanWire, error)
}

type navServiceClient struct {
	cc *grpc.ClientConn
}

// NewNavServiceClient builds a NavServiceClient over an existing connection.
func NewNavServiceClient(cc *grpc.ClientConn) NavServiceClient {
	return &navServiceClient{cc: cc}
}

func (c *navServiceClient) FindPath(ctx context.Context, in *navwire.FindPathRequestWire, opts ...grpc.CallOption) (*navwire.RoutePlanWire, error) {
	out := new(navwire.RoutePlanWire)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+MethodFindPath, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// DialOption returns the dial option that selects the JSON codec for calls
// made through this package's client.
func DialOption() grpc.DialOption {
	return grpc.WithDefaultCallOptions(grpc.CallContentSubtype(jsonCodec{}.Name()))
}
