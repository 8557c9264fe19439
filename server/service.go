package server

import (
	"context"

	"github.com/golang/protobuf/ptypes/empty"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "dmx.Session"

// The gRPC service of a session.
//
// Documents and results are exchanged as google.protobuf.Struct values with the same shape as the JSON documents.
type SessionServer interface {
	// Replace the model with a snapshot or script document
	Load(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// Apply an event such as {"op": "request", "on": "P1"}
	Apply(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Step(context.Context, *empty.Empty) (*structpb.Struct, error)
	Snapshot(context.Context, *empty.Empty) (*structpb.Struct, error)
	Safety(context.Context, *empty.Empty) (*structpb.Struct, error)
	Trace(context.Context, *empty.Empty) (*structpb.Struct, error)
}

func unaryHandler[Req any](method string, call func(SessionServer, context.Context, *Req) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(SessionServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + method,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(SessionServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var SessionServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SessionServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("Load", SessionServer.Load),
		unaryHandler("Apply", SessionServer.Apply),
		unaryHandler("Step", SessionServer.Step),
		unaryHandler("Snapshot", SessionServer.Snapshot),
		unaryHandler("Safety", SessionServer.Safety),
		unaryHandler("Trace", SessionServer.Trace),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dmx/session.proto",
}

func RegisterSessionServer(s grpc.ServiceRegistrar, srv SessionServer) {
	s.RegisterService(&SessionServiceDesc, srv)
}

// A client of the session service
type SessionClient struct {
	cc grpc.ClientConnInterface
}

func NewSessionClient(cc grpc.ClientConnInterface) *SessionClient {
	return &SessionClient{cc: cc}
}

func (c *SessionClient) invoke(ctx context.Context, method string, in interface{}, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SessionClient) Load(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Load", in, opts...)
}

func (c *SessionClient) Apply(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Apply", in, opts...)
}

func (c *SessionClient) Step(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Step", &empty.Empty{}, opts...)
}

func (c *SessionClient) Snapshot(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Snapshot", &empty.Empty{}, opts...)
}

func (c *SessionClient) Safety(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Safety", &empty.Empty{}, opts...)
}

func (c *SessionClient) Trace(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Trace", &empty.Empty{}, opts...)
}
