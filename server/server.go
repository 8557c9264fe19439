// Package server exposes a session over gRPC.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net"

	"github.com/golang/protobuf/ptypes/empty"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/document"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/engine"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/session"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

type Server struct {
	s      *session.Session
	logger *log.Logger
}

func New(s *session.Session, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		s:      s,
		logger: logger,
	}
}

// Create a grpc server with the session service registered.
func (srv *Server) GrpcServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.UnaryInterceptor(srv.logCalls))
	gs := grpc.NewServer(opts...)
	RegisterSessionServer(gs, srv)
	return gs
}

// Serve the session on the listener.
//
// Blocks until the context is done, then stops the grpc server gracefully.
func (srv *Server) Serve(ctx context.Context, lis net.Listener, opts ...grpc.ServerOption) error {
	gs := srv.GrpcServer(opts...)
	go func() {
		<-ctx.Done()
		gs.GracefulStop()
	}()
	srv.logger.Printf("Serving session %v on %v", srv.s.ID(), lis.Addr())
	return gs.Serve(lis)
}

func (srv *Server) logCalls(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		srv.logger.Printf("%v failed: %v", info.FullMethod, err)
	}
	return resp, err
}

func (srv *Server) Load(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	raw, err := protojson.Marshal(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "unable to read document: %v", err)
	}
	if err := srv.s.Load(raw); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "document rejected: %v", err)
	}
	return srv.Snapshot(ctx, &empty.Empty{})
}

// Apply an event. A rejected event is not an error, the reason is in the returned result.
func (srv *Server) Apply(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	raw, err := protojson.Marshal(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "unable to read event: %v", err)
	}
	evt := document.Event{}
	if err := json.Unmarshal(raw, &evt); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "malformed event: %v", err)
	}
	return resultStruct(srv.s.ApplyRaw(evt))
}

func (srv *Server) Step(ctx context.Context, _ *empty.Empty) (*structpb.Struct, error) {
	return resultStruct(srv.s.Step())
}

func (srv *Server) Snapshot(ctx context.Context, _ *empty.Empty) (*structpb.Struct, error) {
	raw, err := document.Marshal(srv.s.Snapshot())
	if err != nil {
		return nil, status.Errorf(codes.Internal, "unable to export snapshot: %v", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Errorf(codes.Internal, "unable to export snapshot: %v", err)
	}
	return out, nil
}

func (srv *Server) Safety(ctx context.Context, _ *empty.Empty) (*structpb.Struct, error) {
	report := srv.s.Safety()
	holders := []interface{}{}
	for _, id := range report.Holders {
		holders = append(holders, event.ProcessName(id))
	}
	return newStruct(map[string]interface{}{
		"ok":      report.OK,
		"holders": holders,
		"text":    report.String(),
	})
}

func (srv *Server) Trace(ctx context.Context, _ *empty.Empty) (*structpb.Struct, error) {
	entries := []interface{}{}
	for _, entry := range srv.s.Trace() {
		entries = append(entries, map[string]interface{}{
			"step":  entry.Step,
			"level": entry.Level.String(),
			"text":  entry.Text,
		})
	}
	return newStruct(map[string]interface{}{"entries": entries})
}

func resultStruct(res engine.Result) (*structpb.Struct, error) {
	return newStruct(map[string]interface{}{
		"ok":     res.OK,
		"reason": res.Reason.String(),
		"text":   res.Text,
	})
}

func newStruct(fields map[string]interface{}) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "unable to encode response: %v", err)
	}
	return out, nil
}
