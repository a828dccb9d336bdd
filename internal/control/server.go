package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/soheilhy/cmux"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"go.klb.dev/autocopy/internal/ipc"
)

// Server serves gRPC and HTTP/JSON on one listener.
type Server struct {
	svc  *Service
	grpc *grpc.Server
	mux  *gwruntime.ServeMux
	http *http.Server
	cm   cmux.CMux
}

// NewServer returns a server for svc. Routes:
//
//	GET  /v1/status
//	POST /v1/enable
//	POST /v1/disable
//	POST /v1/toggle
func NewServer(svc *Service) (*Server, error) {
	s := &Server{
		svc:  svc,
		grpc: grpc.NewServer(grpc.ChainUnaryInterceptor(logUnary)),
		mux:  gwruntime.NewServeMux(),
	}
	s.grpc.RegisterService(&ServiceDesc, svc)

	routes := []struct {
		method, path string
		call         func(context.Context) (proto.Message, error)
	}{
		{http.MethodGet, "/v1/status", func(ctx context.Context) (proto.Message, error) {
			return svc.Status(ctx, &emptypb.Empty{})
		}},
		{http.MethodPost, "/v1/enable", func(ctx context.Context) (proto.Message, error) {
			return svc.SetEnabled(ctx, wrapperspb.Bool(true))
		}},
		{http.MethodPost, "/v1/disable", func(ctx context.Context) (proto.Message, error) {
			return svc.SetEnabled(ctx, wrapperspb.Bool(false))
		}},
		{http.MethodPost, "/v1/toggle", func(ctx context.Context) (proto.Message, error) {
			return svc.Toggle(ctx, &emptypb.Empty{})
		}},
	}
	for _, rt := range routes {
		if err := s.mux.HandlePath(rt.method, rt.path, s.handler(rt.call)); err != nil {
			return nil, fmt.Errorf("route %s %s: %w", rt.method, rt.path, err)
		}
	}
	s.http = &http.Server{Handler: s.mux}
	return s, nil
}

func (s *Server) handler(call func(context.Context) (proto.Message, error)) gwruntime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		_, marshaler := gwruntime.MarshalerForRequest(s.mux, r)
		resp, err := call(r.Context())
		if err != nil {
			gwruntime.HTTPError(r.Context(), s.mux, marshaler, w, r, err)
			return
		}
		b, err := marshaler.Marshal(resp)
		if err != nil {
			gwruntime.HTTPError(r.Context(), s.mux, marshaler, w, r, err)
			return
		}
		w.Header().Set("Content-Type", marshaler.ContentType(resp))
		_, _ = w.Write(b)
	}
}

// Serve splits ln into gRPC and HTTP/1.1 traffic and blocks until Close.
func (s *Server) Serve(ln net.Listener) error {
	s.cm = cmux.New(ln)
	grpcL := s.cm.MatchWithWriters(cmux.HTTP2MatchHeaderFieldSendSettings("content-type", "application/grpc"))
	httpL := s.cm.Match(cmux.Any())

	go func() {
		if err := s.grpc.Serve(grpcL); err != nil && !errors.Is(err, cmux.ErrListenerClosed) {
			slog.Debug("grpc server stopped", "err", err)
		}
	}()
	go func() {
		if err := s.http.Serve(httpL); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, cmux.ErrListenerClosed) {
			slog.Debug("http server stopped", "err", err)
		}
	}()

	err := s.cm.Serve()
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("control: %w", err)
	}
	return nil
}

// Close stops both servers and the listener.
func (s *Server) Close() {
	s.grpc.Stop()
	_ = s.http.Close()
	if s.cm != nil {
		s.cm.Close()
	}
}

func logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		slog.Warn("control request failed", "method", info.FullMethod, "err", err)
	} else {
		slog.Debug("control request", "method", info.FullMethod)
	}
	return resp, err
}

// Dial returns a client connected to the daemon on the IPC socket at path.
// No auth: the socket is local and owner-restricted by the OS.
func Dial(path string) (*Client, *grpc.ClientConn, error) {
	conn, err := grpc.NewClient("passthrough:///autocopy",
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return ipc.Dial(ctx, path)
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", path, err)
	}
	return NewClient(conn), conn, nil
}
