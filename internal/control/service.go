// Package control serves the daemon's control surface: a gRPC service and an
// HTTP/JSON mirror of it, multiplexed on the local IPC socket.
//
// There is no .proto codegen step: requests and responses are protobuf
// well-known types and the service descriptor is declared in desc.go.
package control

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"go.klb.dev/autocopy/internal/pipeline"
)

// Controller is what the service drives. *pipeline.Pipeline implements it.
type Controller interface {
	Status(ctx context.Context) (pipeline.Status, error)
	SetEnabled(ctx context.Context, on bool) (bool, error)
	Toggle(ctx context.Context) (bool, error)
}

// Service implements ControlServer.
type Service struct {
	ctl     Controller
	version string
	started time.Time
}

// NewService returns a Service backed by ctl.
func NewService(ctl Controller, version string) *Service {
	return &Service{ctl: ctl, version: version, started: time.Now()}
}

// Status implements ControlServer.Status.
func (s *Service) Status(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	st, err := s.ctl.Status(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	out, err := structpb.NewStruct(statusFields(st, s.version, s.started))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "status: %v", err)
	}
	return out, nil
}

// SetEnabled implements ControlServer.SetEnabled.
func (s *Service) SetEnabled(ctx context.Context, req *wrapperspb.BoolValue) (*wrapperspb.BoolValue, error) {
	on, err := s.ctl.SetEnabled(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bool(on), nil
}

// Toggle implements ControlServer.Toggle.
func (s *Service) Toggle(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	on, err := s.ctl.Toggle(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bool(on), nil
}

func statusFields(st pipeline.Status, version string, started time.Time) map[string]any {
	lastConfirmed := ""
	if !st.Stats.LastConfirmed.IsZero() {
		lastConfirmed = st.Stats.LastConfirmed.UTC().Format(time.RFC3339)
	}
	return map[string]any{
		"version":        version,
		"enabled":        st.Enabled,
		"busy":           st.Busy,
		"clipboard":      st.Clipboard,
		"uptime":         time.Since(started).Round(time.Second).String(),
		"last_confirmed": lastConfirmed,
		"stats": map[string]any{
			"gestures":      st.Stats.Gestures,
			"copies":        st.Stats.Copies,
			"confirmations": st.Stats.Confirmations,
			"duplicates":    st.Stats.Duplicates,
			"empty":         st.Stats.Empty,
			"unchanged":     st.Stats.Unchanged,
			"ignored":       st.Stats.Ignored,
			"abandoned":     st.Stats.Abandoned,
			"rearms":        st.Stats.Rearms,
		},
	}
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Unavailable, err.Error())
	}
}
