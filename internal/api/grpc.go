package api

import (
	"context"
	"errors"

	"github.com/heysubinoy/pyazdict/api/dictrpc"
	"github.com/heysubinoy/pyazdict/internal/session"
	"github.com/heysubinoy/pyazdict/pkg/kv"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// GRPCServer implements the dictrpc.DictServiceServer interface.
// It exposes the session's dictionaries over gRPC.
type GRPCServer struct {
	Session *session.Session
}

var _ dictrpc.DictServiceServer = (*GRPCServer)(nil)

// NewGRPCServer creates a new gRPC server over the given session.
func NewGRPCServer(sess *session.Session) *GRPCServer {
	return &GRPCServer{
		Session: sess,
	}
}

func (s *GRPCServer) dictionary(req *structpb.Struct) (kv.Dictionary, error) {
	d, err := s.Session.Dictionary(req.GetFields()["dict"].GetStringValue())
	if err != nil {
		return nil, grpcError(err)
	}
	return d, nil
}

// Get retrieves a value by key.
func (s *GRPCServer) Get(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	d, err := s.dictionary(req)
	if err != nil {
		return nil, err
	}

	value, found := d.Search(req.GetFields()["key"].GetStringValue())
	return structpb.NewStruct(map[string]any{
		"value": value,
		"found": found,
	})
}

// Set stores a key-value pair.
func (s *GRPCServer) Set(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	d, err := s.dictionary(req)
	if err != nil {
		return nil, err
	}

	f := req.GetFields()
	if err := d.Add(f["key"].GetStringValue(), f["value"].GetStringValue()); err != nil {
		return nil, grpcError(err)
	}

	return structpb.NewStruct(map[string]any{"success": true})
}

// Delete removes a key from the dictionary.
func (s *GRPCServer) Delete(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	d, err := s.dictionary(req)
	if err != nil {
		return nil, err
	}

	if err := d.Remove(req.GetFields()["key"].GetStringValue()); err != nil {
		return nil, grpcError(err)
	}

	return structpb.NewStruct(map[string]any{"success": true})
}

// Page returns one page of entries.
func (s *GRPCServer) Page(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	d, err := s.dictionary(req)
	if err != nil {
		return nil, err
	}

	f := req.GetFields()
	size := int(f["size"].GetNumberValue())
	if size == 0 {
		size = defaultPageSize
	}
	p, err := d.Page(int(f["page"].GetNumberValue()), size)
	if err != nil {
		return nil, grpcError(err)
	}

	entries := make([]any, len(p.Entries))
	for i, e := range p.Entries {
		entries[i] = map[string]any{"key": e.Key, "value": e.Value}
	}
	return structpb.NewStruct(map[string]any{
		"page":        p.Number,
		"total_pages": p.Total,
		"entries":     entries,
	})
}

// grpcError maps dictionary error kinds to gRPC status codes.
func grpcError(err error) error {
	switch {
	case errors.Is(err, kv.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, kv.Message(err))
	case errors.Is(err, kv.ErrNotFound):
		return status.Error(codes.NotFound, kv.Message(err))
	}
	return status.Error(codes.Internal, err.Error())
}
