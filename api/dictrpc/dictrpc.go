// Package dictrpc defines the DictService gRPC contract. Messages are
// google.protobuf.Struct values so no generated code is needed; field names
// are listed with each method.
package dictrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "dict.DictService"

// Full method names.
const (
	GetMethod    = "/" + ServiceName + "/Get"
	SetMethod    = "/" + ServiceName + "/Set"
	DeleteMethod = "/" + ServiceName + "/Delete"
	PageMethod   = "/" + ServiceName + "/Page"
)

// DictServiceServer is the server API for DictService.
//
//	Get    {dict, key}        -> {value, found}
//	Set    {dict, key, value} -> {success}
//	Delete {dict, key}        -> {success}
//	Page   {dict, page, size} -> {page, total_pages, entries: [{key, value}]}
type DictServiceServer interface {
	Get(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Set(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Delete(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Page(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterDictServiceServer registers srv with s.
func RegisterDictServiceServer(s grpc.ServiceRegistrar, srv DictServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type unaryMethod func(DictServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func handler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DictServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		next := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DictServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, next)
	}
}

// ServiceDesc is the grpc.ServiceDesc for DictService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DictServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Get", Handler: handler(GetMethod, DictServiceServer.Get)},
		{MethodName: "Set", Handler: handler(SetMethod, DictServiceServer.Set)},
		{MethodName: "Delete", Handler: handler(DeleteMethod, DictServiceServer.Delete)},
		{MethodName: "Page", Handler: handler(PageMethod, DictServiceServer.Page)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dict.proto",
}

// Client is a typed DictService client.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a client connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Entry is one key/value pair of a page response.
type Entry struct {
	Key   string
	Value string
}

// PageResult is the decoded Page response.
type PageResult struct {
	Number  int
	Total   int
	Entries []Entry
}

func (c *Client) invoke(ctx context.Context, method string, req map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the value for key in dict and whether it exists.
func (c *Client) Get(ctx context.Context, dict, key string, opts ...grpc.CallOption) (string, bool, error) {
	out, err := c.invoke(ctx, GetMethod, map[string]any{"dict": dict, "key": key}, opts...)
	if err != nil {
		return "", false, err
	}
	f := out.GetFields()
	return f["value"].GetStringValue(), f["found"].GetBoolValue(), nil
}

// Set stores key=value in dict.
func (c *Client) Set(ctx context.Context, dict, key, value string, opts ...grpc.CallOption) error {
	_, err := c.invoke(ctx, SetMethod, map[string]any{"dict": dict, "key": key, "value": value}, opts...)
	return err
}

// Delete removes key from dict.
func (c *Client) Delete(ctx context.Context, dict, key string, opts ...grpc.CallOption) error {
	_, err := c.invoke(ctx, DeleteMethod, map[string]any{"dict": dict, "key": key}, opts...)
	return err
}

// Page fetches one page of dict.
func (c *Client) Page(ctx context.Context, dict string, page, size int, opts ...grpc.CallOption) (*PageResult, error) {
	out, err := c.invoke(ctx, PageMethod, map[string]any{"dict": dict, "page": page, "size": size}, opts...)
	if err != nil {
		return nil, err
	}
	f := out.GetFields()
	res := &PageResult{
		Number: int(f["page"].GetNumberValue()),
		Total:  int(f["total_pages"].GetNumberValue()),
	}
	for _, v := range f["entries"].GetListValue().GetValues() {
		ef := v.GetStructValue().GetFields()
		res.Entries = append(res.Entries, Entry{
			Key:   ef["key"].GetStringValue(),
			Value: ef["value"].GetStringValue(),
		})
	}
	return res, nil
}
