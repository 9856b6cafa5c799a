// Package userpb is the gRPC contract of the user directory. Messages are
// protobuf well-known types, so no generated message code is needed.
package userpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName = "cafe.user.v1.UserDirectory"

	ValidateUserMethod = "/" + ServiceName + "/ValidateUser"
	GetUserMethod      = "/" + ServiceName + "/GetUser"
)

// UserDirectoryClient looks users up by id.
type UserDirectoryClient interface {
	ValidateUser(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	GetUser(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type userDirectoryClient struct {
	cc grpc.ClientConnInterface
}

func NewUserDirectoryClient(cc grpc.ClientConnInterface) UserDirectoryClient {
	return &userDirectoryClient{cc: cc}
}

func (c *userDirectoryClient) ValidateUser(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, ValidateUserMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *userDirectoryClient) GetUser(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetUserMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type UserDirectoryServer interface {
	ValidateUser(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	GetUser(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

func RegisterUserDirectoryServer(s grpc.ServiceRegistrar, srv UserDirectoryServer) {
	s.RegisterService(&UserDirectoryServiceDesc, srv)
}

func validateUserHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UserDirectoryServer).ValidateUser(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ValidateUserMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(UserDirectoryServer).ValidateUser(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func getUserHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UserDirectoryServer).GetUser(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetUserMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(UserDirectoryServer).GetUser(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

var UserDirectoryServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*UserDirectoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ValidateUser", Handler: validateUserHandler},
		{MethodName: "GetUser", Handler: getUserHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cafe/user/v1/user.proto",
}
