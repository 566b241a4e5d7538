// Package rpc exposes the administrative gRPC surface the identity service
// uses to provision and deprovision workout records.
package rpc

import (
	"alcyxob/workout-tracker/internal/service"
	"context"

	"google.golang.org/grpc"
)

const (
	serviceName              = "workouts.admin.v1.UserRecordAdmin"
	createUserRecordFullName = "/" + serviceName + "/CreateUserRecord"
	deleteUserRecordFullName = "/" + serviceName + "/DeleteUserRecord"
)

type CreateUserRecordRequest struct {
	UserID string `json:"userId"`
}

type CreateUserRecordResponse struct{}

type DeleteUserRecordRequest struct {
	UserID string `json:"userId"`
}

type DeleteUserRecordResponse struct {
	Deleted bool `json:"deleted"`
}

// UserRecordAdminServer is the server API for the admin service.
type UserRecordAdminServer interface {
	CreateUserRecord(context.Context, *CreateUserRecordRequest) (*CreateUserRecordResponse, error)
	DeleteUserRecord(context.Context, *DeleteUserRecordRequest) (*DeleteUserRecordResponse, error)
}

// RegisterUserRecordAdminServer attaches srv to s.
func RegisterUserRecordAdminServer(s grpc.ServiceRegistrar, srv UserRecordAdminServer) {
	s.RegisterService(&userRecordAdminServiceDesc, srv)
}

var userRecordAdminServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*UserRecordAdminServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateUserRecord", Handler: createUserRecordHandler},
		{MethodName: "DeleteUserRecord", Handler: deleteUserRecordHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "workouts/admin/v1/admin.json",
}

func createUserRecordHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateUserRecordRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UserRecordAdminServer).CreateUserRecord(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: createUserRecordFullName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(UserRecordAdminServer).CreateUserRecord(ctx, req.(*CreateUserRecordRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func deleteUserRecordHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeleteUserRecordRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UserRecordAdminServer).DeleteUserRecord(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: deleteUserRecordFullName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(UserRecordAdminServer).DeleteUserRecord(ctx, req.(*DeleteUserRecordRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// AdminServer implements UserRecordAdminServer on top of the workout record
// service.
type AdminServer struct {
	records service.WorkoutRecordService
}

// NewAdminServer creates a new AdminServer.
func NewAdminServer(records service.WorkoutRecordService) *AdminServer {
	return &AdminServer{records: records}
}

var _ UserRecordAdminServer = (*AdminServer)(nil)

// CreateUserRecord provisions an empty record. An existing record yields
// ALREADY_EXISTS.
func (s *AdminServer) CreateUserRecord(ctx context.Context, req *CreateUserRecordRequest) (*CreateUserRecordResponse, error) {
	if err := s.records.CreateUserRecord(ctx, req.UserID); err != nil {
		return nil, toStatus(err)
	}
	return &CreateUserRecordResponse{}, nil
}

// DeleteUserRecord deprovisions a record. A missing record is not an error.
func (s *AdminServer) DeleteUserRecord(ctx context.Context, req *DeleteUserRecordRequest) (*DeleteUserRecordResponse, error) {
	deleted, err := s.records.DeleteUserRecord(ctx, req.UserID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &DeleteUserRecordResponse{Deleted: deleted}, nil
}
