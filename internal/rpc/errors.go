package rpc

import (
	"alcyxob/workout-tracker/internal/service"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// kindCode maps service error kinds to gRPC status codes.
var kindCode = map[service.Kind]codes.Code{
	service.KindNotFound:   codes.NotFound,
	service.KindConflict:   codes.AlreadyExists,
	service.KindBadRequest: codes.InvalidArgument,
	service.KindValidation: codes.InvalidArgument,
	service.KindInternal:   codes.Internal,
}

// toStatus converts a service error into a gRPC status. Internal causes are
// replaced with a fixed message.
func toStatus(err error) error {
	code, ok := kindCode[service.KindOf(err)]
	if !ok || code == codes.Internal {
		return status.Error(codes.Internal, "internal error")
	}
	var se *service.Error
	if errors.As(err, &se) {
		return status.Error(code, se.Message)
	}
	return status.Error(code, err.Error())
}
