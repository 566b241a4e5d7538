package rpc

import (
	"alcyxob/workout-tracker/internal/service"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
)

// NewServer builds a gRPC server with the admin service registered. Logging
// runs outside authentication so rejected calls are logged too.
func NewServer(records service.WorkoutRecordService, apiKeyHash string, logger zerolog.Logger, opts ...grpc.ServerOption) *grpc.Server {
	logger = logger.With().Str("component", "rpc").Logger()
	opts = append(opts, grpc.ChainUnaryInterceptor(
		Logging(logger),
		APIKeyAuth(apiKeyHash),
	))
	s := grpc.NewServer(opts...)
	RegisterUserRecordAdminServer(s, NewAdminServer(records))
	return s
}
