package rpc

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// APIKeyMetadata is the metadata key carrying the caller's API key.
const APIKeyMetadata = "x-api-key"

// APIKeyAuth rejects calls whose x-api-key does not match the bcrypt hash.
// An empty hash disables the check.
func APIKeyAuth(hash string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if hash == "" {
			return handler(ctx, req)
		}
		md, _ := metadata.FromIncomingContext(ctx)
		keys := md.Get(APIKeyMetadata)
		if len(keys) == 0 || keys[0] == "" {
			return nil, status.Error(codes.Unauthenticated, "missing api key")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(keys[0])); err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid api key")
		}
		return handler(ctx, req)
	}
}

// Logging writes one line per call with its method, code and latency.
func Logging(logger zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		level := zerolog.WarnLevel
		switch code {
		case codes.OK, codes.AlreadyExists, codes.NotFound:
			level = zerolog.InfoLevel
		case codes.Internal, codes.Unknown:
			level = zerolog.ErrorLevel
		}
		logger.WithLevel(level).
			Err(err).
			Str("method", info.FullMethod).
			Str("code", code.String()).
			Dur("latency", time.Since(start)).
			Msg("rpc")
		return resp, err
	}
}
