package rpc

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository/memory"
	"alcyxob/workout-tracker/internal/service"
	"context"
	"errors"
	"net"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

// startServer serves records on an in-memory listener and returns a
// connection to it.
func startServer(t *testing.T, records service.WorkoutRecordService, apiKeyHash string) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := NewServer(records, apiKeyHash, zerolog.Nop())
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func newRecords() (service.WorkoutRecordService, *memory.Store) {
	store := memory.New()
	return service.NewWorkoutRecordService(store, nil, zerolog.Nop()), store
}

func TestCreateAndDeleteUserRecord(t *testing.T) {
	ctx := context.Background()
	records, store := newRecords()
	client := NewClient(startServer(t, records, ""), "")

	require.NoError(t, client.CreateUserRecord(ctx, "u1"))
	exists, err := store.Exists(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, exists)

	err = client.CreateUserRecord(ctx, "u1")
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	deleted, err := client.DeleteUserRecord(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = client.DeleteUserRecord(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCreateUserRecordEmptyID(t *testing.T) {
	records, _ := newRecords()
	client := NewClient(startServer(t, records, ""), "")

	err := client.CreateUserRecord(context.Background(), "")

	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestAPIKeyAuth(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	records, _ := newRecords()
	conn := startServer(t, records, string(hash))

	err = NewClient(conn, "").CreateUserRecord(ctx, "u1")
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	err = NewClient(conn, "wrong").CreateUserRecord(ctx, "u1")
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	assert.NoError(t, NewClient(conn, "s3cret").CreateUserRecord(ctx, "u1"))
}

type brokenRecords struct{ service.WorkoutRecordService }

func (brokenRecords) CreateUserRecord(context.Context, string) error {
	return service.Internal(errors.New("mongo: server selection timeout"), "create_user_record failed")
}

func (brokenRecords) DeleteUserRecord(context.Context, string) (bool, error) {
	return false, errors.New("unclassified")
}

func TestInternalErrorsAreGeneric(t *testing.T) {
	ctx := context.Background()
	client := NewClient(startServer(t, brokenRecords{}, ""), "")

	err := client.CreateUserRecord(ctx, "u1")
	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.Internal, st.Code())
	assert.Equal(t, "internal error", st.Message())

	_, err = client.DeleteUserRecord(ctx, "u1")
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{service.NotFound("u1", "missing"), codes.NotFound},
		{service.Conflict("u1", "exists"), codes.AlreadyExists},
		{service.BadRequest("bad"), codes.InvalidArgument},
		{service.Validation(service.FieldError{Field: "userId", Message: "is required"}), codes.InvalidArgument},
		{service.Internal(errors.New("x"), "boom"), codes.Internal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, status.Code(toStatus(tt.err)), tt.err.Error())
	}
	assert.Equal(t, "exists", status.Convert(toStatus(service.Conflict("u1", "exists"))).Message())
}

func TestProvisionedRecordIsUsable(t *testing.T) {
	ctx := context.Background()
	records, _ := newRecords()
	client := NewClient(startServer(t, records, ""), "")
	require.NoError(t, client.CreateUserRecord(ctx, "u1"))

	rec, err := records.AddWorkout(ctx, "u1", domain.Workout{WorkoutName: "Leg Day"})
	require.NoError(t, err)
	assert.Len(t, rec.Workouts, 1)
}
