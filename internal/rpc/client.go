package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Client calls the admin service. It is what the identity service embeds.
type Client struct {
	cc     grpc.ClientConnInterface
	apiKey string
}

// NewClient wraps an existing connection. apiKey may be empty when the
// server runs without key checks.
func NewClient(cc grpc.ClientConnInterface, apiKey string) *Client {
	return &Client{cc: cc, apiKey: apiKey}
}

// CreateUserRecord provisions a record for userID.
func (c *Client) CreateUserRecord(ctx context.Context, userID string, opts ...grpc.CallOption) error {
	out := new(CreateUserRecordResponse)
	return c.invoke(ctx, createUserRecordFullName, &CreateUserRecordRequest{UserID: userID}, out, opts)
}

// DeleteUserRecord deprovisions userID and reports whether a record existed.
func (c *Client) DeleteUserRecord(ctx context.Context, userID string, opts ...grpc.CallOption) (bool, error) {
	out := new(DeleteUserRecordResponse)
	if err := c.invoke(ctx, deleteUserRecordFullName, &DeleteUserRecordRequest{UserID: userID}, out, opts); err != nil {
		return false, err
	}
	return out.Deleted, nil
}

func (c *Client) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	if c.apiKey != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, APIKeyMetadata, c.apiKey)
	}
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}
