package telemetry

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// NotifyRequest/NotifyResponse are the stub proto messages exchanged with
// the remote notifier service (compiled separately in a real deployment;
// minimal stub interface here, mirroring core/ai.go's AIStubClient
// TFRequest/TFResponse pattern).
type NotifyRequest struct {
	Message string
}

type NotifyResponse struct {
	Accepted bool
}

// StubClient is the gRPC-backed notifier interface; swap in the generated
// client from a real .proto in a production deployment.
type StubClient interface {
	Notify(ctx context.Context, req *NotifyRequest) (*NotifyResponse, error)
}

// GRPCNotifier relays Notify calls to a remote telemetry service over an
// insecure (plaintext) gRPC channel, matching core/ai.go's InitAI dial
// pattern (grpc.Dial + credentials/insecure, no TLS bootstrapping specified
// at this layer — a production deployment would wrap in TLS creds).
type GRPCNotifier struct {
	conn   *grpc.ClientConn
	client StubClient
}

// NewGRPCNotifier dials endpoint and wraps client for Notify calls.
func NewGRPCNotifier(endpoint string, newClient func(*grpc.ClientConn) StubClient) (*GRPCNotifier, error) {
	conn, err := grpc.Dial(endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	return &GRPCNotifier{conn: conn, client: newClient(conn)}, nil
}

// Notify implements Notifier.
func (n *GRPCNotifier) Notify(ctx context.Context, message string) error {
	_, err := n.client.Notify(ctx, &NotifyRequest{Message: message})
	return err
}

// Close releases the underlying gRPC connection.
func (n *GRPCNotifier) Close() error { return n.conn.Close() }
