package client

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

const bufSize = 1024 * 1024

func startHealthServer(t *testing.T) (*health.Server, func(context.Context, string) (net.Conn, error)) {
	t.Helper()

	lis := bufconn.Listen(bufSize)
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	return hs, func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}
}

func newTestProber(t *testing.T, service string, dialer func(context.Context, string) (net.Conn, error)) *HealthProber {
	t.Helper()
	p, err := NewHealthProber("passthrough:///bufnet", service,
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestHealthProber_Serving(t *testing.T) {
	hs, dialer := startHealthServer(t)
	hs.SetServingStatus("auth", healthpb.HealthCheckResponse_SERVING)

	p := newTestProber(t, "auth", dialer)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, p.Ping(ctx))
}

func TestHealthProber_NotServing(t *testing.T) {
	hs, dialer := startHealthServer(t)
	hs.SetServingStatus("auth", healthpb.HealthCheckResponse_NOT_SERVING)

	p := newTestProber(t, "auth", dialer)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.ErrorIs(t, p.Ping(ctx), ErrUnavailable)
}

func TestHealthProber_UnknownService(t *testing.T) {
	_, dialer := startHealthServer(t)

	p := newTestProber(t, "nope", dialer)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.ErrorIs(t, p.Ping(ctx), ErrUnavailable)
}

func TestHealthProber_DefaultsToPlaintext(t *testing.T) {
	p, err := NewHealthProber("localhost:0", "")
	require.NoError(t, err)
	require.NoError(t, p.Close())
}
