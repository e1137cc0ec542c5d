package grpc

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

type fakePinger struct {
	fail atomic.Bool
}

func (p *fakePinger) Ping(ctx context.Context) error {
	if p.fail.Load() {
		return errors.New("store down")
	}
	return nil
}

func startServer(t *testing.T) (*Server, healthpb.HealthClient) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := New("livechat")
	go s.Serve(lis)
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return s, healthpb.NewHealthClient(conn)
}

func servingStatus(client healthpb.HealthClient, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}

func check(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	st, err := servingStatus(client, service)
	require.NoError(t, err)
	return st
}

func eventuallyStatus(t *testing.T, client healthpb.HealthClient, want healthpb.HealthCheckResponse_ServingStatus) {
	t.Helper()
	assert.Eventually(t, func() bool {
		st, err := servingStatus(client, "livechat")
		return err == nil && st == want
	}, time.Second, 10*time.Millisecond)
}

func TestHealth_StartsNotServing(t *testing.T) {
	_, client := startServer(t)

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, "livechat"))
}

func TestHealth_SetServing(t *testing.T) {
	s, client := startServer(t)

	s.SetServing(true)

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, "livechat"))
}

func TestWatchReadiness_FollowsStore(t *testing.T) {
	s, client := startServer(t)
	p := &fakePinger{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.WatchReadiness(ctx, p, 10*time.Millisecond)

	eventuallyStatus(t, client, healthpb.HealthCheckResponse_SERVING)

	p.fail.Store(true)

	eventuallyStatus(t, client, healthpb.HealthCheckResponse_NOT_SERVING)
}
