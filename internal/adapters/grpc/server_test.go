package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/thermotrap/identity-service/internal/ports"
)

type stubAuth struct {
	claims ports.TokenClaims
}

func (s stubAuth) Authenticate(_ context.Context, raw string) (ports.TokenClaims, error) {
	if raw != "good" {
		return ports.TokenClaims{}, errors.New("bad token")
	}
	return s.claims, nil
}

func TestValidateTokenOverGRPC(t *testing.T) {
	subject := uuid.New()
	expires := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	Register(server, NewTokenVerifierServer(stubAuth{claims: ports.TokenClaims{
		SubjectID: subject,
		Email:     "a@b.com",
		Role:      "USER",
		Name:      "Ada",
		ExpiresAt: expires,
	}}))
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := ValidateTokenClient(ctx, conn, "good")
	require.NoError(t, err)
	fields := resp.GetFields()
	assert.True(t, fields["valid"].GetBoolValue())
	assert.Equal(t, subject.String(), fields["user_id"].GetStringValue())
	assert.Equal(t, "Ada", fields["name"].GetStringValue())
	assert.EqualValues(t, expires.Unix(), fields["expires_at"].GetNumberValue())

	_, err = ValidateTokenClient(ctx, conn, "forged")
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = ValidateTokenClient(ctx, conn, "")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
