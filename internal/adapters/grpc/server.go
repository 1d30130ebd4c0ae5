package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/thermotrap/identity-service/internal/ports"
)

const (
	serviceName        = "identity.v1.TokenVerifier"
	validateTokenRoute = "/" + serviceName + "/ValidateToken"
)

// TokenVerifierService is the internal RPC surface other services use to check bearer tokens.
type TokenVerifierService interface {
	ValidateToken(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// Authenticator verifies a raw token; *application.Service satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (ports.TokenClaims, error)
}

type TokenVerifierServer struct {
	auth Authenticator
}

func NewTokenVerifierServer(auth Authenticator) *TokenVerifierServer {
	return &TokenVerifierServer{auth: auth}
}

func Register(server grpc.ServiceRegistrar, svc TokenVerifierService) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*TokenVerifierService)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "ValidateToken",
				Handler:    validateTokenHandler(svc),
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "identity/v1/token_verifier.proto",
	}, svc)
}

// ValidateToken returns the same claim set the issuer signs: user_id, email, role, name.
func (s *TokenVerifierServer) ValidateToken(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	token := req.GetFields()["token"].GetStringValue()
	if token == "" {
		return nil, status.Error(codes.InvalidArgument, "missing token")
	}

	claims, err := s.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	resp, err := structpb.NewStruct(map[string]any{
		"valid":      true,
		"user_id":    claims.SubjectID.String(),
		"email":      claims.Email,
		"role":       claims.Role,
		"name":       claims.Name,
		"expires_at": claims.ExpiresAt.Unix(),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return resp, nil
}

func validateTokenHandler(svc TokenVerifierService) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := &structpb.Struct{}
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return svc.ValidateToken(ctx, req)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: validateTokenRoute,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*structpb.Struct)
			if !ok {
				return nil, status.Error(codes.InvalidArgument, "invalid request type")
			}
			return svc.ValidateToken(ctx, typed)
		}
		return interceptor(ctx, req, info, handler)
	}
}

// ValidateTokenClient calls ValidateToken over an existing connection.
func ValidateTokenClient(ctx context.Context, conn grpc.ClientConnInterface, token string) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(map[string]any{"token": token})
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := conn.Invoke(ctx, validateTokenRoute, req, out); err != nil {
		return nil, err
	}
	return out, nil
}
