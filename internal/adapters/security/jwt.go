package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/thermotrap/identity-service/internal/ports"
)

const minSecretLength = 32

// ErrWeakSecret is returned when the signing secret is missing or too short.
var ErrWeakSecret = errors.New("jwt secret must be at least 32 bytes")

// JWTIssuer signs and verifies HS256 bearer tokens.
// There is no fallback secret: construction fails when none is configured.
type JWTIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	nowFn  func() time.Time
}

func NewJWTIssuer(secret, issuer string, ttl time.Duration) (*JWTIssuer, error) {
	if len(secret) < minSecretLength {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTIssuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}, nil
}

type identityClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

func (s *JWTIssuer) TTL() time.Duration {
	return s.ttl
}

// Issue signs claims with a fixed lifetime starting now. IssuedAt and ExpiresAt on the input are ignored.
func (s *JWTIssuer) Issue(claims ports.TokenClaims) (string, error) {
	now := s.nowFn().Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, identityClaims{
		UserID: claims.SubjectID.String(),
		Email:  claims.Email,
		Role:   claims.Role,
		Name:   claims.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   claims.SubjectID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	return token.SignedString(s.secret)
}

func (s *JWTIssuer) Verify(raw string) (ports.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &identityClaims{}, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(30*time.Second),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.nowFn),
	)
	if err != nil {
		return ports.TokenClaims{}, err
	}
	claims, ok := parsed.Claims.(*identityClaims)
	if !ok || !parsed.Valid {
		return ports.TokenClaims{}, errors.New("invalid token claims")
	}

	subjectID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return ports.TokenClaims{}, fmt.Errorf("parse userId: %w", err)
	}

	out := ports.TokenClaims{
		SubjectID: subjectID,
		Email:     claims.Email,
		Role:      claims.Role,
		Name:      claims.Name,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return out, nil
}
