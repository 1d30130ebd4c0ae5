package application

import (
	"context"
	"sync"
	"time"

	"github.com/thermotrap/identity-service/internal/ports"
)

type Service struct {
	cfg      Config
	resolver *PrincipalResolver
	users    ports.PrincipalSource
	resets   ports.ResetStateStore
	hasher   ports.PasswordHasher
	otps     ports.OTPGenerator
	tokens   ports.TokenIssuer
	mailer   ports.Mailer
	nowFn    func() time.Time

	dummyMu   sync.Mutex
	dummyHash string
}

type Dependencies struct {
	Config      Config
	Users       ports.PrincipalSource
	Admins      ports.PrincipalSource
	ResetStates ports.ResetStateStore
	Hasher      ports.PasswordHasher
	OTPs        ports.OTPGenerator
	Tokens      ports.TokenIssuer
	Mailer      ports.Mailer
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 15 * time.Minute
	}
	if cfg.ResetRetention < 0 {
		cfg.ResetRetention = 0
	}

	sources := []ports.PrincipalSource{deps.Users}
	if deps.Admins != nil {
		sources = append(sources, deps.Admins)
	}

	svc := &Service{
		cfg:      cfg,
		resolver: NewPrincipalResolver(sources...),
		users:    deps.Users,
		resets:   deps.ResetStates,
		hasher:   deps.Hasher,
		otps:     deps.OTPs,
		tokens:   deps.Tokens,
		mailer:   deps.Mailer,
		nowFn:    func() time.Time { return time.Now().UTC() },
	}
	svc.timingHash(context.Background())
	return svc
}
