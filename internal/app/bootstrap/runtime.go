package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/gorm"

	cacheadapter "github.com/thermotrap/identity-service/internal/adapters/cache"
	eventadapter "github.com/thermotrap/identity-service/internal/adapters/events"
	grpcadapter "github.com/thermotrap/identity-service/internal/adapters/grpc"
	httpadapter "github.com/thermotrap/identity-service/internal/adapters/http"
	mailadapter "github.com/thermotrap/identity-service/internal/adapters/mail"
	"github.com/thermotrap/identity-service/internal/adapters/postgres"
	"github.com/thermotrap/identity-service/internal/adapters/security"
	workeradapter "github.com/thermotrap/identity-service/internal/adapters/worker"
	"github.com/thermotrap/identity-service/internal/application"
	"github.com/thermotrap/identity-service/internal/ports"
)

type Runtime struct {
	cfg     Config
	logger  *slog.Logger
	db      *gorm.DB
	service *application.Service
	sweeper *workeradapter.ResetSweeper
	closers []func() error
}

// NewLogger builds the JSON logger and installs it as the process default,
// which the application and http layers log through.
func NewLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	return logger
}

// NewRuntime connects backing stores and assembles the service. Listeners are
// opened later by RunAPI so CLI commands can reuse the same wiring.
func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := NewLogger()
	logger.Info("bootstrapping identity service",
		"environment", cfg.Environment,
		"reset_store", cfg.ResetStore,
		"mail_backend", cfg.MailBackend,
	)

	r := &Runtime{cfg: cfg, logger: logger}
	if err := r.wire(ctx); err != nil {
		r.cleanup()
		return nil, err
	}
	return r, nil
}

func (r *Runtime) wire(ctx context.Context) error {
	cfg := r.cfg

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("gorm sql db: %w", err)
	}
	r.db = db
	r.closers = append(r.closers, sqlDB.Close)

	repos := postgres.NewRepositories(db)

	var resets ports.ResetStateStore = repos.ResetStates
	if cfg.ResetStore == ResetStoreRedis {
		client, err := cacheadapter.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		r.closers = append(r.closers, client.Close)
		resets = cacheadapter.NewRedisResetStateStore(client, cfg.ResetRetention)
	}

	mailer, err := r.buildMailer()
	if err != nil {
		return err
	}

	tokens, err := security.NewJWTIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("init jwt issuer: %w", err)
	}

	r.service = application.NewService(application.Dependencies{
		Config: application.Config{
			OTPTTL:            cfg.OTPTTL,
			ResetRetention:    cfg.ResetRetention,
			RequireLiveOTP:    cfg.RequireLiveOTP,
			MinPasswordLength: cfg.MinPasswordLength,
		},
		Users:       repos.Users,
		Admins:      repos.Admins,
		ResetStates: resets,
		Hasher:      security.NewHashPool(security.NewBcryptHasher(cfg.BcryptCost), cfg.HashWorkers),
		OTPs:        security.NewDigitOTPGenerator(),
		Tokens:      tokens,
		Mailer:      mailer,
	})
	r.sweeper = workeradapter.NewResetSweeper(r.logger.With("service", cfg.ServiceID), r.service, cfg.ResetSweepInterval)
	return nil
}

func (r *Runtime) buildMailer() (ports.Mailer, error) {
	cfg := r.cfg
	switch cfg.MailBackend {
	case MailBackendSMTP:
		m, err := mailadapter.NewSMTPMailer(mailadapter.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
		if err != nil {
			return nil, fmt.Errorf("init smtp mailer: %w", err)
		}
		return m, nil
	case MailBackendKafka:
		publisher, err := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, 0)
		if err != nil {
			return nil, fmt.Errorf("init kafka publisher: %w", err)
		}
		r.closers = append(r.closers, publisher.Close)
		return mailadapter.NewRelayMailer(publisher, cfg.MailTopic)
	default:
		r.logger.Warn("mail delivery disabled; reset emails are only logged")
		return mailadapter.NewRelayMailer(eventadapter.NewLoggingPublisher(r.logger), cfg.MailTopic)
	}
}

// Migrate applies the embedded schema migrations.
func (r *Runtime) Migrate(ctx context.Context) error {
	if err := postgres.RunMigrations(ctx, r.db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// SweepOnce runs a single reset-state sweep.
func (r *Runtime) SweepOnce(ctx context.Context) (int64, error) {
	return r.sweeper.RunOnce(ctx)
}

func (r *Runtime) Config() Config {
	return r.cfg
}

func (r *Runtime) ready(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	defer r.cleanup()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := r.Migrate(ctx); err != nil {
		return err
	}

	router := httpadapter.NewRouter(httpadapter.NewHandler(r.service, r.ready))
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", r.cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	grpcadapter.Register(grpcServer, grpcadapter.NewTokenVerifierServer(r.service))

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", r.cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("listen gRPC: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		r.logger.Info("http server started", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		r.logger.Info("grpc server started", "addr", lis.Addr().String())
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case runErr = <-errCh:
		r.logger.Error("server failure", "error", runErr)
	}

	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	grpcServer.GracefulStop()
	return runErr
}

func (r *Runtime) RunWorker(ctx context.Context) error {
	defer r.cleanup()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.logger.Info("reset sweeper started", "interval", r.cfg.ResetSweepInterval.String())
	err := r.sweeper.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Close releases connections held by a runtime that was not started with RunAPI or RunWorker.
func (r *Runtime) Close() {
	r.cleanup()
}

func (r *Runtime) cleanup() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		_ = r.closers[i]()
	}
	r.closers = nil
}
