package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const minJWTSecretBytes = 32

const (
	ResetStorePostgres = "postgres"
	ResetStoreRedis    = "redis"

	MailBackendSMTP  = "smtp"
	MailBackendKafka = "kafka"
	MailBackendLog   = "log"
)

// Config is the resolved runtime configuration for the identity service.
type Config struct {
	ServiceID   string
	Environment string

	HTTPPort int
	GRPCPort int

	DatabaseURL string
	MaxDBConns  int32
	RedisURL    string

	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration

	BcryptCost        int
	HashWorkers       int
	MinPasswordLength int

	OTPTTL             time.Duration
	ResetRetention     time.Duration
	ResetSweepInterval time.Duration
	RequireLiveOTP     bool
	ResetStore         string

	MailBackend  string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	KafkaBrokers []string
	MailTopic    string
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// Secrets are read from the environment only.
type configFile struct {
	Service struct {
		ID          string `yaml:"id"`
		Environment string `yaml:"environment"`
		HTTPPort    int    `yaml:"http_port"`
		GRPCPort    int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL  string   `yaml:"postgres_url"`
		RedisURL     string   `yaml:"redis_url"`
		KafkaBrokers []string `yaml:"kafka_brokers"`
	} `yaml:"dependencies"`
	Security struct {
		BcryptCost    int    `yaml:"bcrypt_cost"`
		HashWorkers   int    `yaml:"hash_workers"`
		MinPassword   int    `yaml:"min_password_length"`
		TokenTTLHours int    `yaml:"token_ttl_hours"`
		JWTIssuer     string `yaml:"jwt_issuer"`
	} `yaml:"security"`
	Reset struct {
		OTPTTL         string `yaml:"otp_ttl"`
		Retention      string `yaml:"retention"`
		SweepInterval  string `yaml:"sweep_interval"`
		RequireLiveOTP *bool  `yaml:"require_live_otp"`
		Store          string `yaml:"store"`
	} `yaml:"reset"`
	Mail struct {
		Backend string `yaml:"backend"`
		Topic   string `yaml:"topic"`
		SMTP    struct {
			Host string `yaml:"host"`
			Port int    `yaml:"port"`
			From string `yaml:"from"`
		} `yaml:"smtp"`
	} `yaml:"mail"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// A missing file is not an error; a malformed one is.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:          "identity-service",
		Environment:        "production",
		HTTPPort:           8080,
		GRPCPort:           9090,
		MaxDBConns:         20,
		JWTIssuer:          "identity-service",
		TokenTTL:           24 * time.Hour,
		BcryptCost:         10,
		OTPTTL:             15 * time.Minute,
		ResetRetention:     time.Hour,
		ResetSweepInterval: 5 * time.Minute,
		ResetStore:         ResetStorePostgres,
		MailBackend:        MailBackendSMTP,
		SMTPPort:           587,
		MailTopic:          "notification.email.requested",
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err == nil {
			if err := applyFile(&cfg, raw); err != nil {
				return Config{}, err
			}
		}
	}

	cfg.Environment = strings.ToLower(envOrDefault("ENVIRONMENT", cfg.Environment))
	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.JWTSecret = envOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTIssuer = envOrDefault("JWT_ISSUER", cfg.JWTIssuer)
	cfg.ResetStore = strings.ToLower(strings.TrimSpace(envOrDefault("RESET_STORE", cfg.ResetStore)))
	cfg.RequireLiveOTP = envBool("RESET_REQUIRE_LIVE_OTP", cfg.RequireLiveOTP)
	cfg.MailBackend = strings.ToLower(strings.TrimSpace(envOrDefault("MAIL_BACKEND", cfg.MailBackend)))
	cfg.MailTopic = envOrDefault("MAIL_TOPIC", cfg.MailTopic)
	cfg.SMTPHost = envOrDefault("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPPort = envInt("SMTP_PORT", cfg.SMTPPort)
	cfg.SMTPUsername = envOrDefault("SMTP_USERNAME", cfg.SMTPUsername)
	cfg.SMTPPassword = envOrDefault("SMTP_PASSWORD", cfg.SMTPPassword)
	cfg.SMTPFrom = envOrDefault("SMTP_FROM", cfg.SMTPFrom)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)

	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.BcryptCost = envInt("BCRYPT_COST", cfg.BcryptCost)
	cfg.HashWorkers = envInt("HASH_WORKERS", cfg.HashWorkers)
	cfg.MinPasswordLength = envInt("MIN_PASSWORD_LENGTH", cfg.MinPasswordLength)
	cfg.TokenTTL = time.Duration(envInt("TOKEN_TTL_HOURS", int(cfg.TokenTTL.Hours()))) * time.Hour
	cfg.OTPTTL = envDuration("OTP_TTL", cfg.OTPTTL)
	cfg.ResetRetention = envDuration("RESET_RETENTION", cfg.ResetRetention)
	cfg.ResetSweepInterval = envDuration("RESET_SWEEP_INTERVAL", cfg.ResetSweepInterval)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, raw []byte) error {
	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if f.Service.ID != "" {
		cfg.ServiceID = f.Service.ID
	}
	if f.Service.Environment != "" {
		cfg.Environment = f.Service.Environment
	}
	if f.Service.HTTPPort > 0 {
		cfg.HTTPPort = f.Service.HTTPPort
	}
	if f.Service.GRPCPort > 0 {
		cfg.GRPCPort = f.Service.GRPCPort
	}
	if f.Dependencies.PostgresURL != "" {
		cfg.DatabaseURL = f.Dependencies.PostgresURL
	}
	if f.Dependencies.RedisURL != "" {
		cfg.RedisURL = f.Dependencies.RedisURL
	}
	if len(f.Dependencies.KafkaBrokers) > 0 {
		cfg.KafkaBrokers = f.Dependencies.KafkaBrokers
	}
	if f.Security.BcryptCost > 0 {
		cfg.BcryptCost = f.Security.BcryptCost
	}
	if f.Security.HashWorkers > 0 {
		cfg.HashWorkers = f.Security.HashWorkers
	}
	if f.Security.MinPassword > 0 {
		cfg.MinPasswordLength = f.Security.MinPassword
	}
	if f.Security.TokenTTLHours > 0 {
		cfg.TokenTTL = time.Duration(f.Security.TokenTTLHours) * time.Hour
	}
	if f.Security.JWTIssuer != "" {
		cfg.JWTIssuer = f.Security.JWTIssuer
	}
	for _, d := range []struct {
		raw string
		dst *time.Duration
		key string
	}{
		{f.Reset.OTPTTL, &cfg.OTPTTL, "reset.otp_ttl"},
		{f.Reset.Retention, &cfg.ResetRetention, "reset.retention"},
		{f.Reset.SweepInterval, &cfg.ResetSweepInterval, "reset.sweep_interval"},
	} {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("parse config file: %s: %w", d.key, err)
		}
		*d.dst = v
	}
	if f.Reset.RequireLiveOTP != nil {
		cfg.RequireLiveOTP = *f.Reset.RequireLiveOTP
	}
	if f.Reset.Store != "" {
		cfg.ResetStore = f.Reset.Store
	}
	if f.Mail.Backend != "" {
		cfg.MailBackend = f.Mail.Backend
	}
	if f.Mail.Topic != "" {
		cfg.MailTopic = f.Mail.Topic
	}
	if f.Mail.SMTP.Host != "" {
		cfg.SMTPHost = f.Mail.SMTP.Host
	}
	if f.Mail.SMTP.Port > 0 {
		cfg.SMTPPort = f.Mail.SMTP.Port
	}
	if f.Mail.SMTP.From != "" {
		cfg.SMTPFrom = f.Mail.SMTP.From
	}
	return nil
}

func (c Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("missing JWT_SECRET")
	}
	if len(c.JWTSecret) < minJWTSecretBytes {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", minJWTSecretBytes)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL_HOURS must be positive")
	}
	if c.OTPTTL <= 0 {
		return fmt.Errorf("OTP_TTL must be positive")
	}

	switch c.ResetStore {
	case ResetStorePostgres:
	case ResetStoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("missing REDIS_URL for RESET_STORE=redis")
		}
	default:
		return fmt.Errorf("unsupported RESET_STORE %q", c.ResetStore)
	}

	switch c.MailBackend {
	case MailBackendSMTP:
		if c.SMTPHost == "" {
			return fmt.Errorf("missing SMTP_HOST for MAIL_BACKEND=smtp")
		}
		if c.SMTPFrom == "" {
			return fmt.Errorf("missing SMTP_FROM for MAIL_BACKEND=smtp")
		}
	case MailBackendKafka:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("missing KAFKA_BROKERS for MAIL_BACKEND=kafka")
		}
	case MailBackendLog:
		if c.Environment != "development" {
			return fmt.Errorf("MAIL_BACKEND=log is only allowed when ENVIRONMENT=development")
		}
	default:
		return fmt.Errorf("unsupported MAIL_BACKEND %q", c.MailBackend)
	}
	return nil
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// envDuration accepts Go duration strings ("15m", "1h30m").
func envDuration(name string, fallback time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envBool(name string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(name)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return fallback
	}
}

// envCSV parses comma-separated env vars and removes empty segments.
func envCSV(name string, fallback []string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	if len(parts) == 0 {
		return fallback
	}
	return parts
}
