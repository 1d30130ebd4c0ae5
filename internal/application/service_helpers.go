package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/thermotrap/identity-service/internal/domain"
)

const serviceName = "identity-service"

// normalizeEmail canonicalizes email for lookups; partitions compare case-insensitively.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// internalError hides the cause behind domain.ErrInternal while keeping it for logs.
func internalError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrInternal, op, err)
}

func logOperation(ctx context.Context, level slog.Level, msg, operation, outcome string, fields ...any) {
	base := []any{
		"service", serviceName,
		"module", "application",
		"layer", "application",
		"operation", operation,
		"outcome", outcome,
	}
	slog.Default().Log(ctx, level, msg, append(base, fields...)...)
}
