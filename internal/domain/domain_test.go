package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		password  string
		minLength int
		wantError bool
	}{
		{name: "valid", password: "secret1", minLength: 0},
		{name: "empty", password: "", wantError: true},
		{name: "short without minimum", password: "abc"},
		{name: "below configured minimum", password: "abc", minLength: 6, wantError: true},
		{name: "custom minimum", password: "secret1", minLength: 10, wantError: true},
		{name: "over bcrypt limit", password: strings.Repeat("a", 73), wantError: true},
		{name: "at bcrypt limit", password: strings.Repeat("a", 72)},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePassword(tc.password, tc.minLength)
			if tc.wantError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPhaseOf(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	state := &ResetState{
		PrincipalID: uuid.New(),
		OTP:         "123456",
		ExpiresAt:   now.Add(15 * time.Minute),
	}

	assert.Equal(t, ResetPhaseNone, PhaseOf(nil, "123456", now))
	assert.Equal(t, ResetPhaseVerified, PhaseOf(state, "123456", now))
	assert.Equal(t, ResetPhaseMismatch, PhaseOf(state, "654321", now))
	assert.Equal(t, ResetPhaseExpired, PhaseOf(state, "123456", now.Add(20*time.Minute)))
	// expiry equal to now is already expired
	assert.Equal(t, ResetPhaseExpired, PhaseOf(state, "123456", state.ExpiresAt))

	assert.ErrorIs(t, ResetPhaseNone.Err(), ErrInvalidResetRequest)
	assert.ErrorIs(t, ResetPhaseMismatch.Err(), ErrInvalidOTP)
	assert.ErrorIs(t, ResetPhaseExpired.Err(), ErrOTPExpired)
	assert.NoError(t, ResetPhaseVerified.Err())
}

func TestPrincipalPublicOmitsHash(t *testing.T) {
	t.Parallel()

	p := Principal{ID: uuid.New(), Email: "a@b.com", PasswordHash: "hash", DisplayName: "Ada", Role: RoleAdmin}
	pub := p.Public()
	assert.Equal(t, p.ID, pub.ID)
	assert.Equal(t, "Ada", pub.Name)
	assert.Equal(t, RoleAdmin, pub.Role)
}

func TestValidationErrorUnwrapsToInvalidInput(t *testing.T) {
	t.Parallel()

	err := NewValidationError("Email is required")
	assert.ErrorIs(t, err, ErrInvalidInput)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Email is required", verr.Message)
}
