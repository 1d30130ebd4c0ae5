package domain

import (
	"crypto/subtle"
	"time"

	"github.com/google/uuid"
)

// ResetPhase is the per-principal password reset state machine:
// NONE -> OTP_ISSUED -> (VERIFIED | EXPIRED | NONE).
type ResetPhase string

const (
	ResetPhaseNone     ResetPhase = "NONE"
	ResetPhaseIssued   ResetPhase = "OTP_ISSUED"
	ResetPhaseVerified ResetPhase = "VERIFIED"
	ResetPhaseExpired  ResetPhase = "EXPIRED"
	ResetPhaseMismatch ResetPhase = "MISMATCH"
)

// ResetState is the live OTP for one principal. At most one exists per principal.
type ResetState struct {
	PrincipalID uuid.UUID `json:"principal_id"`
	OTP         string    `json:"otp"`
	ExpiresAt   time.Time `json:"expires_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Matches compares the submitted code in constant time.
func (s ResetState) Matches(code string) bool {
	return subtle.ConstantTimeCompare([]byte(s.OTP), []byte(code)) == 1
}

// ExpiredAt reports whether the OTP is no longer live at now.
// Expiry must be strictly in the future for the code to be accepted.
func (s ResetState) ExpiredAt(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// PhaseOf evaluates a submitted code against the stored state.
// The code is checked before expiry so a wrong code is always reported as such.
func PhaseOf(state *ResetState, code string, now time.Time) ResetPhase {
	switch {
	case state == nil:
		return ResetPhaseNone
	case !state.Matches(code):
		return ResetPhaseMismatch
	case state.ExpiredAt(now):
		return ResetPhaseExpired
	default:
		return ResetPhaseVerified
	}
}

// Err maps a checked phase to the error surfaced to callers.
func (p ResetPhase) Err() error {
	switch p {
	case ResetPhaseVerified:
		return nil
	case ResetPhaseNone:
		return ErrInvalidResetRequest
	case ResetPhaseMismatch:
		return ErrInvalidOTP
	case ResetPhaseExpired:
		return ErrOTPExpired
	default:
		return ErrInvalidResetRequest
	}
}
