package security

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strconv"
)

const (
	otpMin = 100000
	otpMax = 999999
)

// DigitOTPGenerator produces six-digit codes uniformly over [100000, 999999].
type DigitOTPGenerator struct {
	source io.Reader
}

func NewDigitOTPGenerator() *DigitOTPGenerator {
	return &DigitOTPGenerator{source: rand.Reader}
}

func (g *DigitOTPGenerator) Generate() (string, error) {
	n, err := rand.Int(g.source, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}
