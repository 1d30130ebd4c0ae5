package application

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/thermotrap/identity-service/internal/ports"
)

const resetMailSubject = "Password Reset OTP"

var resetMailTemplate = template.Must(template.New("reset").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Password Reset Request</h2>
  <p>You have requested to reset your password. Use the following OTP to proceed:</p>
  <div style="background-color: #f4f4f4; padding: 15px; text-align: center; font-size: 24px; font-weight: bold; letter-spacing: 5px;">
    {{.OTP}}
  </div>
  <p>This OTP will expire in {{.Minutes}} minutes.</p>
  <p>If you didn't request this, please ignore this email.</p>
</div>
`))

func resetMailMessage(to, otp string, ttl time.Duration) (ports.MailMessage, error) {
	var body bytes.Buffer
	if err := resetMailTemplate.Execute(&body, struct {
		OTP     string
		Minutes int
	}{OTP: otp, Minutes: int(ttl.Minutes())}); err != nil {
		return ports.MailMessage{}, fmt.Errorf("render reset mail: %w", err)
	}
	return ports.MailMessage{
		To:       to,
		Subject:  resetMailSubject,
		HTMLBody: body.String(),
	}, nil
}
