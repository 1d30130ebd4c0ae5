package http

import (
	"net/http"

	"github.com/thermotrap/identity-service/internal/application"
)

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req application.ForgotPasswordRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBodyError(r.Context(), w, "forgot_password", err)
		return
	}
	res, err := h.service.ForgotPassword(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "forgot_password", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "OTP sent to your email",
		"email":   res.Email,
	})
}

func (h *Handler) confirmOTP(w http.ResponseWriter, r *http.Request) {
	var req application.ConfirmOTPRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBodyError(r.Context(), w, "confirm_otp", err)
		return
	}
	res, err := h.service.ConfirmOTP(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "confirm_otp", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "OTP verified successfully",
		"email":   res.Email,
	})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req application.ResetPasswordRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBodyError(r.Context(), w, "reset_password", err)
		return
	}
	if err := h.service.ResetPassword(r.Context(), req); err != nil {
		writeMappedError(r.Context(), w, "reset_password", err)
		return
	}
	writeMessage(w, http.StatusOK, "Password reset successful")
}
