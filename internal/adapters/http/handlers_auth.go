package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/thermotrap/identity-service/internal/application"
	"github.com/thermotrap/identity-service/internal/domain"
)

type loginUserBody struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type loginAdminBody struct {
	ID    uuid.UUID   `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  domain.Role `json:"role"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req application.LoginRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBodyError(r.Context(), w, "login", err)
		return
	}

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "login", err)
		return
	}

	// Admin and user clients parse different bodies; both shapes are kept.
	if res.Variant == application.LoginVariantAdmin {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Login successful",
			"token":   res.Token,
			"user": loginAdminBody{
				ID:    res.Principal.ID,
				Email: res.Principal.Email,
				Name:  res.Principal.Name,
				Role:  domain.RoleAdmin,
			},
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   res.Token,
		"user": loginUserBody{
			ID:    res.Principal.ID,
			Email: res.Principal.Email,
		},
	})
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMappedError(r.Context(), w, "change_password", domain.ErrUnauthenticated)
		return
	}
	var req application.ChangePasswordRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBodyError(r.Context(), w, "change_password", err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), claims.SubjectID, req); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			logHTTPOperationError(r.Context(), "change_password", http.StatusUnauthorized, "INVALID_CREDENTIALS", err)
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Current password is incorrect")
			return
		}
		writeMappedError(r.Context(), w, "change_password", err)
		return
	}
	writeMessage(w, http.StatusOK, "Password changed successfully")
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMappedError(r.Context(), w, "me", domain.ErrUnauthenticated)
		return
	}
	principal, err := h.service.CurrentPrincipal(r.Context(), claims.SubjectID)
	if err != nil {
		writeMappedError(r.Context(), w, "me", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "User fetched successfully",
		"user":    principal,
	})
}
