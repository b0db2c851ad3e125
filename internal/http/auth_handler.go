package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Raj-3200/depthndecoy/internal/auth"
)

type AuthHandler struct {
	auth    *auth.Service
	timeout time.Duration
}

func NewAuthHandler(svc *auth.Service, timeout time.Duration) *AuthHandler {
	return &AuthHandler{auth: svc, timeout: timeout}
}

type SignUpRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

type SignInRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleSignInRequestDTO struct {
	IDToken string `json:"id_token"`
}

type PhoneStartRequestDTO struct {
	Phone string `json:"phone"`
}

type PhoneVerifyRequestDTO struct {
	VerificationID string `json:"verification_id"`
	OTP            string `json:"otp"`
}

type ResetPasswordRequestDTO struct {
	Email string `json:"email"`
}

type SessionResponseDTO struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

func sessionResponse(cred *auth.Credential) SessionResponseDTO {
	return SessionResponseDTO{
		Token:    cred.Token,
		UserID:   cred.User.ID,
		Email:    cred.User.Email,
		FullName: cred.User.FullName,
	}
}

// POST /api/v1/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SignUpRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	_, err := h.auth.SignUp(ctx, req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			respondError(w, http.StatusConflict, "email_taken", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to sign up")
		return
	}

	// No session yet: the customer confirms their email first.
	respondJSON(w, http.StatusCreated, map[string]string{
		"message": "Check your email to confirm your account",
	})
}

// POST /api/v1/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SignInRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	cred, err := h.auth.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidLogin):
			respondError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
		case errors.Is(err, auth.ErrEmailNotConfirmed):
			respondError(w, http.StatusForbidden, "email_not_confirmed", err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to sign in")
		}
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse(cred))
}

// POST /api/v1/auth/google
func (h *AuthHandler) SignInWithGoogle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req GoogleSignInRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	cred, err := h.auth.SignInWithGoogle(ctx, req.IDToken)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to sign in with Google")
		return
	}
	// A dismissed consent screen is not an error, just no session.
	if cred == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse(cred))
}

// POST /api/v1/auth/phone/start
func (h *AuthHandler) StartPhoneSignIn(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req PhoneStartRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Phone == "" {
		respondError(w, http.StatusBadRequest, "invalid_phone", "phone is required")
		return
	}

	verificationID, err := h.auth.StartPhoneSignIn(ctx, req.Phone)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to send OTP")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"verification_id": verificationID})
}

// POST /api/v1/auth/phone/verify
func (h *AuthHandler) VerifyPhoneSignIn(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req PhoneVerifyRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	cred, err := h.auth.ConfirmPhoneSignIn(ctx, req.VerificationID, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidOTP):
			respondError(w, http.StatusUnauthorized, "invalid_otp", err.Error())
		case errors.Is(err, auth.ErrNoOTPRequest):
			respondError(w, http.StatusBadRequest, "no_otp_request", err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to verify OTP")
		}
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse(cred))
}

// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ResetPasswordRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}

	if err := h.auth.ResetPassword(ctx, req.Email); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to send reset email")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "If an account exists for that email, a reset link has been sent",
	})
}

// POST /api/v1/auth/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := h.auth.SignOut(ctx, token); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to sign out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
