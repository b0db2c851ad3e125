package auth

import (
	"context"
	"errors"
)

// User is the identity record held by the hosted auth provider.
type User struct {
	ID            string
	Email         string
	FullName      string
	AvatarURL     string
	Phone         string
	EmailVerified bool
}

// Credential is a signed-in session: the user plus a bearer token the
// client presents on subsequent requests.
type Credential struct {
	User  *User
	Token string
}

// Provider error codes. The service layer maps these to the messages
// shown to customers; handlers never see raw provider errors.
var (
	ErrUserNotFound       = errors.New("auth: user not found")
	ErrWrongPassword      = errors.New("auth: wrong password")
	ErrInvalidCredential  = errors.New("auth: invalid credential")
	ErrEmailAlreadyInUse  = errors.New("auth: email already in use")
	ErrFlowCancelled      = errors.New("auth: sign-in flow cancelled")
	ErrInvalidOTPCode     = errors.New("auth: invalid verification code")
	ErrInvalidToken       = errors.New("auth: invalid token")
	ErrVerificationExpiry = errors.New("auth: verification expired")
)

// Provider abstracts the hosted identity service.
type Provider interface {
	CreateUser(ctx context.Context, email, password, fullName string) (*User, error)
	SignInPassword(ctx context.Context, email, password string) (*Credential, error)

	// ExchangeGoogleToken trades a Google ID token for a session. A user
	// who dismissed the consent screen surfaces as ErrFlowCancelled.
	ExchangeGoogleToken(ctx context.Context, idToken string) (*Credential, error)

	// StartPhoneSignIn sends an OTP and returns a verification id the
	// confirm call must echo back.
	StartPhoneSignIn(ctx context.Context, phone string) (string, error)
	ConfirmPhoneSignIn(ctx context.Context, verificationID, otp string) (*Credential, error)

	SendEmailVerification(ctx context.Context, userID string) error
	SendPasswordReset(ctx context.Context, email string) error
	RevokeToken(ctx context.Context, token string) error
	VerifyToken(ctx context.Context, token string) (*User, error)
}
