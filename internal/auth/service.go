package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Raj-3200/depthndecoy/internal/domain"
	"github.com/Raj-3200/depthndecoy/internal/repository"
	"go.uber.org/zap"
)

// Customer-facing errors. Handlers return these messages verbatim.
var (
	ErrInvalidLogin      = errors.New("Invalid login credentials")
	ErrEmailNotConfirmed = errors.New("Email not confirmed")
	ErrInvalidOTP        = errors.New("Invalid OTP code. Please try again.")
	ErrNoOTPRequest      = errors.New("No OTP request found. Please request a new code.")
	ErrEmailTaken        = errors.New("An account with this email already exists")
)

type Service struct {
	provider Provider
	profiles repository.ProfileRepository
	log      *zap.Logger
}

func NewService(provider Provider, profiles repository.ProfileRepository, log *zap.Logger) *Service {
	return &Service{provider: provider, profiles: profiles, log: log}
}

// SignUp registers a new account. The user must confirm their email
// before they can sign in, so no credential is returned here.
func (s *Service) SignUp(ctx context.Context, email, password, fullName string) (*User, error) {
	user, err := s.provider.CreateUser(ctx, email, password, fullName)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyInUse) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.provider.SendEmailVerification(ctx, user.ID); err != nil {
		s.log.Warn("verification email not sent",
			zap.String("user_id", user.ID),
			zap.Error(err))
	}

	if err := s.ensureProfile(ctx, user); err != nil {
		s.log.Warn("profile not created at sign-up",
			zap.String("user_id", user.ID),
			zap.Error(err))
	}

	return user, nil
}

// SignIn authenticates with email and password. An unverified email
// gets a fresh verification mail and ErrEmailNotConfirmed; wrong
// password and unknown user collapse into one message so the response
// does not reveal which accounts exist.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Credential, error) {
	cred, err := s.provider.SignInPassword(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrWrongPassword) || errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrInvalidCredential) {
			return nil, ErrInvalidLogin
		}
		return nil, fmt.Errorf("password sign-in: %w", err)
	}

	if !cred.User.EmailVerified {
		if err := s.provider.SendEmailVerification(ctx, cred.User.ID); err != nil {
			s.log.Warn("verification email not resent",
				zap.String("user_id", cred.User.ID),
				zap.Error(err))
		}
		if err := s.provider.RevokeToken(ctx, cred.Token); err != nil {
			s.log.Warn("token not revoked for unverified user", zap.Error(err))
		}
		return nil, ErrEmailNotConfirmed
	}

	return cred, nil
}

// SignInWithGoogle exchanges a Google ID token for a session. A
// cancelled consent flow returns (nil, nil): the customer changed
// their mind, nothing went wrong.
func (s *Service) SignInWithGoogle(ctx context.Context, idToken string) (*Credential, error) {
	cred, err := s.provider.ExchangeGoogleToken(ctx, idToken)
	if err != nil {
		if errors.Is(err, ErrFlowCancelled) {
			return nil, nil
		}
		return nil, fmt.Errorf("google sign-in: %w", err)
	}

	if err := s.ensureProfile(ctx, cred.User); err != nil {
		s.log.Warn("profile not created at google sign-in",
			zap.String("user_id", cred.User.ID),
			zap.Error(err))
	}
	return cred, nil
}

// StartPhoneSignIn sends an OTP to the phone number and returns the
// verification id to echo back on confirm.
func (s *Service) StartPhoneSignIn(ctx context.Context, phone string) (string, error) {
	verificationID, err := s.provider.StartPhoneSignIn(ctx, phone)
	if err != nil {
		return "", fmt.Errorf("start phone sign-in: %w", err)
	}
	return verificationID, nil
}

func (s *Service) ConfirmPhoneSignIn(ctx context.Context, verificationID, otp string) (*Credential, error) {
	if verificationID == "" {
		return nil, ErrNoOTPRequest
	}

	cred, err := s.provider.ConfirmPhoneSignIn(ctx, verificationID, otp)
	if err != nil {
		if errors.Is(err, ErrInvalidOTPCode) {
			return nil, ErrInvalidOTP
		}
		if errors.Is(err, ErrVerificationExpiry) {
			return nil, ErrNoOTPRequest
		}
		return nil, fmt.Errorf("confirm phone sign-in: %w", err)
	}

	if err := s.ensureProfile(ctx, cred.User); err != nil {
		s.log.Warn("profile not created at phone sign-in",
			zap.String("user_id", cred.User.ID),
			zap.Error(err))
	}
	return cred, nil
}

func (s *Service) ResetPassword(ctx context.Context, email string) error {
	if err := s.provider.SendPasswordReset(ctx, email); err != nil {
		return fmt.Errorf("send password reset: %w", err)
	}
	return nil
}

func (s *Service) SignOut(ctx context.Context, token string) error {
	return s.provider.RevokeToken(ctx, token)
}

// VerifyToken resolves a bearer token to the authenticated user.
func (s *Service) VerifyToken(ctx context.Context, token string) (*User, error) {
	return s.provider.VerifyToken(ctx, token)
}

func (s *Service) ensureProfile(ctx context.Context, user *User) error {
	now := time.Now().UTC()
	return s.profiles.Ensure(ctx, &domain.Profile{
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		AvatarURL: user.AvatarURL,
		Phone:     user.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	})
}
