package auth

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryProvider is an in-process identity service for development and
// tests. Production deployments plug a hosted provider into the same
// interface.
type MemoryProvider struct {
	mu            sync.Mutex
	users         map[string]*User // by id
	byEmail       map[string]string
	byPhone       map[string]string
	passwords     map[string]string
	tokens        map[string]string // token -> user id
	verifications map[string]phoneVerification
}

type phoneVerification struct {
	phone string
	code  string
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		users:         make(map[string]*User),
		byEmail:       make(map[string]string),
		byPhone:       make(map[string]string),
		passwords:     make(map[string]string),
		tokens:        make(map[string]string),
		verifications: make(map[string]phoneVerification),
	}
}

func (p *MemoryProvider) CreateUser(_ context.Context, email, password, fullName string) (*User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := strings.ToLower(email)
	if _, exists := p.byEmail[key]; exists {
		return nil, ErrEmailAlreadyInUse
	}

	user := &User{
		ID:       uuid.NewString(),
		Email:    email,
		FullName: fullName,
	}
	p.users[user.ID] = user
	p.byEmail[key] = user.ID
	p.passwords[user.ID] = password
	return user, nil
}

func (p *MemoryProvider) SignInPassword(_ context.Context, email, password string) (*Credential, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id, ok := p.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	if p.passwords[id] != password {
		return nil, ErrWrongPassword
	}
	return p.issueLocked(id), nil
}

// ExchangeGoogleToken treats the token as a verified email assertion,
// creating the account on first sign-in. An empty token is the client
// reporting a dismissed consent screen.
func (p *MemoryProvider) ExchangeGoogleToken(_ context.Context, idToken string) (*Credential, error) {
	if idToken == "" {
		return nil, ErrFlowCancelled
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	email := strings.ToLower(idToken)
	id, ok := p.byEmail[email]
	if !ok {
		user := &User{
			ID:            uuid.NewString(),
			Email:         email,
			EmailVerified: true,
		}
		p.users[user.ID] = user
		p.byEmail[email] = user.ID
		id = user.ID
	}
	p.users[id].EmailVerified = true
	return p.issueLocked(id), nil
}

func (p *MemoryProvider) StartPhoneSignIn(_ context.Context, phone string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	verificationID := uuid.NewString()
	p.verifications[verificationID] = phoneVerification{
		phone: phone,
		code:  fmt.Sprintf("%06d", rand.Intn(1000000)),
	}
	return verificationID, nil
}

func (p *MemoryProvider) ConfirmPhoneSignIn(_ context.Context, verificationID, otp string) (*Credential, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	verification, ok := p.verifications[verificationID]
	if !ok {
		return nil, ErrVerificationExpiry
	}
	if verification.code != otp {
		return nil, ErrInvalidOTPCode
	}
	delete(p.verifications, verificationID)

	id, ok := p.byPhone[verification.phone]
	if !ok {
		user := &User{
			ID:    uuid.NewString(),
			Phone: verification.phone,
			// Phone-verified accounts have no email to confirm.
			EmailVerified: true,
		}
		p.users[user.ID] = user
		p.byPhone[verification.phone] = user.ID
		id = user.ID
	}
	return p.issueLocked(id), nil
}

func (p *MemoryProvider) SendEmailVerification(_ context.Context, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.users[userID]; !ok {
		return ErrUserNotFound
	}
	return nil
}

func (p *MemoryProvider) SendPasswordReset(_ context.Context, email string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	// Resets for unknown addresses are swallowed so the endpoint does
	// not reveal which accounts exist.
	return nil
}

func (p *MemoryProvider) RevokeToken(_ context.Context, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.tokens, token)
	return nil
}

func (p *MemoryProvider) VerifyToken(_ context.Context, token string) (*User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id, ok := p.tokens[token]
	if !ok {
		return nil, ErrInvalidToken
	}
	user := *p.users[id]
	return &user, nil
}

// MarkEmailVerified simulates the customer clicking the link in the
// verification mail.
func (p *MemoryProvider) MarkEmailVerified(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if user, ok := p.users[userID]; ok {
		user.EmailVerified = true
	}
}

// PendingOTP exposes the code for a verification id so development
// clients can complete the flow without an SMS gateway.
func (p *MemoryProvider) PendingOTP(verificationID string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	verification, ok := p.verifications[verificationID]
	return verification.code, ok
}

func (p *MemoryProvider) issueLocked(userID string) *Credential {
	token := uuid.NewString()
	p.tokens[token] = userID
	user := *p.users[userID]
	return &Credential{User: &user, Token: token}
}
