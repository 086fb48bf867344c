package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/ovaphlow/pitchfork/service-game-store-go/internal/auth/entity"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInactiveAccount    = errors.New("inactive account")
)

// CredentialStore is the read surface the auth service needs from storage.
// The sqlx-backed repo satisfies it; tests use an in-memory fake.
type CredentialStore interface {
	GetByUsername(ctx context.Context, username string) (*entity.Credential, error)
}

// PasswordHasher defines minimal hashing interface (abstract so we can swap
// to argon2 later).
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(hash, pw string) bool
}

// BcryptHasher implementation.
type BcryptHasher struct{ Cost int }

// BcryptCostFromEnv reads BCRYPT_COST, defaulting to bcrypt.DefaultCost.
func BcryptCostFromEnv() int {
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= bcrypt.MinCost && n <= bcrypt.MaxCost {
			return n
		}
	}
	return bcrypt.DefaultCost
}

func (b BcryptHasher) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b BcryptHasher) Verify(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// Service composes the credential store, password hasher, and token issuer
// to implement login and per-request identity resolution.
type Service struct {
	store  CredentialStore
	hasher PasswordHasher
	tokens *TokenIssuer
}

func NewService(store CredentialStore, hasher PasswordHasher, tokens *TokenIssuer) *Service {
	if hasher == nil {
		hasher = BcryptHasher{Cost: BcryptCostFromEnv()}
	}
	return &Service{store: store, hasher: hasher, tokens: tokens}
}

// Login verifies the username/password pair and returns a signed bearer
// token. Unknown users and wrong passwords yield the same error so account
// existence cannot be probed.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}
	cred, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup credential: %w", err)
	}
	if !s.hasher.Verify(cred.HashedPassword, password) {
		return "", ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(cred.Username)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// ResolveIdentity verifies a bearer token and loads the user it names.
// A token for an unknown user is indistinguishable from a malformed one.
func (s *Service) ResolveIdentity(ctx context.Context, token string) (*entity.User, error) {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	cred, err := s.store.GetByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("lookup credential: %w", err)
	}
	if err := cred.Validate(); err != nil {
		return nil, fmt.Errorf("credential record: %w", err)
	}
	user := cred.User
	return &user, nil
}

// RequireActive gates endpoints that need an active session on top of
// ResolveIdentity.
func (s *Service) RequireActive(user *entity.User) (*entity.User, error) {
	if user.Disabled != nil && *user.Disabled {
		return nil, ErrInactiveAccount
	}
	return user, nil
}
