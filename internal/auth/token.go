package auth

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenConfig holds the process-wide signing configuration. The key and
// algorithm are immutable after startup.
type TokenConfig struct {
	Secret []byte
	Method jwt.SigningMethod
	TTL    time.Duration
}

// TokenConfigFromEnv reads signing config from environment variables.
// SECRET_KEY is required. ALGORITHM defaults to HS256 and must name an HMAC
// method. ACCESS_TOKEN_EXPIRE_MINUTES defaults to 15.
func TokenConfigFromEnv() (TokenConfig, error) {
	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		return TokenConfig{}, errors.New("SECRET_KEY is required")
	}

	alg := os.Getenv("ALGORITHM")
	if alg == "" {
		alg = "HS256"
	}
	var method jwt.SigningMethod
	switch alg {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return TokenConfig{}, fmt.Errorf("unsupported signing algorithm %q", alg)
	}

	minutes := 15
	if v := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return TokenConfig{}, fmt.Errorf("invalid ACCESS_TOKEN_EXPIRE_MINUTES %q", v)
		}
		minutes = n
	}

	return TokenConfig{
		Secret: []byte(secret),
		Method: method,
		TTL:    time.Duration(minutes) * time.Minute,
	}, nil
}

// TokenIssuer mints and verifies stateless bearer tokens. Tokens carry only
// a subject and expiry; nothing is persisted.
type TokenIssuer struct {
	cfg TokenConfig
}

func NewTokenIssuer(cfg TokenConfig) *TokenIssuer { return &TokenIssuer{cfg: cfg} }

// Issue signs a token asserting the given subject, expiring after the
// configured lifetime.
func (t *TokenIssuer) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": now.Add(t.cfg.TTL).Unix(),
		"iat": now.Unix(),
	}
	tok := jwt.NewWithClaims(t.cfg.Method, claims)
	signed, err := tok.SignedString(t.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry, pinning the configured signing method,
// and returns the subject claim. A missing subject is an error.
func (t *TokenIssuer) Verify(raw string) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (any, error) {
		if tok.Method.Alg() != t.cfg.Method.Alg() {
			return nil, fmt.Errorf("unexpected signing method %s", tok.Method.Alg())
		}
		return t.cfg.Secret, nil
	})
	if err != nil {
		return "", err
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("missing sub claim")
	}
	return sub, nil
}
