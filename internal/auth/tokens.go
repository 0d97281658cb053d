package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 24 * time.Hour

var (
	errMissingSigningSecret = errors.New("signing secret must be provided")
	// ErrInvalidToken indicates a token that failed signature or claim checks.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrExpiredToken indicates a token past its expiry.
	ErrExpiredToken = errors.New("auth: token expired")
)

// TokenIssuerConfig configures the account session JWT issuer.
type TokenIssuerConfig struct {
	SigningSecret []byte
	Issuer        string
	Audience      string
	TokenTTL      time.Duration
	Clock         func() time.Time
}

// TokenIssuer issues and validates HS256 session tokens for authenticated
// accounts. The subject claim carries the account id.
type TokenIssuer struct {
	config TokenIssuerConfig
	clock  func() time.Time
}

// NewTokenIssuer constructs a TokenIssuer with sane defaults.
func NewTokenIssuer(cfg TokenIssuerConfig) *TokenIssuer {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &TokenIssuer{
		config: TokenIssuerConfig{
			SigningSecret: append([]byte(nil), cfg.SigningSecret...),
			Issuer:        cfg.Issuer,
			Audience:      cfg.Audience,
			TokenTTL:      ttl,
			Clock:         clock,
		},
		clock: clock,
	}
}

// IssueAccountToken produces a signed JWT and its expiry in seconds for the account.
func (i *TokenIssuer) IssueAccountToken(_ context.Context, account Account) (string, int64, error) {
	if len(i.config.SigningSecret) == 0 {
		return "", 0, errMissingSigningSecret
	}
	if strings.TrimSpace(account.ID) == "" {
		return "", 0, ErrInvalidCredentials
	}

	now := i.clock().UTC()
	expiry := now.Add(i.config.TokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   account.ID,
		Issuer:    i.config.Issuer,
		Audience:  jwt.ClaimStrings{i.config.Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.config.SigningSecret)
	if err != nil {
		return "", 0, err
	}
	return signed, int64(i.config.TokenTTL.Seconds()), nil
}

// ValidateToken checks the token signature and claims and returns the account id.
func (i *TokenIssuer) ValidateToken(tokenString string) (string, error) {
	trimmed := strings.TrimSpace(tokenString)
	if trimmed == "" {
		return "", ErrInvalidToken
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(
		trimmed,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("%w: unexpected signing algorithm %s", ErrInvalidToken, t.Method.Alg())
			}
			return i.config.SigningSecret, nil
		},
		jwt.WithTimeFunc(i.clock),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.config.Issuer),
		jwt.WithAudience(i.config.Audience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if parsed == nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", ErrInvalidToken
	}
	return subject, nil
}
