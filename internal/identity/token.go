package identity

import (
	"errors"
	"fmt"
	"strings"
)

const maxTokenLength = 190

// PlaceholderToken is the constant identity handed out when durable storage
// is unavailable. It carries no persistence guarantee: every page load that
// falls back to it behaves as a brand new visitor.
const PlaceholderToken = "anonymous-visitor"

// ErrInvalidToken indicates that a session token is empty or exceeds storage bounds.
var ErrInvalidToken = errors.New("identity: invalid session token")

// Token represents a validated opaque session token held by one browser or device.
type Token string

// NewToken validates raw input and returns a Token.
func NewToken(rawInput string) (Token, error) {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidToken)
	}
	if len(trimmed) > maxTokenLength {
		return "", fmt.Errorf("%w: exceeds %d characters", ErrInvalidToken, maxTokenLength)
	}
	return Token(trimmed), nil
}

// String returns the underlying token value.
func (t Token) String() string {
	return string(t)
}

// IsPlaceholder reports whether the token is the degraded-mode placeholder.
func (t Token) IsPlaceholder() bool {
	return string(t) == PlaceholderToken
}
