package identity

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrTokenNotStored is returned by Storage.Load when no token has been persisted yet.
var ErrTokenNotStored = errors.New("identity: no stored token")

// Storage abstracts the durable client-side location of the session token.
// Implementations must return ErrTokenNotStored for an empty store and any
// other error when the store itself is unreachable.
type Storage interface {
	Load() (string, error)
	Save(token string) error
}

// ProviderConfig describes the dependencies of the identity provider.
type ProviderConfig struct {
	Storage Storage
	Mint    func() (string, error)
	Logger  *zap.Logger
}

// Provider hands out the durable pseudo-identity of an anonymous visitor.
// The first call mints and persists a fresh token; later calls return the
// stored token unchanged. When storage is unavailable the provider degrades
// to PlaceholderToken for the lifetime of this provider, which means no
// persistence at all: every new provider acts as a new visitor.
type Provider struct {
	mu       sync.Mutex
	storage  Storage
	mint     func() (string, error)
	logger   *zap.Logger
	degraded bool
}

// NewProvider constructs a Provider with the given storage adapter.
func NewProvider(cfg ProviderConfig) (*Provider, error) {
	if cfg.Storage == nil {
		return nil, fmt.Errorf("identity: storage adapter required")
	}
	mint := cfg.Mint
	if mint == nil {
		mint = func() (string, error) {
			return uuid.NewString(), nil
		}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		storage: cfg.Storage,
		mint:    mint,
		logger:  logger,
	}, nil
}

// GetOrCreate returns the stored session token, minting and persisting a new
// one when none exists. Storage failures do not surface as errors: the
// provider logs them and falls back to the placeholder identity.
func (p *Provider) GetOrCreate() (Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	stored, err := p.storage.Load()
	if err == nil {
		token, tokenErr := NewToken(stored)
		if tokenErr == nil {
			return token, nil
		}
		p.logger.Warn("stored session token invalid, minting replacement", zap.Error(tokenErr))
	} else if !errors.Is(err, ErrTokenNotStored) {
		return p.fallback(err), nil
	}

	minted, err := p.mint()
	if err != nil {
		return "", fmt.Errorf("identity: minting token: %w", err)
	}
	token, err := NewToken(minted)
	if err != nil {
		return "", err
	}
	if err := p.storage.Save(token.String()); err != nil {
		return p.fallback(err), nil
	}
	p.degraded = false
	return token, nil
}

// Degraded reports whether the provider has fallen back to the placeholder identity.
func (p *Provider) Degraded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.degraded
}

func (p *Provider) fallback(cause error) Token {
	if !p.degraded {
		p.logger.Warn("session storage unavailable, using placeholder identity", zap.Error(cause))
	}
	p.degraded = true
	return Token(PlaceholderToken)
}
