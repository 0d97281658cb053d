// Package actor defines the generalized owner of an interaction: either an
// anonymous session token or an authenticated account. Both keying modes
// share the same storage column so the interaction tables never need to know
// which mode produced a row.
package actor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Matransformation/decouvrir-le-pays-basque/internal/identity"
)

// Kind discriminates the two keying modes.
type Kind string

const (
	// KindAnonymous marks a key backed by a client-held session token.
	KindAnonymous Kind = "anon"
	// KindAccount marks a key backed by an authenticated account id.
	KindAccount Kind = "acct"
)

// ErrInvalidKey indicates a malformed actor key.
var ErrInvalidKey = errors.New("actor: invalid key")

// Key identifies the owner of a rating, comment, favorite or profile.
type Key struct {
	kind  Kind
	value string
}

// Anonymous builds a key from a session token.
func Anonymous(token identity.Token) Key {
	return Key{kind: KindAnonymous, value: token.String()}
}

// Account builds a key from an authenticated account id.
func Account(accountID string) Key {
	return Key{kind: KindAccount, value: strings.TrimSpace(accountID)}
}

// ParseKey reverses String.
func ParseKey(raw string) (Key, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 || parts[1] == "" {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, raw)
	}
	switch Kind(parts[0]) {
	case KindAnonymous:
		return Key{kind: KindAnonymous, value: parts[1]}, nil
	case KindAccount:
		return Key{kind: KindAccount, value: parts[1]}, nil
	default:
		return Key{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidKey, parts[0])
	}
}

// String returns the storage column form, e.g. "anon:3f1c..." or "acct:42".
func (k Key) String() string {
	return string(k.kind) + ":" + k.value
}

// Kind exposes the keying mode.
func (k Key) Kind() Kind {
	return k.kind
}

// Value exposes the raw token or account id.
func (k Key) Value() string {
	return k.value
}

// IsAccount reports whether the key references an authenticated account.
func (k Key) IsAccount() bool {
	return k.kind == KindAccount
}

// IsZero reports whether the key is unset.
func (k Key) IsZero() bool {
	return k.value == ""
}

// IsPlaceholderSession reports whether the key is the degraded-mode identity,
// i.e. a visitor whose client storage was unavailable.
func (k Key) IsPlaceholderSession() bool {
	return k.kind == KindAnonymous && identity.Token(k.value).IsPlaceholder()
}
