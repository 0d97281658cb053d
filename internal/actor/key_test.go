package actor

import (
	"errors"
	"testing"

	"github.com/Matransformation/decouvrir-le-pays-basque/internal/identity"
)

func TestKeyRoundTrip(t *testing.T) {
	anonymous := Anonymous(identity.Token("3f1c9d2e"))
	if anonymous.String() != "anon:3f1c9d2e" {
		t.Fatalf("unexpected anonymous form: %q", anonymous.String())
	}
	parsed, err := ParseKey(anonymous.String())
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed != anonymous {
		t.Fatalf("round trip mismatch: %#v vs %#v", parsed, anonymous)
	}

	account := Account("42")
	if account.String() != "acct:42" {
		t.Fatalf("unexpected account form: %q", account.String())
	}
	if !account.IsAccount() {
		t.Fatalf("account key should report IsAccount")
	}
	if anonymous.IsAccount() {
		t.Fatalf("anonymous key should not report IsAccount")
	}
}

func TestParseKeyRejectsMalformedInput(t *testing.T) {
	for _, raw := range []string{"", "anon:", "noseparator", "other:abc"} {
		if _, err := ParseKey(raw); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("expected ErrInvalidKey for %q, got %v", raw, err)
		}
	}
}

func TestPlaceholderSessionDetection(t *testing.T) {
	placeholder := Anonymous(identity.Token(identity.PlaceholderToken))
	if !placeholder.IsPlaceholderSession() {
		t.Fatalf("expected placeholder detection")
	}
	real := Anonymous(identity.Token("stable-token"))
	if real.IsPlaceholderSession() {
		t.Fatalf("real token misdetected as placeholder")
	}
	account := Account(identity.PlaceholderToken)
	if account.IsPlaceholderSession() {
		t.Fatalf("account keys are never placeholder sessions")
	}
}
