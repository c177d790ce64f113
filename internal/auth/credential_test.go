package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestCredentialRoundTrip(t *testing.T) {
	codec := NewCodec("test-secret")
	cred := Credential{UserID: "u-1", Username: "alice", Avatar: "/a.png"}

	value, err := codec.Issue(cred)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	got, err := codec.Verify(value)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got != cred {
		t.Fatalf("Verify = %+v, want %+v", got, cred)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	codec := NewCodec("test-secret")

	for _, value := range []string{"", "not-a-cookie", "AAAA.BBBB"} {
		if _, err := codec.Verify(value); !errors.Is(err, ErrInvalidCredential) {
			t.Fatalf("Verify(%q) = %v, want ErrInvalidCredential", value, err)
		}
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	codec := NewCodec("test-secret")
	value, err := codec.Issue(Credential{UserID: "u-1", Username: "alice"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tampered := strings.Map(func(r rune) rune {
		switch r {
		case 'A':
			return 'B'
		case 'B':
			return 'A'
		}
		return r
	}, value)
	if tampered == value {
		tampered = value[1:] + string(value[0])
	}
	if _, err := codec.Verify(tampered); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("tampered value verified: %v", err)
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	issuer := NewCodec("secret-one")
	verifier := NewCodec("secret-two")

	value, err := issuer.Issue(Credential{UserID: "u-1", Username: "alice"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Verify(value); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("cross-secret value verified: %v", err)
	}
}
