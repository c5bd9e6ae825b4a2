package auth

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}
}

func TestCheckPassword_Correct(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	valid, err := CheckPassword("admin123", hash)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if !valid {
		t.Fatal("Correct password was rejected")
	}
}

func TestCheckPassword_Wrong(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	valid, err := CheckPassword("wrongpassword", hash)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if valid {
		t.Fatal("Wrong password was accepted")
	}
}

func TestCheckPassword_ForeignParameters(t *testing.T) {
	// Hash produced with m=65536,t=1,p=4; verification honors the
	// parameters embedded in the hash, not the current defaults.
	foreign := "$argon2id$v=19$m=65536,t=1,p=4$mucMvOaS6lZ2LWNS1OEFKw$UYEWv8cvCOO6l2zGeqv3JPVe1nyy0x9GXBfYEuDM544"

	valid, err := CheckPassword("changeme", foreign)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if !valid {
		t.Fatal("foreign-parameter hash rejected correct password")
	}
	if !NeedsRehash(foreign) {
		t.Error("NeedsRehash = false for foreign parameters")
	}
}

func TestCheckPassword_Malformed(t *testing.T) {
	if _, err := CheckPassword("x", "not-a-hash"); err == nil {
		t.Fatal("malformed hash did not error")
	}
	if _, err := CheckPassword("x", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA"); err == nil {
		t.Fatal("unsupported hash type did not error")
	}
}
