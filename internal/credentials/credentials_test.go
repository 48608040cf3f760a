package credentials

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	first, err := HashPassword("Password123!")
	if err != nil {
		t.Fatal(err)
	}
	second, err := HashPassword("Password123!")
	if err != nil {
		t.Fatal(err)
	}

	if first == second {
		t.Errorf("expected salted hashes to differ")
	}
	if !VerifyPassword("Password123!", first) || !VerifyPassword("Password123!", second) {
		t.Errorf("expected both hashes to verify")
	}
	if VerifyPassword("Password124!", first) {
		t.Errorf("expected wrong password to be rejected")
	}
	if VerifyPassword("Password123!", "not-a-hash") {
		t.Errorf("expected malformed hash to be rejected")
	}

	if _, err := HashPassword(strings.Repeat("a", MaxPasswordBytes+1)); err == nil {
		t.Errorf("expected password over %d bytes to be rejected", MaxPasswordBytes)
	}
}

func TestGenerateSecret(t *testing.T) {
	secret, err := GenerateSecret()
	if err != nil {
		t.Fatal(err)
	}

	if strings.ContainsAny(secret, "+/=") {
		t.Errorf("secret is not URL-safe unpadded: %s", secret)
	}

	raw, err := base64.RawURLEncoding.DecodeString(secret)
	if err != nil {
		t.Fatalf("secret is not raw URL base64: %v", err)
	}
	if len(raw) < 32 {
		t.Errorf("expected at least 32 random bytes, got %d", len(raw))
	}

	other, err := GenerateSecret()
	if err != nil {
		t.Fatal(err)
	}
	if other == secret {
		t.Errorf("expected distinct secrets")
	}
}

func TestHashSecret(t *testing.T) {
	digest := HashSecret("abc")
	if digest != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Errorf("unexpected digest: %s", digest)
	}
	if HashSecret("abc") != digest {
		t.Errorf("expected deterministic digest")
	}
}

func TestIsLoginValid(t *testing.T) {
	tests := map[string]bool{
		"alice":                 true,
		"ci_bot-01":             true,
		"abc":                   true,
		"ab":                    false,
		"a234567890123456789x":  true,
		"a2345678901234567890x": false,
		"with space":            false,
		"dots.are.bad":          false,
		"":                      false,
	}

	for login, want := range tests {
		if got := IsLoginValid(login); got != want {
			t.Errorf("IsLoginValid(%q) = %v, want %v", login, got, want)
		}
	}
}

func TestIsPasswordValid(t *testing.T) {
	tests := map[string]bool{
		"Password12":   true,
		"Password123!": true,
		"Passwor12":    false,
		"password123":  false,
		"PASSWORD123":  false,
		"PasswordAbc":  false,
		"":             false,

		strings.Repeat("Pa1", 24): true,
		strings.Repeat("Pa1", 25): false,
		// 38 characters, 73 bytes
		"Pa1" + strings.Repeat("é", 35): false,
	}

	for password, want := range tests {
		if got := IsPasswordValid(password); got != want {
			t.Errorf("IsPasswordValid(%q) = %v, want %v", password, got, want)
		}
	}
}
