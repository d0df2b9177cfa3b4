package security_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/parkmarket/marketplace-backend/pkg/config"
	"github.com/parkmarket/marketplace-backend/pkg/security"
)

func testHasher() *security.Argon2Hasher {
	return security.NewArgon2Hasher(config.PasswordConfig{
		ArgonMemoryKB:    1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
}

func TestHashAndVerifyPassword(t *testing.T) {
	hasher := testHasher()

	hash, err := hasher.Hash("very-secure-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Fatalf("unexpected hash format %q", hash)
	}

	ok, err := hasher.Verify("very-secure-password", hash)
	if err != nil {
		t.Fatalf("Verify returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("Verify failed for the correct password")
	}

	ok, err = hasher.Verify("bogus-password", hash)
	if err != nil {
		t.Fatalf("Verify returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("Verify returned true for incorrect password")
	}
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	if _, err := testHasher().Hash(""); err == nil {
		t.Fatal("expected empty password to fail")
	}
}

func TestHashUsesRandomSalt(t *testing.T) {
	hasher := testHasher()
	a, _ := hasher.Hash("same")
	b, _ := hasher.Hash("same")
	if a == b {
		t.Fatal("expected different hashes for the same password")
	}
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	hasher := testHasher()
	for _, encoded := range []string{"", "plain", "$argon2id$v=19$m=x,t=1,p=1$c2FsdA$aGFzaA", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA"} {
		if _, err := hasher.Verify("pw", encoded); err != security.ErrInvalidHash {
			t.Fatalf("expected ErrInvalidHash for %q, got %v", encoded, err)
		}
	}
}

func TestTokenGenerators(t *testing.T) {
	code := security.NewOrderCode()
	if !regexp.MustCompile(`^[0-9a-f]{32}$`).MatchString(code) {
		t.Fatalf("unexpected order code %q", code)
	}
	if security.NewOrderCode() == code {
		t.Fatal("order codes should be unique")
	}
	if !strings.HasPrefix(security.NewStoreCredential(), "sc_") {
		t.Fatal("store credentials should carry the sc_ prefix")
	}
	if security.NewAccessToken() == security.NewAccessToken() {
		t.Fatal("access tokens should be unique")
	}
}
