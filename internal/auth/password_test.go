package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("Hash() returned the plaintext")
	}

	if !hasher.Verify("correct horse battery staple", hash) {
		t.Error("Verify() = false for the original password")
	}
	if hasher.Verify("wrong password", hash) {
		t.Error("Verify() = true for a different password")
	}
}

func TestPasswordVerifyMalformedHash(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"garbage", "not-a-bcrypt-hash"},
		{"truncated", "$2a$10$abc"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if hasher.Verify("anything", test.hash) {
				t.Errorf("Verify(%q) = true, want false", test.hash)
			}
		})
	}
}

func TestPasswordHasherCostClamped(t *testing.T) {
	hasher := NewPasswordHasher(1000)
	if hasher.cost != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want %d", hasher.cost, bcrypt.DefaultCost)
	}
}
