package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash should not equal the password")
	}

	ok, err := CheckPassword(hash, "hunter22")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !ok {
		t.Error("expected matching password")
	}

	ok, err = CheckPassword(hash, "hunter23")
	if err != nil {
		t.Fatalf("check wrong: %v", err)
	}
	if ok {
		t.Error("expected mismatch for wrong password")
	}
}

func TestHashPasswordLength(t *testing.T) {
	for _, pw := range []string{"", "12345", strings.Repeat("a", 73)} {
		if _, err := HashPassword(pw); !errors.Is(err, ErrPasswordLength) {
			t.Errorf("HashPassword(len %d) err = %v, want ErrPasswordLength", len(pw), err)
		}
	}
	if _, err := HashPassword("123456"); err != nil {
		t.Errorf("six characters should be accepted: %v", err)
	}
}

func TestCheckPasswordBadHash(t *testing.T) {
	if _, err := CheckPassword("not-a-hash", "whatever"); err == nil {
		t.Error("expected error for malformed hash")
	}
}
