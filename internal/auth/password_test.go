package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// テストではbcryptの最小コストを使い、実行時間を抑える。
const testCost = bcrypt.MinCost

func TestHashPassword_VerifiesOriginalPassword(t *testing.T) {
	digest, err := HashPassword("correct horse battery staple", testCost)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if !VerifyPassword("correct horse battery staple", digest) {
		t.Error("expected digest to verify the original password")
	}
}

// 同じ平文でも呼び出しごとにソルトが変わり、ダイジェストは毎回異なる。
// どちらのダイジェストも元の平文を検証できる。
func TestHashPassword_SaltsPerCall(t *testing.T) {
	d1, err := HashPassword("pw1", testCost)
	if err != nil {
		t.Fatalf("first hash failed: %v", err)
	}
	d2, err := HashPassword("pw1", testCost)
	if err != nil {
		t.Fatalf("second hash failed: %v", err)
	}

	if d1 == d2 {
		t.Error("two hashes of the same password should differ")
	}
	if !VerifyPassword("pw1", d1) {
		t.Error("first digest should verify")
	}
	if !VerifyPassword("pw1", d2) {
		t.Error("second digest should verify")
	}
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	digest, err := HashPassword("pw1", testCost)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if VerifyPassword("pw2", digest) {
		t.Error("wrong password should not verify")
	}
}

// 不正な形式のダイジェストはエラーにならずfalseを返す。
func TestVerifyPassword_MalformedDigest(t *testing.T) {
	cases := []string{
		"",
		"not-a-bcrypt-digest",
		"$2a$broken",
	}
	for _, digest := range cases {
		if VerifyPassword("pw1", digest) {
			t.Errorf("malformed digest %q should not verify", digest)
		}
	}
}

func TestHashPassword_ZeroCostUsesDefault(t *testing.T) {
	digest, err := HashPassword("pw1", 0)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	cost, err := bcrypt.Cost([]byte(digest))
	if err != nil {
		t.Fatalf("failed to read cost: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want %d", cost, bcrypt.DefaultCost)
	}
}
