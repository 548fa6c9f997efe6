// Package auth はユーザー名/パスワード認証とセッション管理を提供する。
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword は平文パスワードをbcryptでハッシュ化する。
// ソルトは呼び出しごとに生成されるため、同じ平文でも毎回異なるダイジェストになる。
// costにはbcryptのコストファクタを指定する（0以下の場合はbcrypt.DefaultCost）。
func HashPassword(plain string, cost int) (string, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword は平文パスワードとダイジェストを照合する。
// 不一致・不正な形式のダイジェストのどちらもfalseを返し、エラーは返さない。
// 比較はbcrypt内部で定数時間に行われる。
func VerifyPassword(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
