// Package model はドメインモデルを定義する。
package model

import "time"

// User はブログの利用ユーザーを表す。
// Usernameは全ユーザー間で一意。Emailは任意項目だが、設定する場合は一意。
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Email        string
	CreatedAt    time.Time
}

// Session はユーザーのログインセッションを表す。
// Tokenは128bitの乱数をhexエンコードした不透明な識別子。
// 1ユーザーが複数のセッションを同時に保持できる（端末ごとのログイン等）。
type Session struct {
	Token     string
	UserID    string
	CreatedAt time.Time
}
