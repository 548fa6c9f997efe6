// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tommy2k0/blog-app/internal/model"
)

// sessionCookieName はセッショントークンを運ぶCookie名。
const sessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// currentUserContextKey はリクエストコンテキストに現在のユーザーを格納するためのキー。
var currentUserContextKey = contextKey("current_user")

// UserResolver はセッショントークンからユーザーを解決するインターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type UserResolver interface {
	ResolveUser(ctx context.Context, token string) (*model.User, error)
}

// NewSessionMiddleware はCookieのセッショントークンを現在のユーザーに解決し、
// リクエストコンテキストに注入するミドルウェアを返す。
//
// Cookieが無い・空・解決できない場合、リクエストは匿名（ユーザーnil）のまま
// 通過する。ここでは決して401を返さない。未認証は正常な状態であり、
// 認証を要求するかどうかの判断は認可側（authz）が行う。
// 解決はリクエストごとに1回のストア参照のみで、キャッシュは持たない。
func NewSessionMiddleware(resolver UserResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := resolver.ResolveUser(r.Context(), cookie.Value)
			if err != nil {
				// ストア障害。ページ閲覧を止めないため匿名として継続する。
				slog.Error("failed to resolve session",
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}
			if user == nil {
				// 不正・失効・孤児トークンも匿名扱い
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), currentUserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext はリクエストコンテキストから現在のユーザーを取得する。
// 匿名リクエストではnilを返す。
func UserFromContext(ctx context.Context) *model.User {
	user, ok := ctx.Value(currentUserContextKey).(*model.User)
	if !ok {
		return nil
	}
	return user
}

// ContextWithUser はコンテキストにユーザーを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, currentUserContextKey, user)
}
