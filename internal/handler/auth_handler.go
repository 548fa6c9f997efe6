package handler

import (
	"context"
	"net/http"

	"github.com/tommy2k0/blog-app/internal/middleware"
	"github.com/tommy2k0/blog-app/internal/model"
)

// sessionCookieName はセッショントークンを運ぶCookie名。
const sessionCookieName = "session_id"

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Signup(ctx context.Context, username, password, email string) (*model.Session, error)
	Login(ctx context.Context, username, password string) (*model.Session, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	// PostListURL はログイン・ログアウト後のリダイレクト先（記事一覧）。
	PostListURL string
}

// AuthHandler はサインアップ・ログイン・ログアウトのHTTPハンドラー。
// フォーム送信を受け付け、成功時は記事一覧へ303でリダイレクトする。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig) *AuthHandler {
	if config.PostListURL == "" {
		config.PostListURL = "/posts"
	}
	return &AuthHandler{
		service: service,
		config:  config,
	}
}

// Signup は新規ユーザーを登録し、そのままログイン状態にする。
// POST /auth/signup (username, password, email=任意)
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("フォームを解析できません"))
		return
	}

	session, err := h.service.Signup(r.Context(),
		r.PostFormValue("username"),
		r.PostFormValue("password"),
		r.PostFormValue("email"),
	)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.setSessionCookie(w, session.Token)
	http.Redirect(w, r, h.config.PostListURL, http.StatusSeeOther)
}

// Login はユーザー名とパスワードを検証し、セッションCookieを発行する。
// POST /auth/login (username, password)
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("フォームを解析できません"))
		return
	}

	session, err := h.service.Login(r.Context(),
		r.PostFormValue("username"),
		r.PostFormValue("password"),
	)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.setSessionCookie(w, session.Token)
	http.Redirect(w, r, h.config.PostListURL, http.StatusSeeOther)
}

// Logout はセッションを破棄し、Cookieをクリアする。
// セッションが無い状態でのログアウトも成功として扱う。
// POST /auth/logout（ブラウザのリンク遷移用にGETも受け付ける）
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if logoutErr := h.service.Logout(r.Context(), cookie.Value); logoutErr != nil {
			handleServiceError(w, logoutErr)
			return
		}
	}

	h.clearSessionCookie(w)
	http.Redirect(w, r, h.config.PostListURL, http.StatusSeeOther)
}

// Me は現在のログインユーザー情報を返す。未認証の場合は401を返す。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":       user.ID,
		"username": user.Username,
	})
}

// setSessionCookie はセッションCookieを設定する。
// TODO: HTTPS配備時にSecureとSameSite属性を付与する。
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
}

// clearSessionCookie はセッションCookieを削除する。
func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
