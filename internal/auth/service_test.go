package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/tommy2k0/blog-app/internal/model"
	"github.com/tommy2k0/blog-app/internal/repository"
)

// --- モック定義 ---

type mockUserRepo struct {
	findByIDFn       func(ctx context.Context, id string) (*model.User, error)
	findByUsernameFn func(ctx context.Context, username string) (*model.User, error)
	createFn         func(ctx context.Context, user *model.User) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) DeleteByID(_ context.Context, _ string, _ bool) error {
	return nil
}

type mockSessionRepo struct {
	createFn        func(ctx context.Context, session *model.Session) error
	resolveUserFn   func(ctx context.Context, token string) (*model.User, error)
	deleteByTokenFn func(ctx context.Context, token string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) ResolveUser(ctx context.Context, token string) (*model.User, error) {
	if m.resolveUserFn != nil {
		return m.resolveUserFn(ctx, token)
	}
	return nil, nil
}

func (m *mockSessionRepo) DeleteByToken(ctx context.Context, token string) error {
	if m.deleteByTokenFn != nil {
		return m.deleteByTokenFn(ctx, token)
	}
	return nil
}

func (m *mockSessionRepo) DeleteByUserID(_ context.Context, _ string) error {
	return nil
}

// --- compile-time interface checks ---
var _ repository.UserRepository = (*mockUserRepo)(nil)
var _ repository.SessionRepository = (*mockSessionRepo)(nil)

func newTestService(userRepo *mockUserRepo, sessionRepo *mockSessionRepo) *Service {
	return NewService(userRepo, sessionRepo, nil, ServiceConfig{BcryptCost: testCost})
}

// --- テスト ---

func TestSignup_CreatesUserAndAutoLogsIn(t *testing.T) {
	var createdUser *model.User
	var createdSession *model.Session

	userRepo := &mockUserRepo{
		createFn: func(_ context.Context, user *model.User) error {
			createdUser = user
			return nil
		},
	}
	sessionRepo := &mockSessionRepo{
		createFn: func(_ context.Context, session *model.Session) error {
			createdSession = session
			return nil
		},
	}
	svc := newTestService(userRepo, sessionRepo)

	session, err := svc.Signup(context.Background(), "alice", "pw1", "")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	if createdUser == nil {
		t.Fatal("expected user to be created")
	}
	if createdUser.Username != "alice" {
		t.Errorf("username = %q, want %q", createdUser.Username, "alice")
	}
	// 平文は保存されず、検証可能なダイジェストが保存される
	if createdUser.PasswordHash == "pw1" {
		t.Error("password must not be stored in plaintext")
	}
	if !VerifyPassword("pw1", createdUser.PasswordHash) {
		t.Error("stored hash should verify the password")
	}

	// サインアップ直後に自動ログインされる
	if createdSession == nil {
		t.Fatal("expected session to be created")
	}
	if createdSession.UserID != createdUser.ID {
		t.Errorf("session user = %q, want %q", createdSession.UserID, createdUser.ID)
	}
	if session.Token != createdSession.Token {
		t.Errorf("returned token = %q, want %q", session.Token, createdSession.Token)
	}
	// 128bit乱数のhex表現は32文字
	if len(session.Token) != 32 {
		t.Errorf("token length = %d, want 32", len(session.Token))
	}
}

func TestSignup_DuplicateUsername_NoUserNoSession(t *testing.T) {
	userCreated := false
	sessionCreated := false

	userRepo := &mockUserRepo{
		findByUsernameFn: func(_ context.Context, username string) (*model.User, error) {
			return &model.User{ID: "existing", Username: username}, nil
		},
		createFn: func(_ context.Context, _ *model.User) error {
			userCreated = true
			return nil
		},
	}
	sessionRepo := &mockSessionRepo{
		createFn: func(_ context.Context, _ *model.Session) error {
			sessionCreated = true
			return nil
		},
	}
	svc := newTestService(userRepo, sessionRepo)

	_, err := svc.Signup(context.Background(), "alice", "pw1", "")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeDuplicateUsername {
		t.Fatalf("expected DUPLICATE_USERNAME, got %v", err)
	}
	if userCreated {
		t.Error("no user row should be created")
	}
	if sessionCreated {
		t.Error("no session should be created")
	}
}

func TestSignup_EmptyFields(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockSessionRepo{})

	for _, tc := range []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "pw1"},
		{"blank username", "   ", "pw1"},
		{"empty password", "alice", ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tc.username, tc.password, "")
			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidation {
				t.Errorf("expected VALIDATION_ERROR, got %v", err)
			}
		})
	}
}

func TestLogin_Success(t *testing.T) {
	hash, err := HashPassword("pw1", testCost)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	userRepo := &mockUserRepo{
		findByUsernameFn: func(_ context.Context, username string) (*model.User, error) {
			return &model.User{ID: "user-1", Username: username, PasswordHash: hash}, nil
		},
	}
	svc := newTestService(userRepo, &mockSessionRepo{})

	session, err := svc.Login(context.Background(), "alice", "pw1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if session.UserID != "user-1" {
		t.Errorf("session user = %q, want %q", session.UserID, "user-1")
	}
}

// ユーザー名はSignupと同じ正規化を通る。前後に空白をつけて登録・再入力しても
// 同一ユーザーとしてログインできる。
func TestLogin_TrimsUsername(t *testing.T) {
	hash, err := HashPassword("pw1", testCost)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	var lookedUp string
	userRepo := &mockUserRepo{
		findByUsernameFn: func(_ context.Context, username string) (*model.User, error) {
			lookedUp = username
			if username != "alice" {
				return nil, nil
			}
			return &model.User{ID: "user-1", Username: username, PasswordHash: hash}, nil
		},
	}
	svc := newTestService(userRepo, &mockSessionRepo{})

	session, err := svc.Login(context.Background(), "  alice  ", "pw1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if lookedUp != "alice" {
		t.Errorf("looked up username = %q, want %q", lookedUp, "alice")
	}
	if session.UserID != "user-1" {
		t.Errorf("session user = %q, want %q", session.UserID, "user-1")
	}
}

// ユーザー不在とパスワード不一致は見分けのつかない同一エラーを返す。
func TestLogin_UnknownUserAndWrongPassword_SameError(t *testing.T) {
	hash, err := HashPassword("pw1", testCost)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	unknownRepo := &mockUserRepo{
		findByUsernameFn: func(_ context.Context, _ string) (*model.User, error) {
			return nil, nil
		},
	}
	knownRepo := &mockUserRepo{
		findByUsernameFn: func(_ context.Context, username string) (*model.User, error) {
			return &model.User{ID: "user-1", Username: username, PasswordHash: hash}, nil
		},
	}

	_, errUnknown := newTestService(unknownRepo, &mockSessionRepo{}).
		Login(context.Background(), "ghost", "pw1")
	_, errWrongPw := newTestService(knownRepo, &mockSessionRepo{}).
		Login(context.Background(), "alice", "wrong")

	var apiErr1, apiErr2 *model.APIError
	if !errors.As(errUnknown, &apiErr1) {
		t.Fatalf("expected APIError for unknown user, got %v", errUnknown)
	}
	if !errors.As(errWrongPw, &apiErr2) {
		t.Fatalf("expected APIError for wrong password, got %v", errWrongPw)
	}
	if apiErr1.Code != model.ErrCodeInvalidCredentials {
		t.Errorf("code = %q, want %q", apiErr1.Code, model.ErrCodeInvalidCredentials)
	}
	if *apiErr1 != *apiErr2 {
		t.Error("both failures must produce an identical error")
	}
}

func TestLogout_Idempotent(t *testing.T) {
	deleted := []string{}
	sessionRepo := &mockSessionRepo{
		deleteByTokenFn: func(_ context.Context, token string) error {
			deleted = append(deleted, token)
			return nil
		},
	}
	svc := newTestService(&mockUserRepo{}, sessionRepo)

	// 空トークンは何もしない
	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Errorf("logout with empty token should succeed: %v", err)
	}
	if len(deleted) != 0 {
		t.Error("empty token should not reach the store")
	}

	// 存在しないトークンの削除も成功する（ストアが冪等）
	if err := svc.Logout(context.Background(), "no-such-token"); err != nil {
		t.Errorf("logout with unknown token should succeed: %v", err)
	}
	if len(deleted) != 1 || deleted[0] != "no-such-token" {
		t.Errorf("deleted = %v, want [no-such-token]", deleted)
	}
}

// トークン衝突時は新しいトークンで1回だけ再試行する。
func TestCreateSession_RetriesOnceOnCollision(t *testing.T) {
	tokens := []string{}
	sessionRepo := &mockSessionRepo{
		createFn: func(_ context.Context, session *model.Session) error {
			tokens = append(tokens, session.Token)
			if len(tokens) == 1 {
				return model.NewSessionConflictError()
			}
			return nil
		},
	}
	svc := newTestService(&mockUserRepo{}, sessionRepo)

	session, err := svc.createSession(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("attempts = %d, want 2", len(tokens))
	}
	if tokens[0] == tokens[1] {
		t.Error("retry must use a fresh token")
	}
	if session.Token != tokens[1] {
		t.Errorf("returned token = %q, want %q", session.Token, tokens[1])
	}
}

// 2回連続の衝突は致命的エラーとして呼び出し元へ返す。
func TestCreateSession_SecondCollisionIsFatal(t *testing.T) {
	attempts := 0
	sessionRepo := &mockSessionRepo{
		createFn: func(_ context.Context, _ *model.Session) error {
			attempts++
			return model.NewSessionConflictError()
		},
	}
	svc := newTestService(&mockUserRepo{}, sessionRepo)

	_, err := svc.createSession(context.Background(), "user-1")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeSessionConflict {
		t.Fatalf("expected SESSION_TOKEN_CONFLICT, got %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestGenerateSessionToken_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		token, err := generateSessionToken()
		if err != nil {
			t.Fatalf("generateSessionToken failed: %v", err)
		}
		if seen[token] {
			t.Fatalf("duplicate token generated: %s", token)
		}
		seen[token] = true
	}
}
