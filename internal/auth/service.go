package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tommy2k0/blog-app/internal/model"
	"github.com/tommy2k0/blog-app/internal/repository"
)

// MetricsRecorder は認証イベントのメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordSignup()
	RecordLogin(success bool)
	RecordSessionCreated()
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	BcryptCost int // パスワードハッシュのコストファクタ（0以下でデフォルト）
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	metrics     MetricsRecorder
	config      ServiceConfig
}

// NewService はServiceを生成する。metricsはnilでもよい。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	metrics MetricsRecorder,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		metrics:     metrics,
		config:      config,
	}
}

// Signup は新規ユーザーを登録し、そのままログイン状態にする。
// ユーザー名が既に使用されている場合はconflict系エラーを返し、
// ユーザー行もセッションも作成しない。
func (s *Service) Signup(ctx context.Context, username, password, email string) (*model.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, model.NewValidationError("ユーザー名は必須です")
	}
	if password == "" {
		return nil, model.NewValidationError("パスワードは必須です")
	}

	// 事前の重複確認。INSERT時の一意制約が最終防衛線となるため、
	// ここと挿入の間に同名登録が割り込んでも重複は発生しない。
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateUsernameError(username)
	}

	hash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("new user signed up",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	if s.metrics != nil {
		s.metrics.RecordSignup()
	}

	// サインアップ直後に自動ログイン
	return s.createSession(ctx, user.ID)
}

// Login はユーザー名とパスワードを検証し、セッションを発行する。
// ユーザー不在とパスワード不一致は同一のエラーを返す（ユーザー名列挙の防止）。
func (s *Service) Login(ctx context.Context, username, password string) (*model.Session, error) {
	// Signupと同じ正規化。前後の空白つきで再入力されても同一ユーザーに解決する。
	username = strings.TrimSpace(username)

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || !VerifyPassword(password, user.PasswordHash) {
		if s.metrics != nil {
			s.metrics.RecordLogin(false)
		}
		return nil, model.NewInvalidCredentialsError()
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))
	if s.metrics != nil {
		s.metrics.RecordLogin(true)
	}

	return session, nil
}

// Logout はセッションを破棄する。
// トークンが空、または存在しない場合も成功として扱う（冪等）。
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := s.sessionRepo.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out")
	return nil
}

// createSession はセッションを作成し永続化する。
// トークン衝突（天文学的に稀）の場合は新しいトークンで1回だけ再試行し、
// それでも衝突した場合はエラーを呼び出し元へ返す。
func (s *Service) createSession(ctx context.Context, userID string) (*model.Session, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		token, err := generateSessionToken()
		if err != nil {
			return nil, fmt.Errorf("failed to generate session token: %w", err)
		}

		session := &model.Session{
			Token:     token,
			UserID:    userID,
			CreatedAt: time.Now(),
		}

		err = s.sessionRepo.Create(ctx, session)
		if err == nil {
			if s.metrics != nil {
				s.metrics.RecordSessionCreated()
			}
			return session, nil
		}

		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeSessionConflict {
			slog.Warn("session token collision, retrying", slog.Int("attempt", attempt+1))
			lastErr = err
			continue
		}
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return nil, lastErr
}

// generateSessionToken は暗号的に安全な128bitのセッショントークンを生成する。
func generateSessionToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
