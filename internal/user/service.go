// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tommy2k0/blog-app/internal/model"
	"github.com/tommy2k0/blog-app/internal/repository"
)

// ServiceConfig はユーザー管理サービスの設定。
type ServiceConfig struct {
	// CascadePosts は退会時に記事も削除するかどうかを決める。
	// trueなら記事を削除（配下のコメントも連鎖）、falseなら著者なしの
	// 記事として残す。元システムはこの挙動を規定していないため、
	// 暗黙の既定値ではなく明示的な設定として公開する。
	CascadePosts bool
}

// Service はユーザー管理のサービス層。退会処理のビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	config   ServiceConfig
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, config ServiceConfig) *Service {
	return &Service{
		userRepo: userRepo,
		config:   config,
	}
}

// Withdraw はユーザーの退会処理を実行する。
// sessionsとcommentsはFKのCASCADEで削除される。
// 記事の扱いは設定（CascadePosts）に従い、全体を単一トランザクションで行う。
func (s *Service) Withdraw(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError()
	}

	if err := s.userRepo.DeleteByID(ctx, userID, s.config.CascadePosts); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("user withdrawn",
		slog.String("user_id", userID),
		slog.Bool("cascade_posts", s.config.CascadePosts),
	)

	return nil
}
