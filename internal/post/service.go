// Package post は記事管理のドメインロジックを提供する。
package post

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tommy2k0/blog-app/internal/authz"
	"github.com/tommy2k0/blog-app/internal/model"
	"github.com/tommy2k0/blog-app/internal/repository"
	"github.com/tommy2k0/blog-app/internal/security"
)

// Service は記事管理のサービス層。
// 変更系操作は 存在確認 → 認証 → 所有 の順で検査してから実行する。
type Service struct {
	postRepo  repository.PostRepository
	sanitizer security.ContentSanitizerService
}

// NewService はServiceを生成する。
func NewService(postRepo repository.PostRepository, sanitizer security.ContentSanitizerService) *Service {
	return &Service{
		postRepo:  postRepo,
		sanitizer: sanitizer,
	}
}

// Create は新しい記事を作成する。認証済みユーザーのみ実行できる。
func (s *Service) Create(ctx context.Context, user *model.User, title, content string) (*model.Post, error) {
	if err := authz.RequireUser(user); err != nil {
		return nil, err
	}

	title = s.sanitizer.SanitizeStrict(strings.TrimSpace(title))
	if title == "" {
		return nil, model.NewValidationError("タイトルは必須です")
	}

	post := &model.Post{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   s.sanitizer.Sanitize(content),
		AuthorID:  user.ID,
		CreatedAt: time.Now(),
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	slog.Info("post created",
		slog.String("post_id", post.ID),
		slog.String("author_id", post.AuthorID),
	)

	return post, nil
}

// Get は指定IDの記事を取得する。存在しない場合はPOST_NOT_FOUNDを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(id)
	}
	return post, nil
}

// List は全記事を新しい順に返す。
func (s *Service) List(ctx context.Context) ([]*model.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// Update は記事のタイトルと本文を更新する。所有者のみ実行できる。
func (s *Service) Update(ctx context.Context, user *model.User, id, title, content string) (*model.Post, error) {
	// 存在確認が最初。存在しない記事には所有比較が成立しない。
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authz.RequireOwner(post, user); err != nil {
		return nil, err
	}

	title = s.sanitizer.SanitizeStrict(strings.TrimSpace(title))
	if title == "" {
		return nil, model.NewValidationError("タイトルは必須です")
	}

	post.Title = title
	post.Content = s.sanitizer.Sanitize(content)

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	slog.Info("post updated", slog.String("post_id", post.ID))

	return post, nil
}

// Delete は記事を削除する。所有者のみ実行できる。
// 記事配下のコメントも併せて削除される。
func (s *Service) Delete(ctx context.Context, user *model.User, id string) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := authz.RequireOwner(post, user); err != nil {
		return err
	}

	if err := s.postRepo.DeleteByID(ctx, id); err != nil {
		return err
	}

	slog.Info("post deleted", slog.String("post_id", id))

	return nil
}
