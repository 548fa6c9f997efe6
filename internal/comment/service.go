// Package comment はコメント管理のドメインロジックを提供する。
package comment

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

// Service はコメント管理のサービス層。
// 変更系操作は記事と同じ規則（存在確認 → 認証 → 所有）で検査する。
type Service struct {
	commentRepo repository.CommentRepository
	sanitizer   security.ContentSanitizerService
}

// NewService はServiceを生成する。
func NewService(commentRepo repository.CommentRepository, sanitizer security.ContentSanitizerService) *Service {
	return &Service{
		commentRepo: commentRepo,
		sanitizer:   sanitizer,
	}
}

// Create は記事にコメントを追加する。認証済みユーザーのみ実行できる。
// 親記事の存在はリポジトリがトランザクション内で確認するため、
// 削除済み記事へのコメントがコミットされることはない。
func (s *Service) Create(ctx context.Context, user *model.User, postID, content string) (*model.Comment, error) {
	if err := authz.RequireUser(user); err != nil {
		return nil, err
	}

	content = s.sanitizer.Sanitize(strings.TrimSpace(content))
	if content == "" {
		return nil, model.NewValidationError("コメント本文は必須です")
	}

	comment := &model.Comment{
		ID:        uuid.New().String(),
		Content:   content,
		PostID:    postID,
		AuthorID:  user.ID,
		CreatedAt: time.Now(),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	slog.Info("comment created",
		slog.String("comment_id", comment.ID),
		slog.String("post_id", comment.PostID),
		slog.String("author_id", comment.AuthorID),
	)

	return comment, nil
}

// Get は指定IDのコメントを取得する。存在しない場合はCOMMENT_NOT_FOUNDを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	if comment == nil {
		return nil, model.NewCommentNotFoundError(id)
	}
	return comment, nil
}

// ListByPost は指定記事のコメント一覧を返す。
// 記事が存在しない場合は空の一覧を返す（一覧取得は存在確認を要求しない）。
func (s *Service) ListByPost(ctx context.Context, postID string) ([]*model.Comment, error) {
	comments, err := s.commentRepo.ListByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// Update はコメントの本文を更新する。投稿者のみ実行できる。
func (s *Service) Update(ctx context.Context, user *model.User, id, content string) (*model.Comment, error) {
	comment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authz.RequireOwner(comment, user); err != nil {
		return nil, err
	}

	content = s.sanitizer.Sanitize(strings.TrimSpace(content))
	if content == "" {
		return nil, model.NewValidationError("コメント本文は必須です")
	}

	comment.Content = content

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	slog.Info("comment updated", slog.String("comment_id", comment.ID))

	return comment, nil
}

// Delete はコメントを削除する。投稿者のみ実行できる。
func (s *Service) Delete(ctx context.Context, user *model.User, id string) (*model.Comment, error) {
	comment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authz.RequireOwner(comment, user); err != nil {
		return nil, err
	}

	if err := s.commentRepo.DeleteByID(ctx, id); err != nil {
		return nil, err
	}

	slog.Info("comment deleted", slog.String("comment_id", id))

	return comment, nil
}
