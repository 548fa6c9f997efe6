// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/tommy2k0/blog-app/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByUsername は指定ユーザー名のユーザーを取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// Create はユーザーを作成する。
	// username/emailの一意制約違反はmodel.APIError（conflict系）として返す。
	Create(ctx context.Context, user *model.User) error

	// DeleteByID は指定IDのユーザーを削除する。
	// 関連するsessions、commentsはCASCADE削除される。
	// cascadePostsがtrueの場合は記事も削除し（コメントも連鎖）、
	// falseの場合は記事のauthor_idをNULLにして孤児化する。
	// 削除順を保証するため単一トランザクションで実行する。
	DeleteByID(ctx context.Context, id string, cascadePosts bool) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	// トークンの一意制約違反はmodel.APIError（conflict系）として返す。
	Create(ctx context.Context, session *model.Session) error

	// ResolveUser は指定トークンのセッションを所有ユーザーまで結合して取得する。
	// トークンが存在しない場合、および参照先ユーザーが存在しない場合
	// （孤児セッション）はnilを返す。どちらもエラーではない。
	ResolveUser(ctx context.Context, token string) (*model.User, error)

	// DeleteByToken は指定トークンのセッションを削除する。
	// 存在しないトークンの削除は何もしない（冪等）。
	DeleteByToken(ctx context.Context, token string) error

	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// PostRepository は記事データの永続化インターフェース。
type PostRepository interface {
	// FindByID は指定IDの記事を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Post, error)

	// List は全記事を作成日時の降順で返す。
	List(ctx context.Context) ([]*model.Post, error)

	// Create は記事を作成する。
	Create(ctx context.Context, post *model.Post) error

	// Update は記事のタイトルと本文を更新する。
	Update(ctx context.Context, post *model.Post) error

	// DeleteByID は指定IDの記事を削除する。コメントはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// CommentRepository はコメントデータの永続化インターフェース。
type CommentRepository interface {
	// FindByID は指定IDのコメントを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Comment, error)

	// ListByPostID は指定記事のコメント一覧を作成日時の昇順で返す。
	ListByPostID(ctx context.Context, postID string) ([]*model.Comment, error)

	// Create はコメントを作成する。
	// 親記事の存在確認と挿入を同一トランザクションで行い、
	// 削除済み記事に対するコメントがコミットされないことを保証する。
	// 親記事が存在しない場合はmodel.APIError（POST_NOT_FOUND）を返す。
	Create(ctx context.Context, comment *model.Comment) error

	// Update はコメントの本文を更新する。
	Update(ctx context.Context, comment *model.Comment) error

	// DeleteByID は指定IDのコメントを削除する。
	DeleteByID(ctx context.Context, id string) error
}
