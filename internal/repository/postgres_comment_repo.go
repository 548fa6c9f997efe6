package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tommy2k0/blog-app/internal/model"
)

// PostgresCommentRepo はPostgreSQLを使用したコメントリポジトリ。
type PostgresCommentRepo struct {
	db *sql.DB
}

// NewPostgresCommentRepo はPostgresCommentRepoを生成する。
func NewPostgresCommentRepo(db *sql.DB) *PostgresCommentRepo {
	return &PostgresCommentRepo{db: db}
}

// FindByID は指定IDのコメントを取得する。見つからない場合はnilを返す。
func (r *PostgresCommentRepo) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	comment := &model.Comment{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, content, post_id, author_id, created_at
		 FROM comments WHERE id = $1`,
		id,
	).Scan(&comment.ID, &comment.Content, &comment.PostID, &comment.AuthorID, &comment.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}

	return comment, nil
}

// ListByPostID は指定記事のコメント一覧を作成日時の昇順で返す。
func (r *PostgresCommentRepo) ListByPostID(ctx context.Context, postID string) ([]*model.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, content, post_id, author_id, created_at
		 FROM comments WHERE post_id = $1 ORDER BY created_at ASC`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		comment := &model.Comment{}
		if err := rows.Scan(&comment.ID, &comment.Content, &comment.PostID, &comment.AuthorID, &comment.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return comments, nil
}

// Create はコメントを作成する。
// 親記事の存在確認と挿入を同一トランザクションで行う。
// 確認時にFOR SHAREで記事行をロックし、コミットまでの間に
// 記事が削除されてコメントだけが残ることを防ぐ。
func (r *PostgresCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var postID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM posts WHERE id = $1 FOR SHARE`,
		comment.PostID,
	).Scan(&postID)
	if err == sql.ErrNoRows {
		return model.NewPostNotFoundError(comment.PostID)
	}
	if err != nil {
		return fmt.Errorf("failed to check parent post: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO comments (id, content, post_id, author_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		comment.ID, comment.Content, comment.PostID, comment.AuthorID, comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Update はコメントの本文を更新する。
func (r *PostgresCommentRepo) Update(ctx context.Context, comment *model.Comment) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE comments SET content = $1 WHERE id = $2`,
		comment.Content, comment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのコメントを削除する。
func (r *PostgresCommentRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM comments WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// compile-time interface check
var _ CommentRepository = (*PostgresCommentRepo)(nil)
