package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/tommy2k0/blog-app/internal/model"
)

// uniqueViolation はPostgreSQLのunique_violationエラーコード。
const uniqueViolation = pq.ErrorCode("23505")

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findBy(ctx, `SELECT id, username, password_hash, COALESCE(email, ''), created_at
		 FROM users WHERE id = $1`, id)
}

// FindByUsername は指定ユーザー名のユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findBy(ctx, `SELECT id, username, password_hash, COALESCE(email, ''), created_at
		 FROM users WHERE username = $1`, username)
}

func (r *PostgresUserRepo) findBy(ctx context.Context, query, arg string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Email, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// Create はユーザーを作成する。
// username/emailの一意制約違反はmodel.APIError（conflict系）として返す。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	// emailは任意項目。空文字はNULLとして格納し、一意制約の対象から外す。
	var email any
	if user.Email != "" {
		email = user.Email
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, email, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Username, user.PasswordHash, email, user.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			if pqErr.Constraint == "users_email_key" {
				return model.NewDuplicateEmailError()
			}
			return model.NewDuplicateUsernameError(user.Username)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのユーザーを削除する。
// sessionsとcommentsはFKのCASCADEで削除される。
// 記事の扱いはcascadePostsで切り替える（削除または孤児化）。
// 孤児化と本体削除の順序を保証するため単一トランザクションで実行する。
func (r *PostgresUserRepo) DeleteByID(ctx context.Context, id string, cascadePosts bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if cascadePosts {
		// 記事を削除（記事配下のコメントはCASCADE削除）
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM posts WHERE author_id = $1`, id,
		); err != nil {
			return fmt.Errorf("failed to delete user posts: %w", err)
		}
	} else {
		// 記事を残し、著者参照のみ外す
		if _, err := tx.ExecContext(ctx,
			`UPDATE posts SET author_id = NULL WHERE author_id = $1`, id,
		); err != nil {
			return fmt.Errorf("failed to orphan user posts: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM users WHERE id = $1`, id,
	); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
