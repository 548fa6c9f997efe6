package user

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
	deleteFn         func(ctx context.Context, id string, cascadePosts bool) error
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

func (m *mockUserRepo) DeleteByID(ctx context.Context, id string, cascadePosts bool) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, cascadePosts)
	}
	return nil
}

// --- compile-time interface checks ---
var _ repository.UserRepository = (*mockUserRepo)(nil)

// --- テスト ---

func TestWithdraw_Success(t *testing.T) {
	deletedID := ""
	repo := &mockUserRepo{
		findByIDFn: func(_ context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Username: "alice"}, nil
		},
		deleteFn: func(_ context.Context, id string, _ bool) error {
			deletedID = id
			return nil
		},
	}
	svc := NewService(repo, ServiceConfig{CascadePosts: true})

	if err := svc.Withdraw(context.Background(), "user-1"); err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if deletedID != "user-1" {
		t.Errorf("deleted id = %q, want %q", deletedID, "user-1")
	}
}

func TestWithdraw_UserNotFound(t *testing.T) {
	deleted := false
	repo := &mockUserRepo{
		deleteFn: func(_ context.Context, _ string, _ bool) error {
			deleted = true
			return nil
		},
	}
	svc := NewService(repo, ServiceConfig{CascadePosts: true})

	err := svc.Withdraw(context.Background(), "missing")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeUserNotFound)
	}
	if deleted {
		t.Error("missing user must not trigger deletion")
	}
}

// 設定の記事連鎖フラグがそのままリポジトリへ渡る。
func TestWithdraw_PassesCascadeFlag(t *testing.T) {
	for _, cascade := range []bool{true, false} {
		var got bool
		repo := &mockUserRepo{
			findByIDFn: func(_ context.Context, id string) (*model.User, error) {
				return &model.User{ID: id, Username: "alice"}, nil
			},
			deleteFn: func(_ context.Context, _ string, cascadePosts bool) error {
				got = cascadePosts
				return nil
			},
		}
		svc := NewService(repo, ServiceConfig{CascadePosts: cascade})

		if err := svc.Withdraw(context.Background(), "user-1"); err != nil {
			t.Fatalf("Withdraw failed: %v", err)
		}
		if got != cascade {
			t.Errorf("cascadePosts = %v, want %v", got, cascade)
		}
	}
}
