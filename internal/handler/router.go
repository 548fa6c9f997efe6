package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tommy2k0/blog-app/internal/middleware"
)

// HealthChecker はDB疎通確認のインターフェース。sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger       *slog.Logger
	UserResolver middleware.UserResolver
	HTTPMetrics  middleware.HTTPMetricsRecorder
	Health       HealthChecker

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// ドメイン
	PostService    PostServiceInterface
	CommentService CommentServiceInterface
	UserService    UserServiceInterface
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Metrics → Session → Logging
//
// セッションミドルウェアは未認証リクエストを拒否せず匿名として通過させるため、
// 全ルートに一律で適用する。認証・所有の要求は各サービス層の認可検査が行う。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.HTTPMetrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.HTTPMetrics))
	}
	r.Use(middleware.NewSessionMiddleware(deps.UserResolver))
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	postHandler := NewPostHandler(deps.PostService)
	commentHandler := NewCommentHandler(deps.CommentService)
	userHandler := NewUserHandler(deps.UserService)

	// 認証フロー
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// 記事管理
	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/", postHandler.ListPosts)
		r.Post("/", postHandler.CreatePost)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", postHandler.GetPost)
			r.Put("/", postHandler.UpdatePost)
			r.Delete("/", postHandler.DeletePost)

			// 記事配下のコメント
			r.Get("/comments", commentHandler.ListComments)
			r.Post("/comments", commentHandler.CreateComment)
		})
	})

	// コメント管理
	r.Route("/api/comments/{id}", func(r chi.Router) {
		r.Get("/", commentHandler.GetComment)
		r.Put("/", commentHandler.UpdateComment)
		r.Delete("/", commentHandler.DeleteComment)
	})

	// ユーザー管理
	r.Route("/api/users", func(r chi.Router) {
		r.Delete("/me", userHandler.Withdraw)
	})

	// ヘルスチェック
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if deps.Health != nil {
			if err := deps.Health.PingContext(r.Context()); err != nil {
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
