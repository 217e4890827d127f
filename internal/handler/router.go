package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codelife/codelife/internal/auth"
	"github.com/codelife/codelife/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     auth.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	Metrics           middleware.HTTPMetricsRecorder

	// サービス
	NewsService   NewsServiceInterface
	ThreatService ThreatServiceInterface
	CourseService CourseServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging → Metrics → Auth → RateLimit(General)
//
// /health はミドルウェアチェーンの認証より外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルートに効くミドルウェア
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewMetricsMiddleware(deps.Metrics))

	newsHandler := NewNewsHandler(deps.NewsService)
	threatHandler := NewThreatHandler(deps.ThreatService)
	courseHandler := NewCourseHandler(deps.CourseService)
	profileHandler := NewProfileHandler(deps.CourseService)

	// --- 認証不要のルート ---

	r.Get("/health", healthCheck)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// ニュース
		r.Route("/news", func(r chi.Router) {
			// POST /news/refresh - リフレッシュ専用レート制限を追加
			r.With(deps.RateLimiter.RefreshMiddleware()).Post("/refresh", newsHandler.Refresh)
			r.Get("/latest", newsHandler.Latest)
		})

		// 脅威インテリジェンス
		r.Route("/threats", func(r chi.Router) {
			r.With(deps.RateLimiter.RefreshMiddleware()).Post("/refresh", threatHandler.Refresh)
			r.Get("/latest", threatHandler.Latest)
			r.Get("/stats", threatHandler.Stats)
		})

		// コースと進捗
		r.Route("/courses", func(r chi.Router) {
			r.Get("/", courseHandler.List)
			r.Post("/", courseHandler.Create)

			// 進捗集計は /{courseID} より先に定義する
			r.Get("/progress/summary", courseHandler.ProgressSummary)

			r.Route("/{courseID}", func(r chi.Router) {
				r.Get("/", courseHandler.Detail)
				r.Put("/", courseHandler.Update)
				r.Delete("/", courseHandler.Delete)
				r.Post("/lessons", courseHandler.CreateLesson)
				r.Post("/lessons/{lessonID}/complete", courseHandler.MarkComplete)
			})
		})

		// プロフィール
		r.Get("/profile", profileHandler.Me)
	})

	return r
}

// healthCheck はロードバランサー向けのヘルスチェックエンドポイント。
// GET /health
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
