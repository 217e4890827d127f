// Package handler はHTTP APIのハンドラーとルーティングを提供する。
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/codelife/codelife/internal/model"
)

// NewsServiceInterface はニュースハンドラーが必要とするサービスインターフェース。
type NewsServiceInterface interface {
	// Refresh は全ソースをフェッチして新規記事を保存し、保存件数を返す。
	Refresh(ctx context.Context) (int, error)
	// Latest は公開日時の降順で最新記事を返す。
	Latest(ctx context.Context) ([]model.Article, error)
}

// NewsHandler はニュース記事のHTTPハンドラー。
type NewsHandler struct {
	service NewsServiceInterface
}

// NewNewsHandler はNewsHandlerを生成する。
func NewNewsHandler(service NewsServiceInterface) *NewsHandler {
	return &NewsHandler{service: service}
}

// articleResponse は記事のJSON表現。
type articleResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Feed        string    `json:"feed"`
	Summary     string    `json:"summary"`
	Tags        []string  `json:"tags"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// refreshResponse はリフレッシュ結果のレスポンス。
type refreshResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

// latestResponse は最新記事一覧のレスポンス。
type latestResponse struct {
	Success  bool              `json:"success"`
	Count    int               `json:"count"`
	Articles []articleResponse `json:"articles"`
}

// Refresh は全ソースのフェッチと新規記事の保存を実行する。
// POST /news/refresh
func (h *NewsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Refresh(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(refreshResponse{
		Success: true,
		Count:   count,
	})
}

// Latest は公開日時の降順で最新記事一覧を返す。
// GET /news/latest
func (h *NewsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	articles, err := h.service.Latest(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := latestResponse{
		Success:  true,
		Count:    len(articles),
		Articles: make([]articleResponse, 0, len(articles)),
	}
	for _, a := range articles {
		resp.Articles = append(resp.Articles, toArticleResponse(a))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// toArticleResponse はドメインのArticleをレスポンス型に変換する。
// タイムスタンプはUTCのRFC 3339で出力される。
func toArticleResponse(a model.Article) articleResponse {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	return articleResponse{
		ID:          a.ID,
		Title:       a.Title,
		URL:         a.URL,
		Source:      a.Source,
		Feed:        a.FeedCode,
		Summary:     a.Summary,
		Tags:        tags,
		PublishedAt: a.PublishedAt.UTC(),
		CreatedAt:   a.CreatedAt.UTC(),
	}
}
