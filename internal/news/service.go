package news

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/codelife/codelife/internal/model"
	"github.com/codelife/codelife/internal/repository"
)

// FeedFetcher は全ソースのフェッチ実行インターフェース。
type FeedFetcher interface {
	FetchAll(ctx context.Context, sources []model.Source) []SourceResult
}

// StoreMetrics は保存処理のメトリクス記録インターフェース。
type StoreMetrics interface {
	RecordArticlesStored(count int)
}

// Service はニュースリフレッシュと最新記事取得のユースケースを提供する。
// リフレッシュはステートレスであり、複数の呼び出しが並行しても安全に動作する。
// 同一URLに対するcheck-then-actの競合は許容する（最悪でも稀な重複であり、
// 破損は起こらない）。より強い一意性が必要な場合はストレージ側の制約で担保する。
type Service struct {
	fetcher      FeedFetcher
	articleRepo  repository.ArticleRepository
	sources      []model.Source
	logger       *slog.Logger
	metrics      StoreMetrics
	latestWindow int
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilを許容する。latestWindowが0以下の場合はデフォルト値30を使用する。
func NewService(
	fetcher FeedFetcher,
	articleRepo repository.ArticleRepository,
	sources []model.Source,
	logger *slog.Logger,
	metrics StoreMetrics,
	latestWindow int,
) *Service {
	if latestWindow <= 0 {
		latestWindow = 30
	}
	return &Service{
		fetcher:      fetcher,
		articleRepo:  articleRepo,
		sources:      sources,
		logger:       logger,
		metrics:      metrics,
		latestWindow: latestWindow,
	}
}

// Refresh は1回のリフレッシュパス（フェッチ → 正規化 → 重複排除 → 保存）を実行し、
// 新規に保存した記事数を返す。
//
// ソース単位の失敗は致命的ではなく、残りのソースの記事は通常通り処理される。
// ストレージエラーはその時点で処理を打ち切り、それまでに保存できた件数とともに
// エラーを返す（逐次保存のため決定的）。
func (s *Service) Refresh(ctx context.Context) (int, error) {
	results := s.fetcher.FetchAll(ctx, s.sources)

	stored := 0
	for _, result := range results {
		if result.Err != nil {
			// フェッチ失敗はFetcher側でログ済み。このパスではスキップし、
			// 次回のリフレッシュで自然に再試行される。
			continue
		}

		for i := range result.Articles {
			article := &result.Articles[i]

			// URLのない記事は安全に重複排除できないため保存しない
			if article.URL == "" {
				continue
			}

			existing, err := s.articleRepo.FindByURL(ctx, article.URL)
			if err != nil {
				s.logger.Error("記事の重複チェックに失敗しました",
					slog.String("url", article.URL),
					slog.String("error", err.Error()),
				)
				return stored, fmt.Errorf("記事の重複チェックに失敗: %w", model.NewStorageFailureError())
			}
			if existing != nil {
				continue
			}

			if err := s.articleRepo.Create(ctx, article); err != nil {
				s.logger.Error("記事の保存に失敗しました",
					slog.String("url", article.URL),
					slog.String("error", err.Error()),
				)
				return stored, fmt.Errorf("記事の保存に失敗: %w", model.NewStorageFailureError())
			}
			stored++
		}
	}

	if s.metrics != nil {
		s.metrics.RecordArticlesStored(stored)
	}

	s.logger.Info("リフレッシュが完了しました",
		slog.Int("sources", len(s.sources)),
		slog.Int("stored", stored),
	)

	return stored, nil
}

// Latest は公開日時の降順で最新記事を返す。
// ウィンドウサイズは固定であり、ページネーションは提供しない。
// ストレージエラー時は部分結果を返さず、エラーのみを返す。
func (s *Service) Latest(ctx context.Context) ([]model.Article, error) {
	articles, err := s.articleRepo.ListLatest(ctx, s.latestWindow)
	if err != nil {
		s.logger.Error("最新記事の取得に失敗しました", slog.String("error", err.Error()))
		return nil, fmt.Errorf("最新記事の取得に失敗: %w", model.NewStorageFailureError())
	}
	return articles, nil
}
