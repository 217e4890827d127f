package news

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/codelife/codelife/internal/model"
)

// FetchMetrics はフェッチ処理のメトリクス記録インターフェース。
type FetchMetrics interface {
	RecordFetchSuccess(feedCode string)
	RecordFetchFailure(feedCode string)
	RecordFetchLatency(duration time.Duration)
}

// URLValidator はフェッチ前にURLの静的検証を行うインターフェース。
// security.SSRFGuardServiceが実装する。
type URLValidator interface {
	ValidateURL(rawURL string) error
}

// SourceResult は1ソースのフェッチ結果を表す。
// 成功時はArticlesに正規化済み記事を持ち、失敗時はErrに原因を持つ。
// 1ソースの失敗はバッチ全体の成否に影響しない。
type SourceResult struct {
	Source   model.Source
	Articles []model.Article
	Err      error
}

// Fetcher は全ソースの並行フェッチとパース・正規化を行う。
// HTTPクライアントは共有・注入され、テストではフェイクに差し替えられる。
type Fetcher struct {
	client         *http.Client
	validator      URLValidator
	logger         *slog.Logger
	metrics        FetchMetrics
	entriesPerFeed int
	maxBodySize    int64
}

// NewFetcher はFetcherの新しいインスタンスを生成する。
// validatorとmetricsはnilを許容する（検証なし・記録なし）。
func NewFetcher(
	client *http.Client,
	validator URLValidator,
	logger *slog.Logger,
	metrics FetchMetrics,
	entriesPerFeed int,
	maxBodySize int64,
) *Fetcher {
	if entriesPerFeed <= 0 {
		entriesPerFeed = 5
	}
	return &Fetcher{
		client:         client,
		validator:      validator,
		logger:         logger,
		metrics:        metrics,
		entriesPerFeed: entriesPerFeed,
		maxBodySize:    maxBodySize,
	}
}

// FetchAll は全ソースを並行にフェッチし、ソースごとの結果を返す。
// ソース単位の失敗（ネットワークエラー、タイムアウト、パースエラー）は
// 結果のErrに記録してログに残し、他ソースの処理を継続する。
// 結果スライスの順序はソース一覧の順序に一致するが、
// 下流の重複排除・保存は順序に依存しない。
func (f *Fetcher) FetchAll(ctx context.Context, sources []model.Source) []SourceResult {
	results := make([]SourceResult, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src model.Source) {
			defer wg.Done()

			articles, err := f.fetchSource(ctx, src)
			results[i] = SourceResult{Source: src, Articles: articles, Err: err}

			if err != nil {
				f.logger.Error("フィードの取得に失敗しました",
					slog.String("feed_code", src.Code),
					slog.String("feed_url", src.URL),
					slog.String("error", err.Error()),
				)
				if f.metrics != nil {
					f.metrics.RecordFetchFailure(src.Code)
				}
			} else if f.metrics != nil {
				f.metrics.RecordFetchSuccess(src.Code)
			}
		}(i, src)
	}
	wg.Wait()

	return results
}

// fetchSource は1ソースをフェッチしてパース・正規化する。
// タイムアウトはHTTPクライアント側の設定（リクエスト全体）で制御される。
func (f *Fetcher) fetchSource(ctx context.Context, src model.Source) ([]model.Article, error) {
	start := time.Now()

	// DNS解決前の静的検証。DNS再バインディング対策はクライアント側の
	// Dialer検証が担う。
	if f.validator != nil {
		if err := f.validator.ValidateURL(src.URL); err != nil {
			return nil, fmt.Errorf("URLの検証に失敗: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエスト作成に失敗: %w", err)
	}
	req.Header.Set("User-Agent", "CodeLife/1.0 News Aggregator")
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエスト失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("予期しないHTTPステータス: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("レスポンス読み取り失敗: %w", err)
	}

	parsedFeed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("フィードのパース失敗: %w", err)
	}

	if f.metrics != nil {
		f.metrics.RecordFetchLatency(time.Since(start))
	}

	// ドキュメント順の先頭N件のみ採用する。ソース側が新着順で並べている前提で、
	// ここでは並べ替えない。
	items := parsedFeed.Items
	if len(items) > f.entriesPerFeed {
		items = items[:f.entriesPerFeed]
	}

	now := time.Now().UTC()
	articles := make([]model.Article, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		articles = append(articles, Normalize(item, src, now))
	}

	f.logger.Info("フィードの取得が完了しました",
		slog.String("feed_code", src.Code),
		slog.Int("entries", len(articles)),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return articles, nil
}
