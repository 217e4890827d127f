// Package refresh はニュースと脅威データの定期リフレッシュ処理を提供する。
package refresh

import (
	"context"
	"log/slog"
	"time"
)

// NewsRefresher はニュースリフレッシュの実行インターフェース。
type NewsRefresher interface {
	// Refresh は全ソースをフェッチして新規記事を保存し、保存件数を返す。
	Refresh(ctx context.Context) (int, error)
}

// ThreatRefresher は脅威データリフレッシュの実行インターフェース。
type ThreatRefresher interface {
	// Refresh はOSINTソースから脅威データを取得して保存し、保存件数を返す。
	Refresh(ctx context.Context) (int, error)
}

// Scheduler はティッカー駆動でリフレッシュを定期実行する。
// APIの手動リフレッシュと同じサービス層を使うため、
// 重複排除の動作は実行経路によらず同一になる。
type Scheduler struct {
	news    NewsRefresher
	threats ThreatRefresher
	logger  *slog.Logger
}

// NewScheduler はSchedulerの新しいインスタンスを生成する。
// threatsはnilを許容する（ニュースのみをリフレッシュする）。
func NewScheduler(news NewsRefresher, threats ThreatRefresher, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		news:    news,
		threats: threats,
		logger:  logger,
	}
}

// Start は指定間隔のティッカーでスケジューラを起動する。
// 起動直後に1回実行し、以降はコンテキストがキャンセルされるまで継続する。
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("リフレッシュスケジューラを開始しました",
		slog.Duration("interval", interval),
	)

	// 起動直後に1回実行
	s.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("リフレッシュスケジューラを停止しました")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce はリフレッシュサイクルを1回実行する。
// ニュースと脅威のリフレッシュは独立しており、一方の失敗は他方に影響しない。
func (s *Scheduler) RunOnce(ctx context.Context) {
	start := time.Now()

	stored, err := s.news.Refresh(ctx)
	if err != nil {
		s.logger.Error("ニュースリフレッシュに失敗しました",
			slog.String("error", err.Error()),
			slog.Int("stored", stored),
		)
	}

	if s.threats != nil {
		if _, err := s.threats.Refresh(ctx); err != nil {
			s.logger.Error("脅威リフレッシュに失敗しました",
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.Info("リフレッシュサイクルが完了しました",
		slog.Int("articles_stored", stored),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)
}
