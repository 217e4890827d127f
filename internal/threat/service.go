package threat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/codelife/codelife/internal/model"
	"github.com/codelife/codelife/internal/repository"
)

const latestWindow = 20

// StoreMetrics は保存処理のメトリクス記録インターフェース。
type StoreMetrics interface {
	RecordThreatsStored(count int)
}

// Service は脅威インテリジェンスのリフレッシュと照会のユースケースを提供する。
type Service struct {
	provider   Provider
	threatRepo repository.ThreatRepository
	logger     *slog.Logger
	metrics    StoreMetrics
	now        clockFunc
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilを許容する（記録なし）。
func NewService(provider Provider, threatRepo repository.ThreatRepository, logger *slog.Logger, metrics StoreMetrics) *Service {
	return &Service{
		provider:   provider,
		threatRepo: threatRepo,
		logger:     logger,
		metrics:    metrics,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Refresh はプロバイダーから脅威データを取得して保存し、保存件数を返す。
// 各レコードには取得時刻が付与され、後段の分析処理のためにProcessed=falseで保存される。
func (s *Service) Refresh(ctx context.Context) (int, error) {
	threats, err := s.provider.Fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("脅威データの取得に失敗: %w", err)
	}

	now := s.now()
	stored := 0
	for i := range threats {
		threats[i].Timestamp = now
		threats[i].Processed = false

		if err := s.threatRepo.Create(ctx, &threats[i]); err != nil {
			s.logger.Error("脅威レコードの保存に失敗しました",
				slog.String("error", err.Error()),
			)
			return stored, fmt.Errorf("脅威レコードの保存に失敗: %w", model.NewStorageFailureError())
		}
		stored++
	}

	if s.metrics != nil {
		s.metrics.RecordThreatsStored(stored)
	}

	s.logger.Info("脅威データのリフレッシュが完了しました",
		slog.Int("stored", stored),
	)

	return stored, nil
}

// Latest は発生日時の降順で最新の脅威を返す。
func (s *Service) Latest(ctx context.Context) ([]model.Threat, error) {
	threats, err := s.threatRepo.ListLatest(ctx, latestWindow)
	if err != nil {
		s.logger.Error("最新脅威の取得に失敗しました", slog.String("error", err.Error()))
		return nil, fmt.Errorf("最新脅威の取得に失敗: %w", model.NewStorageFailureError())
	}
	return threats, nil
}

// Stats はダッシュボード向けの深刻度別・ソース別集計を返す。
func (s *Service) Stats(ctx context.Context) (*model.ThreatStats, error) {
	stats, err := s.threatRepo.Stats(ctx)
	if err != nil {
		s.logger.Error("脅威統計の取得に失敗しました", slog.String("error", err.Error()))
		return nil, fmt.Errorf("脅威統計の取得に失敗: %w", model.NewStorageFailureError())
	}
	return stats, nil
}
