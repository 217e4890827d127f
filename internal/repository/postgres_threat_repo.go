package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/codelife/codelife/internal/model"
)

// PostgresThreatRepo はPostgreSQLを使用した脅威インテリジェンスリポジトリ。
type PostgresThreatRepo struct {
	db *sql.DB
}

// NewPostgresThreatRepo はPostgresThreatRepoを生成する。
func NewPostgresThreatRepo(db *sql.DB) *PostgresThreatRepo {
	return &PostgresThreatRepo{db: db}
}

// Create は脅威レコードを新規保存し、採番したIDをthreat.IDに設定する。
func (r *PostgresThreatRepo) Create(ctx context.Context, threat *model.Threat) error {
	if threat.ID == "" {
		threat.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO threats (id, threat_type, indicators, severity, source, description, occurred_at, processed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		threat.ID, threat.Type, pq.Array(threat.Indicators), string(threat.Severity),
		threat.Source, threat.Description, threat.Timestamp, threat.Processed,
	)
	if err != nil {
		return fmt.Errorf("脅威レコードの保存に失敗しました: %w", err)
	}
	return nil
}

// ListLatest は発生日時の降順で最新limit件の脅威を返す。
func (r *PostgresThreatRepo) ListLatest(ctx context.Context, limit int) ([]model.Threat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, threat_type, indicators, severity, source, description, occurred_at, processed
		 FROM threats
		 ORDER BY occurred_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("最新脅威の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var threats []model.Threat
	for rows.Next() {
		var th model.Threat
		var indicators pq.StringArray
		var severity string

		if err := rows.Scan(
			&th.ID, &th.Type, &indicators, &severity,
			&th.Source, &th.Description, &th.Timestamp, &th.Processed,
		); err != nil {
			return nil, fmt.Errorf("脅威行の読み取りに失敗しました: %w", err)
		}

		th.Indicators = []string(indicators)
		th.Severity = model.Severity(severity)
		threats = append(threats, th)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("脅威一覧の走査に失敗しました: %w", err)
	}

	return threats, nil
}

// Stats は深刻度別・ソース別の集計統計を返す。
func (r *PostgresThreatRepo) Stats(ctx context.Context) (*model.ThreatStats, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT severity, source, COUNT(*) FROM threats GROUP BY severity, source`,
	)
	if err != nil {
		return nil, fmt.Errorf("脅威統計の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	stats := &model.ThreatStats{
		BySeverity: make(map[model.Severity]int),
		BySource:   make(map[string]int),
	}

	for rows.Next() {
		var severity, source string
		var count int
		if err := rows.Scan(&severity, &source, &count); err != nil {
			return nil, fmt.Errorf("統計行の読み取りに失敗しました: %w", err)
		}
		stats.Total += count
		stats.BySeverity[model.Severity(severity)] += count
		stats.BySource[source] += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("脅威統計の走査に失敗しました: %w", err)
	}

	return stats, nil
}
