package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/codelife/codelife/internal/model"
)

// ThreatServiceInterface は脅威ハンドラーが必要とするサービスインターフェース。
type ThreatServiceInterface interface {
	// Refresh はOSINTソースから脅威データを取得して保存し、保存件数を返す。
	Refresh(ctx context.Context) (int, error)
	// Latest は発生日時の降順で最新の脅威を返す。
	Latest(ctx context.Context) ([]model.Threat, error)
	// Stats は深刻度別・ソース別の集計統計を返す。
	Stats(ctx context.Context) (*model.ThreatStats, error)
}

// ThreatHandler は脅威インテリジェンスのHTTPハンドラー。
type ThreatHandler struct {
	service ThreatServiceInterface
}

// NewThreatHandler はThreatHandlerを生成する。
func NewThreatHandler(service ThreatServiceInterface) *ThreatHandler {
	return &ThreatHandler{service: service}
}

// threatResponse は脅威レコードのJSON表現。
type threatResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Indicators  []string  `json:"indicators"`
	Severity    string    `json:"severity"`
	Source      string    `json:"source"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Processed   bool      `json:"processed"`
}

// threatListResponse は脅威一覧のレスポンス。
type threatListResponse struct {
	Success bool             `json:"success"`
	Count   int              `json:"count"`
	Threats []threatResponse `json:"threats"`
}

// threatStatsResponse は脅威統計のレスポンス。
type threatStatsResponse struct {
	Total      int            `json:"total"`
	BySeverity map[string]int `json:"by_severity"`
	BySource   map[string]int `json:"by_source"`
}

// Latest は発生日時の降順で最新の脅威一覧を返す。
// GET /threats/latest
func (h *ThreatHandler) Latest(w http.ResponseWriter, r *http.Request) {
	threats, err := h.service.Latest(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := threatListResponse{
		Success: true,
		Count:   len(threats),
		Threats: make([]threatResponse, 0, len(threats)),
	}
	for _, t := range threats {
		indicators := t.Indicators
		if indicators == nil {
			indicators = []string{}
		}
		resp.Threats = append(resp.Threats, threatResponse{
			ID:          t.ID,
			Type:        t.Type,
			Indicators:  indicators,
			Severity:    string(t.Severity),
			Source:      t.Source,
			Description: t.Description,
			Timestamp:   t.Timestamp.UTC(),
			Processed:   t.Processed,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Refresh はOSINTソースからの脅威データ取得と保存を実行する。
// POST /threats/refresh
func (h *ThreatHandler) Refresh(w http.ResponseWriter, r *http.Request) {
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

// Stats はダッシュボード向けの脅威統計を返す。
// GET /threats/stats
func (h *ThreatHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	bySeverity := make(map[string]int, len(stats.BySeverity))
	for severity, count := range stats.BySeverity {
		bySeverity[string(severity)] = count
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(threatStatsResponse{
		Total:      stats.Total,
		BySeverity: bySeverity,
		BySource:   stats.BySource,
	})
}
