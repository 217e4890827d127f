package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/codelife/codelife/internal/model"
)

type mockThreatService struct {
	refreshCount int
	refreshErr   error
	threats      []model.Threat
	latestErr    error
	stats        *model.ThreatStats
	statsErr     error
}

func (m *mockThreatService) Refresh(context.Context) (int, error) {
	return m.refreshCount, m.refreshErr
}

func (m *mockThreatService) Latest(context.Context) ([]model.Threat, error) {
	return m.threats, m.latestErr
}

func (m *mockThreatService) Stats(context.Context) (*model.ThreatStats, error) {
	return m.stats, m.statsErr
}

func TestThreatHandler_Latest(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	h := NewThreatHandler(&mockThreatService{threats: []model.Threat{
		{
			ID:          "t1",
			Type:        "Malware",
			Indicators:  []string{"hash_abc123"},
			Severity:    model.SeverityHigh,
			Source:      "abuse.ch",
			Description: "Trojan detected",
			Timestamp:   ts,
		},
	}})

	req := httptest.NewRequest(http.MethodGet, "/threats/latest", nil)
	rec := httptest.NewRecorder()
	h.Latest(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Success bool `json:"success"`
		Count   int  `json:"count"`
		Threats []struct {
			Type       string   `json:"type"`
			Severity   string   `json:"severity"`
			Indicators []string `json:"indicators"`
			Timestamp  string   `json:"timestamp"`
			Processed  bool     `json:"processed"`
		} `json:"threats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if !resp.Success || resp.Count != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Threats[0].Severity != "High" {
		t.Errorf("severity = %q, want High", resp.Threats[0].Severity)
	}
	if resp.Threats[0].Timestamp != "2024-06-01T12:00:00Z" {
		t.Errorf("timestamp = %q", resp.Threats[0].Timestamp)
	}
}

func TestThreatHandler_Refresh(t *testing.T) {
	h := NewThreatHandler(&mockThreatService{refreshCount: 4})

	req := httptest.NewRequest(http.MethodPost, "/threats/refresh", nil)
	rec := httptest.NewRecorder()
	h.Refresh(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp refreshResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if !resp.Success || resp.Count != 4 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestThreatHandler_Stats(t *testing.T) {
	h := NewThreatHandler(&mockThreatService{stats: &model.ThreatStats{
		Total: 4,
		BySeverity: map[model.Severity]int{
			model.SeverityHigh:   2,
			model.SeverityMedium: 1,
			model.SeverityLow:    1,
		},
		BySource: map[string]int{"abuse.ch": 1, "otx": 1, "nvd": 1, "shodan": 1},
	}})

	req := httptest.NewRequest(http.MethodGet, "/threats/stats", nil)
	rec := httptest.NewRecorder()
	h.Stats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp threatStatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if resp.Total != 4 {
		t.Errorf("total = %d, want 4", resp.Total)
	}
	if resp.BySeverity["High"] != 2 {
		t.Errorf("by_severity.High = %d, want 2", resp.BySeverity["High"])
	}
	if resp.BySource["abuse.ch"] != 1 {
		t.Errorf("by_source[abuse.ch] = %d, want 1", resp.BySource["abuse.ch"])
	}
}
