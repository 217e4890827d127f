// Package model はドメインモデルを定義する。
package model

import "time"

// Threat はOSINTソースから取得した脅威インテリジェンスを表す。
type Threat struct {
	ID          string
	Type        string // Malware / Phishing / Vulnerability / DDoS など
	Indicators  []string
	Severity    Severity
	Source      string
	Description string
	Timestamp   time.Time
	Processed   bool
}

// Severity は脅威の深刻度を表す。
type Severity string

const (
	// SeverityHigh は高深刻度の脅威。
	SeverityHigh Severity = "High"
	// SeverityMedium は中深刻度の脅威。
	SeverityMedium Severity = "Medium"
	// SeverityLow は低深刻度の脅威。
	SeverityLow Severity = "Low"
)

// ThreatStats は脅威の集計統計を表す。
type ThreatStats struct {
	Total      int
	BySeverity map[Severity]int
	BySource   map[string]int
}
