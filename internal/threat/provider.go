// Package threat は脅威インテリジェンスの取得・保存・集計を提供する。
package threat

import (
	"context"
	"time"

	"github.com/codelife/codelife/internal/model"
)

// Provider はOSINTソースから脅威データを取得するインターフェース。
// 実プロバイダーの差し替え（abuse.ch、OTXなどのライブAPI）を想定する。
type Provider interface {
	Fetch(ctx context.Context) ([]model.Threat, error)
}

// StaticProvider は固定の脅威データを返すProvider実装。
// ライブOSINT APIの接続が整うまでのプレースホルダーとして、
// ダッシュボード開発に必要な代表的レコードを提供する。
type StaticProvider struct{}

// NewStaticProvider はStaticProviderの新しいインスタンスを生成する。
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{}
}

// Fetch は代表的な脅威タイプを網羅する固定データを返す。
// TimestampとProcessedは保存側で設定される。
func (p *StaticProvider) Fetch(_ context.Context) ([]model.Threat, error) {
	return []model.Threat{
		{
			Type:        "Malware",
			Indicators:  []string{"hash_abc123", "192.168.1.100"},
			Severity:    model.SeverityHigh,
			Source:      "abuse.ch",
			Description: "Trojan.Win32.Generic detected in network",
		},
		{
			Type:        "Phishing",
			Indicators:  []string{"attacker@phishing.com"},
			Severity:    model.SeverityMedium,
			Source:      "otx",
			Description: "Phishing campaign targeting finance sector",
		},
		{
			Type:        "Vulnerability",
			Indicators:  []string{"CVE-2024-1234"},
			Severity:    model.SeverityHigh,
			Source:      "nvd",
			Description: "Critical RCE vulnerability in popular framework",
		},
		{
			Type:        "DDoS",
			Indicators:  []string{"ASN12345"},
			Severity:    model.SeverityLow,
			Source:      "shodan",
			Description: "DDoS attack originating from compromised botnet",
		},
	}, nil
}

// clockFunc はテストで現在時刻を固定するためのフック。
type clockFunc func() time.Time
