// Package model はドメインモデルを定義する。
package model

// Source は外部シンジケーションフィードの定義を表す。
// プロセス起動時に静的に登録され、実行中は変更されない。
type Source struct {
	Code string // 短縮識別子（例: "thn"）
	Name string // 表示名（例: "The Hacker News"）
	URL  string // フィードURL
}
