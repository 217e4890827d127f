// Package model はドメインモデルを定義する。
package model

import "time"

// Article はフィードから取得・正規化済みのニュース記事を表す。
// URLが記事の同一性キーであり、保存前の重複判定に使用される。
type Article struct {
	ID          string
	Title       string
	URL         string
	Source      string // ソースの表示名
	FeedCode    string // ソースの短縮コード
	Summary     string
	Tags        []string
	PublishedAt time.Time
	CreatedAt   time.Time
}

// DefaultTitle はタイトルが取得できなかった場合の代替タイトル。
const DefaultTitle = "Untitled"

// DefaultSummary はサマリーが導出できなかった場合の代替テキスト。
const DefaultSummary = "No summary available."

// SummaryMaxLen はサマリーの最大文字数。
const SummaryMaxLen = 240

// MaxTags は1記事あたりのタグの最大数。
const MaxTags = 5
