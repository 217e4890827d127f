// Package news はニュースフィードの取得・正規化・重複排除・保存を提供する。
package news

import (
	"strings"
	"time"
	"unicode"

	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html"

	"github.com/codelife/codelife/internal/model"
)

// Normalize は1件のフィードエントリを正規化済み記事に変換する。
// すべてのフィールドに決定的なフォールバックを持つため、失敗しない。
// URLが解決できない場合はURL空のまま返り、保存ゲート側で破棄される。
func Normalize(item *gofeed.Item, src model.Source, now time.Time) model.Article {
	title := item.Title
	if title == "" {
		title = model.DefaultTitle
	}

	// linkを優先し、なければidで代用する
	url := item.Link
	if url == "" {
		url = item.GUID
	}

	summary := deriveSummary(item)

	return model.Article{
		Title:       title,
		URL:         url,
		Source:      src.Name,
		FeedCode:    src.Code,
		Summary:     summary,
		Tags:        extractTags(title, summary),
		PublishedAt: resolvePublishedAt(item, now),
		CreatedAt:   now,
	}
}

// resolvePublishedAt は公開日時を解決する。優先順位:
//  1. 構造化された公開日時
//  2. 構造化された更新日時
//  3. 公開日時文字列のISO-8601パース（失敗は無視）
//  4. 現在時刻
//
// 公開メタデータを更新メタデータより優先し、推測を最後に置く。
func resolvePublishedAt(item *gofeed.Item, now time.Time) time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC()
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed.UTC()
	}
	if item.Published != "" {
		if t, err := time.Parse(time.RFC3339, item.Published); err == nil {
			return t.UTC()
		}
	}
	return now
}

// deriveSummary はサマリーを導出する。
// summary/description → 本文ブロックの順で最初の非空テキストを選び、
// HTMLをプレーンテキスト化した上で最初のピリオドまでを切り出し、
// 240文字に制限する。言語非依存の素朴な文境界ヒューリスティックであり、
// 本格的な要約処理ではない。
func deriveSummary(item *gofeed.Item) string {
	text := item.Description
	if text == "" {
		text = item.Content
	}

	text = plainText(text)

	// 最初のピリオドより前を文として採用する
	if i := strings.IndexByte(text, '.'); i >= 0 {
		text = text[:i]
	}

	runes := []rune(text)
	if len(runes) > model.SummaryMaxLen {
		text = string(runes[:model.SummaryMaxLen])
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return model.DefaultSummary
	}
	return text
}

// extractTags はタイトルとサマリーからキーワードタグを抽出する。
// 小文字化した連結テキストを空白で分割し、英数字以外を除去した
// 5文字以上のトークンを出現順に最大5件、重複なく採用する。
// 同一のタイトル+サマリーに対して決定的に同一の結果を返す。
func extractTags(title, summary string) []string {
	words := strings.Fields(strings.ToLower(title + " " + summary))

	var tags []string
	seen := make(map[string]bool)

	for _, w := range words {
		var b strings.Builder
		for _, r := range w {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(r)
			}
		}
		clean := b.String()

		if len([]rune(clean)) > 4 && !seen[clean] {
			tags = append(tags, clean)
			seen[clean] = true
		}
		if len(tags) >= model.MaxTags {
			break
		}
	}

	return tags
}

// plainText はHTML断片をプレーンテキストに変換する。
// タグを除去し、文字実体参照をデコードする。パースエラー時は
// それまでに抽出できたテキストを返す。
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
