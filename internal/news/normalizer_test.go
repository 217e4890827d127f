package news

import (
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/codelife/codelife/internal/model"
)

var testSource = model.Source{
	Code: "thn",
	Name: "The Hacker News",
	URL:  "https://feeds.feedburner.com/TheHackersNews",
}

func TestNormalize_TitleFallback(t *testing.T) {
	now := time.Now().UTC()

	got := Normalize(&gofeed.Item{Link: "https://x.example/a"}, testSource, now)
	if got.Title != "Untitled" {
		t.Errorf("Title = %q, want %q", got.Title, "Untitled")
	}

	got = Normalize(&gofeed.Item{Title: "Zero-Day Found", Link: "https://x.example/a"}, testSource, now)
	if got.Title != "Zero-Day Found" {
		t.Errorf("Title = %q, want %q", got.Title, "Zero-Day Found")
	}
}

func TestNormalize_URLFallsBackToGUID(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name string
		item gofeed.Item
		want string
	}{
		{"linkを優先", gofeed.Item{Link: "https://x.example/a", GUID: "guid-1"}, "https://x.example/a"},
		{"linkがなければGUID", gofeed.Item{GUID: "https://x.example/b"}, "https://x.example/b"},
		{"どちらもなければ空", gofeed.Item{Title: "t"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(&tt.item, testSource, now)
			if got.URL != tt.want {
				t.Errorf("URL = %q, want %q", got.URL, tt.want)
			}
		})
	}
}

func TestNormalize_TimestampFallbackOrder(t *testing.T) {
	published := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		item gofeed.Item
		want time.Time
	}{
		{
			name: "構造化公開日時が最優先",
			item: gofeed.Item{PublishedParsed: &published, UpdatedParsed: &updated},
			want: published,
		},
		{
			name: "公開日時がなければ更新日時",
			item: gofeed.Item{UpdatedParsed: &updated},
			want: updated,
		},
		{
			name: "文字列のISO-8601パース",
			item: gofeed.Item{Published: "2024-01-01T00:00:00+00:00"},
			want: published,
		},
		{
			name: "パース不能な文字列は現在時刻",
			item: gofeed.Item{Published: "last tuesday"},
			want: now,
		},
		{
			name: "何もなければ現在時刻",
			item: gofeed.Item{},
			want: now,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(&tt.item, testSource, now)
			if !got.PublishedAt.Equal(tt.want) {
				t.Errorf("PublishedAt = %v, want %v", got.PublishedAt, tt.want)
			}
		})
	}
}

func TestNormalize_CreatedAtIsIngestionTime(t *testing.T) {
	published := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC)

	got := Normalize(&gofeed.Item{PublishedParsed: &published}, testSource, now)
	if !got.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want ingestion time %v", got.CreatedAt, now)
	}
}

func TestDeriveSummary_FirstSentence(t *testing.T) {
	item := &gofeed.Item{
		Description: "A critical flaw was found. More details inside.",
	}
	got := deriveSummary(item)
	if got != "A critical flaw was found" {
		t.Errorf("deriveSummary = %q, want %q", got, "A critical flaw was found")
	}
}

func TestDeriveSummary_FallsBackToContent(t *testing.T) {
	item := &gofeed.Item{
		Content: "Full body text here. And more.",
	}
	got := deriveSummary(item)
	if got != "Full body text here" {
		t.Errorf("deriveSummary = %q, want %q", got, "Full body text here")
	}
}

func TestDeriveSummary_Bound(t *testing.T) {
	// ピリオドを含まない300文字の入力
	long := strings.Repeat("abcde ", 50)
	item := &gofeed.Item{Description: long}

	got := deriveSummary(item)
	if n := len([]rune(got)); n > 240 {
		t.Errorf("summary length = %d, want <= 240", n)
	}
	if got != strings.TrimSpace(got) {
		t.Errorf("summary has leading/trailing whitespace: %q", got)
	}
}

func TestDeriveSummary_EmptyFallback(t *testing.T) {
	tests := []struct {
		name string
		item gofeed.Item
	}{
		{"全フィールド空", gofeed.Item{}},
		{"空白のみ", gofeed.Item{Description: "   "}},
		{"ピリオド始まり", gofeed.Item{Description: ". trailing"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deriveSummary(&tt.item)
			if got != "No summary available." {
				t.Errorf("deriveSummary = %q, want %q", got, "No summary available.")
			}
		})
	}
}

func TestDeriveSummary_StripsHTML(t *testing.T) {
	item := &gofeed.Item{
		Description: "<p>Ransomware gang <strong>exposed</strong> by researchers. Details follow.</p>",
	}
	got := deriveSummary(item)
	if got != "Ransomware gang exposed by researchers" {
		t.Errorf("deriveSummary = %q, want HTML stripped first sentence", got)
	}
}

func TestExtractTags_CapAndDedup(t *testing.T) {
	// 5件を超える5文字以上のトークンを含む入力
	tags := extractTags(
		"Critical vulnerability discovered affecting enterprise routers",
		"Critical vulnerability allows remote attackers unlimited access",
	)

	if len(tags) != 5 {
		t.Fatalf("len(tags) = %d, want 5", len(tags))
	}

	seen := make(map[string]bool)
	for _, tag := range tags {
		if len([]rune(tag)) <= 4 {
			t.Errorf("tag %q has length <= 4", tag)
		}
		if seen[tag] {
			t.Errorf("duplicate tag: %q", tag)
		}
		seen[tag] = true
	}

	// 出現順: critical, vulnerability, discovered, affecting, enterprise
	want := []string{"critical", "vulnerability", "discovered", "affecting", "enterprise"}
	for i, w := range want {
		if tags[i] != w {
			t.Errorf("tags[%d] = %q, want %q", i, tags[i], w)
		}
	}
}

func TestExtractTags_StripsNonAlphanumeric(t *testing.T) {
	tags := extractTags("Zero-Day Found!", "A critical flaw was found")

	// "zero-day" → "zeroday"、"found!" → "found"
	wantPresent := []string{"zeroday", "found", "critical"}
	got := make(map[string]bool)
	for _, tag := range tags {
		got[tag] = true
	}
	for _, w := range wantPresent {
		if !got[w] {
			t.Errorf("expected tag %q in %v", w, tags)
		}
	}
}

func TestExtractTags_Deterministic(t *testing.T) {
	a := extractTags("Supply chain attack hits registry", "Malicious packages discovered today")
	b := extractTags("Supply chain attack hits registry", "Malicious packages discovered today")

	if len(a) != len(b) {
		t.Fatalf("non-deterministic tag count: %d != %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("non-deterministic tag order at %d: %q != %q", i, a[i], b[i])
		}
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"プレーンテキストはそのまま", "no markup here", "no markup here"},
		{"タグ除去", "<p>hello <em>world</em></p>", "hello world"},
		{"実体参照のデコード", "fish &amp; chips", "fish & chips"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := plainText(tt.input); got != tt.want {
				t.Errorf("plainText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
