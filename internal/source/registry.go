// Package source はニュースフィードソースの静的レジストリを提供する。
package source

import "github.com/codelife/codelife/internal/model"

// sources はプロセス起動時に確定する登録済みフィードソース。
// 実行中の追加・削除はサポートしない。
var sources = []model.Source{
	{Code: "thn", Name: "The Hacker News", URL: "https://feeds.feedburner.com/TheHackersNews"},
	{Code: "krebs", Name: "Krebs on Security", URL: "https://krebsonsecurity.com/feed/"},
	{Code: "bleepingcomputer", Name: "BleepingComputer", URL: "https://www.bleepingcomputer.com/feed/"},
	{Code: "darkreading", Name: "DarkReading", URL: "https://www.darkreading.com/rss.xml"},
	{Code: "securityweek", Name: "SecurityWeek", URL: "https://feeds.securityweek.com/securityweek"},
	{Code: "cybersecuritydive", Name: "Cybersecurity Dive", URL: "https://www.cybersecuritydive.com/feeds/news/"},
	{Code: "googleai", Name: "Google AI Blog", URL: "https://ai.googleblog.com/feeds/posts/default"},
	{Code: "openai", Name: "OpenAI Blog", URL: "https://openai.com/blog/rss/"},
	{Code: "nvidia", Name: "Nvidia Technical Blog", URL: "https://blogs.nvidia.com/feed/"},
	{Code: "aireport", Name: "The AI Report", URL: "https://theaibox.co/feed/"},
}

// List は登録済みソースの一覧を返す。
// 返り値のスライスは呼び出し側で変更しないこと。
func List() []model.Source {
	return sources
}
