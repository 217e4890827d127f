// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// news.FetchMetrics / news.StoreMetricsを満たす。
type Collector struct {
	fetchSuccess   *prometheus.CounterVec
	fetchFail      *prometheus.CounterVec
	httpStatus     *prometheus.CounterVec
	fetchLatency   prometheus.Histogram
	articlesStored prometheus.Counter
	threatsStored  prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		fetchSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "codelife_fetch_success_total",
			Help: "フィードフェッチ成功の合計数",
		}, []string{"feed_code"}),
		fetchFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "codelife_fetch_fail_total",
			Help: "フィードフェッチ失敗の合計数",
		}, []string{"feed_code"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "codelife_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		fetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "codelife_fetch_latency_seconds",
			Help:    "フィードフェッチのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		articlesStored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "codelife_articles_stored_total",
			Help: "新規保存されたニュース記事の合計数",
		}),
		threatsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "codelife_threats_stored_total",
			Help: "保存された脅威レコードの合計数",
		}),
	}

	reg.MustRegister(
		c.fetchSuccess,
		c.fetchFail,
		c.httpStatus,
		c.fetchLatency,
		c.articlesStored,
		c.threatsStored,
	)

	return c
}

// RecordFetchSuccess はフェッチ成功を記録する。
func (c *Collector) RecordFetchSuccess(feedCode string) {
	c.fetchSuccess.WithLabelValues(feedCode).Inc()
}

// RecordFetchFailure はフェッチ失敗を記録する。
func (c *Collector) RecordFetchFailure(feedCode string) {
	c.fetchFail.WithLabelValues(feedCode).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordFetchLatency はフェッチのレイテンシを記録する。
func (c *Collector) RecordFetchLatency(duration time.Duration) {
	c.fetchLatency.Observe(duration.Seconds())
}

// RecordArticlesStored は新規保存された記事数を記録する。
func (c *Collector) RecordArticlesStored(count int) {
	c.articlesStored.Add(float64(count))
}

// RecordThreatsStored は保存された脅威レコード数を記録する。
func (c *Collector) RecordThreatsStored(count int) {
	c.threatsStored.Add(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
