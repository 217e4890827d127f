package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func testRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(30.0 / 60.0),
		GeneralBurst:    3,
		RefreshRate:     rate.Limit(5.0 / 60.0),
		RefreshBurst:    2,
		CleanupInterval: time.Hour,
	}
}

func doRequest(handler http.Handler, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/news/latest", nil)
	req = req.WithContext(ContextWithUserID(req.Context(), userID))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestGeneralMiddleware_AllowsUpToBurst(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		if rec := doRequest(handler, "u1"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, rec.Code)
		}
	}

	rec := doRequest(handler, "u1")
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}
}

func TestGeneralMiddleware_PerUserIsolation(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// u1のバーストを使い切る
	for i := 0; i < 4; i++ {
		doRequest(handler, "u1")
	}

	// u2は影響を受けない
	if rec := doRequest(handler, "u2"); rec.Code != http.StatusOK {
		t.Errorf("u2 status = %d, want 200", rec.Code)
	}

	if rl.GeneralLimiterCount() != 2 {
		t.Errorf("GeneralLimiterCount = %d, want 2", rl.GeneralLimiterCount())
	}
}

func TestRefreshMiddleware_IndependentOfGeneral(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	general := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	refresh := rl.RefreshMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// リフレッシュのバースト(2)を使い切る
	for i := 0; i < 2; i++ {
		if rec := doRequest(refresh, "u1"); rec.Code != http.StatusOK {
			t.Fatalf("refresh %d: status = %d, want 200", i, rec.Code)
		}
	}
	if rec := doRequest(refresh, "u1"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("refresh status = %d, want 429", rec.Code)
	}

	// API全般のリミッターは消費されていない
	if rec := doRequest(general, "u1"); rec.Code != http.StatusOK {
		t.Errorf("general status = %d, want 200", rec.Code)
	}
}

func TestRateLimit_RequiresUserID(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig())
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/news/latest", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestLimiterSet_EvictIdle(t *testing.T) {
	set := newLimiterSet(rate.Limit(1), 1)
	set.get("u1")
	set.get("u2")

	// アクセス時刻を過去に巻き戻す
	set.mu.Lock()
	set.limiters["u1"].lastAccess = time.Now().Add(-time.Hour)
	set.mu.Unlock()

	set.evictIdle(30 * time.Minute)

	if set.count() != 1 {
		t.Errorf("count = %d, want 1", set.count())
	}
}

func TestDefaultRateLimiterConfig(t *testing.T) {
	cfg := DefaultRateLimiterConfig()
	if cfg.GeneralBurst != 30 {
		t.Errorf("GeneralBurst = %d, want 30", cfg.GeneralBurst)
	}
	if cfg.RefreshBurst != 5 {
		t.Errorf("RefreshBurst = %d, want 5", cfg.RefreshBurst)
	}
}
