// Package auth はIDトークン検証によるユーザー認証を提供する。
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultTokeninfoURL = "https://oauth2.googleapis.com/tokeninfo"

// Identity は検証済みトークンから得られるユーザー情報。
type Identity struct {
	UserID string
	Email  string
}

// TokenVerifier はベアラートークンを検証するインターフェース。
type TokenVerifier interface {
	// Verify はIDトークンを検証し、ユーザー情報を返す。
	// 無効・期限切れのトークンにはエラーを返す。
	Verify(ctx context.Context, token string) (*Identity, error)
}

// TokeninfoVerifierConfig はTokeninfoVerifierの設定。
type TokeninfoVerifierConfig struct {
	// テスト用にオーバーライド可能なURL
	TokeninfoURL string
}

// TokeninfoVerifier はIDプロバイダーのtokeninfoエンドポイントに
// 問い合わせてIDトークンを検証するTokenVerifier実装。
type TokeninfoVerifier struct {
	config TokeninfoVerifierConfig
	client *http.Client
}

// NewTokeninfoVerifier はTokeninfoVerifierを生成する。
func NewTokeninfoVerifier(config TokeninfoVerifierConfig) *TokeninfoVerifier {
	if config.TokeninfoURL == "" {
		config.TokeninfoURL = defaultTokeninfoURL
	}
	return &TokeninfoVerifier{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// tokeninfoResponse はtokeninfoエンドポイントのレスポンス。
type tokeninfoResponse struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Exp   string `json:"exp"`
}

// Verify はtokeninfoエンドポイントでIDトークンを検証する。
func (v *TokeninfoVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	endpoint := v.config.TokeninfoURL + "?id_token=" + url.QueryEscape(token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("トークン検証リクエストの作成に失敗: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("トークン検証リクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("トークンが無効です: status=%d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return nil, fmt.Errorf("トークン検証レスポンスの読み取りに失敗: %w", err)
	}

	var info tokeninfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("トークン検証レスポンスのパースに失敗: %w", err)
	}

	if info.Sub == "" {
		return nil, fmt.Errorf("トークンにユーザーIDが含まれていません")
	}

	// tokeninfoは通常期限切れトークンに非200を返すが、念のため期限も確認する
	if info.Exp != "" {
		exp, err := strconv.ParseInt(info.Exp, 10, 64)
		if err == nil && time.Now().Unix() >= exp {
			return nil, fmt.Errorf("トークンの有効期限が切れています")
		}
	}

	return &Identity{
		UserID: info.Sub,
		Email:  info.Email,
	}, nil
}
