package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/codelife/codelife/internal/model"
)

// PostgresArticleRepo はPostgreSQLを使用した記事リポジトリ。
type PostgresArticleRepo struct {
	db *sql.DB
}

// NewPostgresArticleRepo はPostgresArticleRepoを生成する。
func NewPostgresArticleRepo(db *sql.DB) *PostgresArticleRepo {
	return &PostgresArticleRepo{db: db}
}

// FindByURL は指定URLの記事を1件検索する。見つからない場合はnilを返す。
func (r *PostgresArticleRepo) FindByURL(ctx context.Context, url string) (*model.Article, error) {
	article := &model.Article{}
	var tags pq.StringArray

	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, url, source, feed_code, summary, tags, published_at, created_at
		 FROM articles WHERE url = $1 LIMIT 1`,
		url,
	).Scan(
		&article.ID, &article.Title, &article.URL, &article.Source, &article.FeedCode,
		&article.Summary, &tags, &article.PublishedAt, &article.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("URLによる記事の検索に失敗しました: %w", err)
	}

	article.Tags = []string(tags)
	return article, nil
}

// Create は記事を新規保存し、採番したIDをarticle.IDに設定する。
func (r *PostgresArticleRepo) Create(ctx context.Context, article *model.Article) error {
	if article.ID == "" {
		article.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO articles (id, title, url, source, feed_code, summary, tags, published_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		article.ID, article.Title, article.URL, article.Source, article.FeedCode,
		article.Summary, pq.Array(article.Tags), article.PublishedAt, article.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("記事の保存に失敗しました: %w", err)
	}
	return nil
}

// ListLatest は公開日時の降順で最新limit件の記事を返す。
// 同時刻の記事は挿入順（seq昇順）で安定ソートされる。
func (r *PostgresArticleRepo) ListLatest(ctx context.Context, limit int) ([]model.Article, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, url, source, feed_code, summary, tags, published_at, created_at
		 FROM articles
		 ORDER BY published_at DESC, seq ASC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("最新記事の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var articles []model.Article
	for rows.Next() {
		var a model.Article
		var tags pq.StringArray

		if err := rows.Scan(
			&a.ID, &a.Title, &a.URL, &a.Source, &a.FeedCode,
			&a.Summary, &tags, &a.PublishedAt, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("記事行の読み取りに失敗しました: %w", err)
		}

		a.Tags = []string(tags)
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("記事一覧の走査に失敗しました: %w", err)
	}

	return articles, nil
}
