package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/codelife/codelife/internal/model"
)

// PostgresProgressRepo はPostgreSQLを使用した学習進捗リポジトリ。
type PostgresProgressRepo struct {
	db *sql.DB
}

// NewPostgresProgressRepo はPostgresProgressRepoを生成する。
func NewPostgresProgressRepo(db *sql.DB) *PostgresProgressRepo {
	return &PostgresProgressRepo{db: db}
}

// CompletedLessonIDs はユーザーが完了した全レッスンIDを返す。
func (r *PostgresProgressRepo) CompletedLessonIDs(ctx context.Context, userID string) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT lesson_id FROM user_progress WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("完了レッスンの取得に失敗しました: %w", err)
	}
	defer rows.Close()

	completed := make(map[string]bool)
	for rows.Next() {
		var lessonID string
		if err := rows.Scan(&lessonID); err != nil {
			return nil, fmt.Errorf("進捗行の読み取りに失敗しました: %w", err)
		}
		completed[lessonID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("進捗一覧の走査に失敗しました: %w", err)
	}

	return completed, nil
}

// MarkComplete はレッスン完了を冪等に記録する。
// (user_id, lesson_id) のUNIQUE制約によりON CONFLICTで重複を無視する。
func (r *PostgresProgressRepo) MarkComplete(ctx context.Context, userID, courseID, lessonID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_progress (id, user_id, course_id, lesson_id)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, lesson_id) DO NOTHING`,
		uuid.NewString(), userID, courseID, lessonID,
	)
	if err != nil {
		return fmt.Errorf("レッスン完了の記録に失敗しました: %w", err)
	}
	return nil
}

// Summary はユーザーの進捗集計を返す。
func (r *PostgresProgressRepo) Summary(ctx context.Context, userID string) (*model.ProgressSummary, error) {
	summary := &model.ProgressSummary{}

	err := r.db.QueryRowContext(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM user_progress WHERE user_id = $1),
		   (SELECT COUNT(*) FROM lessons),
		   (SELECT COUNT(DISTINCT course_id) FROM user_progress WHERE user_id = $1)`,
		userID,
	).Scan(&summary.CompletedLessons, &summary.TotalLessons, &summary.CoursesStarted)
	if err != nil {
		return nil, fmt.Errorf("進捗集計の取得に失敗しました: %w", err)
	}

	return summary, nil
}
