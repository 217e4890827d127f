// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/codelife/codelife/internal/model"
)

// ArticleRepository はニュース記事の永続化インターフェース。
// ストレージコラボレーターに要求する操作は3つのみ:
// URLによるポイント検索（LIMIT 1）、挿入、公開日時降順の取得。
type ArticleRepository interface {
	// FindByURL は指定URLの記事を1件検索する。見つからない場合はnilを返す。
	// 保存前の重複判定に使用される。
	FindByURL(ctx context.Context, url string) (*model.Article, error)

	// Create は記事を新規保存し、採番したIDをarticle.IDに設定する。
	Create(ctx context.Context, article *model.Article) error

	// ListLatest は公開日時の降順で最新limit件の記事を返す。
	// 公開日時が同値の場合は挿入順で安定ソートされる。
	ListLatest(ctx context.Context, limit int) ([]model.Article, error)
}

// ThreatRepository は脅威インテリジェンスの永続化インターフェース。
type ThreatRepository interface {
	// Create は脅威レコードを新規保存し、採番したIDをthreat.IDに設定する。
	Create(ctx context.Context, threat *model.Threat) error

	// ListLatest は発生日時の降順で最新limit件の脅威を返す。
	ListLatest(ctx context.Context, limit int) ([]model.Threat, error)

	// Stats は深刻度別・ソース別の集計統計を返す。
	Stats(ctx context.Context) (*model.ThreatStats, error)
}

// CourseRepository はコースとレッスンの永続化インターフェース。
type CourseRepository interface {
	// List は全コースをレッスン数付きで返す。
	List(ctx context.Context) ([]model.Course, error)

	// FindByID は指定IDのコースを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Course, error)

	// ListLessons はコースのレッスン一覧をlesson_order昇順で返す。
	ListLessons(ctx context.Context, courseID string) ([]model.Lesson, error)

	// FindLesson はコースIDとレッスンIDでレッスンを取得する。見つからない場合はnilを返す。
	FindLesson(ctx context.Context, courseID, lessonID string) (*model.Lesson, error)

	// Create はコースを新規作成し、採番したIDをcourse.IDに設定する。
	Create(ctx context.Context, course *model.Course) error

	// CreateLesson はレッスンを新規作成し、採番したIDをlesson.IDに設定する。
	CreateLesson(ctx context.Context, lesson *model.Lesson) error

	// Update はコース情報を更新する。
	Update(ctx context.Context, course *model.Course) error

	// Delete はコースを削除する。所属レッスンと進捗はCASCADE削除される。
	Delete(ctx context.Context, id string) error
}

// ProgressRepository はユーザーの学習進捗の永続化インターフェース。
type ProgressRepository interface {
	// CompletedLessonIDs はユーザーが完了した全レッスンIDを返す。
	CompletedLessonIDs(ctx context.Context, userID string) (map[string]bool, error)

	// MarkComplete はレッスン完了を冪等に記録する。
	// 既に完了済みの場合は何もしない。
	MarkComplete(ctx context.Context, userID, courseID, lessonID string) error

	// Summary はユーザーの進捗集計を返す。
	Summary(ctx context.Context, userID string) (*model.ProgressSummary, error)
}
