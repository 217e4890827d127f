package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/codelife/codelife/internal/model"
)

// PostgresCourseRepo はPostgreSQLを使用したコースリポジトリ。
type PostgresCourseRepo struct {
	db *sql.DB
}

// NewPostgresCourseRepo はPostgresCourseRepoを生成する。
func NewPostgresCourseRepo(db *sql.DB) *PostgresCourseRepo {
	return &PostgresCourseRepo{db: db}
}

// List は全コースをレッスン数付きで返す。
func (r *PostgresCourseRepo) List(ctx context.Context) ([]model.Course, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.title, c.description, c.difficulty, c.duration_hours, c.thumbnail_url,
		        c.created_at, c.updated_at, COUNT(l.id) AS lesson_count
		 FROM courses c
		 LEFT JOIN lessons l ON l.course_id = c.id
		 GROUP BY c.id
		 ORDER BY c.created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("コース一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(
			&c.ID, &c.Title, &c.Description, &c.Difficulty, &c.DurationHours,
			&c.ThumbnailURL, &c.CreatedAt, &c.UpdatedAt, &c.LessonCount,
		); err != nil {
			return nil, fmt.Errorf("コース行の読み取りに失敗しました: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("コース一覧の走査に失敗しました: %w", err)
	}

	return courses, nil
}

// FindByID は指定IDのコースを取得する。見つからない場合はnilを返す。
func (r *PostgresCourseRepo) FindByID(ctx context.Context, id string) (*model.Course, error) {
	course := &model.Course{}

	err := r.db.QueryRowContext(ctx,
		`SELECT c.id, c.title, c.description, c.difficulty, c.duration_hours, c.thumbnail_url,
		        c.created_at, c.updated_at, COUNT(l.id) AS lesson_count
		 FROM courses c
		 LEFT JOIN lessons l ON l.course_id = c.id
		 WHERE c.id = $1
		 GROUP BY c.id`,
		id,
	).Scan(
		&course.ID, &course.Title, &course.Description, &course.Difficulty,
		&course.DurationHours, &course.ThumbnailURL,
		&course.CreatedAt, &course.UpdatedAt, &course.LessonCount,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("コースの取得に失敗しました: %w", err)
	}

	return course, nil
}

// ListLessons はコースのレッスン一覧をlesson_order昇順で返す。
func (r *PostgresCourseRepo) ListLessons(ctx context.Context, courseID string) ([]model.Lesson, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, course_id, title, content, lesson_order, duration_minutes, video_url, created_at, updated_at
		 FROM lessons
		 WHERE course_id = $1
		 ORDER BY lesson_order`,
		courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("レッスン一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var lessons []model.Lesson
	for rows.Next() {
		var l model.Lesson
		if err := rows.Scan(
			&l.ID, &l.CourseID, &l.Title, &l.Content, &l.Order,
			&l.DurationMinutes, &l.VideoURL, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("レッスン行の読み取りに失敗しました: %w", err)
		}
		lessons = append(lessons, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("レッスン一覧の走査に失敗しました: %w", err)
	}

	return lessons, nil
}

// FindLesson はコースIDとレッスンIDでレッスンを取得する。見つからない場合はnilを返す。
func (r *PostgresCourseRepo) FindLesson(ctx context.Context, courseID, lessonID string) (*model.Lesson, error) {
	lesson := &model.Lesson{}

	err := r.db.QueryRowContext(ctx,
		`SELECT id, course_id, title, content, lesson_order, duration_minutes, video_url, created_at, updated_at
		 FROM lessons
		 WHERE course_id = $1 AND id = $2`,
		courseID, lessonID,
	).Scan(
		&lesson.ID, &lesson.CourseID, &lesson.Title, &lesson.Content, &lesson.Order,
		&lesson.DurationMinutes, &lesson.VideoURL, &lesson.CreatedAt, &lesson.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("レッスンの取得に失敗しました: %w", err)
	}

	return lesson, nil
}

// Create はコースを新規作成し、採番したIDをcourse.IDに設定する。
func (r *PostgresCourseRepo) Create(ctx context.Context, course *model.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO courses (id, title, description, difficulty, duration_hours, thumbnail_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		course.ID, course.Title, course.Description, course.Difficulty,
		course.DurationHours, course.ThumbnailURL, course.CreatedAt, course.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("コースの作成に失敗しました: %w", err)
	}
	return nil
}

// CreateLesson はレッスンを新規作成し、採番したIDをlesson.IDに設定する。
func (r *PostgresCourseRepo) CreateLesson(ctx context.Context, lesson *model.Lesson) error {
	if lesson.ID == "" {
		lesson.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO lessons (id, course_id, title, content, lesson_order, duration_minutes, video_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		lesson.ID, lesson.CourseID, lesson.Title, lesson.Content, lesson.Order,
		lesson.DurationMinutes, lesson.VideoURL, lesson.CreatedAt, lesson.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("レッスンの作成に失敗しました: %w", err)
	}
	return nil
}

// Update はコース情報を更新する。
func (r *PostgresCourseRepo) Update(ctx context.Context, course *model.Course) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE courses
		 SET title = $2, description = $3, difficulty = $4, duration_hours = $5,
		     thumbnail_url = $6, updated_at = $7
		 WHERE id = $1`,
		course.ID, course.Title, course.Description, course.Difficulty,
		course.DurationHours, course.ThumbnailURL, course.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("コースの更新に失敗しました: %w", err)
	}
	return nil
}

// Delete はコースを削除する。所属レッスンと進捗はCASCADE削除される。
func (r *PostgresCourseRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("コースの削除に失敗しました: %w", err)
	}
	return nil
}
