// Package course は学習コース・レッスン・進捗管理のユースケースを提供する。
package course

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/codelife/codelife/internal/model"
	"github.com/codelife/codelife/internal/repository"
	"github.com/codelife/codelife/internal/security"
)

// Service はコース一覧・詳細・レッスン完了・進捗集計を提供する。
// レッスン本文のHTMLは保存前にサニタイズされるため、
// 読み出し側は常に安全なHTMLとして扱える。
type Service struct {
	courseRepo   repository.CourseRepository
	progressRepo repository.ProgressRepository
	sanitizer    security.ContentSanitizerService
	logger       *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	courseRepo repository.CourseRepository,
	progressRepo repository.ProgressRepository,
	sanitizer security.ContentSanitizerService,
	logger *slog.Logger,
) *Service {
	return &Service{
		courseRepo:   courseRepo,
		progressRepo: progressRepo,
		sanitizer:    sanitizer,
		logger:       logger,
	}
}

// List は全コースをレッスン数付きで返す。
func (s *Service) List(ctx context.Context) ([]model.Course, error) {
	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		s.logger.Error("コース一覧の取得に失敗しました", slog.String("error", err.Error()))
		return nil, fmt.Errorf("コース一覧の取得に失敗: %w", model.NewStorageFailureError())
	}
	return courses, nil
}

// Detail はコース詳細をレッスン一覧（ユーザーの完了状態付き）とともに返す。
// コースが存在しない場合はCOURSE_NOT_FOUNDを返す。
func (s *Service) Detail(ctx context.Context, courseID, userID string) (*model.CourseDetail, error) {
	c, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		s.logger.Error("コースの取得に失敗しました", slog.String("error", err.Error()))
		return nil, fmt.Errorf("コースの取得に失敗: %w", model.NewStorageFailureError())
	}
	if c == nil {
		return nil, model.NewCourseNotFoundError(courseID)
	}

	lessons, err := s.courseRepo.ListLessons(ctx, courseID)
	if err != nil {
		s.logger.Error("レッスン一覧の取得に失敗しました", slog.String("error", err.Error()))
		return nil, fmt.Errorf("レッスン一覧の取得に失敗: %w", model.NewStorageFailureError())
	}

	completed, err := s.progressRepo.CompletedLessonIDs(ctx, userID)
	if err != nil {
		s.logger.Error("完了レッスンの取得に失敗しました", slog.String("error", err.Error()))
		return nil, fmt.Errorf("完了レッスンの取得に失敗: %w", model.NewStorageFailureError())
	}

	detail := &model.CourseDetail{
		Course:  *c,
		Lessons: make([]model.LessonWithProgress, 0, len(lessons)),
	}
	for _, lesson := range lessons {
		detail.Lessons = append(detail.Lessons, model.LessonWithProgress{
			Lesson:    lesson,
			Completed: completed[lesson.ID],
		})
	}

	return detail, nil
}

// MarkLessonComplete はレッスン完了を記録する。
// レッスンの存在を確認してから記録するため、存在しないレッスンIDへの
// 進捗は作られない。既に完了済みの場合も成功として扱う（冪等）。
func (s *Service) MarkLessonComplete(ctx context.Context, userID, courseID, lessonID string) error {
	lesson, err := s.courseRepo.FindLesson(ctx, courseID, lessonID)
	if err != nil {
		s.logger.Error("レッスンの取得に失敗しました", slog.String("error", err.Error()))
		return fmt.Errorf("レッスンの取得に失敗: %w", model.NewStorageFailureError())
	}
	if lesson == nil {
		return model.NewLessonNotFoundError(lessonID)
	}

	if err := s.progressRepo.MarkComplete(ctx, userID, courseID, lessonID); err != nil {
		s.logger.Error("進捗の記録に失敗しました", slog.String("error", err.Error()))
		return fmt.Errorf("進捗の記録に失敗: %w", model.NewStorageFailureError())
	}

	s.logger.Info("レッスン完了を記録しました",
		slog.String("user_id", userID),
		slog.String("course_id", courseID),
		slog.String("lesson_id", lessonID),
	)

	return nil
}

// ProgressSummary はユーザーの学習進捗の集計を返す。
func (s *Service) ProgressSummary(ctx context.Context, userID string) (*model.ProgressSummary, error) {
	summary, err := s.progressRepo.Summary(ctx, userID)
	if err != nil {
		s.logger.Error("進捗集計の取得に失敗しました", slog.String("error", err.Error()))
		return nil, fmt.Errorf("進捗集計の取得に失敗: %w", model.NewStorageFailureError())
	}
	return summary, nil
}

// CreateCourse はコースを新規作成する。タイトルは必須。
func (s *Service) CreateCourse(ctx context.Context, c *model.Course) error {
	if strings.TrimSpace(c.Title) == "" {
		return model.NewInvalidRequestError("コースタイトルは必須です")
	}

	if err := s.courseRepo.Create(ctx, c); err != nil {
		s.logger.Error("コースの作成に失敗しました", slog.String("error", err.Error()))
		return fmt.Errorf("コースの作成に失敗: %w", model.NewStorageFailureError())
	}

	s.logger.Info("コースを作成しました", slog.String("course_id", c.ID))
	return nil
}

// CreateLesson はレッスンを新規作成する。
// 本文HTMLは保存前にサニタイズされる。親コースが存在しない場合は
// COURSE_NOT_FOUNDを返す。
func (s *Service) CreateLesson(ctx context.Context, lesson *model.Lesson) error {
	if strings.TrimSpace(lesson.Title) == "" {
		return model.NewInvalidRequestError("レッスンタイトルは必須です")
	}

	parent, err := s.courseRepo.FindByID(ctx, lesson.CourseID)
	if err != nil {
		s.logger.Error("コースの取得に失敗しました", slog.String("error", err.Error()))
		return fmt.Errorf("コースの取得に失敗: %w", model.NewStorageFailureError())
	}
	if parent == nil {
		return model.NewCourseNotFoundError(lesson.CourseID)
	}

	lesson.Content = s.sanitizer.Sanitize(lesson.Content)

	if err := s.courseRepo.CreateLesson(ctx, lesson); err != nil {
		s.logger.Error("レッスンの作成に失敗しました", slog.String("error", err.Error()))
		return fmt.Errorf("レッスンの作成に失敗: %w", model.NewStorageFailureError())
	}

	s.logger.Info("レッスンを作成しました",
		slog.String("course_id", lesson.CourseID),
		slog.String("lesson_id", lesson.ID),
	)
	return nil
}

// UpdateCourse はコース情報を更新する。
func (s *Service) UpdateCourse(ctx context.Context, c *model.Course) error {
	if strings.TrimSpace(c.Title) == "" {
		return model.NewInvalidRequestError("コースタイトルは必須です")
	}

	existing, err := s.courseRepo.FindByID(ctx, c.ID)
	if err != nil {
		s.logger.Error("コースの取得に失敗しました", slog.String("error", err.Error()))
		return fmt.Errorf("コースの取得に失敗: %w", model.NewStorageFailureError())
	}
	if existing == nil {
		return model.NewCourseNotFoundError(c.ID)
	}

	if err := s.courseRepo.Update(ctx, c); err != nil {
		s.logger.Error("コースの更新に失敗しました", slog.String("error", err.Error()))
		return fmt.Errorf("コースの更新に失敗: %w", model.NewStorageFailureError())
	}
	return nil
}

// DeleteCourse はコースを削除する。所属レッスンと進捗も削除される。
func (s *Service) DeleteCourse(ctx context.Context, courseID string) error {
	existing, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		s.logger.Error("コースの取得に失敗しました", slog.String("error", err.Error()))
		return fmt.Errorf("コースの取得に失敗: %w", model.NewStorageFailureError())
	}
	if existing == nil {
		return model.NewCourseNotFoundError(courseID)
	}

	if err := s.courseRepo.Delete(ctx, courseID); err != nil {
		s.logger.Error("コースの削除に失敗しました", slog.String("error", err.Error()))
		return fmt.Errorf("コースの削除に失敗: %w", model.NewStorageFailureError())
	}

	s.logger.Info("コースを削除しました", slog.String("course_id", courseID))
	return nil
}
