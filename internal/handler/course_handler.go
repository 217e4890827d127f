package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codelife/codelife/internal/middleware"
	"github.com/codelife/codelife/internal/model"
)

// CourseServiceInterface はコースハンドラーが必要とするサービスインターフェース。
type CourseServiceInterface interface {
	// List は全コースをレッスン数付きで返す。
	List(ctx context.Context) ([]model.Course, error)
	// Detail はコース詳細をレッスン一覧（完了状態付き）とともに返す。
	Detail(ctx context.Context, courseID, userID string) (*model.CourseDetail, error)
	// MarkLessonComplete はレッスン完了を冪等に記録する。
	MarkLessonComplete(ctx context.Context, userID, courseID, lessonID string) error
	// ProgressSummary はユーザーの学習進捗の集計を返す。
	ProgressSummary(ctx context.Context, userID string) (*model.ProgressSummary, error)
	// CreateCourse はコースを新規作成する。
	CreateCourse(ctx context.Context, c *model.Course) error
	// CreateLesson はレッスンを新規作成する。本文は保存前にサニタイズされる。
	CreateLesson(ctx context.Context, lesson *model.Lesson) error
	// UpdateCourse はコース情報を更新する。
	UpdateCourse(ctx context.Context, c *model.Course) error
	// DeleteCourse はコースを所属レッスン・進捗ごと削除する。
	DeleteCourse(ctx context.Context, courseID string) error
}

// CourseHandler はコース・レッスン・進捗管理のHTTPハンドラー。
type CourseHandler struct {
	service CourseServiceInterface
}

// NewCourseHandler はCourseHandlerを生成する。
func NewCourseHandler(service CourseServiceInterface) *CourseHandler {
	return &CourseHandler{service: service}
}

// --- レスポンス型 ---

// courseResponse はコース一覧のレスポンス要素。
type courseResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Difficulty    string `json:"difficulty"`
	DurationHours int    `json:"duration_hours,omitempty"`
	ThumbnailURL  string `json:"thumbnail_url,omitempty"`
	LessonCount   int    `json:"lesson_count"`
}

// lessonResponse はレッスンのレスポンス。
type lessonResponse struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Content         string `json:"content"` // サニタイズ済みHTML
	Order           int    `json:"order"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	VideoURL        string `json:"video_url,omitempty"`
	Completed       bool   `json:"completed"`
}

// courseDetailResponse はコース詳細のレスポンス。
type courseDetailResponse struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description,omitempty"`
	Difficulty    string           `json:"difficulty"`
	DurationHours int              `json:"duration_hours,omitempty"`
	ThumbnailURL  string           `json:"thumbnail_url,omitempty"`
	Lessons       []lessonResponse `json:"lessons"`
}

// markCompleteResponse はレッスン完了記録のレスポンス。
type markCompleteResponse struct {
	Message  string `json:"message"`
	LessonID string `json:"lesson_id"`
	CourseID string `json:"course_id"`
}

// progressSummaryResponse は進捗集計のレスポンス。
type progressSummaryResponse struct {
	CompletedLessons int `json:"completed_lessons"`
	TotalLessons     int `json:"total_lessons"`
	CoursesStarted   int `json:"courses_started"`
}

// createCourseRequest はコース作成リクエストのボディ。
type createCourseRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Difficulty    string `json:"difficulty"`
	DurationHours int    `json:"duration_hours"`
	ThumbnailURL  string `json:"thumbnail_url"`
}

// createLessonRequest はレッスン作成リクエストのボディ。
type createLessonRequest struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	Order           int    `json:"order"`
	DurationMinutes int    `json:"duration_minutes"`
	VideoURL        string `json:"video_url"`
}

// List は全コース一覧を返す。
// GET /courses
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]courseResponse, 0, len(courses))
	for _, c := range courses {
		resp = append(resp, courseResponse{
			ID:            c.ID,
			Title:         c.Title,
			Description:   c.Description,
			Difficulty:    c.Difficulty,
			DurationHours: c.DurationHours,
			ThumbnailURL:  c.ThumbnailURL,
			LessonCount:   c.LessonCount,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Detail はコース詳細をレッスン一覧（完了状態付き）とともに返す。
// GET /courses/{courseID}
func (h *CourseHandler) Detail(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	courseID := chi.URLParam(r, "courseID")

	detail, err := h.service.Detail(r.Context(), courseID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := courseDetailResponse{
		ID:            detail.ID,
		Title:         detail.Title,
		Description:   detail.Description,
		Difficulty:    detail.Difficulty,
		DurationHours: detail.DurationHours,
		ThumbnailURL:  detail.ThumbnailURL,
		Lessons:       make([]lessonResponse, 0, len(detail.Lessons)),
	}
	for _, lesson := range detail.Lessons {
		resp.Lessons = append(resp.Lessons, lessonResponse{
			ID:              lesson.ID,
			Title:           lesson.Title,
			Content:         lesson.Content,
			Order:           lesson.Order,
			DurationMinutes: lesson.DurationMinutes,
			VideoURL:        lesson.VideoURL,
			Completed:       lesson.Completed,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// MarkComplete はレッスン完了を記録する。
// POST /courses/{courseID}/lessons/{lessonID}/complete
func (h *CourseHandler) MarkComplete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	courseID := chi.URLParam(r, "courseID")
	lessonID := chi.URLParam(r, "lessonID")

	if err := h.service.MarkLessonComplete(r.Context(), userID, courseID, lessonID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(markCompleteResponse{
		Message:  "Lesson marked as complete",
		LessonID: lessonID,
		CourseID: courseID,
	})
}

// ProgressSummary はユーザーの学習進捗の集計を返す。
// GET /courses/progress/summary
func (h *CourseHandler) ProgressSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	summary, err := h.service.ProgressSummary(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(progressSummaryResponse{
		CompletedLessons: summary.CompletedLessons,
		TotalLessons:     summary.TotalLessons,
		CoursesStarted:   summary.CoursesStarted,
	})
}

// Create はコースを新規作成する。
// POST /courses
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	c := &model.Course{
		Title:         req.Title,
		Description:   req.Description,
		Difficulty:    req.Difficulty,
		DurationHours: req.DurationHours,
		ThumbnailURL:  req.ThumbnailURL,
	}
	if err := h.service.CreateCourse(r.Context(), c); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(courseResponse{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		Difficulty:    c.Difficulty,
		DurationHours: c.DurationHours,
		ThumbnailURL:  c.ThumbnailURL,
	})
}

// CreateLesson はコースにレッスンを追加する。
// POST /courses/{courseID}/lessons
func (h *CourseHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	var req createLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	lesson := &model.Lesson{
		CourseID:        courseID,
		Title:           req.Title,
		Content:         req.Content,
		Order:           req.Order,
		DurationMinutes: req.DurationMinutes,
		VideoURL:        req.VideoURL,
	}
	if err := h.service.CreateLesson(r.Context(), lesson); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(lessonResponse{
		ID:              lesson.ID,
		Title:           lesson.Title,
		Content:         lesson.Content,
		Order:           lesson.Order,
		DurationMinutes: lesson.DurationMinutes,
		VideoURL:        lesson.VideoURL,
	})
}

// Update はコース情報を更新する。
// PUT /courses/{courseID}
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	var req createCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	c := &model.Course{
		ID:            courseID,
		Title:         req.Title,
		Description:   req.Description,
		Difficulty:    req.Difficulty,
		DurationHours: req.DurationHours,
		ThumbnailURL:  req.ThumbnailURL,
	}
	if err := h.service.UpdateCourse(r.Context(), c); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(courseResponse{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		Difficulty:    c.Difficulty,
		DurationHours: c.DurationHours,
		ThumbnailURL:  c.ThumbnailURL,
	})
}

// Delete はコースを削除する。所属レッスンと進捗も削除される。
// DELETE /courses/{courseID}
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	if err := h.service.DeleteCourse(r.Context(), courseID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
