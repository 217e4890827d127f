package handler

import (
	"encoding/json"
	"net/http"

	"github.com/codelife/codelife/internal/middleware"
)

// ProfileHandler は認証済みユーザーのプロフィールを返すHTTPハンドラー。
type ProfileHandler struct {
	courseService CourseServiceInterface
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(courseService CourseServiceInterface) *ProfileHandler {
	return &ProfileHandler{courseService: courseService}
}

// profileResponse はプロフィールのレスポンス。
type profileResponse struct {
	UserID   string                  `json:"user_id"`
	Email    string                  `json:"email"`
	Progress progressSummaryResponse `json:"progress"`
}

// Me は認証済みユーザーのIDとメールアドレス、学習進捗を返す。
// GET /profile
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	summary, err := h.courseService.ProgressSummary(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profileResponse{
		UserID: userID,
		Email:  middleware.UserEmailFromContext(r.Context()),
		Progress: progressSummaryResponse{
			CompletedLessons: summary.CompletedLessons,
			TotalLessons:     summary.TotalLessons,
			CoursesStarted:   summary.CoursesStarted,
		},
	})
}
