// Package model はドメインモデルを定義する。
package model

import "time"

// Course は学習コースを表す。
type Course struct {
	ID            string
	Title         string
	Description   string
	Difficulty    string // Beginner / Intermediate / Advanced
	DurationHours int
	ThumbnailURL  string
	LessonCount   int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Lesson はコース内の1レッスンを表す。
// Contentはサニタイズ済みHTML。
type Lesson struct {
	ID              string
	CourseID        string
	Title           string
	Content         string
	Order           int
	DurationMinutes int
	VideoURL        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// LessonWithProgress はレッスンとユーザーの完了状態を結合したモデル。
type LessonWithProgress struct {
	Lesson
	Completed bool
}

// CourseDetail はコースと所属レッスン一覧（完了状態付き）を結合したモデル。
type CourseDetail struct {
	Course
	Lessons []LessonWithProgress
}

// ProgressSummary はユーザーの学習進捗の集計を表す。
type ProgressSummary struct {
	CompletedLessons int
	TotalLessons     int
	CoursesStarted   int
}
