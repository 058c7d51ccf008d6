package statistics

import (
	"time"

	"github.com/google/uuid"
)

type QuizStatistics struct {
	QuizID            uuid.UUID       `json:"quiz_id"`
	Title             string          `json:"title"`
	TotalPoints       int             `json:"total_points"`
	PassingScore      int             `json:"passing_score"`
	Summary           Summary         `json:"summary"`
	ScoreDistribution []Bucket        `json:"score_distribution"`
	Questions         []QuestionStats `json:"questions"`
	GeneratedAt       time.Time       `json:"generated_at"`
}

type QuizSummary struct {
	QuizID  uuid.UUID `json:"quiz_id"`
	Title   string    `json:"title"`
	Summary Summary   `json:"summary"`
}

type CourseStatistics struct {
	CourseID          uuid.UUID     `json:"course_id"`
	QuizCount         int           `json:"quiz_count"`
	Summary           Summary       `json:"summary"`
	ScoreDistribution []Bucket      `json:"score_distribution"`
	Quizzes           []QuizSummary `json:"quizzes"`
	GeneratedAt       time.Time     `json:"generated_at"`
}
