package exam

import (
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/assessment-lambda/internal/attempt"
	"github.com/saulo-duarte/assessment-lambda/internal/grading"
	"github.com/saulo-duarte/assessment-lambda/internal/quiz"
)

// CreateExamDTO defines an exam scoped to either a course (final exam) or a
// level (level exam).
type CreateExamDTO struct {
	Title              string                    `json:"title" validate:"required,min=3,max=200"`
	Description        string                    `json:"description" validate:"max=2000"`
	CourseID           *uuid.UUID                `json:"course_id"`
	LevelID            *uuid.UUID                `json:"level_id"`
	MaxAttempts        int                       `json:"max_attempts" validate:"min=1"`
	PassingScore       int                       `json:"passing_score" validate:"min=0,max=100"`
	IsRequired         bool                      `json:"is_required"`
	TimeLimitInMinutes *int                      `json:"time_limit_in_minutes" validate:"omitempty,min=1"`
	IsActive           *bool                     `json:"is_active"`
	NewQuestions       []quiz.CreateQuestionDTO  `json:"new_questions"`
	ExistingQuestions  []quiz.QuizQuestionRefDTO `json:"existing_questions"`
}

type SubmitExamDTO struct {
	Answers []grading.Answer `json:"answers"`
}

type ExamFilter struct {
	CourseID *uuid.UUID
	LevelID  *uuid.UUID
}

type ExamResponse struct {
	ID                 uuid.UUID                   `json:"id"`
	Title              string                      `json:"title"`
	Description        string                      `json:"description"`
	ExamType           ExamType                    `json:"exam_type"`
	CourseID           *uuid.UUID                  `json:"course_id,omitempty"`
	LevelID            *uuid.UUID                  `json:"level_id,omitempty"`
	MaxAttempts        int                         `json:"max_attempts"`
	PassingScore       int                         `json:"passing_score"`
	IsRequired         bool                        `json:"is_required"`
	TimeLimitInMinutes *int                        `json:"time_limit_in_minutes,omitempty"`
	IsActive           bool                        `json:"is_active"`
	InstructorID       uuid.UUID                   `json:"instructor_id"`
	TotalPoints        int                         `json:"total_points"`
	QuestionCount      int                         `json:"question_count"`
	Questions          []quiz.QuizQuestionResponse `json:"questions,omitempty"`
	CreatedAt          time.Time                   `json:"created_at"`
}

type ExamSummary struct {
	ID       uuid.UUID  `json:"id"`
	Title    string     `json:"title"`
	ExamType ExamType   `json:"exam_type"`
	CourseID *uuid.UUID `json:"course_id,omitempty"`
	LevelID  *uuid.UUID `json:"level_id,omitempty"`
	IsActive bool       `json:"is_active"`
}

type ExamAttemptResponse struct {
	ExamID        uuid.UUID      `json:"exam_id"`
	ExamType      ExamType       `json:"exam_type"`
	AttemptID     uuid.UUID      `json:"attempt_id"`
	AttemptNumber int            `json:"attempt_number"`
	Status        attempt.Status `json:"status"`
	StartedAt     time.Time      `json:"started_at"`
	ExpiresAt     *time.Time     `json:"expires_at,omitempty"`
	TotalPoints   int            `json:"total_points"`
}

type ExamResultResponse struct {
	ExamID             uuid.UUID              `json:"exam_id"`
	ExamType           ExamType               `json:"exam_type"`
	AttemptID          uuid.UUID              `json:"attempt_id"`
	AttemptNumber      int                    `json:"attempt_number"`
	Score              int                    `json:"score"`
	TotalPoints        int                    `json:"total_points"`
	ScorePercentage    float64                `json:"score_percentage"`
	PassingScore       int                    `json:"passing_score"`
	Passed             bool                   `json:"passed"`
	TimeTakenInMinutes *int                   `json:"time_taken_in_minutes,omitempty"`
	RemainingAttempts  int                    `json:"remaining_attempts"`
	Answers            []attempt.AnswerResult `json:"answers"`
}

type AvailabilityResponse struct {
	ExamID            uuid.UUID `json:"exam_id"`
	IsAvailable       bool      `json:"is_available"`
	RemainingAttempts int       `json:"remaining_attempts"`
	HasPassed         bool      `json:"has_passed"`
}
