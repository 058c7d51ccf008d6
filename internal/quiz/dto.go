package quiz

import (
	"time"

	"github.com/google/uuid"
)

type CreateQuizDTO struct {
	Title              string     `json:"title" validate:"required,min=3,max=200"`
	Description        string     `json:"description" validate:"max=2000"`
	QuizType           QuizType   `json:"quiz_type" validate:"required"`
	CourseID           *uuid.UUID `json:"course_id"`
	LevelID            *uuid.UUID `json:"level_id"`
	SectionID          *uuid.UUID `json:"section_id"`
	ContentID          *uuid.UUID `json:"content_id"`
	MaxAttempts        int        `json:"max_attempts" validate:"min=1"`
	PassingScore       int        `json:"passing_score" validate:"min=0,max=100"`
	IsRequired         bool       `json:"is_required"`
	TimeLimitInMinutes *int       `json:"time_limit_in_minutes" validate:"omitempty,min=1"`
	IsActive           *bool      `json:"is_active"`
}

type UpdateQuizDTO struct {
	Title              *string `json:"title" validate:"omitempty,min=3,max=200"`
	Description        *string `json:"description" validate:"omitempty,max=2000"`
	MaxAttempts        *int    `json:"max_attempts" validate:"omitempty,min=1"`
	PassingScore       *int    `json:"passing_score" validate:"omitempty,min=0,max=100"`
	IsRequired         *bool   `json:"is_required"`
	TimeLimitInMinutes *int    `json:"time_limit_in_minutes" validate:"omitempty,min=0"`
	IsActive           *bool   `json:"is_active"`
}

type CreateOptionDTO struct {
	Text       string `json:"text" validate:"required,max=1000"`
	IsCorrect  bool   `json:"is_correct"`
	OrderIndex int    `json:"order_index" validate:"min=0"`
}

type CreateQuestionDTO struct {
	Text         string            `json:"text" validate:"required,max=4000"`
	QuestionType QuestionType      `json:"question_type" validate:"required"`
	Points       int               `json:"points" validate:"min=1"`
	Explanation  *string           `json:"explanation"`
	Options      []CreateOptionDTO `json:"options" validate:"required,min=2,max=10,dive"`
	CustomPoints *int              `json:"custom_points,omitempty" validate:"omitempty,min=1"`
}

type QuizQuestionRefDTO struct {
	QuestionID   uuid.UUID `json:"question_id"`
	CustomPoints *int      `json:"custom_points" validate:"omitempty,min=1"`
}

type CreateQuizWithQuestionsDTO struct {
	Quiz              CreateQuizDTO        `json:"quiz"`
	NewQuestions      []CreateQuestionDTO  `json:"new_questions" validate:"dive"`
	ExistingQuestions []QuizQuestionRefDTO `json:"existing_questions" validate:"dive"`
}

type AddQuizQuestionDTO struct {
	QuestionID   uuid.UUID `json:"question_id"`
	OrderIndex   *int      `json:"order_index" validate:"omitempty,min=0"`
	CustomPoints *int      `json:"custom_points" validate:"omitempty,min=1"`
}

type QuizResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	QuizType           QuizType   `json:"quiz_type"`
	CourseID           *uuid.UUID `json:"course_id,omitempty"`
	LevelID            *uuid.UUID `json:"level_id,omitempty"`
	SectionID          *uuid.UUID `json:"section_id,omitempty"`
	ContentID          *uuid.UUID `json:"content_id,omitempty"`
	MaxAttempts        int        `json:"max_attempts"`
	PassingScore       int        `json:"passing_score"`
	IsRequired         bool       `json:"is_required"`
	TimeLimitInMinutes *int       `json:"time_limit_in_minutes,omitempty"`
	IsActive           bool       `json:"is_active"`
	InstructorID       uuid.UUID  `json:"instructor_id"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Summary is the light projection used by list views.
type Summary struct {
	ID       uuid.UUID  `json:"id"`
	Title    string     `json:"title"`
	QuizType QuizType   `json:"quiz_type"`
	CourseID *uuid.UUID `json:"course_id,omitempty"`
	LevelID  *uuid.UUID `json:"level_id,omitempty"`
	IsActive bool       `json:"is_active"`
}

type OptionResponse struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	OrderIndex int       `json:"order_index"`
	IsCorrect  *bool     `json:"is_correct,omitempty"`
}

type QuestionResponse struct {
	ID           uuid.UUID        `json:"id"`
	Text         string           `json:"text"`
	QuestionType QuestionType     `json:"question_type"`
	Points       int              `json:"points"`
	Explanation  *string          `json:"explanation,omitempty"`
	Options      []OptionResponse `json:"options"`
}

type QuizQuestionResponse struct {
	QuestionResponse
	OrderIndex      int  `json:"order_index"`
	CustomPoints    *int `json:"custom_points,omitempty"`
	EffectivePoints int  `json:"effective_points"`
}

type QuizDetailResponse struct {
	QuizResponse
	TotalPoints int                    `json:"total_points"`
	Questions   []QuizQuestionResponse `json:"questions"`
}
