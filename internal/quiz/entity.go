package quiz

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Every cross-entity reference below is an id. Related rows are resolved with
// explicit repository lookups, never through preloaded associations.

type Quiz struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title              string     `gorm:"type:text;not null" json:"title"`
	Description        string     `gorm:"type:text" json:"description"`
	QuizType           QuizType   `gorm:"type:varchar(20);not null;index" json:"quiz_type"`
	CourseID           *uuid.UUID `gorm:"type:uuid;index" json:"course_id,omitempty"`
	LevelID            *uuid.UUID `gorm:"type:uuid;index" json:"level_id,omitempty"`
	SectionID          *uuid.UUID `gorm:"type:uuid;index" json:"section_id,omitempty"`
	ContentID          *uuid.UUID `gorm:"type:uuid;index" json:"content_id,omitempty"`
	MaxAttempts        int        `gorm:"not null" json:"max_attempts"`
	PassingScore       int        `gorm:"not null" json:"passing_score"`
	IsRequired         bool       `gorm:"not null" json:"is_required"`
	TimeLimitInMinutes *int       `json:"time_limit_in_minutes,omitempty"`
	IsActive           bool       `gorm:"not null" json:"is_active"`
	IsDeleted          bool       `gorm:"not null;index" json:"-"`
	InstructorID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"instructor_id"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type Question struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Text         string       `gorm:"type:text;not null" json:"text"`
	QuestionType QuestionType `gorm:"type:varchar(20);not null" json:"question_type"`
	Points       int          `gorm:"not null" json:"points"`
	Explanation  *string      `gorm:"type:text" json:"explanation,omitempty"`
	InstructorID uuid.UUID    `gorm:"type:uuid;not null;index" json:"instructor_id"`
	IsDeleted    bool         `gorm:"not null" json:"-"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

type QuestionOption struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool      `gorm:"not null" json:"is_correct"`
	OrderIndex int       `gorm:"not null" json:"order_index"`
}

type QuizQuestion struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_quiz_question" json:"quiz_id"`
	QuestionID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_quiz_question" json:"question_id"`
	OrderIndex   int       `gorm:"not null" json:"order_index"`
	CustomPoints *int      `json:"custom_points,omitempty"`
}

// EffectivePoints is the question's contribution to this quiz's total.
func (qq QuizQuestion) EffectivePoints(q Question) int {
	if qq.CustomPoints != nil {
		return *qq.CustomPoints
	}
	return q.Points
}

type QuizAttempt struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID             uuid.UUID  `gorm:"type:uuid;not null;index:idx_attempt_quiz_user;uniqueIndex:idx_attempt_number" json:"quiz_id"`
	UserID             uuid.UUID  `gorm:"type:uuid;not null;index:idx_attempt_quiz_user;uniqueIndex:idx_attempt_number" json:"user_id"`
	AttemptNumber      int        `gorm:"not null;uniqueIndex:idx_attempt_number" json:"attempt_number"`
	StartedAt          time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	Score              int        `gorm:"not null" json:"score"`
	TotalPoints        int        `gorm:"not null" json:"total_points"`
	Passed             bool       `gorm:"not null" json:"passed"`
	TimeTakenInMinutes *int       `json:"time_taken_in_minutes,omitempty"`
}

func (a QuizAttempt) IsInProgress() bool {
	return a.CompletedAt == nil
}

// ScorePercentage is 0 for an attempt with no gradeable points.
func (a QuizAttempt) ScorePercentage() float64 {
	if a.TotalPoints <= 0 {
		return 0
	}
	return float64(a.Score) / float64(a.TotalPoints) * 100
}

// HasPassed applies the pass rule; a zero-point attempt never passes.
func HasPassed(score, totalPoints, passingScore int) bool {
	if totalPoints <= 0 {
		return false
	}
	return score*100 >= passingScore*totalPoints
}

// RoundMinutes rounds an elapsed duration to whole minutes.
func RoundMinutes(d time.Duration) int {
	return int(math.Round(d.Minutes()))
}

type UserAnswer struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AttemptID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"attempt_id"`
	QuestionID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"question_id"`
	SelectedOptionID *uuid.UUID `gorm:"type:uuid" json:"selected_option_id,omitempty"`
	BooleanAnswer    *bool      `json:"boolean_answer,omitempty"`
	IsCorrect        bool       `gorm:"not null" json:"is_correct"`
	PointsEarned     int        `gorm:"not null" json:"points_earned"`
	AnsweredAt       time.Time  `gorm:"not null" json:"answered_at"`
}

func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

func (o *QuestionOption) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (qq *QuizQuestion) BeforeCreate(tx *gorm.DB) error {
	if qq.ID == uuid.Nil {
		qq.ID = uuid.New()
	}
	return nil
}

func (a *QuizAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (u *UserAnswer) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
