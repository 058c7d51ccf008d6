package attempt

import (
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/assessment-lambda/internal/grading"
	"github.com/saulo-duarte/assessment-lambda/internal/quiz"
)

type SubmitDTO struct {
	Answers []grading.Answer `json:"answers"`
}

type AttemptResponse struct {
	ID                 uuid.UUID  `json:"id"`
	QuizID             uuid.UUID  `json:"quiz_id"`
	UserID             uuid.UUID  `json:"user_id"`
	AttemptNumber      int        `json:"attempt_number"`
	Status             Status     `json:"status"`
	StartedAt          time.Time  `json:"started_at"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	Score              int        `json:"score"`
	TotalPoints        int        `json:"total_points"`
	ScorePercentage    float64    `json:"score_percentage"`
	Passed             bool       `json:"passed"`
	TimeTakenInMinutes *int       `json:"time_taken_in_minutes,omitempty"`
}

type AnswerResult struct {
	QuestionID       uuid.UUID  `json:"question_id"`
	SelectedOptionID *uuid.UUID `json:"selected_option_id,omitempty"`
	BooleanAnswer    *bool      `json:"boolean_answer,omitempty"`
	IsCorrect        bool       `json:"is_correct"`
	PointsEarned     int        `json:"points_earned"`
}

type Result struct {
	AttemptID          uuid.UUID      `json:"attempt_id"`
	AttemptNumber      int            `json:"attempt_number"`
	Score              int            `json:"score"`
	TotalPoints        int            `json:"total_points"`
	ScorePercentage    float64        `json:"score_percentage"`
	PassingScore       int            `json:"passing_score"`
	Passed             bool           `json:"passed"`
	TimeTakenInMinutes *int           `json:"time_taken_in_minutes,omitempty"`
	Answers            []AnswerResult `json:"answers"`
}

type AvailabilityResponse struct {
	QuizID            uuid.UUID `json:"quiz_id"`
	CanAttempt        bool      `json:"can_attempt"`
	IsAvailable       bool      `json:"is_available"`
	RemainingAttempts int       `json:"remaining_attempts"`
	HasPassed         bool      `json:"has_passed"`
}

// ToAttemptResponse maps an attempt; ExpiresAt is set only for an in-progress
// attempt on a timed quiz.
func ToAttemptResponse(a quiz.QuizAttempt, timeLimitInMinutes *int) AttemptResponse {
	resp := AttemptResponse{
		ID:                 a.ID,
		QuizID:             a.QuizID,
		UserID:             a.UserID,
		AttemptNumber:      a.AttemptNumber,
		Status:             StatusCompleted,
		StartedAt:          a.StartedAt,
		CompletedAt:        a.CompletedAt,
		Score:              a.Score,
		TotalPoints:        a.TotalPoints,
		ScorePercentage:    a.ScorePercentage(),
		Passed:             a.Passed,
		TimeTakenInMinutes: a.TimeTakenInMinutes,
	}
	if a.IsInProgress() {
		resp.Status = StatusInProgress
		if timeLimitInMinutes != nil {
			expires := a.StartedAt.Add(time.Duration(*timeLimitInMinutes) * time.Minute)
			resp.ExpiresAt = &expires
		}
	}
	return resp
}

func toAnswerResult(a quiz.UserAnswer) AnswerResult {
	return AnswerResult{
		QuestionID:       a.QuestionID,
		SelectedOptionID: a.SelectedOptionID,
		BooleanAnswer:    a.BooleanAnswer,
		IsCorrect:        a.IsCorrect,
		PointsEarned:     a.PointsEarned,
	}
}

func toResult(a quiz.QuizAttempt, passingScore int, answers []quiz.UserAnswer) *Result {
	res := &Result{
		AttemptID:          a.ID,
		AttemptNumber:      a.AttemptNumber,
		Score:              a.Score,
		TotalPoints:        a.TotalPoints,
		ScorePercentage:    a.ScorePercentage(),
		PassingScore:       passingScore,
		Passed:             a.Passed,
		TimeTakenInMinutes: a.TimeTakenInMinutes,
		Answers:            make([]AnswerResult, 0, len(answers)),
	}
	for _, ans := range answers {
		res.Answers = append(res.Answers, toAnswerResult(ans))
	}
	return res
}
