package exam

import (
	"github.com/google/uuid"
	"github.com/saulo-duarte/assessment-lambda/internal/attempt"
	"github.com/saulo-duarte/assessment-lambda/internal/quiz"
)

// examType is shared by every projection so a full quiz and its summary
// always agree. A level id wins; without one, a LEVEL_QUIZ type still marks
// a level exam.
func examType(levelID *uuid.UUID, quizType quiz.QuizType) ExamType {
	if levelID != nil || quizType == quiz.QuizTypeLevel {
		return ExamTypeLevel
	}
	return ExamTypeFinal
}

func ExamTypeOf(q *quiz.Quiz) ExamType {
	return examType(q.LevelID, q.QuizType)
}

func ExamTypeOfSummary(s quiz.Summary) ExamType {
	return examType(s.LevelID, s.QuizType)
}

func toQuizDTO(dto CreateExamDTO) quiz.CreateQuizWithQuestionsDTO {
	return quiz.CreateQuizWithQuestionsDTO{
		Quiz: quiz.CreateQuizDTO{
			Title:              dto.Title,
			Description:        dto.Description,
			QuizType:           quiz.QuizTypeExam,
			CourseID:           dto.CourseID,
			LevelID:            dto.LevelID,
			MaxAttempts:        dto.MaxAttempts,
			PassingScore:       dto.PassingScore,
			IsRequired:         dto.IsRequired,
			TimeLimitInMinutes: dto.TimeLimitInMinutes,
			IsActive:           dto.IsActive,
		},
		NewQuestions:      dto.NewQuestions,
		ExistingQuestions: dto.ExistingQuestions,
	}
}

func ToExamResponse(d *quiz.QuizDetailResponse) *ExamResponse {
	return &ExamResponse{
		ID:                 d.ID,
		Title:              d.Title,
		Description:        d.Description,
		ExamType:           examType(d.LevelID, d.QuizType),
		CourseID:           d.CourseID,
		LevelID:            d.LevelID,
		MaxAttempts:        d.MaxAttempts,
		PassingScore:       d.PassingScore,
		IsRequired:         d.IsRequired,
		TimeLimitInMinutes: d.TimeLimitInMinutes,
		IsActive:           d.IsActive,
		InstructorID:       d.InstructorID,
		TotalPoints:        d.TotalPoints,
		QuestionCount:      len(d.Questions),
		Questions:          d.Questions,
		CreatedAt:          d.CreatedAt,
	}
}

func ToExamSummary(s quiz.Summary) ExamSummary {
	return ExamSummary{
		ID:       s.ID,
		Title:    s.Title,
		ExamType: ExamTypeOfSummary(s),
		CourseID: s.CourseID,
		LevelID:  s.LevelID,
		IsActive: s.IsActive,
	}
}

func toAttemptResponse(q *quiz.Quiz, a *attempt.AttemptResponse) *ExamAttemptResponse {
	return &ExamAttemptResponse{
		ExamID:        q.ID,
		ExamType:      ExamTypeOf(q),
		AttemptID:     a.ID,
		AttemptNumber: a.AttemptNumber,
		Status:        a.Status,
		StartedAt:     a.StartedAt,
		ExpiresAt:     a.ExpiresAt,
		TotalPoints:   a.TotalPoints,
	}
}

func toResultResponse(q *quiz.Quiz, r *attempt.Result, remaining int) *ExamResultResponse {
	return &ExamResultResponse{
		ExamID:             q.ID,
		ExamType:           ExamTypeOf(q),
		AttemptID:          r.AttemptID,
		AttemptNumber:      r.AttemptNumber,
		Score:              r.Score,
		TotalPoints:        r.TotalPoints,
		ScorePercentage:    r.ScorePercentage,
		PassingScore:       r.PassingScore,
		Passed:             r.Passed,
		TimeTakenInMinutes: r.TimeTakenInMinutes,
		RemainingAttempts:  remaining,
		Answers:            r.Answers,
	}
}
