package exam

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/saulo-duarte/assessment-lambda/internal/apperror"
	"github.com/saulo-duarte/assessment-lambda/internal/attempt"
	"github.com/saulo-duarte/assessment-lambda/internal/config"
	"github.com/saulo-duarte/assessment-lambda/internal/grading"
	"github.com/saulo-duarte/assessment-lambda/internal/quiz"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotAnExam           = apperror.NotFound("not_an_exam", "exam not found")
	ErrPrerequisitesNotMet = apperror.InvalidState("prerequisites_not_met", "required content has not been completed")
	ErrNoQuestions         = apperror.Validation("invalid_input", "exam must contain at least one question", map[string]string{"questions": "required"})
)

type ExamService interface {
	CreateExam(ctx context.Context, instructorID uuid.UUID, dto CreateExamDTO) (*ExamResponse, error)
	GetExam(ctx context.Context, examID, viewerID uuid.UUID) (*ExamResponse, error)
	ListExams(ctx context.Context, filter ExamFilter) ([]ExamSummary, error)

	StartExam(ctx context.Context, examID, userID uuid.UUID) (*ExamAttemptResponse, error)
	SubmitExam(ctx context.Context, examID, userID uuid.UUID, answers []grading.Answer) (*ExamResultResponse, error)

	IsAvailable(ctx context.Context, examID, userID uuid.UUID) (bool, error)
	RemainingAttempts(ctx context.Context, examID, userID uuid.UUID) (int, error)
	HasPassed(ctx context.Context, examID, userID uuid.UUID) (bool, error)
	Availability(ctx context.Context, examID, userID uuid.UUID) (*AvailabilityResponse, error)
}

// examService holds no grading or lifecycle rules of its own. Every call is
// checked to target an EXAM_QUIZ and then handed to the quiz catalog, the
// attempt service or the access gate.
type examService struct {
	repo     quiz.Repository
	quizzes  quiz.QuizService
	attempts attempt.AttemptService
	gate     attempt.AccessGate
}

func NewService(repo quiz.Repository, quizzes quiz.QuizService, attempts attempt.AttemptService, gate attempt.AccessGate) ExamService {
	return &examService{
		repo:     repo,
		quizzes:  quizzes,
		attempts: attempts,
		gate:     gate,
	}
}

func (s *examService) CreateExam(ctx context.Context, instructorID uuid.UUID, dto CreateExamDTO) (*ExamResponse, error) {
	if len(dto.NewQuestions) == 0 && len(dto.ExistingQuestions) == 0 {
		return nil, ErrNoQuestions
	}

	detail, err := s.quizzes.CreateQuizWithQuestions(ctx, instructorID, toQuizDTO(dto))
	if err != nil {
		return nil, err
	}

	resp := ToExamResponse(detail)
	config.WithContext(ctx).WithFields(logrus.Fields{
		"exam_id":   resp.ID,
		"exam_type": resp.ExamType,
	}).Info("Exam created successfully")
	return resp, nil
}

func (s *examService) GetExam(ctx context.Context, examID, viewerID uuid.UUID) (*ExamResponse, error) {
	if _, err := s.requireExam(ctx, examID); err != nil {
		return nil, err
	}

	detail, err := s.quizzes.GetQuiz(ctx, examID, viewerID)
	if err != nil {
		return nil, err
	}
	return ToExamResponse(detail), nil
}

func (s *examService) ListExams(ctx context.Context, filter ExamFilter) ([]ExamSummary, error) {
	examType := quiz.QuizTypeExam
	quizzes, err := s.repo.ListQuizzes(ctx, quiz.QuizFilter{
		CourseID:   filter.CourseID,
		LevelID:    filter.LevelID,
		QuizType:   &examType,
		ActiveOnly: true,
	})
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list exams")
		return nil, fmt.Errorf("list exams: %w", err)
	}

	exams := make([]ExamSummary, 0, len(quizzes))
	for i := range quizzes {
		exams = append(exams, ToExamSummary(quiz.ToSummary(&quizzes[i])))
	}
	return exams, nil
}

// StartExam requires the required content of the exam's scope to be
// completed on top of the usual attempt rules.
func (s *examService) StartExam(ctx context.Context, examID, userID uuid.UUID) (*ExamAttemptResponse, error) {
	q, err := s.requireExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	available, err := s.gate.IsAvailable(ctx, examID, userID)
	if err != nil {
		return nil, err
	}
	if !available {
		can, err := s.gate.CanAttempt(ctx, examID, userID)
		if err != nil {
			return nil, err
		}
		if can {
			config.WithContext(ctx).WithField("exam_id", examID).Warn("Exam started before required content was completed")
			return nil, ErrPrerequisitesNotMet
		}
	}

	started, err := s.attempts.StartAttempt(ctx, examID, userID)
	if err != nil {
		return nil, err
	}
	return toAttemptResponse(q, started), nil
}

func (s *examService) SubmitExam(ctx context.Context, examID, userID uuid.UUID, answers []grading.Answer) (*ExamResultResponse, error) {
	q, err := s.requireExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	result, err := s.attempts.Submit(ctx, examID, userID, answers)
	if err != nil {
		return nil, err
	}

	remaining, err := s.gate.RemainingAttempts(ctx, examID, userID)
	if err != nil {
		return nil, err
	}
	return toResultResponse(q, result, remaining), nil
}

func (s *examService) IsAvailable(ctx context.Context, examID, userID uuid.UUID) (bool, error) {
	if _, err := s.requireExam(ctx, examID); err != nil {
		return false, err
	}
	return s.gate.IsAvailable(ctx, examID, userID)
}

func (s *examService) RemainingAttempts(ctx context.Context, examID, userID uuid.UUID) (int, error) {
	if _, err := s.requireExam(ctx, examID); err != nil {
		return 0, err
	}
	return s.gate.RemainingAttempts(ctx, examID, userID)
}

func (s *examService) HasPassed(ctx context.Context, examID, userID uuid.UUID) (bool, error) {
	if _, err := s.requireExam(ctx, examID); err != nil {
		return false, err
	}
	return s.gate.HasPassed(ctx, examID, userID)
}

func (s *examService) Availability(ctx context.Context, examID, userID uuid.UUID) (*AvailabilityResponse, error) {
	available, err := s.IsAvailable(ctx, examID, userID)
	if err != nil {
		return nil, err
	}
	remaining, err := s.gate.RemainingAttempts(ctx, examID, userID)
	if err != nil {
		return nil, err
	}
	passed, err := s.gate.HasPassed(ctx, examID, userID)
	if err != nil {
		return nil, err
	}
	return &AvailabilityResponse{
		ExamID:            examID,
		IsAvailable:       available,
		RemainingAttempts: remaining,
		HasPassed:         passed,
	}, nil
}

// requireExam resolves examID to a quiz of type EXAM_QUIZ. Any other quiz is
// reported as not found.
func (s *examService) requireExam(ctx context.Context, examID uuid.UUID) (*quiz.Quiz, error) {
	q, err := s.repo.GetQuizByID(ctx, examID)
	if err != nil {
		if errors.Is(err, quiz.ErrNotFound) {
			return nil, ErrNotAnExam
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if q.QuizType != quiz.QuizTypeExam {
		return nil, ErrNotAnExam
	}
	return q, nil
}
