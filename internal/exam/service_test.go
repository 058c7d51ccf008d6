package exam

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/assessment-lambda/internal/apperror"
	"github.com/saulo-duarte/assessment-lambda/internal/attempt"
	"github.com/saulo-duarte/assessment-lambda/internal/grading"
	"github.com/saulo-duarte/assessment-lambda/internal/quiz"
	"github.com/saulo-duarte/assessment-lambda/internal/quiz/quiztest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type permissive struct{}

func (permissive) VerifyScopeOwnership(ctx context.Context, instructorID uuid.UUID, courseID, levelID *uuid.UUID) error {
	return nil
}

type fixture struct {
	repo     *quiztest.Memory
	progress *quiztest.Progress
	service  ExamService
}

func newFixture() *fixture {
	repo := quiztest.NewMemory()
	progress := &quiztest.Progress{Completed: true}
	gate := attempt.NewAccessGate(repo, progress)
	attempts := attempt.NewService(repo, gate)
	return &fixture{
		repo:     repo,
		progress: progress,
		service:  NewService(repo, quiz.NewService(repo, permissive{}), attempts, gate),
	}
}

func ptr[T any](v T) *T { return &v }

func TestExamTypeDerivation(t *testing.T) {
	levelID := uuid.New()
	courseID := uuid.New()

	tests := []struct {
		name string
		q    quiz.Quiz
		want ExamType
	}{
		{"level scoped exam", quiz.Quiz{QuizType: quiz.QuizTypeExam, LevelID: &levelID}, ExamTypeLevel},
		{"course scoped exam", quiz.Quiz{QuizType: quiz.QuizTypeExam, CourseID: &courseID}, ExamTypeFinal},
		{"level id on a non level quiz", quiz.Quiz{QuizType: quiz.QuizTypeCourse, LevelID: &levelID}, ExamTypeLevel},
		{"level quiz without level id", quiz.Quiz{QuizType: quiz.QuizTypeLevel, CourseID: &courseID}, ExamTypeLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.q
			q.ID = uuid.New()
			assert.Equal(t, tt.want, ExamTypeOf(&q))
			assert.Equal(t, ExamTypeOf(&q), ExamTypeOfSummary(quiz.ToSummary(&q)), "full and summary projections must agree")
		})
	}
}

func TestCreateExam(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	instructorID := uuid.New()
	levelID := uuid.New()

	resp, err := f.service.CreateExam(ctx, instructorID, CreateExamDTO{
		Title:        "Level 1 exam",
		LevelID:      &levelID,
		MaxAttempts:  2,
		PassingScore: 70,
		NewQuestions: []quiz.CreateQuestionDTO{{
			Text:         "Go has generics",
			QuestionType: quiz.QuestionTypeTrueFalse,
			Points:       4,
			Options: []quiz.CreateOptionDTO{
				{Text: "True", IsCorrect: true},
				{Text: "False", OrderIndex: 1},
			},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, ExamTypeLevel, resp.ExamType)
	assert.Equal(t, 4, resp.TotalPoints)
	assert.Equal(t, 1, resp.QuestionCount)

	stored, err := f.repo.GetQuizByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.QuizTypeExam, stored.QuizType)

	_, err = f.service.CreateExam(ctx, instructorID, CreateExamDTO{Title: "Empty", LevelID: &levelID, MaxAttempts: 1})
	assert.True(t, errors.Is(err, ErrNoQuestions))

	exams, err := f.service.ListExams(ctx, ExamFilter{LevelID: &levelID})
	require.NoError(t, err)
	require.Len(t, exams, 1)
	assert.Equal(t, resp.ID, exams[0].ID)
	assert.Equal(t, ExamTypeLevel, exams[0].ExamType)
}

func TestExamLifecycle(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("start and submit delegate to the attempt service", func(t *testing.T) {
		f := newFixture()
		exam := f.repo.SeedQuiz(quiz.Quiz{QuizType: quiz.QuizTypeExam, MaxAttempts: 2, PassingScore: 50, IsActive: true})
		mc := f.repo.SeedMultipleChoice(exam.ID, 6, nil, 0)
		tf := f.repo.SeedTrueFalse(exam.ID, 4, false, 1)

		started, err := f.service.StartExam(ctx, exam.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, ExamTypeFinal, started.ExamType)
		assert.Equal(t, 1, started.AttemptNumber)
		assert.Equal(t, 10, started.TotalPoints)
		assert.Equal(t, attempt.StatusInProgress, started.Status)

		res, err := f.service.SubmitExam(ctx, exam.ID, userID, []grading.Answer{
			{QuestionID: mc.Question.ID, SelectedOptionID: ptr(mc.Correct.ID)},
			{QuestionID: tf.ID, BooleanAnswer: ptr(true)},
		})
		require.NoError(t, err)
		assert.Equal(t, 6, res.Score)
		assert.InDelta(t, 60.0, res.ScorePercentage, 0.0001)
		assert.True(t, res.Passed)
		assert.Equal(t, 1, res.RemainingAttempts)

		passed, err := f.service.HasPassed(ctx, exam.ID, userID)
		require.NoError(t, err)
		assert.True(t, passed)
	})

	t.Run("incomplete content blocks the start", func(t *testing.T) {
		f := newFixture()
		f.progress.Completed = false
		exam := f.repo.SeedQuiz(quiz.Quiz{QuizType: quiz.QuizTypeExam, IsActive: true})

		_, err := f.service.StartExam(ctx, exam.ID, userID)
		assert.True(t, errors.Is(err, ErrPrerequisitesNotMet))

		available, err := f.service.IsAvailable(ctx, exam.ID, userID)
		require.NoError(t, err)
		assert.False(t, available)
	})

	t.Run("exhausted attempts report the attempt rule", func(t *testing.T) {
		f := newFixture()
		f.progress.Completed = false
		exam := f.repo.SeedQuiz(quiz.Quiz{QuizType: quiz.QuizTypeExam, MaxAttempts: 1, IsActive: true})
		done := time.Now()
		f.repo.PutAttempt(quiz.QuizAttempt{QuizID: exam.ID, UserID: userID, AttemptNumber: 1, StartedAt: done, CompletedAt: &done})

		_, err := f.service.StartExam(ctx, exam.ID, userID)
		assert.True(t, errors.Is(err, attempt.ErrMaxAttemptsReached))

		left, err := f.service.RemainingAttempts(ctx, exam.ID, userID)
		require.NoError(t, err)
		assert.Zero(t, left)
	})

	t.Run("plain quizzes are not exams", func(t *testing.T) {
		f := newFixture()
		q := f.repo.SeedQuiz(quiz.Quiz{QuizType: quiz.QuizTypeCourse, IsActive: true})

		_, err := f.service.StartExam(ctx, q.ID, userID)
		assert.True(t, errors.Is(err, ErrNotAnExam))
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

		_, err = f.service.GetExam(ctx, q.ID, userID)
		assert.True(t, errors.Is(err, ErrNotAnExam))

		_, err = f.service.Availability(ctx, uuid.New(), userID)
		assert.True(t, errors.Is(err, ErrNotAnExam))
	})
}
