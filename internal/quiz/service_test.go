package quiz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/saulo-duarte/assessment-lambda/internal/apperror"
	"github.com/saulo-duarte/assessment-lambda/internal/quiz"
	"github.com/saulo-duarte/assessment-lambda/internal/quiz/quiztest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthorizer struct {
	err   error
	calls int
}

func (s *stubAuthorizer) VerifyScopeOwnership(ctx context.Context, instructorID uuid.UUID, courseID, levelID *uuid.UUID) error {
	s.calls++
	return s.err
}

func ptr[T any](v T) *T { return &v }

func quizDTO() quiz.CreateQuizDTO {
	return quiz.CreateQuizDTO{
		Title:        "Go basics",
		QuizType:     quiz.QuizTypeCourse,
		CourseID:     ptr(uuid.New()),
		MaxAttempts:  3,
		PassingScore: 70,
	}
}

func multipleChoiceDTO() quiz.CreateQuestionDTO {
	return quiz.CreateQuestionDTO{
		Text:         "Which keyword starts a goroutine?",
		QuestionType: quiz.QuestionTypeMultipleChoice,
		Points:       2,
		Options: []quiz.CreateOptionDTO{
			{Text: "go", IsCorrect: true, OrderIndex: 0},
			{Text: "async", OrderIndex: 1},
			{Text: "spawn", OrderIndex: 2},
		},
	}
}

func trueFalseDTO() quiz.CreateQuestionDTO {
	return quiz.CreateQuestionDTO{
		Text:         "Maps are safe for concurrent writes.",
		QuestionType: quiz.QuestionTypeTrueFalse,
		Points:       1,
		Options: []quiz.CreateOptionDTO{
			{Text: "True", OrderIndex: 0},
			{Text: "False", IsCorrect: true, OrderIndex: 1},
		},
	}
}

func newService() (quiz.QuizService, *quiztest.Memory, *stubAuthorizer) {
	repo := quiztest.NewMemory()
	auth := &stubAuthorizer{}
	return quiz.NewService(repo, auth), repo, auth
}

func TestCreateQuiz(t *testing.T) {
	ctx := context.Background()
	instructor := uuid.New()

	t.Run("creates an active quiz by default", func(t *testing.T) {
		svc, _, auth := newService()

		resp, err := svc.CreateQuiz(ctx, instructor, quizDTO())
		require.NoError(t, err)
		assert.True(t, resp.IsActive)
		assert.Equal(t, instructor, resp.InstructorID)
		assert.Equal(t, 1, auth.calls)
	})

	t.Run("requires exactly one scope", func(t *testing.T) {
		svc, _, auth := newService()

		both := quizDTO()
		both.LevelID = ptr(uuid.New())
		_, err := svc.CreateQuiz(ctx, instructor, both)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

		neither := quizDTO()
		neither.CourseID = nil
		_, err = svc.CreateQuiz(ctx, instructor, neither)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		assert.Zero(t, auth.calls)
	})

	t.Run("rejects out of range settings", func(t *testing.T) {
		svc, _, _ := newService()

		dto := quizDTO()
		dto.MaxAttempts = 0
		_, err := svc.CreateQuiz(ctx, instructor, dto)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

		dto = quizDTO()
		dto.PassingScore = 101
		_, err = svc.CreateQuiz(ctx, instructor, dto)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

		dto = quizDTO()
		dto.QuizType = "ESSAY_QUIZ"
		_, err = svc.CreateQuiz(ctx, instructor, dto)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("propagates scope ownership failures", func(t *testing.T) {
		svc, repo, auth := newService()
		auth.err = quiz.ErrNotOwner

		_, err := svc.CreateQuiz(ctx, instructor, quizDTO())
		assert.ErrorIs(t, err, quiz.ErrNotOwner)

		quizzes, _ := repo.ListQuizzes(ctx, quiz.QuizFilter{})
		assert.Empty(t, quizzes)
	})
}

func TestCreateQuestion(t *testing.T) {
	ctx := context.Background()
	instructor := uuid.New()
	svc, _, _ := newService()

	t.Run("accepts well formed questions", func(t *testing.T) {
		resp, err := svc.CreateQuestion(ctx, instructor, multipleChoiceDTO())
		require.NoError(t, err)
		assert.Len(t, resp.Options, 3)
		require.NotNil(t, resp.Options[0].IsCorrect)

		_, err = svc.CreateQuestion(ctx, instructor, trueFalseDTO())
		require.NoError(t, err)
	})

	cases := []struct {
		name   string
		mutate func(*quiz.CreateQuestionDTO)
	}{
		{"no correct option", func(d *quiz.CreateQuestionDTO) { d.Options[0].IsCorrect = false }},
		{"two correct options", func(d *quiz.CreateQuestionDTO) { d.Options[1].IsCorrect = true }},
		{"single option", func(d *quiz.CreateQuestionDTO) { d.Options = d.Options[:1] }},
		{"zero points", func(d *quiz.CreateQuestionDTO) { d.Points = 0 }},
		{"unknown type", func(d *quiz.CreateQuestionDTO) { d.QuestionType = "ESSAY" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dto := multipleChoiceDTO()
			tc.mutate(&dto)
			_, err := svc.CreateQuestion(ctx, instructor, dto)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		})
	}

	t.Run("true/false needs the literal options", func(t *testing.T) {
		dto := trueFalseDTO()
		dto.Options[0].Text = "Yes"
		_, err := svc.CreateQuestion(ctx, instructor, dto)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

		dto = trueFalseDTO()
		dto.Options = append(dto.Options, quiz.CreateOptionDTO{Text: "Maybe", OrderIndex: 2})
		_, err = svc.CreateQuestion(ctx, instructor, dto)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})
}

func TestCreateQuizWithQuestions(t *testing.T) {
	ctx := context.Background()
	instructor := uuid.New()

	t.Run("links new and existing questions in order", func(t *testing.T) {
		svc, _, _ := newService()
		existing, err := svc.CreateQuestion(ctx, instructor, trueFalseDTO())
		require.NoError(t, err)

		resp, err := svc.CreateQuizWithQuestions(ctx, instructor, quiz.CreateQuizWithQuestionsDTO{
			Quiz:              quizDTO(),
			NewQuestions:      []quiz.CreateQuestionDTO{multipleChoiceDTO()},
			ExistingQuestions: []quiz.QuizQuestionRefDTO{{QuestionID: existing.ID, CustomPoints: ptr(5)}},
		})
		require.NoError(t, err)
		require.Len(t, resp.Questions, 2)
		assert.Equal(t, quiz.QuestionTypeMultipleChoice, resp.Questions[0].QuestionType)
		assert.Equal(t, existing.ID, resp.Questions[1].ID)
		assert.Equal(t, 5, resp.Questions[1].EffectivePoints)
		assert.Equal(t, 7, resp.TotalPoints)
	})

	t.Run("rolls back when an existing question is unknown", func(t *testing.T) {
		svc, repo, _ := newService()

		_, err := svc.CreateQuizWithQuestions(ctx, instructor, quiz.CreateQuizWithQuestionsDTO{
			Quiz:              quizDTO(),
			NewQuestions:      []quiz.CreateQuestionDTO{multipleChoiceDTO()},
			ExistingQuestions: []quiz.QuizQuestionRefDTO{{QuestionID: uuid.New()}},
		})
		assert.ErrorIs(t, err, quiz.ErrQuestionNotFound)

		quizzes, _ := repo.ListQuizzes(ctx, quiz.QuizFilter{})
		assert.Empty(t, quizzes)
		questions, _ := repo.ListQuestionsByInstructor(ctx, instructor)
		assert.Empty(t, questions)
	})

	t.Run("rolls back when a question insert fails", func(t *testing.T) {
		svc, repo, _ := newService()
		repo.FailOn["CreateQuestion"] = errors.New("disk full")

		_, err := svc.CreateQuizWithQuestions(ctx, instructor, quiz.CreateQuizWithQuestionsDTO{
			Quiz:         quizDTO(),
			NewQuestions: []quiz.CreateQuestionDTO{multipleChoiceDTO()},
		})
		require.Error(t, err)

		quizzes, _ := repo.ListQuizzes(ctx, quiz.QuizFilter{})
		assert.Empty(t, quizzes)
	})

	t.Run("rejects another instructor's question", func(t *testing.T) {
		svc, _, _ := newService()
		foreign, err := svc.CreateQuestion(ctx, uuid.New(), trueFalseDTO())
		require.NoError(t, err)

		_, err = svc.CreateQuizWithQuestions(ctx, instructor, quiz.CreateQuizWithQuestionsDTO{
			Quiz:              quizDTO(),
			ExistingQuestions: []quiz.QuizQuestionRefDTO{{QuestionID: foreign.ID}},
		})
		assert.ErrorIs(t, err, quiz.ErrNotOwner)
	})

	t.Run("rejects the same question twice", func(t *testing.T) {
		svc, _, _ := newService()
		existing, err := svc.CreateQuestion(ctx, instructor, trueFalseDTO())
		require.NoError(t, err)

		_, err = svc.CreateQuizWithQuestions(ctx, instructor, quiz.CreateQuizWithQuestionsDTO{
			Quiz: quizDTO(),
			ExistingQuestions: []quiz.QuizQuestionRefDTO{
				{QuestionID: existing.ID},
				{QuestionID: existing.ID},
			},
		})
		assert.ErrorIs(t, err, quiz.ErrQuestionAlreadyUsed)
	})
}

func TestGetQuiz(t *testing.T) {
	ctx := context.Background()
	instructor := uuid.New()
	svc, _, _ := newService()

	created, err := svc.CreateQuizWithQuestions(ctx, instructor, quiz.CreateQuizWithQuestionsDTO{
		Quiz:         quizDTO(),
		NewQuestions: []quiz.CreateQuestionDTO{multipleChoiceDTO()},
	})
	require.NoError(t, err)

	t.Run("owner sees the answer key", func(t *testing.T) {
		resp, err := svc.GetQuiz(ctx, created.ID, instructor)
		require.NoError(t, err)
		for _, opt := range resp.Questions[0].Options {
			assert.NotNil(t, opt.IsCorrect)
		}
	})

	t.Run("students do not", func(t *testing.T) {
		resp, err := svc.GetQuiz(ctx, created.ID, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, resp.Questions[0].Explanation)
		for _, opt := range resp.Questions[0].Options {
			assert.Nil(t, opt.IsCorrect)
		}
	})

	t.Run("unknown quiz", func(t *testing.T) {
		_, err := svc.GetQuiz(ctx, uuid.New(), instructor)
		assert.ErrorIs(t, err, quiz.ErrQuizNotFound)
	})
}

func TestUpdateAndDeleteQuiz(t *testing.T) {
	ctx := context.Background()
	instructor := uuid.New()
	svc, _, _ := newService()

	dto := quizDTO()
	dto.TimeLimitInMinutes = ptr(30)
	created, err := svc.CreateQuiz(ctx, instructor, dto)
	require.NoError(t, err)

	t.Run("only the owner may update", func(t *testing.T) {
		_, err := svc.UpdateQuiz(ctx, uuid.New(), created.ID, quiz.UpdateQuizDTO{Title: ptr("Hijacked")})
		assert.ErrorIs(t, err, quiz.ErrNotOwner)
	})

	t.Run("partial update and clearing the time limit", func(t *testing.T) {
		resp, err := svc.UpdateQuiz(ctx, instructor, created.ID, quiz.UpdateQuizDTO{
			PassingScore:       ptr(80),
			TimeLimitInMinutes: ptr(0),
		})
		require.NoError(t, err)
		assert.Equal(t, 80, resp.PassingScore)
		assert.Equal(t, created.Title, resp.Title)
		assert.Nil(t, resp.TimeLimitInMinutes)
	})

	t.Run("delete hides the quiz", func(t *testing.T) {
		assert.ErrorIs(t, svc.DeleteQuiz(ctx, uuid.New(), created.ID), quiz.ErrNotOwner)
		require.NoError(t, svc.DeleteQuiz(ctx, instructor, created.ID))

		_, err := svc.GetQuiz(ctx, created.ID, instructor)
		assert.ErrorIs(t, err, quiz.ErrQuizNotFound)
	})
}

func TestQuizQuestionLinks(t *testing.T) {
	ctx := context.Background()
	instructor := uuid.New()
	svc, _, _ := newService()

	created, err := svc.CreateQuiz(ctx, instructor, quizDTO())
	require.NoError(t, err)
	question, err := svc.CreateQuestion(ctx, instructor, multipleChoiceDTO())
	require.NoError(t, err)

	resp, err := svc.AddQuestionToQuiz(ctx, instructor, created.ID, quiz.AddQuizQuestionDTO{QuestionID: question.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalPoints)

	_, err = svc.AddQuestionToQuiz(ctx, instructor, created.ID, quiz.AddQuizQuestionDTO{QuestionID: question.ID})
	assert.ErrorIs(t, err, quiz.ErrQuestionAlreadyUsed)

	_, err = svc.AddQuestionToQuiz(ctx, instructor, created.ID, quiz.AddQuizQuestionDTO{QuestionID: uuid.New()})
	assert.ErrorIs(t, err, quiz.ErrQuestionNotFound)

	require.NoError(t, svc.RemoveQuestionFromQuiz(ctx, instructor, created.ID, question.ID))
	err = svc.RemoveQuestionFromQuiz(ctx, instructor, created.ID, question.ID)
	assert.ErrorIs(t, err, quiz.ErrQuestionNotFound)
}
