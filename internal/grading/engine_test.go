package grading_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/saulo-duarte/assessment-lambda/internal/grading"
	"github.com/saulo-duarte/assessment-lambda/internal/quiz"
	"github.com/stretchr/testify/assert"
)

func multipleChoice() (quiz.Question, []quiz.QuestionOption) {
	q := quiz.Question{ID: uuid.New(), QuestionType: quiz.QuestionTypeMultipleChoice, Points: 5}
	opts := []quiz.QuestionOption{
		{ID: uuid.New(), QuestionID: q.ID, Text: "Paris", IsCorrect: true, OrderIndex: 0},
		{ID: uuid.New(), QuestionID: q.ID, Text: "Lyon", OrderIndex: 1},
		{ID: uuid.New(), QuestionID: q.ID, Text: "Nice", OrderIndex: 2},
	}
	return q, opts
}

func trueFalse(correctText string) (quiz.Question, []quiz.QuestionOption) {
	q := quiz.Question{ID: uuid.New(), QuestionType: quiz.QuestionTypeTrueFalse, Points: 3}
	opts := []quiz.QuestionOption{
		{ID: uuid.New(), QuestionID: q.ID, Text: "True", IsCorrect: correctText == "True", OrderIndex: 0},
		{ID: uuid.New(), QuestionID: q.ID, Text: "False", IsCorrect: correctText == "False", OrderIndex: 1},
	}
	return q, opts
}

func boolPtr(b bool) *bool { return &b }

func TestGradeMultipleChoice(t *testing.T) {
	q, opts := multipleChoice()

	t.Run("Correct", func(t *testing.T) {
		res := grading.Grade(q, opts, 5, grading.Answer{QuestionID: q.ID, SelectedOptionID: &opts[0].ID})
		assert.Equal(t, grading.Result{IsCorrect: true, PointsEarned: 5}, res)
	})

	t.Run("Incorrect", func(t *testing.T) {
		res := grading.Grade(q, opts, 5, grading.Answer{QuestionID: q.ID, SelectedOptionID: &opts[1].ID})
		assert.Equal(t, grading.Result{}, res)
	})

	t.Run("CustomPoints", func(t *testing.T) {
		res := grading.Grade(q, opts, 8, grading.Answer{QuestionID: q.ID, SelectedOptionID: &opts[0].ID})
		assert.Equal(t, 8, res.PointsEarned)
	})

	t.Run("DanglingOptionID", func(t *testing.T) {
		stranger := uuid.New()
		res := grading.Grade(q, opts, 5, grading.Answer{QuestionID: q.ID, SelectedOptionID: &stranger})
		assert.False(t, res.IsCorrect)
		assert.Zero(t, res.PointsEarned)
	})

	t.Run("Unanswered", func(t *testing.T) {
		res := grading.Grade(q, opts, 5, grading.Answer{QuestionID: q.ID})
		assert.False(t, res.IsCorrect)
	})

	t.Run("BooleanSubmittedForMultipleChoice", func(t *testing.T) {
		res := grading.Grade(q, opts, 5, grading.Answer{QuestionID: q.ID, BooleanAnswer: boolPtr(true)})
		assert.False(t, res.IsCorrect)
	})

	t.Run("NoCorrectOption", func(t *testing.T) {
		broken := []quiz.QuestionOption{{ID: uuid.New(), Text: "x"}}
		res := grading.Grade(q, broken, 5, grading.Answer{QuestionID: q.ID, SelectedOptionID: &broken[0].ID})
		assert.False(t, res.IsCorrect)
	})
}

func TestGradeTrueFalse(t *testing.T) {
	t.Run("CorrectIsTrue", func(t *testing.T) {
		q, opts := trueFalse("True")
		assert.True(t, grading.Grade(q, opts, 3, grading.Answer{BooleanAnswer: boolPtr(true)}).IsCorrect)
		assert.False(t, grading.Grade(q, opts, 3, grading.Answer{BooleanAnswer: boolPtr(false)}).IsCorrect)
	})

	t.Run("CorrectIsFalse", func(t *testing.T) {
		q, opts := trueFalse("False")
		res := grading.Grade(q, opts, 3, grading.Answer{BooleanAnswer: boolPtr(false)})
		assert.Equal(t, grading.Result{IsCorrect: true, PointsEarned: 3}, res)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		q := quiz.Question{ID: uuid.New(), QuestionType: quiz.QuestionTypeTrueFalse, Points: 1}
		opts := []quiz.QuestionOption{{ID: uuid.New(), Text: "TRUE", IsCorrect: true}, {ID: uuid.New(), Text: "false"}}
		assert.True(t, grading.Grade(q, opts, 1, grading.Answer{BooleanAnswer: boolPtr(true)}).IsCorrect)
	})

	t.Run("OptionIDSubmittedForTrueFalse", func(t *testing.T) {
		q, opts := trueFalse("True")
		res := grading.Grade(q, opts, 3, grading.Answer{SelectedOptionID: &opts[0].ID})
		assert.False(t, res.IsCorrect)
	})
}

func TestGradeUnknownType(t *testing.T) {
	q, opts := multipleChoice()
	q.QuestionType = quiz.QuestionType("ESSAY")
	res := grading.Grade(q, opts, 5, grading.Answer{SelectedOptionID: &opts[0].ID})
	assert.Equal(t, grading.Result{}, res)
}
