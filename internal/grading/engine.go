// Package grading evaluates a single submitted answer against a question's
// canonical correct option. It has no state and performs no I/O.
package grading

import (
	"github.com/google/uuid"
	"github.com/saulo-duarte/assessment-lambda/internal/quiz"
)

// Answer is one entry of a submission. SelectedOptionID is used by multiple
// choice questions, BooleanAnswer by true/false questions.
type Answer struct {
	QuestionID       uuid.UUID  `json:"question_id"`
	SelectedOptionID *uuid.UUID `json:"selected_option_id,omitempty"`
	BooleanAnswer    *bool      `json:"boolean_answer,omitempty"`
}

type Result struct {
	IsCorrect    bool `json:"is_correct"`
	PointsEarned int  `json:"points_earned"`
}

// Grade awards all of points for a correct answer and nothing otherwise.
func Grade(q quiz.Question, options []quiz.QuestionOption, points int, a Answer) Result {
	var correct bool
	switch q.QuestionType {
	case quiz.QuestionTypeMultipleChoice:
		correct = gradeMultipleChoice(options, a)
	case quiz.QuestionTypeTrueFalse:
		correct = gradeTrueFalse(options, a)
	default:
		correct = false
	}

	if !correct || points < 0 {
		return Result{IsCorrect: correct}
	}
	return Result{IsCorrect: true, PointsEarned: points}
}

func gradeMultipleChoice(options []quiz.QuestionOption, a Answer) bool {
	if a.SelectedOptionID == nil {
		return false
	}
	correct, ok := correctOption(options)
	if !ok {
		return false
	}
	return correct.ID == *a.SelectedOptionID
}

func gradeTrueFalse(options []quiz.QuestionOption, a Answer) bool {
	if a.BooleanAnswer == nil {
		return false
	}
	correct, ok := correctOption(options)
	if !ok {
		return false
	}
	return quiz.IsTrueLiteral(correct.Text) == *a.BooleanAnswer
}

func correctOption(options []quiz.QuestionOption) (quiz.QuestionOption, bool) {
	for _, o := range options {
		if o.IsCorrect {
			return o, true
		}
	}
	return quiz.QuestionOption{}, false
}
