package quiztest

import (
	"context"

	"github.com/google/uuid"
	"github.com/saulo-duarte/assessment-lambda/internal/quiz"
)

// SeedQuiz stores q, filling defaults for anything a test leaves unset.
func (m *Memory) SeedQuiz(q quiz.Quiz) *quiz.Quiz {
	if q.Title == "" {
		q.Title = "Seeded quiz"
	}
	if q.QuizType == "" {
		q.QuizType = quiz.QuizTypeCourse
	}
	if q.MaxAttempts == 0 {
		q.MaxAttempts = 3
	}
	if q.InstructorID == uuid.Nil {
		q.InstructorID = uuid.New()
	}
	if q.CourseID == nil && q.LevelID == nil {
		id := uuid.New()
		q.CourseID = &id
	}
	_ = m.CreateQuiz(context.Background(), &q)
	return &q
}

// MultipleChoice is a seeded question with handles on its correct and one
// wrong option.
type MultipleChoice struct {
	Question quiz.Question
	Correct  quiz.QuestionOption
	Wrong    quiz.QuestionOption
}

// SeedMultipleChoice links a three option question to quizID at order.
func (m *Memory) SeedMultipleChoice(quizID uuid.UUID, points int, customPoints *int, order int) MultipleChoice {
	q := quiz.Question{
		Text:         "Pick one",
		QuestionType: quiz.QuestionTypeMultipleChoice,
		Points:       points,
	}
	opts := []quiz.QuestionOption{
		{Text: "A", IsCorrect: false, OrderIndex: 0},
		{Text: "B", IsCorrect: true, OrderIndex: 1},
		{Text: "C", IsCorrect: false, OrderIndex: 2},
	}
	_ = m.CreateQuestion(context.Background(), &q, opts)
	m.link(quizID, q.ID, order, customPoints)
	return MultipleChoice{Question: q, Correct: opts[1], Wrong: opts[0]}
}

// SeedTrueFalse links a true/false question whose correct answer is answer.
func (m *Memory) SeedTrueFalse(quizID uuid.UUID, points int, answer bool, order int) quiz.Question {
	q := quiz.Question{
		Text:         "True or false",
		QuestionType: quiz.QuestionTypeTrueFalse,
		Points:       points,
	}
	opts := []quiz.QuestionOption{
		{Text: "True", IsCorrect: answer, OrderIndex: 0},
		{Text: "False", IsCorrect: !answer, OrderIndex: 1},
	}
	_ = m.CreateQuestion(context.Background(), &q, opts)
	m.link(quizID, q.ID, order, nil)
	return q
}

func (m *Memory) link(quizID, questionID uuid.UUID, order int, customPoints *int) {
	_ = m.AddQuizQuestions(context.Background(), []quiz.QuizQuestion{{
		QuizID:       quizID,
		QuestionID:   questionID,
		OrderIndex:   order,
		CustomPoints: customPoints,
	}})
}

// Progress is a ProgressChecker with a fixed answer.
type Progress struct {
	Completed bool
	Err       error
	Calls     int
}

func (p *Progress) HasCompletedRequiredContent(ctx context.Context, userID uuid.UUID, scope quiz.Scope) (bool, error) {
	p.Calls++
	return p.Completed, p.Err
}
