package exam

import (
	"github.com/saulo-duarte/assessment-lambda/internal/attempt"
	"github.com/saulo-duarte/assessment-lambda/internal/quiz"
)

type ExamContainer struct {
	Handler *Handler
	Service ExamService
}

func NewExamContainer(quizzes *quiz.QuizContainer, attempts *attempt.AttemptContainer) *ExamContainer {
	service := NewService(quizzes.Repo, quizzes.Service, attempts.Service, attempts.Gate)
	handler := NewHandler(service)

	return &ExamContainer{
		Handler: handler,
		Service: service,
	}
}
