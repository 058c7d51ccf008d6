package statistics

import "github.com/saulo-duarte/assessment-lambda/internal/quiz"

type StatisticsContainer struct {
	Handler *Handler
	Service StatisticsService
}

func NewStatisticsContainer(repo quiz.Repository, owner QuizOwner, authorizer quiz.ScopeAuthorizer, cache Cache) *StatisticsContainer {
	service := NewService(repo, owner, authorizer, cache)
	handler := NewHandler(service)

	return &StatisticsContainer{
		Handler: handler,
		Service: service,
	}
}
