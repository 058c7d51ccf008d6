package quiz

import "gorm.io/gorm"

type QuizContainer struct {
	Handler *Handler
	Service QuizService
	Repo    Repository
}

func NewQuizContainer(db *gorm.DB, authorizer ScopeAuthorizer, opts ...Option) *QuizContainer {
	repo := NewRepository(db)
	service := NewService(repo, authorizer, opts...)
	handler := NewHandler(service)

	return &QuizContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
