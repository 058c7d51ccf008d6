package attempt

import "github.com/saulo-duarte/assessment-lambda/internal/quiz"

type AttemptContainer struct {
	Handler *Handler
	Service AttemptService
	Gate    AccessGate
}

func NewAttemptContainer(repo quiz.Repository, progress ProgressChecker, opts ...Option) *AttemptContainer {
	gate := NewAccessGate(repo, progress)
	service := NewService(repo, gate, opts...)
	handler := NewHandler(service, gate)

	return &AttemptContainer{
		Handler: handler,
		Service: service,
		Gate:    gate,
	}
}
