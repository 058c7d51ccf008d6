package quiz

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/assessment-lambda/internal/auth"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListQuizzes)
	r.Get("/{id}", h.GetQuiz)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(auth.RoleInstructor, auth.RoleAdmin))

		r.Post("/", h.CreateQuiz)
		r.Post("/with-questions", h.CreateQuizWithQuestions)
		r.Put("/{id}", h.UpdateQuiz)
		r.Delete("/{id}", h.DeleteQuiz)
		r.Post("/{id}/questions", h.AddQuestion)
		r.Delete("/{id}/questions/{questionID}", h.RemoveQuestion)
	})
	return r
}

func QuestionRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(auth.RequireRole(auth.RoleInstructor, auth.RoleAdmin))

	r.Post("/", h.CreateQuestion)
	r.Get("/", h.ListQuestions)
	return r
}
