package exam

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/assessment-lambda/internal/auth"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListExams)
	r.Get("/{id}", h.GetExam)
	r.Get("/{id}/availability", h.Availability)
	r.Post("/{id}/start", h.StartExam)
	r.Post("/{id}/submit", h.SubmitExam)

	r.With(auth.RequireRole(auth.RoleInstructor, auth.RoleAdmin)).Post("/", h.CreateExam)
	return r
}
