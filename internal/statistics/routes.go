package statistics

import (
	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/assessment-lambda/internal/auth"
)

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(auth.RoleInstructor, auth.RoleAdmin))

		r.Get("/quizzes/{id}/statistics", h.GetQuizStatistics)
		r.Get("/courses/{id}/statistics", h.GetCourseStatistics)
	})
}
