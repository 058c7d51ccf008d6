package attempt

import "github.com/go-chi/chi/v5"

// RegisterRoutes adds the attempt endpoints nested under /quizzes/{id}.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/quizzes/{id}/attempts", h.StartAttempt)
	r.Get("/quizzes/{id}/attempts", h.ListAttempts)
	r.Get("/quizzes/{id}/attempts/active", h.GetActiveAttempt)
	r.Post("/quizzes/{id}/attempts/submit", h.Submit)
	r.Get("/quizzes/{id}/availability", h.Availability)
	r.Get("/attempts/{attemptID}", h.GetAttemptResult)
	r.Get("/required-quizzes/satisfied", h.RequiredQuizzesSatisfied)
}
