package statistics

import (
	"net/http"

	"github.com/saulo-duarte/assessment-lambda/internal/auth"
	"github.com/saulo-duarte/assessment-lambda/internal/config"
	"github.com/saulo-duarte/assessment-lambda/internal/quiz"
)

type Handler struct {
	service StatisticsService
}

func NewHandler(s StatisticsService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) GetQuizStatistics(w http.ResponseWriter, r *http.Request) {
	instructorID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, ok := quiz.URLParamUUID(w, r, "id")
	if !ok {
		return
	}

	stats, err := h.service.GetStatistics(r.Context(), quizID, instructorID)
	if err != nil {
		config.WriteError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, stats)
}

func (h *Handler) GetCourseStatistics(w http.ResponseWriter, r *http.Request) {
	instructorID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	courseID, ok := quiz.URLParamUUID(w, r, "id")
	if !ok {
		return
	}

	stats, err := h.service.GetCourseStatistics(r.Context(), courseID, instructorID)
	if err != nil {
		config.WriteError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, stats)
}
