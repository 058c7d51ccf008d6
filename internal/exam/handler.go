package exam

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/saulo-duarte/assessment-lambda/internal/auth"
	"github.com/saulo-duarte/assessment-lambda/internal/config"
	"github.com/saulo-duarte/assessment-lambda/internal/quiz"
)

type Handler struct {
	service ExamService
}

func NewHandler(s ExamService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) CreateExam(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	instructorID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var dto CreateExamDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body for create exam")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.CreateExam(r.Context(), instructorID, dto)
	if err != nil {
		config.WriteError(w, err)
		return
	}

	config.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) GetExam(w http.ResponseWriter, r *http.Request) {
	viewerID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	examID, ok := quiz.URLParamUUID(w, r, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetExam(r.Context(), examID, viewerID)
	if err != nil {
		config.WriteError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) ListExams(w http.ResponseWriter, r *http.Request) {
	var filter ExamFilter
	query := r.URL.Query()

	if v := query.Get("course_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			http.Error(w, "invalid course_id", http.StatusBadRequest)
			return
		}
		filter.CourseID = &id
	}
	if v := query.Get("level_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			http.Error(w, "invalid level_id", http.StatusBadRequest)
			return
		}
		filter.LevelID = &id
	}

	resp, err := h.service.ListExams(r.Context(), filter)
	if err != nil {
		config.WriteError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) StartExam(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	examID, ok := quiz.URLParamUUID(w, r, "id")
	if !ok {
		return
	}

	resp, err := h.service.StartExam(r.Context(), examID, userID)
	if err != nil {
		config.WriteError(w, err)
		return
	}

	config.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) SubmitExam(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	examID, ok := quiz.URLParamUUID(w, r, "id")
	if !ok {
		return
	}

	var dto SubmitExamDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body for submit exam")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.SubmitExam(r.Context(), examID, userID, dto.Answers)
	if err != nil {
		config.WriteError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	examID, ok := quiz.URLParamUUID(w, r, "id")
	if !ok {
		return
	}

	resp, err := h.service.Availability(r.Context(), examID, userID)
	if err != nil {
		config.WriteError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}
