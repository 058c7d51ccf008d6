package attempt

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/saulo-duarte/assessment-lambda/internal/auth"
	"github.com/saulo-duarte/assessment-lambda/internal/config"
	"github.com/saulo-duarte/assessment-lambda/internal/quiz"
)

type Handler struct {
	service AttemptService
	gate    AccessGate
}

func NewHandler(s AttemptService, gate AccessGate) *Handler {
	return &Handler{service: s, gate: gate}
}

func (h *Handler) StartAttempt(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, ok := quiz.URLParamUUID(w, r, "id")
	if !ok {
		return
	}

	resp, err := h.service.StartAttempt(r.Context(), quizID, userID)
	if err != nil {
		config.WriteError(w, err)
		return
	}

	config.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) GetActiveAttempt(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, ok := quiz.URLParamUUID(w, r, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetActiveAttempt(r.Context(), quizID, userID)
	if err != nil {
		config.WriteError(w, err)
		return
	}
	if resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, ok := quiz.URLParamUUID(w, r, "id")
	if !ok {
		return
	}

	var dto SubmitDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body for submit attempt")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Submit(r.Context(), quizID, userID, dto.Answers)
	if err != nil {
		config.WriteError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, ok := quiz.URLParamUUID(w, r, "id")
	if !ok {
		return
	}

	resp, err := h.service.ListAttempts(r.Context(), quizID, userID)
	if err != nil {
		config.WriteError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) GetAttemptResult(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	attemptID, ok := quiz.URLParamUUID(w, r, "attemptID")
	if !ok {
		return
	}

	resp, err := h.service.GetAttemptResult(r.Context(), attemptID, userID)
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
	quizID, ok := quiz.URLParamUUID(w, r, "id")
	if !ok {
		return
	}

	resp, err := h.service.Availability(r.Context(), quizID, userID)
	if err != nil {
		config.WriteError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

// RequiredQuizzesSatisfied reads the scope from the content_id, section_id,
// level_id and course_id query parameters.
func (h *Handler) RequiredQuizzesSatisfied(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var scope quiz.Scope
	for name, dst := range map[string]**uuid.UUID{
		"content_id": &scope.ContentID,
		"section_id": &scope.SectionID,
		"level_id":   &scope.LevelID,
		"course_id":  &scope.CourseID,
	} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid "+name, http.StatusBadRequest)
			return
		}
		*dst = &id
	}
	if scope.IsEmpty() {
		http.Error(w, "at least one scope id is required", http.StatusBadRequest)
		return
	}

	ok, err := h.gate.RequiredQuizzesSatisfied(r.Context(), scope, userID)
	if err != nil {
		config.WriteError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, map[string]bool{"satisfied": ok})
}
