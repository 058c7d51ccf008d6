package quiz

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/saulo-duarte/assessment-lambda/internal/auth"
	"github.com/saulo-duarte/assessment-lambda/internal/config"
)

type Handler struct {
	service QuizService
}

func NewHandler(s QuizService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	instructorID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var dto CreateQuizDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body for create quiz")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.CreateQuiz(r.Context(), instructorID, dto)
	if err != nil {
		config.WriteError(w, err)
		return
	}

	config.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) CreateQuizWithQuestions(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	instructorID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var dto CreateQuizWithQuestionsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body for create quiz with questions")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if len(dto.NewQuestions) == 0 && len(dto.ExistingQuestions) == 0 {
		http.Error(w, "quiz must contain at least one question", http.StatusBadRequest)
		return
	}

	resp, err := h.service.CreateQuizWithQuestions(r.Context(), instructorID, dto)
	if err != nil {
		config.WriteError(w, err)
		return
	}

	config.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	viewerID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	quizID, ok := URLParamUUID(w, r, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetQuiz(r.Context(), quizID, viewerID)
	if err != nil {
		config.WriteError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()
	filter := QuizFilter{ActiveOnly: query.Get("include_inactive") != "true"}

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
	if v := query.Get("quiz_type"); v != "" {
		t := QuizType(v)
		if !t.IsValid() {
			http.Error(w, "invalid quiz_type", http.StatusBadRequest)
			return
		}
		filter.QuizType = &t
	}
	if query.Get("mine") == "true" {
		filter.InstructorID = &userID
	}

	resp, err := h.service.ListQuizzes(r.Context(), filter)
	if err != nil {
		config.WriteError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) UpdateQuiz(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	instructorID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	quizID, ok := URLParamUUID(w, r, "id")
	if !ok {
		return
	}

	var dto UpdateQuizDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body for update quiz")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.UpdateQuiz(r.Context(), instructorID, quizID, dto)
	if err != nil {
		config.WriteError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	instructorID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	quizID, ok := URLParamUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteQuiz(r.Context(), instructorID, quizID); err != nil {
		config.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	instructorID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var dto CreateQuestionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body for create question")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.CreateQuestion(r.Context(), instructorID, dto)
	if err != nil {
		config.WriteError(w, err)
		return
	}

	config.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	instructorID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	resp, err := h.service.ListQuestions(r.Context(), instructorID)
	if err != nil {
		config.WriteError(w, err)
		return
	}

	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	instructorID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	quizID, ok := URLParamUUID(w, r, "id")
	if !ok {
		return
	}

	var dto AddQuizQuestionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body for add question")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.AddQuestionToQuiz(r.Context(), instructorID, quizID, dto)
	if err != nil {
		config.WriteError(w, err)
		return
	}

	config.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) RemoveQuestion(w http.ResponseWriter, r *http.Request) {
	instructorID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	quizID, ok := URLParamUUID(w, r, "id")
	if !ok {
		return
	}
	questionID, ok := URLParamUUID(w, r, "questionID")
	if !ok {
		return
	}

	if err := h.service.RemoveQuestionFromQuiz(r.Context(), instructorID, quizID, questionID); err != nil {
		config.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// URLParamUUID parses a chi URL parameter, writing a 400 when it is not a uuid.
func URLParamUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		http.Error(w, name+" required", http.StatusBadRequest)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
