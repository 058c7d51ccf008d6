package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/saulo-duarte/assessment-lambda/internal/apperror"
	"github.com/saulo-duarte/assessment-lambda/internal/config"
	"github.com/sirupsen/logrus"
)

var (
	ErrQuizNotFound        = apperror.NotFound("quiz_not_found", "quiz not found")
	ErrQuestionNotFound    = apperror.NotFound("question_not_found", "question not found")
	ErrNotOwner            = apperror.Unauthorized("not_owner", "instructor does not own this resource")
	ErrQuestionAlreadyUsed = apperror.Validation("duplicate_question", "question is already part of this quiz", nil)
)

// ScopeAuthorizer checks with the course catalog that a course or level
// exists and belongs to the instructor.
type ScopeAuthorizer interface {
	VerifyScopeOwnership(ctx context.Context, instructorID uuid.UUID, courseID, levelID *uuid.UUID) error
}

// ChangeListener is told about quizzes whose definition, questions or
// visibility changed.
type ChangeListener interface {
	QuizChanged(ctx context.Context, q *Quiz)
}

type QuizService interface {
	CreateQuiz(ctx context.Context, instructorID uuid.UUID, dto CreateQuizDTO) (*QuizResponse, error)
	CreateQuizWithQuestions(ctx context.Context, instructorID uuid.UUID, dto CreateQuizWithQuestionsDTO) (*QuizDetailResponse, error)
	GetQuiz(ctx context.Context, quizID, viewerID uuid.UUID) (*QuizDetailResponse, error)
	ListQuizzes(ctx context.Context, filter QuizFilter) ([]QuizResponse, error)
	UpdateQuiz(ctx context.Context, instructorID, quizID uuid.UUID, dto UpdateQuizDTO) (*QuizResponse, error)
	DeleteQuiz(ctx context.Context, instructorID, quizID uuid.UUID) error

	CreateQuestion(ctx context.Context, instructorID uuid.UUID, dto CreateQuestionDTO) (*QuestionResponse, error)
	ListQuestions(ctx context.Context, instructorID uuid.UUID) ([]QuestionResponse, error)
	AddQuestionToQuiz(ctx context.Context, instructorID, quizID uuid.UUID, dto AddQuizQuestionDTO) (*QuizDetailResponse, error)
	RemoveQuestionFromQuiz(ctx context.Context, instructorID, quizID, questionID uuid.UUID) error

	GetOwnedQuiz(ctx context.Context, instructorID, quizID uuid.UUID) (*Quiz, error)
}

type Option func(*quizService)

func WithChangeListener(l ChangeListener) Option {
	return func(s *quizService) { s.listeners = append(s.listeners, l) }
}

type quizService struct {
	repo       Repository
	authorizer ScopeAuthorizer
	listeners  []ChangeListener
}

func NewService(repo Repository, authorizer ScopeAuthorizer, opts ...Option) QuizService {
	s := &quizService{
		repo:       repo,
		authorizer: authorizer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *quizService) changed(ctx context.Context, q *Quiz) {
	for _, l := range s.listeners {
		l.QuizChanged(ctx, q)
	}
}

func (s *quizService) CreateQuiz(ctx context.Context, instructorID uuid.UUID, dto CreateQuizDTO) (*QuizResponse, error) {
	log := config.WithContext(ctx)

	if err := validateQuizDefinition(dto); err != nil {
		log.WithError(err).Warn("Invalid quiz definition")
		return nil, err
	}
	if err := s.authorizer.VerifyScopeOwnership(ctx, instructorID, dto.CourseID, dto.LevelID); err != nil {
		log.WithError(err).Warn("Scope ownership check failed")
		return nil, err
	}

	q := newQuiz(instructorID, dto)
	if err := s.repo.CreateQuiz(ctx, q); err != nil {
		log.WithError(err).Error("Failed to create quiz")
		return nil, fmt.Errorf("create quiz: %w", err)
	}

	log.WithField("quiz_id", q.ID).Info("Quiz created successfully")
	s.changed(ctx, q)
	return ToResponse(q), nil
}

func (s *quizService) CreateQuizWithQuestions(ctx context.Context, instructorID uuid.UUID, dto CreateQuizWithQuestionsDTO) (*QuizDetailResponse, error) {
	log := config.WithContext(ctx)

	if err := apperror.ValidateStruct(dto); err != nil {
		return nil, err
	}
	if err := validateQuizDefinition(dto.Quiz); err != nil {
		return nil, err
	}
	for i, q := range dto.NewQuestions {
		if err := validateQuestionDefinition(q); err != nil {
			log.WithError(err).Warnf("Invalid new question at position %d", i)
			return nil, err
		}
	}
	if err := s.authorizer.VerifyScopeOwnership(ctx, instructorID, dto.Quiz.CourseID, dto.Quiz.LevelID); err != nil {
		log.WithError(err).Warn("Scope ownership check failed")
		return nil, err
	}

	var content *Content
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		q := newQuiz(instructorID, dto.Quiz)
		if err := tx.CreateQuiz(ctx, q); err != nil {
			return fmt.Errorf("create quiz: %w", err)
		}

		links := make([]QuizQuestion, 0, len(dto.NewQuestions)+len(dto.ExistingQuestions))
		seen := make(map[uuid.UUID]bool)

		for _, nq := range dto.NewQuestions {
			question, options := newQuestion(instructorID, nq)
			if err := tx.CreateQuestion(ctx, question, options); err != nil {
				return fmt.Errorf("create question: %w", err)
			}
			seen[question.ID] = true
			links = append(links, QuizQuestion{
				QuizID:       q.ID,
				QuestionID:   question.ID,
				OrderIndex:   len(links),
				CustomPoints: nq.CustomPoints,
			})
		}

		existingIDs := make([]uuid.UUID, 0, len(dto.ExistingQuestions))
		for _, ref := range dto.ExistingQuestions {
			existingIDs = append(existingIDs, ref.QuestionID)
		}
		existing, err := s.ownedQuestions(ctx, tx, instructorID, existingIDs)
		if err != nil {
			return err
		}
		for _, ref := range dto.ExistingQuestions {
			if seen[ref.QuestionID] {
				return ErrQuestionAlreadyUsed
			}
			seen[ref.QuestionID] = true
			links = append(links, QuizQuestion{
				QuizID:       q.ID,
				QuestionID:   existing[ref.QuestionID].ID,
				OrderIndex:   len(links),
				CustomPoints: ref.CustomPoints,
			})
		}

		if err := tx.AddQuizQuestions(ctx, links); err != nil {
			if errors.Is(err, ErrDuplicate) {
				return ErrQuestionAlreadyUsed
			}
			return fmt.Errorf("link questions: %w", err)
		}

		content, err = LoadContent(ctx, tx, q)
		return err
	})
	if err != nil {
		if apperror.KindOf(err) != "" {
			log.WithError(err).Warn("Quiz with questions rejected")
		} else {
			log.WithError(err).Error("Failed to create quiz with questions")
		}
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"quiz_id":   content.Quiz.ID,
		"questions": len(content.Links),
	}).Info("Quiz with questions created successfully")
	s.changed(ctx, content.Quiz)
	return ToDetailResponse(content, true), nil
}

func (s *quizService) GetQuiz(ctx context.Context, quizID, viewerID uuid.UUID) (*QuizDetailResponse, error) {
	log := config.WithContext(ctx)

	q, err := s.getQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	content, err := LoadContent(ctx, s.repo, q)
	if err != nil {
		log.WithError(err).Error("Failed to load quiz content")
		return nil, err
	}

	return ToDetailResponse(content, q.InstructorID == viewerID), nil
}

func (s *quizService) ListQuizzes(ctx context.Context, filter QuizFilter) ([]QuizResponse, error) {
	log := config.WithContext(ctx)

	quizzes, err := s.repo.ListQuizzes(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list quizzes")
		return nil, fmt.Errorf("list quizzes: %w", err)
	}

	responses := make([]QuizResponse, 0, len(quizzes))
	for i := range quizzes {
		responses = append(responses, *ToResponse(&quizzes[i]))
	}
	return responses, nil
}

func (s *quizService) UpdateQuiz(ctx context.Context, instructorID, quizID uuid.UUID, dto UpdateQuizDTO) (*QuizResponse, error) {
	log := config.WithContext(ctx)

	if err := apperror.ValidateStruct(dto); err != nil {
		return nil, err
	}

	q, err := s.GetOwnedQuiz(ctx, instructorID, quizID)
	if err != nil {
		return nil, err
	}

	if dto.Title != nil {
		q.Title = *dto.Title
	}
	if dto.Description != nil {
		q.Description = *dto.Description
	}
	if dto.MaxAttempts != nil {
		q.MaxAttempts = *dto.MaxAttempts
	}
	if dto.PassingScore != nil {
		q.PassingScore = *dto.PassingScore
	}
	if dto.IsRequired != nil {
		q.IsRequired = *dto.IsRequired
	}
	if dto.TimeLimitInMinutes != nil {
		// zero clears the limit
		if *dto.TimeLimitInMinutes == 0 {
			q.TimeLimitInMinutes = nil
		} else {
			limit := *dto.TimeLimitInMinutes
			q.TimeLimitInMinutes = &limit
		}
	}
	if dto.IsActive != nil {
		q.IsActive = *dto.IsActive
	}

	if err := s.repo.UpdateQuiz(ctx, q); err != nil {
		log.WithError(err).Error("Failed to update quiz")
		return nil, fmt.Errorf("update quiz: %w", err)
	}

	log.WithField("quiz_id", q.ID).Info("Quiz updated successfully")
	s.changed(ctx, q)
	return ToResponse(q), nil
}

func (s *quizService) DeleteQuiz(ctx context.Context, instructorID, quizID uuid.UUID) error {
	log := config.WithContext(ctx)

	q, err := s.GetOwnedQuiz(ctx, instructorID, quizID)
	if err != nil {
		return err
	}

	q.IsDeleted = true
	q.IsActive = false
	if err := s.repo.UpdateQuiz(ctx, q); err != nil {
		log.WithError(err).Error("Failed to delete quiz")
		return fmt.Errorf("delete quiz: %w", err)
	}

	log.WithField("quiz_id", quizID).Info("Quiz deleted successfully")
	s.changed(ctx, q)
	return nil
}

func (s *quizService) CreateQuestion(ctx context.Context, instructorID uuid.UUID, dto CreateQuestionDTO) (*QuestionResponse, error) {
	log := config.WithContext(ctx)

	if err := validateQuestionDefinition(dto); err != nil {
		log.WithError(err).Warn("Invalid question definition")
		return nil, err
	}

	question, options := newQuestion(instructorID, dto)
	if err := s.repo.CreateQuestion(ctx, question, options); err != nil {
		log.WithError(err).Error("Failed to create question")
		return nil, fmt.Errorf("create question: %w", err)
	}

	log.WithField("question_id", question.ID).Info("Question created successfully")
	resp := ToQuestionResponse(*question, options, true)
	return &resp, nil
}

func (s *quizService) ListQuestions(ctx context.Context, instructorID uuid.UUID) ([]QuestionResponse, error) {
	log := config.WithContext(ctx)

	questions, err := s.repo.ListQuestionsByInstructor(ctx, instructorID)
	if err != nil {
		log.WithError(err).Error("Failed to list questions")
		return nil, fmt.Errorf("list questions: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	options, err := s.repo.ListOptionsByQuestionIDs(ctx, ids)
	if err != nil {
		log.WithError(err).Error("Failed to list question options")
		return nil, fmt.Errorf("list options: %w", err)
	}
	byQuestion := make(map[uuid.UUID][]QuestionOption, len(questions))
	for _, opt := range options {
		byQuestion[opt.QuestionID] = append(byQuestion[opt.QuestionID], opt)
	}

	responses := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		responses = append(responses, ToQuestionResponse(q, byQuestion[q.ID], true))
	}
	return responses, nil
}

func (s *quizService) AddQuestionToQuiz(ctx context.Context, instructorID, quizID uuid.UUID, dto AddQuizQuestionDTO) (*QuizDetailResponse, error) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{
		"quiz_id":     quizID,
		"question_id": dto.QuestionID,
	})

	if err := apperror.ValidateStruct(dto); err != nil {
		return nil, err
	}

	q, err := s.GetOwnedQuiz(ctx, instructorID, quizID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedQuestions(ctx, s.repo, instructorID, []uuid.UUID{dto.QuestionID}); err != nil {
		return nil, err
	}

	links, err := s.repo.ListQuizQuestions(ctx, quizID)
	if err != nil {
		log.WithError(err).Error("Failed to list quiz questions")
		return nil, fmt.Errorf("list quiz questions: %w", err)
	}
	order := 0
	for _, l := range links {
		if l.QuestionID == dto.QuestionID {
			return nil, ErrQuestionAlreadyUsed
		}
		if l.OrderIndex >= order {
			order = l.OrderIndex + 1
		}
	}
	if dto.OrderIndex != nil {
		order = *dto.OrderIndex
	}

	link := QuizQuestion{
		QuizID:       quizID,
		QuestionID:   dto.QuestionID,
		OrderIndex:   order,
		CustomPoints: dto.CustomPoints,
	}
	if err := s.repo.AddQuizQuestions(ctx, []QuizQuestion{link}); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, ErrQuestionAlreadyUsed
		}
		log.WithError(err).Error("Failed to add question to quiz")
		return nil, fmt.Errorf("add quiz question: %w", err)
	}

	content, err := LoadContent(ctx, s.repo, q)
	if err != nil {
		return nil, err
	}

	log.Info("Question added to quiz")
	s.changed(ctx, q)
	return ToDetailResponse(content, true), nil
}

func (s *quizService) RemoveQuestionFromQuiz(ctx context.Context, instructorID, quizID, questionID uuid.UUID) error {
	log := config.WithContext(ctx).WithFields(logrus.Fields{
		"quiz_id":     quizID,
		"question_id": questionID,
	})

	q, err := s.GetOwnedQuiz(ctx, instructorID, quizID)
	if err != nil {
		return err
	}

	if err := s.repo.RemoveQuizQuestion(ctx, quizID, questionID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrQuestionNotFound
		}
		log.WithError(err).Error("Failed to remove question from quiz")
		return fmt.Errorf("remove quiz question: %w", err)
	}

	log.Info("Question removed from quiz")
	s.changed(ctx, q)
	return nil
}

// GetOwnedQuiz loads a quiz and checks that instructorID created it.
func (s *quizService) GetOwnedQuiz(ctx context.Context, instructorID, quizID uuid.UUID) (*Quiz, error) {
	q, err := s.getQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if q.InstructorID != instructorID {
		config.WithContext(ctx).WithFields(logrus.Fields{
			"quiz_id":       quizID,
			"instructor_id": instructorID,
		}).Warn("Instructor does not own quiz")
		return nil, ErrNotOwner
	}
	return q, nil
}

func (s *quizService) getQuiz(ctx context.Context, quizID uuid.UUID) (*Quiz, error) {
	q, err := s.repo.GetQuizByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		config.WithContext(ctx).WithError(err).Error("Failed to get quiz")
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	return q, nil
}

func (s *quizService) ownedQuestions(ctx context.Context, repo Repository, instructorID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]Question, error) {
	out := make(map[uuid.UUID]Question, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	questions, err := repo.GetQuestionsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get questions: %w", err)
	}
	for _, q := range questions {
		out[q.ID] = q
	}
	for _, id := range ids {
		q, ok := out[id]
		if !ok {
			return nil, ErrQuestionNotFound
		}
		if q.InstructorID != instructorID {
			return nil, ErrNotOwner
		}
	}
	return out, nil
}

func newQuiz(instructorID uuid.UUID, dto CreateQuizDTO) *Quiz {
	active := true
	if dto.IsActive != nil {
		active = *dto.IsActive
	}
	return &Quiz{
		ID:                 uuid.New(),
		Title:              dto.Title,
		Description:        dto.Description,
		QuizType:           dto.QuizType,
		CourseID:           dto.CourseID,
		LevelID:            dto.LevelID,
		SectionID:          dto.SectionID,
		ContentID:          dto.ContentID,
		MaxAttempts:        dto.MaxAttempts,
		PassingScore:       dto.PassingScore,
		IsRequired:         dto.IsRequired,
		TimeLimitInMinutes: dto.TimeLimitInMinutes,
		IsActive:           active,
		InstructorID:       instructorID,
	}
}

func newQuestion(instructorID uuid.UUID, dto CreateQuestionDTO) (*Question, []QuestionOption) {
	question := &Question{
		ID:           uuid.New(),
		Text:         dto.Text,
		QuestionType: dto.QuestionType,
		Points:       dto.Points,
		Explanation:  dto.Explanation,
		InstructorID: instructorID,
	}
	options := make([]QuestionOption, 0, len(dto.Options))
	for _, o := range dto.Options {
		options = append(options, QuestionOption{
			ID:         uuid.New(),
			QuestionID: question.ID,
			Text:       o.Text,
			IsCorrect:  o.IsCorrect,
			OrderIndex: o.OrderIndex,
		})
	}
	return question, options
}
