package quiz

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type QuizFilter struct {
	CourseID     *uuid.UUID
	LevelID      *uuid.UUID
	InstructorID *uuid.UUID
	QuizType     *QuizType
	ActiveOnly   bool
}

// Scope names every ancestor a piece of content sits under. Nil fields are
// not part of the scope.
type Scope struct {
	ContentID *uuid.UUID `json:"content_id,omitempty"`
	SectionID *uuid.UUID `json:"section_id,omitempty"`
	LevelID   *uuid.UUID `json:"level_id,omitempty"`
	CourseID  *uuid.UUID `json:"course_id,omitempty"`
}

func (s Scope) IsEmpty() bool {
	return s.ContentID == nil && s.SectionID == nil && s.LevelID == nil && s.CourseID == nil
}

type Repository interface {
	// Transaction runs fn against a repository bound to a single transaction.
	Transaction(ctx context.Context, fn func(repo Repository) error) error

	CreateQuiz(ctx context.Context, q *Quiz) error
	UpdateQuiz(ctx context.Context, q *Quiz) error
	GetQuizByID(ctx context.Context, id uuid.UUID) (*Quiz, error)
	ListQuizzes(ctx context.Context, filter QuizFilter) ([]Quiz, error)
	ListRequiredQuizzes(ctx context.Context, scope Scope) ([]Quiz, error)

	CreateQuestion(ctx context.Context, q *Question, options []QuestionOption) error
	GetQuestionsByIDs(ctx context.Context, ids []uuid.UUID) ([]Question, error)
	ListQuestionsByInstructor(ctx context.Context, instructorID uuid.UUID) ([]Question, error)
	ListOptionsByQuestionIDs(ctx context.Context, ids []uuid.UUID) ([]QuestionOption, error)

	AddQuizQuestions(ctx context.Context, links []QuizQuestion) error
	RemoveQuizQuestion(ctx context.Context, quizID, questionID uuid.UUID) error
	ListQuizQuestions(ctx context.Context, quizID uuid.UUID) ([]QuizQuestion, error)

	CreateAttempt(ctx context.Context, a *QuizAttempt) error
	UpdateAttempt(ctx context.Context, a *QuizAttempt) error
	GetAttemptByID(ctx context.Context, id uuid.UUID) (*QuizAttempt, error)
	GetActiveAttempt(ctx context.Context, quizID, userID uuid.UUID) (*QuizAttempt, error)
	CountAttempts(ctx context.Context, quizID, userID uuid.UUID) (int, error)
	ListAttempts(ctx context.Context, quizID, userID uuid.UUID) ([]QuizAttempt, error)
	ListCompletedAttempts(ctx context.Context, quizIDs []uuid.UUID) ([]QuizAttempt, error)
	HasPassedAttempt(ctx context.Context, quizID, userID uuid.UUID) (bool, error)

	CreateAnswers(ctx context.Context, answers []UserAnswer) error
	ListAnswersByAttemptIDs(ctx context.Context, ids []uuid.UUID) ([]UserAnswer, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &quizRepository{db: db}
}

// AutoMigrate creates the assessment tables plus the partial index that keeps
// a single in-progress attempt per (quiz, user).
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Quiz{},
		&Question{},
		&QuestionOption{},
		&QuizQuestion{},
		&QuizAttempt{},
		&UserAnswer{},
	); err != nil {
		return err
	}
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_attempt_single_active
		ON quiz_attempts (quiz_id, user_id) WHERE completed_at IS NULL`).Error
}

func (r *quizRepository) Transaction(ctx context.Context, fn func(repo Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&quizRepository{db: tx})
	})
}

func (r *quizRepository) CreateQuiz(ctx context.Context, q *Quiz) error {
	return translate(r.db.WithContext(ctx).Create(q).Error)
}

func (r *quizRepository) UpdateQuiz(ctx context.Context, q *Quiz) error {
	return translate(r.db.WithContext(ctx).Save(q).Error)
}

func (r *quizRepository) GetQuizByID(ctx context.Context, id uuid.UUID) (*Quiz, error) {
	var q Quiz
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&q).Error; err != nil {
		return nil, translate(err)
	}
	return &q, nil
}

func (r *quizRepository) ListQuizzes(ctx context.Context, filter QuizFilter) ([]Quiz, error) {
	query := r.db.WithContext(ctx).Where("is_deleted = ?", false)
	if filter.CourseID != nil {
		query = query.Where("course_id = ?", *filter.CourseID)
	}
	if filter.LevelID != nil {
		query = query.Where("level_id = ?", *filter.LevelID)
	}
	if filter.InstructorID != nil {
		query = query.Where("instructor_id = ?", *filter.InstructorID)
	}
	if filter.QuizType != nil {
		query = query.Where("quiz_type = ?", *filter.QuizType)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var quizzes []Quiz
	if err := query.Order("created_at ASC").Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *quizRepository) ListRequiredQuizzes(ctx context.Context, scope Scope) ([]Quiz, error) {
	if scope.IsEmpty() {
		return nil, nil
	}

	// A quiz is anchored at its most specific scope column, so a course id
	// only matches quizzes that sit on the course itself.
	var conds []string
	var args []interface{}
	anchor := func(cond string, id *uuid.UUID) {
		if id != nil {
			conds = append(conds, cond)
			args = append(args, *id)
		}
	}
	anchor("content_id = ?", scope.ContentID)
	anchor("(section_id = ? AND content_id IS NULL)", scope.SectionID)
	anchor("(level_id = ? AND section_id IS NULL AND content_id IS NULL)", scope.LevelID)
	anchor("(course_id = ? AND level_id IS NULL AND section_id IS NULL AND content_id IS NULL)", scope.CourseID)

	var quizzes []Quiz
	if err := r.db.WithContext(ctx).
		Where("is_required = ? AND is_deleted = ? AND is_active = ?", true, false, true).
		Where("("+strings.Join(conds, " OR ")+")", args...).
		Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *quizRepository) CreateQuestion(ctx context.Context, q *Question, options []QuestionOption) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(q).Error; err != nil {
			return translate(err)
		}
		for i := range options {
			options[i].QuestionID = q.ID
		}
		if len(options) == 0 {
			return nil
		}
		return translate(tx.Create(&options).Error)
	})
}

func (r *quizRepository) GetQuestionsByIDs(ctx context.Context, ids []uuid.UUID) ([]Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var questions []Question
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND is_deleted = ?", ids, false).
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *quizRepository) ListQuestionsByInstructor(ctx context.Context, instructorID uuid.UUID) ([]Question, error) {
	var questions []Question
	if err := r.db.WithContext(ctx).
		Where("instructor_id = ? AND is_deleted = ?", instructorID, false).
		Order("created_at DESC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *quizRepository) ListOptionsByQuestionIDs(ctx context.Context, ids []uuid.UUID) ([]QuestionOption, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var options []QuestionOption
	if err := r.db.WithContext(ctx).
		Where("question_id IN ?", ids).
		Order("order_index ASC").
		Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

func (r *quizRepository) AddQuizQuestions(ctx context.Context, links []QuizQuestion) error {
	if len(links) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Create(&links).Error)
}

func (r *quizRepository) RemoveQuizQuestion(ctx context.Context, quizID, questionID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("quiz_id = ? AND question_id = ?", quizID, questionID).
		Delete(&QuizQuestion{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *quizRepository) ListQuizQuestions(ctx context.Context, quizID uuid.UUID) ([]QuizQuestion, error) {
	var links []QuizQuestion
	if err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("order_index ASC").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *quizRepository) CreateAttempt(ctx context.Context, a *QuizAttempt) error {
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

func (r *quizRepository) UpdateAttempt(ctx context.Context, a *QuizAttempt) error {
	return translate(r.db.WithContext(ctx).Save(a).Error)
}

func (r *quizRepository) GetAttemptByID(ctx context.Context, id uuid.UUID) (*QuizAttempt, error) {
	var a QuizAttempt
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *quizRepository) GetActiveAttempt(ctx context.Context, quizID, userID uuid.UUID) (*QuizAttempt, error) {
	var a QuizAttempt
	if err := r.db.WithContext(ctx).
		Where("quiz_id = ? AND user_id = ? AND completed_at IS NULL", quizID, userID).
		Order("attempt_number DESC").
		First(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *quizRepository) CountAttempts(ctx context.Context, quizID, userID uuid.UUID) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&QuizAttempt{}).
		Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *quizRepository) ListAttempts(ctx context.Context, quizID, userID uuid.UUID) ([]QuizAttempt, error) {
	var attempts []QuizAttempt
	if err := r.db.WithContext(ctx).
		Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Order("attempt_number ASC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *quizRepository) ListCompletedAttempts(ctx context.Context, quizIDs []uuid.UUID) ([]QuizAttempt, error) {
	if len(quizIDs) == 0 {
		return nil, nil
	}
	var attempts []QuizAttempt
	if err := r.db.WithContext(ctx).
		Where("quiz_id IN ? AND completed_at IS NOT NULL", quizIDs).
		Order("completed_at ASC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *quizRepository) HasPassedAttempt(ctx context.Context, quizID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&QuizAttempt{}).
		Where("quiz_id = ? AND user_id = ? AND completed_at IS NOT NULL AND passed = ?", quizID, userID, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *quizRepository) CreateAnswers(ctx context.Context, answers []UserAnswer) error {
	if len(answers) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Create(&answers).Error)
}

func (r *quizRepository) ListAnswersByAttemptIDs(ctx context.Context, ids []uuid.UUID) ([]UserAnswer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var answers []UserAnswer
	if err := r.db.WithContext(ctx).
		Where("attempt_id IN ?", ids).
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
