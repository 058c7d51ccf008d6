// Package quiztest provides an in-memory quiz.Repository for service tests.
package quiztest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/assessment-lambda/internal/quiz"
)

// Memory mirrors the constraints of the gorm repository: soft deleted rows are
// hidden, and the unique indexes on attempts and quiz questions are enforced.
// A failed Transaction restores the state it started from.
type Memory struct {
	mu        sync.Mutex
	quizzes   map[uuid.UUID]quiz.Quiz
	questions map[uuid.UUID]quiz.Question
	options   map[uuid.UUID]quiz.QuestionOption
	links     map[uuid.UUID]quiz.QuizQuestion
	attempts  map[uuid.UUID]quiz.QuizAttempt
	answers   map[uuid.UUID]quiz.UserAnswer

	// FailOn makes the named method return the error once.
	FailOn map[string]error
}

func NewMemory() *Memory {
	return &Memory{
		quizzes:   map[uuid.UUID]quiz.Quiz{},
		questions: map[uuid.UUID]quiz.Question{},
		options:   map[uuid.UUID]quiz.QuestionOption{},
		links:     map[uuid.UUID]quiz.QuizQuestion{},
		attempts:  map[uuid.UUID]quiz.QuizAttempt{},
		answers:   map[uuid.UUID]quiz.UserAnswer{},
		FailOn:    map[string]error{},
	}
}

func (m *Memory) fail(name string) error {
	if err, ok := m.FailOn[name]; ok {
		delete(m.FailOn, name)
		return err
	}
	return nil
}

type snapshot struct {
	quizzes   map[uuid.UUID]quiz.Quiz
	questions map[uuid.UUID]quiz.Question
	options   map[uuid.UUID]quiz.QuestionOption
	links     map[uuid.UUID]quiz.QuizQuestion
	attempts  map[uuid.UUID]quiz.QuizAttempt
	answers   map[uuid.UUID]quiz.UserAnswer
}

func clone[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (m *Memory) Transaction(ctx context.Context, fn func(repo quiz.Repository) error) error {
	m.mu.Lock()
	snap := snapshot{
		quizzes:   clone(m.quizzes),
		questions: clone(m.questions),
		options:   clone(m.options),
		links:     clone(m.links),
		attempts:  clone(m.attempts),
		answers:   clone(m.answers),
	}
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.quizzes, m.questions, m.options = snap.quizzes, snap.questions, snap.options
		m.links, m.attempts, m.answers = snap.links, snap.attempts, snap.answers
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *Memory) CreateQuiz(ctx context.Context, q *quiz.Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateQuiz"); err != nil {
		return err
	}
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	now := time.Now()
	q.CreatedAt, q.UpdatedAt = now, now
	m.quizzes[q.ID] = *q
	return nil
}

func (m *Memory) UpdateQuiz(ctx context.Context, q *quiz.Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q.UpdatedAt = time.Now()
	m.quizzes[q.ID] = *q
	return nil
}

func (m *Memory) GetQuizByID(ctx context.Context, id uuid.UUID) (*quiz.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quizzes[id]
	if !ok || q.IsDeleted {
		return nil, quiz.ErrNotFound
	}
	return &q, nil
}

func (m *Memory) ListQuizzes(ctx context.Context, f quiz.QuizFilter) ([]quiz.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []quiz.Quiz
	for _, q := range m.quizzes {
		switch {
		case q.IsDeleted:
		case f.CourseID != nil && !sameID(q.CourseID, *f.CourseID):
		case f.LevelID != nil && !sameID(q.LevelID, *f.LevelID):
		case f.InstructorID != nil && q.InstructorID != *f.InstructorID:
		case f.QuizType != nil && q.QuizType != *f.QuizType:
		case f.ActiveOnly && !q.IsActive:
		default:
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) ListRequiredQuizzes(ctx context.Context, s quiz.Scope) ([]quiz.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []quiz.Quiz
	for _, q := range m.quizzes {
		if !q.IsRequired || q.IsDeleted || !q.IsActive {
			continue
		}
		if anchoredIn(q, s) {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *Memory) CreateQuestion(ctx context.Context, q *quiz.Question, options []quiz.QuestionOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateQuestion"); err != nil {
		return err
	}
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	now := time.Now()
	q.CreatedAt, q.UpdatedAt = now, now
	m.questions[q.ID] = *q
	for i := range options {
		if options[i].ID == uuid.Nil {
			options[i].ID = uuid.New()
		}
		options[i].QuestionID = q.ID
		m.options[options[i].ID] = options[i]
	}
	return nil
}

func (m *Memory) GetQuestionsByIDs(ctx context.Context, ids []uuid.UUID) ([]quiz.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []quiz.Question
	for _, id := range ids {
		if q, ok := m.questions[id]; ok && !q.IsDeleted {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *Memory) ListQuestionsByInstructor(ctx context.Context, instructorID uuid.UUID) ([]quiz.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []quiz.Question
	for _, q := range m.questions {
		if q.InstructorID == instructorID && !q.IsDeleted {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *Memory) ListOptionsByQuestionIDs(ctx context.Context, ids []uuid.UUID) ([]quiz.QuestionOption, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []quiz.QuestionOption
	for _, o := range m.options {
		if wanted[o.QuestionID] {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (m *Memory) AddQuizQuestions(ctx context.Context, links []quiz.QuizQuestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range links {
		for _, l := range m.links {
			if l.QuizID == links[i].QuizID && l.QuestionID == links[i].QuestionID {
				return quiz.ErrDuplicate
			}
		}
		if links[i].ID == uuid.Nil {
			links[i].ID = uuid.New()
		}
		m.links[links[i].ID] = links[i]
	}
	return nil
}

func (m *Memory) RemoveQuizQuestion(ctx context.Context, quizID, questionID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, l := range m.links {
		if l.QuizID == quizID && l.QuestionID == questionID {
			delete(m.links, id)
			return nil
		}
	}
	return quiz.ErrNotFound
}

func (m *Memory) ListQuizQuestions(ctx context.Context, quizID uuid.UUID) ([]quiz.QuizQuestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []quiz.QuizQuestion
	for _, l := range m.links {
		if l.QuizID == quizID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (m *Memory) CreateAttempt(ctx context.Context, a *quiz.QuizAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateAttempt"); err != nil {
		return err
	}
	for _, existing := range m.attempts {
		if existing.QuizID != a.QuizID || existing.UserID != a.UserID {
			continue
		}
		if existing.AttemptNumber == a.AttemptNumber || (existing.IsInProgress() && a.IsInProgress()) {
			return quiz.ErrDuplicate
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	m.attempts[a.ID] = *a
	return nil
}

func (m *Memory) UpdateAttempt(ctx context.Context, a *quiz.QuizAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("UpdateAttempt"); err != nil {
		return err
	}
	m.attempts[a.ID] = *a
	return nil
}

func (m *Memory) GetAttemptByID(ctx context.Context, id uuid.UUID) (*quiz.QuizAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[id]
	if !ok {
		return nil, quiz.ErrNotFound
	}
	return &a, nil
}

func (m *Memory) GetActiveAttempt(ctx context.Context, quizID, userID uuid.UUID) (*quiz.QuizAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.attempts {
		if a.QuizID == quizID && a.UserID == userID && a.IsInProgress() {
			return &a, nil
		}
	}
	return nil, quiz.ErrNotFound
}

func (m *Memory) CountAttempts(ctx context.Context, quizID, userID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.attempts {
		if a.QuizID == quizID && a.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *Memory) ListAttempts(ctx context.Context, quizID, userID uuid.UUID) ([]quiz.QuizAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []quiz.QuizAttempt
	for _, a := range m.attempts {
		if a.QuizID == quizID && a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AttemptNumber < out[j].AttemptNumber })
	return out, nil
}

func (m *Memory) ListCompletedAttempts(ctx context.Context, quizIDs []uuid.UUID) ([]quiz.QuizAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(quizIDs))
	for _, id := range quizIDs {
		wanted[id] = true
	}
	var out []quiz.QuizAttempt
	for _, a := range m.attempts {
		if wanted[a.QuizID] && !a.IsInProgress() {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.Before(*out[j].CompletedAt) })
	return out, nil
}

func (m *Memory) HasPassedAttempt(ctx context.Context, quizID, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.attempts {
		if a.QuizID == quizID && a.UserID == userID && !a.IsInProgress() && a.Passed {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) CreateAnswers(ctx context.Context, answers []quiz.UserAnswer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateAnswers"); err != nil {
		return err
	}
	for i := range answers {
		if answers[i].ID == uuid.Nil {
			answers[i].ID = uuid.New()
		}
		m.answers[answers[i].ID] = answers[i]
	}
	return nil
}

func (m *Memory) ListAnswersByAttemptIDs(ctx context.Context, ids []uuid.UUID) ([]quiz.UserAnswer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []quiz.UserAnswer
	for _, a := range m.answers {
		if wanted[a.AttemptID] {
			out = append(out, a)
		}
	}
	return out, nil
}

// PutAttempt stores a directly, bypassing every constraint.
func (m *Memory) PutAttempt(a quiz.QuizAttempt) quiz.QuizAttempt {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	m.attempts[a.ID] = a
	return a
}

// DeleteQuestion soft deletes a question, leaving its quiz links dangling.
func (m *Memory) DeleteQuestion(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q, ok := m.questions[id]; ok {
		q.IsDeleted = true
		m.questions[id] = q
	}
}

// anchoredIn matches q on its most specific scope column only.
func anchoredIn(q quiz.Quiz, s quiz.Scope) bool {
	switch {
	case q.ContentID != nil:
		return s.ContentID != nil && *q.ContentID == *s.ContentID
	case q.SectionID != nil:
		return s.SectionID != nil && *q.SectionID == *s.SectionID
	case q.LevelID != nil:
		return s.LevelID != nil && *q.LevelID == *s.LevelID
	case q.CourseID != nil:
		return s.CourseID != nil && *q.CourseID == *s.CourseID
	}
	return false
}

func sameID(a *uuid.UUID, b uuid.UUID) bool {
	return a != nil && *a == b
}

var _ quiz.Repository = (*Memory)(nil)
