package attempt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/assessment-lambda/internal/apperror"
	"github.com/saulo-duarte/assessment-lambda/internal/config"
	"github.com/saulo-duarte/assessment-lambda/internal/grading"
	"github.com/saulo-duarte/assessment-lambda/internal/quiz"
	"github.com/sirupsen/logrus"
)

// CompletionListener is notified after a submission has been committed.
type CompletionListener interface {
	AttemptCompleted(ctx context.Context, q *quiz.Quiz, a *quiz.QuizAttempt)
}

type AttemptService interface {
	StartAttempt(ctx context.Context, quizID, userID uuid.UUID) (*AttemptResponse, error)
	GetActiveAttempt(ctx context.Context, quizID, userID uuid.UUID) (*AttemptResponse, error)
	Submit(ctx context.Context, quizID, userID uuid.UUID, answers []grading.Answer) (*Result, error)
	ListAttempts(ctx context.Context, quizID, userID uuid.UUID) ([]AttemptResponse, error)
	GetAttemptResult(ctx context.Context, attemptID, userID uuid.UUID) (*Result, error)
	Availability(ctx context.Context, quizID, userID uuid.UUID) (*AvailabilityResponse, error)
}

type Option func(*attemptService)

// WithClock replaces the time source used for start, submit and time limits.
func WithClock(now func() time.Time) Option {
	return func(s *attemptService) { s.now = now }
}

func WithCompletionListener(l CompletionListener) Option {
	return func(s *attemptService) { s.listeners = append(s.listeners, l) }
}

type attemptService struct {
	repo      quiz.Repository
	gate      AccessGate
	now       func() time.Time
	listeners []CompletionListener
}

func NewService(repo quiz.Repository, gate AccessGate, opts ...Option) AttemptService {
	s := &attemptService{
		repo: repo,
		gate: gate,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *attemptService) StartAttempt(ctx context.Context, quizID, userID uuid.UUID) (*AttemptResponse, error) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{"quiz_id": quizID, "user_id": userID})

	var (
		created quiz.QuizAttempt
		limit   *int
	)
	err := s.repo.Transaction(ctx, func(tx quiz.Repository) error {
		q, err := loadQuiz(ctx, tx, quizID)
		if err != nil {
			return err
		}
		limit = q.TimeLimitInMinutes

		if err := checkAttempt(ctx, tx, q, userID); err != nil {
			return err
		}

		used, err := tx.CountAttempts(ctx, q.ID, userID)
		if err != nil {
			return fmt.Errorf("count attempts: %w", err)
		}

		content, err := quiz.LoadContent(ctx, tx, q)
		if err != nil {
			return err
		}

		created = quiz.QuizAttempt{
			QuizID:        q.ID,
			UserID:        userID,
			AttemptNumber: used + 1,
			StartedAt:     s.now().UTC(),
			TotalPoints:   content.TotalPoints(),
		}
		if err := tx.CreateAttempt(ctx, &created); err != nil {
			if errors.Is(err, quiz.ErrDuplicate) {
				return ErrActiveAttemptExists
			}
			return fmt.Errorf("create attempt: %w", err)
		}
		return nil
	})
	if err != nil {
		if apperror.KindOf(err) != "" {
			log.WithError(err).Warn("Attempt start rejected")
		} else {
			log.WithError(err).Error("Failed to start attempt")
		}
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"attempt_id":     created.ID,
		"attempt_number": created.AttemptNumber,
		"total_points":   created.TotalPoints,
	}).Info("Attempt started")

	resp := ToAttemptResponse(created, limit)
	return &resp, nil
}

// GetActiveAttempt returns nil without error when the user has no attempt
// in progress.
func (s *attemptService) GetActiveAttempt(ctx context.Context, quizID, userID uuid.UUID) (*AttemptResponse, error) {
	q, err := loadQuiz(ctx, s.repo, quizID)
	if err != nil {
		return nil, err
	}

	a, err := s.repo.GetActiveAttempt(ctx, q.ID, userID)
	if err != nil {
		if errors.Is(err, quiz.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active attempt: %w", err)
	}

	resp := ToAttemptResponse(*a, q.TimeLimitInMinutes)
	return &resp, nil
}

func (s *attemptService) Submit(ctx context.Context, quizID, userID uuid.UUID, answers []grading.Answer) (*Result, error) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{"quiz_id": quizID, "user_id": userID})

	if err := validateAnswers(answers); err != nil {
		return nil, err
	}

	var (
		q       *quiz.Quiz
		att     *quiz.QuizAttempt
		graded  []quiz.UserAnswer
		skipped int
	)
	err := s.repo.Transaction(ctx, func(tx quiz.Repository) error {
		var err error
		q, err = loadQuiz(ctx, tx, quizID)
		if err != nil {
			return err
		}

		att, err = tx.GetActiveAttempt(ctx, q.ID, userID)
		if err != nil {
			if errors.Is(err, quiz.ErrNotFound) {
				return ErrNoActiveAttempt
			}
			return fmt.Errorf("get active attempt: %w", err)
		}

		now := s.now().UTC()
		elapsed := now.Sub(att.StartedAt)
		if q.TimeLimitInMinutes != nil && elapsed > time.Duration(*q.TimeLimitInMinutes)*time.Minute {
			return ErrTimeLimitExceeded
		}

		content, err := quiz.LoadContent(ctx, tx, q)
		if err != nil {
			return err
		}

		graded, skipped = gradeSubmission(content, att.ID, answers, now)

		score := 0
		for _, ua := range graded {
			score += ua.PointsEarned
		}
		if score > att.TotalPoints {
			score = att.TotalPoints
		}

		minutes := quiz.RoundMinutes(elapsed)
		att.Score = score
		att.CompletedAt = &now
		att.TimeTakenInMinutes = &minutes
		att.Passed = quiz.HasPassed(score, att.TotalPoints, q.PassingScore)

		if len(graded) > 0 {
			if err := tx.CreateAnswers(ctx, graded); err != nil {
				return fmt.Errorf("create answers: %w", err)
			}
		}
		if err := tx.UpdateAttempt(ctx, att); err != nil {
			return fmt.Errorf("update attempt: %w", err)
		}
		return nil
	})
	if err != nil {
		if apperror.KindOf(err) != "" {
			log.WithError(err).Warn("Submission rejected")
		} else {
			log.WithError(err).Error("Failed to submit attempt")
		}
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"attempt_id":       att.ID,
		"score":            att.Score,
		"total_points":     att.TotalPoints,
		"passed":           att.Passed,
		"answers_recorded": len(graded),
		"answers_skipped":  skipped,
	}).Info("Attempt submitted")

	for _, l := range s.listeners {
		l.AttemptCompleted(ctx, q, att)
	}

	return toResult(*att, q.PassingScore, graded), nil
}

func (s *attemptService) ListAttempts(ctx context.Context, quizID, userID uuid.UUID) ([]AttemptResponse, error) {
	q, err := loadQuiz(ctx, s.repo, quizID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.repo.ListAttempts(ctx, q.ID, userID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list attempts")
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	resp := make([]AttemptResponse, 0, len(attempts))
	for _, a := range attempts {
		resp = append(resp, ToAttemptResponse(a, q.TimeLimitInMinutes))
	}
	return resp, nil
}

// GetAttemptResult returns a completed attempt with its graded answers. An
// attempt owned by someone else is reported as not found.
func (s *attemptService) GetAttemptResult(ctx context.Context, attemptID, userID uuid.UUID) (*Result, error) {
	a, err := s.repo.GetAttemptByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, quiz.ErrNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	if a.UserID != userID {
		return nil, ErrAttemptNotFound
	}
	if a.IsInProgress() {
		return nil, apperror.InvalidState("attempt_in_progress", "attempt has not been submitted yet")
	}

	q, err := s.repo.GetQuizByID(ctx, a.QuizID)
	if err != nil && !errors.Is(err, quiz.ErrNotFound) {
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	passing := 0
	if q != nil {
		passing = q.PassingScore
	}

	answers, err := s.repo.ListAnswersByAttemptIDs(ctx, []uuid.UUID{a.ID})
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	return toResult(*a, passing, answers), nil
}

func (s *attemptService) Availability(ctx context.Context, quizID, userID uuid.UUID) (*AvailabilityResponse, error) {
	can, err := s.gate.CanAttempt(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}
	available, err := s.gate.IsAvailable(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}
	left, err := s.gate.RemainingAttempts(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}
	passed, err := s.gate.HasPassed(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}
	return &AvailabilityResponse{
		QuizID:            quizID,
		CanAttempt:        can,
		IsAvailable:       available,
		RemainingAttempts: left,
		HasPassed:         passed,
	}, nil
}

// gradeSubmission grades the first answer given for each question of the
// quiz. Answers for questions outside the quiz, or whose question no longer
// resolves, are dropped and counted as skipped.
func gradeSubmission(c *quiz.Content, attemptID uuid.UUID, answers []grading.Answer, at time.Time) ([]quiz.UserAnswer, int) {
	graded := make([]quiz.UserAnswer, 0, len(answers))
	seen := make(map[uuid.UUID]bool, len(answers))
	skipped := 0

	for _, a := range answers {
		if seen[a.QuestionID] {
			skipped++
			continue
		}
		link, ok := c.Link(a.QuestionID)
		if !ok {
			skipped++
			continue
		}
		question, ok := c.Questions[a.QuestionID]
		if !ok {
			skipped++
			continue
		}
		seen[a.QuestionID] = true

		res := grading.Grade(question, c.Options[question.ID], link.EffectivePoints(question), a)
		graded = append(graded, quiz.UserAnswer{
			AttemptID:        attemptID,
			QuestionID:       a.QuestionID,
			SelectedOptionID: a.SelectedOptionID,
			BooleanAnswer:    a.BooleanAnswer,
			IsCorrect:        res.IsCorrect,
			PointsEarned:     res.PointsEarned,
			AnsweredAt:       at,
		})
	}
	return graded, skipped
}

func validateAnswers(answers []grading.Answer) error {
	fields := map[string]string{}
	for i, a := range answers {
		key := fmt.Sprintf("answers[%d]", i)
		switch {
		case a.QuestionID == uuid.Nil:
			fields[key] = "question_id is required"
		case a.SelectedOptionID != nil && a.BooleanAnswer != nil:
			fields[key] = "selected_option_id and boolean_answer are mutually exclusive"
		}
	}
	if len(fields) > 0 {
		return apperror.Validation("invalid_input", "submission contains invalid answers", fields)
	}
	return nil
}
