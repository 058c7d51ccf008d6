package attempt

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/saulo-duarte/assessment-lambda/internal/apperror"
	"github.com/saulo-duarte/assessment-lambda/internal/config"
	"github.com/saulo-duarte/assessment-lambda/internal/quiz"
	"github.com/sirupsen/logrus"
)

// ProgressChecker reports whether the user completed the content a scope
// requires. It is owned by the progress tracking subsystem.
type ProgressChecker interface {
	HasCompletedRequiredContent(ctx context.Context, userID uuid.UUID, scope quiz.Scope) (bool, error)
}

type AccessGate interface {
	CanAttempt(ctx context.Context, quizID, userID uuid.UUID) (bool, error)
	RemainingAttempts(ctx context.Context, quizID, userID uuid.UUID) (int, error)
	HasPassed(ctx context.Context, quizID, userID uuid.UUID) (bool, error)
	IsAvailable(ctx context.Context, quizID, userID uuid.UUID) (bool, error)
	RequiredQuizzesSatisfied(ctx context.Context, scope quiz.Scope, userID uuid.UUID) (bool, error)
}

type accessGate struct {
	repo     quiz.Repository
	progress ProgressChecker
}

func NewAccessGate(repo quiz.Repository, progress ProgressChecker) AccessGate {
	return &accessGate{
		repo:     repo,
		progress: progress,
	}
}

func (g *accessGate) CanAttempt(ctx context.Context, quizID, userID uuid.UUID) (bool, error) {
	q, err := loadQuiz(ctx, g.repo, quizID)
	if err != nil {
		return false, err
	}
	return allowed(checkAttempt(ctx, g.repo, q, userID))
}

func (g *accessGate) RemainingAttempts(ctx context.Context, quizID, userID uuid.UUID) (int, error) {
	q, err := loadQuiz(ctx, g.repo, quizID)
	if err != nil {
		return 0, err
	}
	used, err := g.repo.CountAttempts(ctx, q.ID, userID)
	if err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}
	return remaining(q.MaxAttempts, used), nil
}

func (g *accessGate) HasPassed(ctx context.Context, quizID, userID uuid.UUID) (bool, error) {
	q, err := loadQuiz(ctx, g.repo, quizID)
	if err != nil {
		return false, err
	}
	passed, err := g.repo.HasPassedAttempt(ctx, q.ID, userID)
	if err != nil {
		return false, fmt.Errorf("has passed: %w", err)
	}
	return passed, nil
}

func (g *accessGate) IsAvailable(ctx context.Context, quizID, userID uuid.UUID) (bool, error) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{"quiz_id": quizID, "user_id": userID})

	q, err := loadQuiz(ctx, g.repo, quizID)
	if err != nil {
		return false, err
	}

	ok, err := allowed(checkAttempt(ctx, g.repo, q, userID))
	if err != nil || !ok {
		return false, err
	}

	done, err := g.progress.HasCompletedRequiredContent(ctx, userID, ScopeOf(q))
	if err != nil {
		log.WithError(err).Error("Failed to check required content progress")
		return false, fmt.Errorf("check progress: %w", err)
	}
	if !done {
		log.Debug("Required content not completed")
	}
	return done, nil
}

// RequiredQuizzesSatisfied is true when every required quiz anchored at any
// level of scope (content, section, level or course) has a passed attempt.
func (g *accessGate) RequiredQuizzesSatisfied(ctx context.Context, scope quiz.Scope, userID uuid.UUID) (bool, error) {
	required, err := g.repo.ListRequiredQuizzes(ctx, scope)
	if err != nil {
		return false, fmt.Errorf("list required quizzes: %w", err)
	}

	seen := make(map[uuid.UUID]bool, len(required))
	for _, q := range required {
		if seen[q.ID] {
			continue
		}
		seen[q.ID] = true

		passed, err := g.repo.HasPassedAttempt(ctx, q.ID, userID)
		if err != nil {
			return false, fmt.Errorf("has passed: %w", err)
		}
		if !passed {
			return false, nil
		}
	}
	return true, nil
}

// ScopeOf is the progress scope that gates a quiz.
func ScopeOf(q *quiz.Quiz) quiz.Scope {
	return quiz.Scope{
		ContentID: q.ContentID,
		SectionID: q.SectionID,
		LevelID:   q.LevelID,
		CourseID:  q.CourseID,
	}
}

// checkAttempt returns nil when the user may start a new attempt, or the
// business rule that blocks it.
func checkAttempt(ctx context.Context, repo quiz.Repository, q *quiz.Quiz, userID uuid.UUID) error {
	if !q.IsActive {
		return ErrQuizInactive
	}

	used, err := repo.CountAttempts(ctx, q.ID, userID)
	if err != nil {
		return fmt.Errorf("count attempts: %w", err)
	}
	if used >= q.MaxAttempts {
		return ErrMaxAttemptsReached
	}

	if _, err := repo.GetActiveAttempt(ctx, q.ID, userID); err == nil {
		return ErrActiveAttemptExists
	} else if !errors.Is(err, quiz.ErrNotFound) {
		return fmt.Errorf("get active attempt: %w", err)
	}
	return nil
}

func allowed(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if apperror.KindOf(err) == apperror.KindInvalidState {
		return false, nil
	}
	return false, err
}

func remaining(maxAttempts, used int) int {
	if left := maxAttempts - used; left > 0 {
		return left
	}
	return 0
}

func loadQuiz(ctx context.Context, repo quiz.Repository, quizID uuid.UUID) (*quiz.Quiz, error) {
	q, err := repo.GetQuizByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, quiz.ErrNotFound) {
			return nil, quiz.ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	return q, nil
}
