package statistics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/assessment-lambda/internal/config"
	"github.com/saulo-duarte/assessment-lambda/internal/quiz"
	"github.com/sirupsen/logrus"
)

// QuizOwner resolves a quiz only when instructorID owns it.
type QuizOwner interface {
	GetOwnedQuiz(ctx context.Context, instructorID, quizID uuid.UUID) (*quiz.Quiz, error)
}

type StatisticsService interface {
	GetStatistics(ctx context.Context, quizID, instructorID uuid.UUID) (*QuizStatistics, error)
	GetCourseStatistics(ctx context.Context, courseID, instructorID uuid.UUID) (*CourseStatistics, error)
}

type statisticsService struct {
	repo       quiz.Repository
	owner      QuizOwner
	authorizer quiz.ScopeAuthorizer
	cache      Cache
	now        func() time.Time
}

func NewService(repo quiz.Repository, owner QuizOwner, authorizer quiz.ScopeAuthorizer, cache Cache) StatisticsService {
	if cache == nil {
		cache = NoopCache{}
	}
	return &statisticsService{
		repo:       repo,
		owner:      owner,
		authorizer: authorizer,
		cache:      cache,
		now:        time.Now,
	}
}

func (s *statisticsService) GetStatistics(ctx context.Context, quizID, instructorID uuid.UUID) (*QuizStatistics, error) {
	log := config.WithContext(ctx).WithField("quiz_id", quizID)

	q, err := s.owner.GetOwnedQuiz(ctx, instructorID, quizID)
	if err != nil {
		return nil, err
	}

	var cached QuizStatistics
	if s.lookup(ctx, quizKey(q.ID), &cached) {
		log.Debug("Statistics served from cache")
		return &cached, nil
	}

	content, err := quiz.LoadContent(ctx, s.repo, q)
	if err != nil {
		log.WithError(err).Error("Failed to load quiz content")
		return nil, err
	}

	attempts, err := s.repo.ListCompletedAttempts(ctx, []uuid.UUID{q.ID})
	if err != nil {
		log.WithError(err).Error("Failed to list completed attempts")
		return nil, fmt.Errorf("list completed attempts: %w", err)
	}

	answers, err := s.repo.ListAnswersByAttemptIDs(ctx, attemptIDs(attempts))
	if err != nil {
		log.WithError(err).Error("Failed to list answers")
		return nil, fmt.Errorf("list answers: %w", err)
	}

	stats := &QuizStatistics{
		QuizID:            q.ID,
		Title:             q.Title,
		TotalPoints:       content.TotalPoints(),
		PassingScore:      q.PassingScore,
		Summary:           Summarize(attempts),
		ScoreDistribution: Distribute(attempts),
		Questions:         PerQuestion(content, answers),
		GeneratedAt:       s.now().UTC(),
	}
	s.store(ctx, quizKey(q.ID), stats)

	log.WithFields(logrus.Fields{
		"attempts":  stats.Summary.TotalAttempts,
		"pass_rate": stats.Summary.PassRate,
	}).Info("Quiz statistics computed")
	return stats, nil
}

func (s *statisticsService) GetCourseStatistics(ctx context.Context, courseID, instructorID uuid.UUID) (*CourseStatistics, error) {
	log := config.WithContext(ctx).WithField("course_id", courseID)

	if err := s.authorizer.VerifyScopeOwnership(ctx, instructorID, &courseID, nil); err != nil {
		return nil, err
	}

	var cached CourseStatistics
	if s.lookup(ctx, courseKey(courseID), &cached) {
		return &cached, nil
	}

	quizzes, err := s.repo.ListQuizzes(ctx, quiz.QuizFilter{CourseID: &courseID})
	if err != nil {
		log.WithError(err).Error("Failed to list course quizzes")
		return nil, fmt.Errorf("list quizzes: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(quizzes))
	for _, q := range quizzes {
		ids = append(ids, q.ID)
	}

	attempts, err := s.repo.ListCompletedAttempts(ctx, ids)
	if err != nil {
		log.WithError(err).Error("Failed to list completed attempts")
		return nil, fmt.Errorf("list completed attempts: %w", err)
	}

	byQuiz := make(map[uuid.UUID][]quiz.QuizAttempt, len(quizzes))
	for _, a := range attempts {
		byQuiz[a.QuizID] = append(byQuiz[a.QuizID], a)
	}

	stats := &CourseStatistics{
		CourseID:          courseID,
		QuizCount:         len(quizzes),
		Summary:           Summarize(attempts),
		ScoreDistribution: Distribute(attempts),
		Quizzes:           make([]QuizSummary, 0, len(quizzes)),
		GeneratedAt:       s.now().UTC(),
	}
	for _, q := range quizzes {
		stats.Quizzes = append(stats.Quizzes, QuizSummary{
			QuizID:  q.ID,
			Title:   q.Title,
			Summary: Summarize(byQuiz[q.ID]),
		})
	}
	s.store(ctx, courseKey(courseID), stats)

	log.WithField("quizzes", len(quizzes)).Info("Course statistics computed")
	return stats, nil
}

func (s *statisticsService) lookup(ctx context.Context, key string, dst interface{}) bool {
	found, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		config.WithContext(ctx).WithError(err).WithField("key", key).Warn("Statistics cache read failed")
		return false
	}
	return found
}

func (s *statisticsService) store(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		config.WithContext(ctx).WithError(err).WithField("key", key).Warn("Statistics cache write failed")
	}
}

func attemptIDs(attempts []quiz.QuizAttempt) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(attempts))
	for _, a := range attempts {
		ids = append(ids, a.ID)
	}
	return ids
}
