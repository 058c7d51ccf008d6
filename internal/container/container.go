package container

import (
	"context"
	"log"

	"github.com/saulo-duarte/assessment-lambda/internal/attempt"
	"github.com/saulo-duarte/assessment-lambda/internal/auth"
	"github.com/saulo-duarte/assessment-lambda/internal/config"
	"github.com/saulo-duarte/assessment-lambda/internal/exam"
	"github.com/saulo-duarte/assessment-lambda/internal/gateway"
	"github.com/saulo-duarte/assessment-lambda/internal/quiz"
	"github.com/saulo-duarte/assessment-lambda/internal/statistics"
)

type Container struct {
	Config              *config.Config
	QuizContainer       *quiz.QuizContainer
	AttemptContainer    *attempt.AttemptContainer
	StatisticsContainer *statistics.StatisticsContainer
	ExamContainer       *exam.ExamContainer
}

func New() *Container {
	config.Init()
	cfg := config.Load()
	auth.Init()

	ctx := context.Background()
	if err := config.Connect(ctx, cfg.DBDriver, cfg.DatabaseDSN); err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	if err := quiz.AutoMigrate(config.DB); err != nil {
		log.Fatalf("failed to migrate DB: %v", err)
	}

	courses := gateway.New(gateway.Options{
		BaseURL: cfg.CourseServiceURL,
		Token:   cfg.CourseServiceToken,
		Timeout: cfg.CourseServiceTimeout,
	})
	cache := statistics.NewCache(config.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword), cfg.StatsCacheTTL)

	invalidator := statistics.NewInvalidator(cache)

	quizContainer := quiz.NewQuizContainer(config.DB, courses, quiz.WithChangeListener(invalidator))
	statisticsContainer := statistics.NewStatisticsContainer(
		quizContainer.Repo,
		quizContainer.Service,
		courses,
		cache,
	)
	attemptContainer := attempt.NewAttemptContainer(
		quizContainer.Repo,
		courses,
		attempt.WithCompletionListener(invalidator),
	)
	examContainer := exam.NewExamContainer(quizContainer, attemptContainer)

	return &Container{
		Config:              cfg,
		QuizContainer:       quizContainer,
		AttemptContainer:    attemptContainer,
		StatisticsContainer: statisticsContainer,
		ExamContainer:       examContainer,
	}
}
