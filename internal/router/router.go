package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/saulo-duarte/assessment-lambda/internal/attempt"
	"github.com/saulo-duarte/assessment-lambda/internal/auth"
	"github.com/saulo-duarte/assessment-lambda/internal/config"
	"github.com/saulo-duarte/assessment-lambda/internal/exam"
	"github.com/saulo-duarte/assessment-lambda/internal/middlewares"
	"github.com/saulo-duarte/assessment-lambda/internal/quiz"
	"github.com/saulo-duarte/assessment-lambda/internal/statistics"
)

type RouterConfig struct {
	QuizHandler        *quiz.Handler
	AttemptHandler     *attempt.Handler
	StatisticsHandler  *statistics.Handler
	ExamHandler        *exam.Handler
	CorsAllowedOrigins []string
	CookieDomain       string
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.Cors(cfg.CorsAllowedOrigins))

	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		config.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/logout", auth.NewHandler(cfg.CookieDomain).Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Mount("/quizzes", quiz.Routes(cfg.QuizHandler))
		r.Mount("/questions", quiz.QuestionRoutes(cfg.QuizHandler))
		r.Mount("/exams", exam.Routes(cfg.ExamHandler))

		attempt.RegisterRoutes(r, cfg.AttemptHandler)
		statistics.RegisterRoutes(r, cfg.StatisticsHandler)
	})
	return r
}
