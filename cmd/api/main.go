package main

import (
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"

	"github.com/saulo-duarte/assessment-lambda/internal/config"
	"github.com/saulo-duarte/assessment-lambda/internal/container"
	"github.com/saulo-duarte/assessment-lambda/internal/router"
)

func main() {
	c := container.New()

	handler := router.New(router.RouterConfig{
		QuizHandler:        c.QuizContainer.Handler,
		AttemptHandler:     c.AttemptContainer.Handler,
		StatisticsHandler:  c.StatisticsContainer.Handler,
		ExamHandler:        c.ExamContainer.Handler,
		CorsAllowedOrigins: c.Config.CorsAllowedOrigins,
		CookieDomain:       c.Config.CookieDomain,
	})

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		config.Log.Info("Starting in AWS Lambda mode")
		lambda.Start(httpadapter.New(handler).ProxyWithContext)
		return
	}

	addr := ":" + c.Config.Port
	config.Log.WithField("addr", addr).Info("Starting HTTP server")
	if err := http.ListenAndServe(addr, handler); err != nil {
		config.Log.WithError(err).Fatal("HTTP server stopped")
	}
}
