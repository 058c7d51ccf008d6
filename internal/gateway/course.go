// Package gateway talks to the course catalog and progress tracking
// services that own courses, levels and content completion.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/saulo-duarte/assessment-lambda/internal/apperror"
	"github.com/saulo-duarte/assessment-lambda/internal/config"
	"github.com/saulo-duarte/assessment-lambda/internal/quiz"
	"github.com/sirupsen/logrus"
)

var (
	ErrCourseNotFound = apperror.NotFound("course_not_found", "course not found")
	ErrLevelNotFound  = apperror.NotFound("level_not_found", "level not found")
)

// CourseGateway covers the course ownership and progress lookups the
// assessment engine needs.
type CourseGateway interface {
	VerifyScopeOwnership(ctx context.Context, instructorID uuid.UUID, courseID, levelID *uuid.UUID) error
	HasCompletedRequiredContent(ctx context.Context, userID uuid.UUID, scope quiz.Scope) (bool, error)
}

type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type ownerResponse struct {
	ID           uuid.UUID `json:"id"`
	InstructorID uuid.UUID `json:"instructor_id"`
}

type completionResponse struct {
	Completed bool `json:"completed"`
}

type courseClient struct {
	client *resty.Client
}

// New returns an HTTP gateway, or a permissive one when no base URL is
// configured.
func New(opts Options) CourseGateway {
	if opts.BaseURL == "" {
		config.Log.Warn("COURSE_SERVICE_URL not set, scope ownership and progress checks are disabled")
		return Permissive{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}

	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(100 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	if opts.Token != "" {
		client.SetAuthToken(opts.Token)
	}
	return &courseClient{client: client}
}

// VerifyScopeOwnership checks the level when one is given, otherwise the
// course.
func (c *courseClient) VerifyScopeOwnership(ctx context.Context, instructorID uuid.UUID, courseID, levelID *uuid.UUID) error {
	log := config.WithContext(ctx).WithField("instructor_id", instructorID)

	path, id, notFound := "/courses/{id}", courseID, ErrCourseNotFound
	if levelID != nil {
		path, id, notFound = "/levels/{id}", levelID, ErrLevelNotFound
	}
	if id == nil {
		return apperror.Validation("invalid_input", "course_id or level_id is required", nil)
	}

	var owner ownerResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("id", id.String()).
		SetResult(&owner).
		Get(path)
	if err != nil {
		log.WithError(err).Error("Course service request failed")
		return fmt.Errorf("course service: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return notFound
	case resp.IsError():
		log.WithField("status", resp.StatusCode()).Error("Course service returned an error")
		return fmt.Errorf("course service: unexpected status %d", resp.StatusCode())
	}

	if owner.InstructorID != instructorID {
		log.WithFields(logrus.Fields{"scope_id": id, "owner_id": owner.InstructorID}).Warn("Instructor does not own scope")
		return quiz.ErrNotOwner
	}
	return nil
}

func (c *courseClient) HasCompletedRequiredContent(ctx context.Context, userID uuid.UUID, scope quiz.Scope) (bool, error) {
	params := map[string]string{}
	for name, id := range map[string]*uuid.UUID{
		"content_id": scope.ContentID,
		"section_id": scope.SectionID,
		"level_id":   scope.LevelID,
		"course_id":  scope.CourseID,
	} {
		if id != nil {
			params[name] = id.String()
		}
	}

	var out completionResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("userId", userID.String()).
		SetQueryParams(params).
		SetResult(&out).
		Get("/progress/users/{userId}/completion")
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Progress request failed")
		return false, fmt.Errorf("progress service: %w", err)
	}
	if resp.IsError() {
		return false, fmt.Errorf("progress service: unexpected status %d", resp.StatusCode())
	}
	return out.Completed, nil
}

// Permissive accepts every scope and reports all content as completed.
type Permissive struct{}

func (Permissive) VerifyScopeOwnership(context.Context, uuid.UUID, *uuid.UUID, *uuid.UUID) error {
	return nil
}

func (Permissive) HasCompletedRequiredContent(context.Context, uuid.UUID, quiz.Scope) (bool, error) {
	return true, nil
}
