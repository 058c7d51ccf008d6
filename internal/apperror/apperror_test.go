package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/saulo-duarte/assessment-lambda/internal/apperror"
	"github.com/stretchr/testify/assert"
)

func TestErrorMatching(t *testing.T) {
	errNoActive := apperror.InvalidState("no_active_attempt", "no active attempt")
	errCap := apperror.InvalidState("max_attempts_reached", "maximum attempts reached")

	t.Run("SameCode", func(t *testing.T) {
		wrapped := fmt.Errorf("submit: %w", apperror.InvalidState("no_active_attempt", "other text"))
		assert.True(t, errors.Is(wrapped, errNoActive))
		assert.False(t, errors.Is(wrapped, errCap))
	})

	t.Run("KindOnlyTarget", func(t *testing.T) {
		assert.True(t, errors.Is(errCap, apperror.ErrInvalidState))
		assert.False(t, errors.Is(errCap, apperror.ErrNotFound))
	})

	t.Run("PlainError", func(t *testing.T) {
		assert.Equal(t, apperror.Kind(""), apperror.KindOf(errors.New("db down")))
		assert.Equal(t, http.StatusInternalServerError, apperror.HTTPStatus(errors.New("db down")))
	})
}

func TestHTTPStatus(t *testing.T) {
	cases := map[int]error{
		http.StatusNotFound:   apperror.NotFound("quiz_not_found", "quiz not found"),
		http.StatusForbidden:  apperror.Unauthorized("not_owner", "not owner"),
		http.StatusConflict:   apperror.InvalidState("time_limit_exceeded", "time limit exceeded"),
		http.StatusBadRequest: apperror.Validation("invalid_input", "bad", map[string]string{"title": "required"}),
	}
	for status, err := range cases {
		assert.Equal(t, status, apperror.HTTPStatus(err), err.Error())
	}
}
