package attempt

import "github.com/saulo-duarte/assessment-lambda/internal/apperror"

var (
	ErrAttemptNotFound     = apperror.NotFound("attempt_not_found", "attempt not found")
	ErrQuizInactive        = apperror.InvalidState("quiz_inactive", "quiz is not active")
	ErrActiveAttemptExists = apperror.InvalidState("active_attempt_exists", "an attempt is already in progress for this quiz")
	ErrMaxAttemptsReached  = apperror.InvalidState("max_attempts_reached", "maximum number of attempts reached")
	ErrNoActiveAttempt     = apperror.InvalidState("no_active_attempt", "no attempt in progress for this quiz")
	ErrTimeLimitExceeded   = apperror.InvalidState("time_limit_exceeded", "time limit for this attempt has elapsed")
)
