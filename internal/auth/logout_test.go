package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/saulo-duarte/assessment-lambda/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogout(t *testing.T) {
	t.Run("ClearsCookieOnConfiguredDomain", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)

		auth.NewHandler("learn.example.com").Logout(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "jwt", cookies[0].Name)
		assert.Empty(t, cookies[0].Value)
		assert.Equal(t, "learn.example.com", cookies[0].Domain)
		assert.True(t, cookies[0].MaxAge < 0)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("NoDomain", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)

		auth.NewHandler("").Logout(rr, req)

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Empty(t, cookies[0].Domain)
	})
}
