package middlewares

import (
	"net/http"

	"github.com/go-chi/cors"
)

// Cors allows the configured origins. Credentials are only allowed when the
// origin list is explicit, since browsers reject a wildcard with cookies.
func Cors(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	wildcard := len(allowedOrigins) == 1 && allowedOrigins[0] == "*"

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: !wildcard,
		MaxAge:           300,
	})
}
