package middlewares

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"edudham/internal/utils"
	"edudham/internal/xerrors"
)

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return header[len("Bearer "):], true
}

// AuthMiddleware requires a valid bearer token and stores the verified
// claims in the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(os.Getenv("JWT_SECRET")) == 0 {
			log.Error().Msg("JWT_SECRET is not set in environment. Authentication will fail.")
			utils.SendJSONError(w, "Server configuration error: JWT secret missing", http.StatusInternalServerError)
			return
		}

		tokenString, ok := bearerToken(r)
		if !ok {
			utils.SendJSONError(w, xerrors.ErrUnauthenticated.Error(), http.StatusUnauthorized)
			return
		}

		claims, err := utils.ParseJWT(tokenString)
		if err != nil {
			utils.SendJSONError(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), utils.ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuthMiddleware stores claims when a valid bearer token is present
// and passes the request through anonymously otherwise. Registration uses
// it: an admin token unlocks elevated role assignment.
func OptionalAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokenString, ok := bearerToken(r); ok {
			if claims, err := utils.ParseJWT(tokenString); err == nil {
				ctx := context.WithValue(r.Context(), utils.ClaimsContextKey, claims)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}
