package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"edudham/internal/metrics"
	"edudham/internal/models"
	"edudham/internal/repositories"
	"edudham/internal/utils"
	"edudham/internal/xerrors"
)

const sessionMaxAge = 86400 * 30

// isProd gates the Secure flag on the OAuth session cookie.
func isProd() bool {
	return os.Getenv("ENV") == "production"
}

// AuthService turns a completed OAuth sign-in into a platform session.
// Provider accounts always map to student users; staff roles are only ever
// granted by an admin.
type AuthService interface {
	HandleLogin(ctx context.Context, u goth.User) (string, error)
}

type authService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

// InitializeGoth wires the OAuth providers and the session store gothic
// uses during the handshake. Must run once before the auth routes serve.
func InitializeGoth() {
	googleClientID := os.Getenv("GOOGLE_CLIENT_ID")
	googleClientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	callbackURL := os.Getenv("OAUTH_CALLBACK_URL")
	if callbackURL == "" {
		callbackURL = "http://localhost:8080/api/auth/google/callback"
	}

	sessionKey := os.Getenv("SESSION_KEY")

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.MaxAge(sessionMaxAge)

	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = isProd()
	store.Options.SameSite = http.SameSiteLaxMode

	gothic.Store = store

	goth.UseProviders(
		google.New(googleClientID, googleClientSecret, callbackURL),
	)
	log.Info().Msg("Goth providers initialized")
}

func (a *authService) HandleLogin(ctx context.Context, u goth.User) (string, error) {
	log.Info().Str("email", u.Email).Msg("Handling provider login")
	if u.Email == "" {
		return "", xerrors.Validationf("provider returned no email")
	}

	user, err := a.userRepo.FindByEmail(ctx, u.Email)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			log.Error().Err(err).Str("email", u.Email).Msg("Error finding user by email")
			return "", fmt.Errorf("error finding user by email: %w", err)
		}

		name := u.Name
		if name == "" {
			name = u.NickName
		}
		newUser := &models.User{
			ID:        uuid.NewString(),
			Email:     u.Email,
			Name:      name,
			Role:      models.RoleStudent,
			CreatedAt: time.Now().UTC(),
		}
		if _, err := a.userRepo.Create(ctx, newUser); err != nil {
			log.Error().Err(err).Str("email", u.Email).Msg("Error provisioning user from provider login")
			return "", fmt.Errorf("error creating user: %w", err)
		}
		metrics.NewUsersTotal.Inc()
		user = newUser
		log.Info().Str("email", u.Email).Str("user_id", user.ID).Msg("New user provisioned from provider login")
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Error generating JWT after provider login")
		return "", fmt.Errorf("error generating JWT: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return token, nil
}
