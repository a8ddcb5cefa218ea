package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"edudham/internal/authz"
	"edudham/internal/metrics"
	"edudham/internal/models"
	"edudham/internal/repositories"
	"edudham/internal/utils"
	"edudham/internal/xerrors"
)

const bcryptCost = 12

// UserService covers registration, login, and the admin user management
// surface.
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest, caller *authz.Actor) (*models.AuthResponse, error)
	Login(ctx context.Context, creds *models.LoginRequest) (*models.AuthResponse, error)
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	CreateUser(ctx context.Context, actor authz.Actor, req *models.RegisterRequest) (*models.UserResponse, error)
	ListUsers(ctx context.Context, actor authz.Actor) ([]models.UserResponse, error)
	UpdateUser(ctx context.Context, actor authz.Actor, userID string, req *models.UserUpdateRequest) (*models.UserResponse, error)
	DeleteUser(ctx context.Context, actor authz.Actor, userID string) error
	EnsureDefaultAdmin(ctx context.Context) error
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// Register creates an account. Anonymous callers always get the student
// role; requesting manager or admin requires an authenticated admin caller.
func (s *userService) Register(ctx context.Context, req *models.RegisterRequest, caller *authz.Actor) (*models.AuthResponse, error) {
	log.Debug().Str("email", req.Email).Msg("Attempting to register user")

	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	role := req.Role
	universityID := req.UniversityID
	if role == "" {
		role = models.RoleStudent
	}
	if !role.Valid() {
		return nil, xerrors.Validationf("unknown role %q", role)
	}
	if role != models.RoleStudent {
		if caller == nil || caller.Role != models.RoleAdmin {
			role = models.RoleStudent
			universityID = ""
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password during registration")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Name:         req.Name,
		Role:         role,
		UniversityID: universityID,
		CreatedAt:    time.Now().UTC(),
	}

	createdUser, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Warn().Str("email", req.Email).Msg("Email already registered")
			return nil, xerrors.Conflictf("email already registered")
		}
		return nil, err
	}

	token, err := utils.GenerateJWT(createdUser)
	if err != nil {
		log.Error().Err(err).Str("user_id", createdUser.ID).Msg("Could not generate token for new user")
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	metrics.NewUsersTotal.Inc()
	log.Info().Str("user_id", createdUser.ID).Str("email", createdUser.Email).Str("role", string(createdUser.Role)).Msg("User registered successfully")
	return &models.AuthResponse{Token: token, User: createdUser.Response()}, nil
}

func (s *userService) Login(ctx context.Context, creds *models.LoginRequest) (*models.AuthResponse, error) {
	log.Debug().Str("email", creds.Email).Msg("Attempting user login")

	if err := utils.ValidateStruct(creds); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			metrics.LoginAttemptsTotal.WithLabelValues("failed").Inc()
			log.Warn().Str("email", creds.Email).Msg("Invalid credentials during login attempt")
			return nil, fmt.Errorf("%w: invalid email or password", xerrors.ErrUnauthenticated)
		}
		log.Error().Err(err).Str("email", creds.Email).Msg("Error finding user for login")
		return nil, fmt.Errorf("%w: login lookup failed", xerrors.ErrInternal)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failed").Inc()
		log.Warn().Str("email", creds.Email).Msg("Invalid credentials (password mismatch) during login attempt")
		return nil, fmt.Errorf("%w: invalid email or password", xerrors.ErrUnauthenticated)
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Could not generate token for user")
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	log.Info().Str("user_id", user.ID).Msg("User logged in successfully")
	return &models.AuthResponse{Token: token, User: user.Response()}, nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, xerrors.NotFoundf("user %s", userID)
		}
		return nil, err
	}
	return user, nil
}

// CreateUser is the admin-side account creation path. Unlike Register it
// honors the requested role and returns no token.
func (s *userService) CreateUser(ctx context.Context, actor authz.Actor, req *models.RegisterRequest) (*models.UserResponse, error) {
	if err := authz.Can(actor, authz.ActionManageUsers, ""); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}
	if !role.Valid() {
		return nil, xerrors.Validationf("unknown role %q", role)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Name:         req.Name,
		Role:         role,
		UniversityID: req.UniversityID,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, xerrors.Conflictf("email already registered")
		}
		return nil, err
	}

	metrics.NewUsersTotal.Inc()
	log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("User created by admin")
	response := created.Response()
	return &response, nil
}

func (s *userService) ListUsers(ctx context.Context, actor authz.Actor) ([]models.UserResponse, error) {
	if err := authz.Can(actor, authz.ActionManageUsers, ""); err != nil {
		return nil, err
	}

	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].Response())
	}
	return responses, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor authz.Actor, userID string, req *models.UserUpdateRequest) (*models.UserResponse, error) {
	if err := authz.Can(actor, authz.ActionManageUsers, ""); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	updateFields := bson.M{}
	if req.Name != nil && *req.Name != "" {
		updateFields["name"] = *req.Name
	}
	if req.Email != nil && *req.Email != "" {
		existing, err := s.userRepo.FindByEmail(ctx, *req.Email)
		if err == nil && existing != nil && existing.ID != userID {
			log.Warn().Str("email", *req.Email).Msg("Email already in use by another account")
			return nil, xerrors.Conflictf("email already in use by another account")
		} else if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("failed to check email availability: %w", err)
		}
		updateFields["email"] = *req.Email
	}
	if req.Password != nil && *req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash new password: %w", err)
		}
		updateFields["password_hash"] = string(hashedPassword)
	}
	if req.UniversityID != nil {
		updateFields["university_id"] = *req.UniversityID
	}

	if len(updateFields) == 0 {
		return nil, xerrors.Validationf("no fields provided for update")
	}

	result, err := s.userRepo.Update(ctx, userID, updateFields)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, xerrors.NotFoundf("user %s", userID)
	}

	updatedUser, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve updated user: %w", err)
	}

	log.Info().Str("user_id", userID).Msg("User updated successfully")
	response := updatedUser.Response()
	return &response, nil
}

// DeleteUser removes an account. Admins cannot delete themselves so the
// platform never loses its last administrator by accident.
func (s *userService) DeleteUser(ctx context.Context, actor authz.Actor, userID string) error {
	if err := authz.Can(actor, authz.ActionManageUsers, ""); err != nil {
		return err
	}
	if actor.UserID == userID {
		return xerrors.Forbiddenf("cannot delete your own account")
	}

	result, err := s.userRepo.Delete(ctx, userID)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return xerrors.NotFoundf("user %s", userID)
	}

	log.Info().Str("user_id", userID).Msg("User deleted successfully")
	return nil
}

// EnsureDefaultAdmin creates the bootstrap admin account on first start so
// the platform is never without one. Credentials come from ADMIN_EMAIL and
// ADMIN_PASSWORD; an existing account with that email is left untouched.
func (s *userService) EnsureDefaultAdmin(ctx context.Context) error {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@edudham.com"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin@123"
	}
	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Admin"
	}

	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to check for default admin: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	admin := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         name,
		Role:         models.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := s.userRepo.Create(ctx, admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("failed to create default admin: %w", err)
	}

	log.Info().Str("email", email).Msg("Default admin account created")
	return nil
}
