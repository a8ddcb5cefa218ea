package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edudham/internal/authz"
	"edudham/internal/models"
	"edudham/internal/xerrors"
)

func TestRegisterAnonymousIsAlwaysStudent(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := newMockUserRepo()
	svc := NewUserService(repo)

	resp, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:        "sneaky@example.com",
		Password:     "password123",
		Name:         "Sneaky",
		Role:         models.RoleAdmin,
		UniversityID: "uni-a",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, models.RoleStudent, resp.User.Role)
	assert.Empty(t, resp.User.UniversityID)
	assert.NotEmpty(t, resp.Token)
}

func TestRegisterAdminCallerMayAssignStaffRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := newMockUserRepo()
	svc := NewUserService(repo)

	admin := &authz.Actor{UserID: "admin-1", Role: models.RoleAdmin}
	resp, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:        "manager@example.com",
		Password:     "password123",
		Name:         "Manager",
		Role:         models.RoleManager,
		UniversityID: "uni-a",
	}, admin)
	require.NoError(t, err)

	assert.Equal(t, models.RoleManager, resp.User.Role)
	assert.Equal(t, "uni-a", resp.User.UniversityID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := newMockUserRepo()
	svc := NewUserService(repo)

	req := &models.RegisterRequest{Email: "dup@example.com", Password: "password123", Name: "First"}
	_, err := svc.Register(context.Background(), req, nil)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req, nil)
	assert.True(t, errors.Is(err, xerrors.ErrConflict))
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := NewUserService(newMockUserRepo())

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:    "who@example.com",
		Password: "password123",
		Name:     "Who",
		Role:     models.Role("superuser"),
	}, nil)
	assert.True(t, errors.Is(err, xerrors.ErrValidation))
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := newMockUserRepo()
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:    "student@example.com",
		Password: "password123",
		Name:     "Student",
	}, nil)
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), &models.LoginRequest{
			Email:    "student@example.com",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "student@example.com", resp.User.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &models.LoginRequest{
			Email:    "student@example.com",
			Password: "wrong-password",
		})
		assert.True(t, errors.Is(err, xerrors.ErrUnauthenticated))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &models.LoginRequest{
			Email:    "nobody@example.com",
			Password: "password123",
		})
		assert.True(t, errors.Is(err, xerrors.ErrUnauthenticated))
	})
}

func TestDeleteUserSelfDeleteForbidden(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo)
	repo.users["admin-1"] = &models.User{ID: "admin-1", Email: "admin@example.com", Role: models.RoleAdmin}

	admin := authz.Actor{UserID: "admin-1", Role: models.RoleAdmin}
	err := svc.DeleteUser(context.Background(), admin, "admin-1")
	assert.True(t, errors.Is(err, xerrors.ErrForbidden))
}

func TestDeleteUserRequiresAdmin(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo)
	repo.users["u-1"] = &models.User{ID: "u-1", Email: "x@example.com", Role: models.RoleStudent}

	manager := authz.Actor{UserID: "m-1", Role: models.RoleManager, UniversityID: "uni-a"}
	err := svc.DeleteUser(context.Background(), manager, "u-1")
	assert.True(t, errors.Is(err, xerrors.ErrForbidden))
}

func TestUpdateUserEmailConflict(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo)
	repo.users["u-1"] = &models.User{ID: "u-1", Email: "one@example.com", Role: models.RoleManager}
	repo.users["u-2"] = &models.User{ID: "u-2", Email: "two@example.com", Role: models.RoleManager}

	admin := authz.Actor{UserID: "admin-1", Role: models.RoleAdmin}
	taken := "two@example.com"
	_, err := svc.UpdateUser(context.Background(), admin, "u-1", &models.UserUpdateRequest{Email: &taken})
	assert.True(t, errors.Is(err, xerrors.ErrConflict))
}

func TestEnsureDefaultAdmin(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "boss@example.com")
	t.Setenv("ADMIN_PASSWORD", "secret-password")
	repo := newMockUserRepo()
	svc := NewUserService(repo)

	require.NoError(t, svc.EnsureDefaultAdmin(context.Background()))

	created, err := repo.FindByEmail(context.Background(), "boss@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, created.Role)

	// Second run is a no-op, not a duplicate.
	require.NoError(t, svc.EnsureDefaultAdmin(context.Background()))
	all, _ := repo.FindAll(context.Background())
	assert.Len(t, all, 1)
}

func TestCreateUserHonorsRequestedRole(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo)

	admin := authz.Actor{UserID: "admin-1", Role: models.RoleAdmin}
	user, err := svc.CreateUser(context.Background(), admin, &models.RegisterRequest{
		Email:        "newmanager@example.com",
		Password:     "password123",
		Name:         "New Manager",
		Role:         models.RoleManager,
		UniversityID: "uni-b",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, user.Role)
	assert.Equal(t, "uni-b", user.UniversityID)
}
