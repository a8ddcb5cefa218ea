package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"edudham/internal/models"
	"edudham/internal/xerrors"
)

func newOTPFixture(t *testing.T) (OTPService, *mockUserRepo, *mockOTPRepo, *mockEmailService) {
	t.Helper()
	userRepo := newMockUserRepo()
	userRepo.users["u-1"] = &models.User{ID: "u-1", Email: "student@example.com", Role: models.RoleStudent}
	otpRepo := &mockOTPRepo{}
	email := &mockEmailService{}
	return NewOTPService(userRepo, otpRepo, email), userRepo, otpRepo, email
}

func TestRequestOTPUnknownEmail(t *testing.T) {
	svc, _, _, _ := newOTPFixture(t)

	_, err := svc.RequestOTP(context.Background(), "nobody@example.com")
	assert.True(t, errors.Is(err, xerrors.ErrNotFound))
}

func TestRequestOTPDeliversToMasterInbox(t *testing.T) {
	t.Setenv("MASTER_EMAIL", "ops@example.com")
	svc, _, otpRepo, email := newOTPFixture(t)

	result, err := svc.RequestOTP(context.Background(), "student@example.com")
	require.NoError(t, err)

	assert.Len(t, result.Code, 6)
	assert.Equal(t, "ops@example.com", result.MasterEmail)
	assert.Equal(t, []string{"ops@example.com"}, email.sent)
	assert.Len(t, otpRepo.otps, 1)
}

func TestRequestOTPSupersedesPreviousCode(t *testing.T) {
	svc, _, otpRepo, _ := newOTPFixture(t)

	first, err := svc.RequestOTP(context.Background(), "student@example.com")
	require.NoError(t, err)
	second, err := svc.RequestOTP(context.Background(), "student@example.com")
	require.NoError(t, err)

	// Only the latest code remains stored.
	require.Len(t, otpRepo.otps, 1)
	assert.Equal(t, second.Code, otpRepo.otps[0].Code)

	if first.Code != second.Code {
		err = svc.VerifyOTPAndResetPassword(context.Background(), &models.OTPVerifyRequest{
			Email:       "student@example.com",
			OTP:         first.Code,
			NewPassword: "newpassword",
		})
		assert.True(t, errors.Is(err, xerrors.ErrValidation))
	}
}

func TestRequestOTPSurvivesEmailFailure(t *testing.T) {
	userRepo := newMockUserRepo()
	userRepo.users["u-1"] = &models.User{ID: "u-1", Email: "student@example.com", Role: models.RoleStudent}
	otpRepo := &mockOTPRepo{}
	svc := NewOTPService(userRepo, otpRepo, &mockEmailService{fail: true})

	result, err := svc.RequestOTP(context.Background(), "student@example.com")
	require.NoError(t, err)
	assert.Len(t, result.Code, 6)
}

func TestVerifyOTPResetsPassword(t *testing.T) {
	svc, userRepo, otpRepo, _ := newOTPFixture(t)

	result, err := svc.RequestOTP(context.Background(), "student@example.com")
	require.NoError(t, err)

	err = svc.VerifyOTPAndResetPassword(context.Background(), &models.OTPVerifyRequest{
		Email:       "student@example.com",
		OTP:         result.Code,
		NewPassword: "brand-new-password",
	})
	require.NoError(t, err)

	user, err := userRepo.FindByEmail(context.Background(), "student@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("brand-new-password")))
	assert.Empty(t, otpRepo.otps)
}

func TestVerifyOTPMismatch(t *testing.T) {
	svc, _, _, _ := newOTPFixture(t)

	result, err := svc.RequestOTP(context.Background(), "student@example.com")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == result.Code {
		wrong = "111111"
	}
	err = svc.VerifyOTPAndResetPassword(context.Background(), &models.OTPVerifyRequest{
		Email:       "student@example.com",
		OTP:         wrong,
		NewPassword: "newpassword",
	})
	assert.True(t, errors.Is(err, xerrors.ErrValidation))
}

func TestVerifyOTPExpired(t *testing.T) {
	svc, _, otpRepo, _ := newOTPFixture(t)

	result, err := svc.RequestOTP(context.Background(), "student@example.com")
	require.NoError(t, err)

	otpRepo.otps[0].ExpiresAt = time.Now().UTC().Add(-time.Minute)

	err = svc.VerifyOTPAndResetPassword(context.Background(), &models.OTPVerifyRequest{
		Email:       "student@example.com",
		OTP:         result.Code,
		NewPassword: "newpassword",
	})
	assert.True(t, errors.Is(err, xerrors.ErrValidation))
}

func TestVerifyOTPNoneRequested(t *testing.T) {
	svc, _, _, _ := newOTPFixture(t)

	err := svc.VerifyOTPAndResetPassword(context.Background(), &models.OTPVerifyRequest{
		Email:       "student@example.com",
		OTP:         "123456",
		NewPassword: "newpassword",
	})
	assert.True(t, errors.Is(err, xerrors.ErrNotFound))
}
