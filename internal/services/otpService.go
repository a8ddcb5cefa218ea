package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"edudham/internal/metrics"
	"edudham/internal/models"
	"edudham/internal/repositories"
	"edudham/internal/utils"
	"edudham/internal/xerrors"
)

const (
	OTPLength            = 6
	OTPExpirationMinutes = 10
)

// OTPResult is what a reset request hands back to the caller: the code
// itself plus the master inbox it was mailed to.
type OTPResult struct {
	Code        string
	MasterEmail string
}

// OTPService implements the password reset flow. Codes are delivered to a
// single operator-controlled master inbox, not to the requesting address.
type OTPService interface {
	RequestOTP(ctx context.Context, email string) (*OTPResult, error)
	VerifyOTPAndResetPassword(ctx context.Context, req *models.OTPVerifyRequest) error
}

type otpService struct {
	userRepo     repositories.UserRepository
	otpRepo      repositories.OTPRepository
	emailService EmailService
}

func NewOTPService(userRepo repositories.UserRepository, otpRepo repositories.OTPRepository, emailService EmailService) OTPService {
	return &otpService{userRepo: userRepo, otpRepo: otpRepo, emailService: emailService}
}

func masterEmail() string {
	if email := os.Getenv("MASTER_EMAIL"); email != "" {
		return email
	}
	return "admin@edudham.com"
}

// RequestOTP generates a fresh reset code for the account. Any previous
// codes for the email are invalidated first, so only the latest code works.
func (s *otpService) RequestOTP(ctx context.Context, email string) (*OTPResult, error) {
	_, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Warn().Str("email", email).Msg("OTP requested for unknown email")
			return nil, xerrors.NotFoundf("no account found with this email")
		}
		return nil, err
	}

	code, err := utils.GenerateSecureOTP(OTPLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP: %w", err)
	}

	if err := s.otpRepo.DeleteByEmail(ctx, email); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	otp := &models.OTP{
		Email:     email,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(OTPExpirationMinutes * time.Minute),
	}
	if err := s.otpRepo.Insert(ctx, otp); err != nil {
		return nil, err
	}

	master := masterEmail()
	subject := "Password Reset OTP"
	body := fmt.Sprintf("Password reset requested for %s.<br>OTP: <b>%s</b><br>Valid for %d minutes.", email, code, OTPExpirationMinutes)
	if err := s.emailService.SendEmail(master, subject, body); err != nil {
		// Delivery failure is not fatal; the code is still handed to the
		// operator through the API response.
		log.Warn().Err(err).Str("master_email", master).Msg("Failed to send OTP email")
	}

	metrics.OTPRequestsTotal.Inc()
	log.Info().Str("email", email).Msg("Password reset OTP issued")
	return &OTPResult{Code: code, MasterEmail: master}, nil
}

// VerifyOTPAndResetPassword checks the submitted code against the stored
// one and, on match, replaces the account's password hash. All codes for
// the email are deleted afterwards regardless of earlier expiry.
func (s *otpService) VerifyOTPAndResetPassword(ctx context.Context, req *models.OTPVerifyRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	otp, err := s.otpRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return xerrors.NotFoundf("no OTP requested for this email")
		}
		return err
	}

	if time.Now().UTC().After(otp.ExpiresAt) {
		return xerrors.Validationf("OTP expired, please request a new one")
	}
	if otp.Code != req.OTP {
		return xerrors.Validationf("invalid OTP")
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return xerrors.NotFoundf("no account found with this email")
		}
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if _, err := s.userRepo.Update(ctx, user.ID, bson.M{"password_hash": string(hashedPassword)}); err != nil {
		return err
	}

	if err := s.otpRepo.DeleteByEmail(ctx, req.Email); err != nil {
		log.Warn().Err(err).Str("email", req.Email).Msg("Failed to clear used OTPs")
	}

	log.Info().Str("user_id", user.ID).Msg("Password reset via OTP completed")
	return nil
}
