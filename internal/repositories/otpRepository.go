package repositories

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"

	"edudham/internal/database"
	"edudham/internal/models"
	"edudham/internal/utils"
)

// OTPRepository keys one-time codes by email. Exactly one live OTP per
// email: a new request deletes all prior records before inserting.
type OTPRepository interface {
	Insert(ctx context.Context, otp *models.OTP) error
	FindByEmail(ctx context.Context, email string) (*models.OTP, error)
	DeleteByEmail(ctx context.Context, email string) error
}

type otpRepository struct {
	db database.Service
}

func NewOTPRepository(db database.Service) OTPRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) Insert(ctx context.Context, otp *models.OTP) error {
	queryType := "insert"
	repository := "otp"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("otps")
	_, err := collection.InsertOne(ctx, otp)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return fmt.Errorf("failed to insert otp: %w", err)
	}
	return nil
}

func (r *otpRepository) FindByEmail(ctx context.Context, email string) (*models.OTP, error) {
	queryType := "findByEmail"
	repository := "otp"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("otps")
	var otp models.OTP
	err := collection.FindOne(ctx, bson.M{"email": email}).Decode(&otp)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err // Can be mongo.ErrNoDocuments
	}
	return &otp, nil
}

func (r *otpRepository) DeleteByEmail(ctx context.Context, email string) error {
	queryType := "deleteByEmail"
	repository := "otp"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("otps")
	_, err := collection.DeleteMany(ctx, bson.M{"email": email})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return fmt.Errorf("failed to delete otps: %w", err)
	}
	return nil
}
