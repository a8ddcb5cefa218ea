package repositories

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"edudham/internal/database"
	"edudham/internal/models"
	"edudham/internal/utils"
)

type ApplicationRepository interface {
	Create(ctx context.Context, application *models.Application) (*models.Application, error)
	FindByID(ctx context.Context, applicationID string) (*models.Application, error)
	// Find lists applications, optionally restricted to one university.
	// An empty universityID means no restriction.
	Find(ctx context.Context, universityID string) ([]models.Application, error)
	UpdateStatus(ctx context.Context, applicationID string, status models.ApplicationStatus) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, applicationID string) (*mongo.DeleteResult, error)
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.ApplicationStatus) (int64, error)
}

type applicationRepository struct {
	db database.Service
}

func NewApplicationRepository(db database.Service) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, application *models.Application) (*models.Application, error) {
	queryType := "create"
	repository := "application"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("applications")
	_, err := collection.InsertOne(ctx, application)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("university_id", application.UniversityID).Msg("Failed to insert application")
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return application, nil
}

func (r *applicationRepository) FindByID(ctx context.Context, applicationID string) (*models.Application, error) {
	queryType := "findById"
	repository := "application"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("applications")
	var application models.Application
	err := collection.FindOne(ctx, bson.M{"id": applicationID}).Decode(&application)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err // Can be mongo.ErrNoDocuments
	}
	return &application, nil
}

func (r *applicationRepository) Find(ctx context.Context, universityID string) ([]models.Application, error) {
	queryType := "find"
	repository := "application"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	query := bson.M{}
	if universityID != "" {
		query["university_id"] = universityID
	}

	collection := r.db.Client().Database(database.Name).Collection("applications")
	cursor, err := collection.Find(ctx, query)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("error fetching applications: %w", err)
	}
	defer cursor.Close(ctx)

	var applications []models.Application
	if err := cursor.All(ctx, &applications); err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("error decoding applications: %w", err)
	}
	return applications, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, applicationID string, appStatus models.ApplicationStatus) (*mongo.UpdateResult, error) {
	queryType := "updateStatus"
	repository := "application"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("applications")
	update := bson.M{"$set": bson.M{"status": appStatus}}
	result, err := collection.UpdateOne(ctx, bson.M{"id": applicationID}, update)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("application_id", applicationID).Msg("Error updating application status")
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	return result, nil
}

func (r *applicationRepository) Delete(ctx context.Context, applicationID string) (*mongo.DeleteResult, error) {
	queryType := "delete"
	repository := "application"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("applications")
	result, err := collection.DeleteOne(ctx, bson.M{"id": applicationID})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("application_id", applicationID).Msg("Error deleting application")
		return nil, fmt.Errorf("failed to delete application: %w", err)
	}
	return result, nil
}

func (r *applicationRepository) CountAll(ctx context.Context) (int64, error) {
	queryType := "countAll"
	repository := "application"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("applications")
	count, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return count, nil
}

func (r *applicationRepository) CountByStatus(ctx context.Context, appStatus models.ApplicationStatus) (int64, error) {
	queryType := "countByStatus"
	repository := "application"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("applications")
	count, err := collection.CountDocuments(ctx, bson.M{"status": appStatus})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return 0, fmt.Errorf("failed to count applications by status: %w", err)
	}
	return count, nil
}
