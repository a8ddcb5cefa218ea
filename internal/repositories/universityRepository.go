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

type UniversityRepository interface {
	Create(ctx context.Context, university *models.University) (*models.University, error)
	FindByID(ctx context.Context, universityID string) (*models.University, error)
	Search(ctx context.Context, query bson.M) ([]models.University, error)
	Update(ctx context.Context, universityID string, updateFields bson.M) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, universityID string) (*mongo.DeleteResult, error)
	CountAll(ctx context.Context) (int64, error)
	MigrateLegacyCategories(ctx context.Context) (int64, error)
}

type universityRepository struct {
	db database.Service
}

func NewUniversityRepository(db database.Service) UniversityRepository {
	return &universityRepository{db: db}
}

func (r *universityRepository) Create(ctx context.Context, university *models.University) (*models.University, error) {
	queryType := "create"
	repository := "university"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("universities")
	_, err := collection.InsertOne(ctx, university)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("name", university.Name).Msg("Failed to insert university")
		return nil, fmt.Errorf("failed to create university: %w", err)
	}
	return university, nil
}

func (r *universityRepository) FindByID(ctx context.Context, universityID string) (*models.University, error) {
	queryType := "findById"
	repository := "university"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("universities")
	var university models.University
	err := collection.FindOne(ctx, bson.M{"id": universityID}).Decode(&university)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err // Can be mongo.ErrNoDocuments
	}
	return &university, nil
}

func (r *universityRepository) Search(ctx context.Context, query bson.M) ([]models.University, error) {
	queryType := "search"
	repository := "university"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("universities")
	cursor, err := collection.Find(ctx, query)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("error searching universities: %w", err)
	}
	defer cursor.Close(ctx)

	var universities []models.University
	if err := cursor.All(ctx, &universities); err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("error decoding universities: %w", err)
	}
	return universities, nil
}

func (r *universityRepository) Update(ctx context.Context, universityID string, updateFields bson.M) (*mongo.UpdateResult, error) {
	queryType := "update"
	repository := "university"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("universities")
	update := bson.M{"$set": updateFields}
	result, err := collection.UpdateOne(ctx, bson.M{"id": universityID}, update)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("university_id", universityID).Msg("Error updating university")
		return nil, fmt.Errorf("failed to update university: %w", err)
	}
	return result, nil
}

func (r *universityRepository) Delete(ctx context.Context, universityID string) (*mongo.DeleteResult, error) {
	queryType := "delete"
	repository := "university"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("universities")
	result, err := collection.DeleteOne(ctx, bson.M{"id": universityID})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("university_id", universityID).Msg("Error deleting university")
		return nil, fmt.Errorf("failed to delete university: %w", err)
	}
	return result, nil
}

func (r *universityRepository) CountAll(ctx context.Context) (int64, error) {
	queryType := "countAll"
	repository := "university"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("universities")
	count, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return 0, fmt.Errorf("failed to count universities: %w", err)
	}
	return count, nil
}

// MigrateLegacyCategories copies the retired free-text university_category
// field into the structured university_categories list and removes it.
// Runs once at startup; documents already migrated are not matched.
func (r *universityRepository) MigrateLegacyCategories(ctx context.Context) (int64, error) {
	queryType := "migrateLegacyCategories"
	repository := "university"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("universities")
	filter := bson.M{"university_category": bson.M{"$exists": true, "$nin": bson.A{"", nil}}}

	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return 0, fmt.Errorf("error finding legacy category documents: %w", err)
	}
	defer cursor.Close(ctx)

	var migrated int64
	for cursor.Next(ctx) {
		var doc struct {
			ID             string `bson:"id"`
			LegacyCategory string `bson:"university_category"`
		}
		if err := cursor.Decode(&doc); err != nil {
			status = "error"
			utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
			return migrated, fmt.Errorf("error decoding legacy category document: %w", err)
		}

		update := bson.M{
			"$addToSet": bson.M{"university_categories": doc.LegacyCategory},
			"$unset":    bson.M{"university_category": ""},
		}
		if _, err := collection.UpdateOne(ctx, bson.M{"id": doc.ID}, update); err != nil {
			status = "error"
			utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
			return migrated, fmt.Errorf("error migrating legacy category for %s: %w", doc.ID, err)
		}
		migrated++
	}
	return migrated, cursor.Err()
}
