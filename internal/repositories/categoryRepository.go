package repositories

import (
	"context"
	"fmt"
	"regexp"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"edudham/internal/database"
	"edudham/internal/models"
	"edudham/internal/utils"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	FindAll(ctx context.Context) ([]models.Category, error)
	FindByName(ctx context.Context, name string) (*models.Category, error)
	Update(ctx context.Context, categoryID string, updateFields bson.M) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, categoryID string) (*mongo.DeleteResult, error)
}

type categoryRepository struct {
	db database.Service
}

func NewCategoryRepository(db database.Service) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	queryType := "create"
	repository := "category"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("categories")
	_, err := collection.InsertOne(ctx, category)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("failed to insert category: %w", err)
	}
	return category, nil
}

func (r *categoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	queryType := "findAll"
	repository := "category"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("categories")
	cursor, err := collection.Find(ctx, bson.M{})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("error fetching categories: %w", err)
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("error decoding categories: %w", err)
	}
	return categories, nil
}

// FindByName matches the category name case-insensitively, which backs the
// duplicate check on creation.
func (r *categoryRepository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	queryType := "findByName"
	repository := "category"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("categories")
	filter := bson.M{"name": bson.M{"$regex": "^" + regexp.QuoteMeta(name) + "$", "$options": "i"}}
	var category models.Category
	err := collection.FindOne(ctx, filter).Decode(&category)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err // Can be mongo.ErrNoDocuments
	}
	return &category, nil
}

func (r *categoryRepository) Update(ctx context.Context, categoryID string, updateFields bson.M) (*mongo.UpdateResult, error) {
	queryType := "update"
	repository := "category"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("categories")
	result, err := collection.UpdateOne(ctx, bson.M{"id": categoryID}, bson.M{"$set": updateFields})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return result, nil
}

func (r *categoryRepository) Delete(ctx context.Context, categoryID string) (*mongo.DeleteResult, error) {
	queryType := "delete"
	repository := "category"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("categories")
	result, err := collection.DeleteOne(ctx, bson.M{"id": categoryID})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("failed to delete category: %w", err)
	}
	return result, nil
}
