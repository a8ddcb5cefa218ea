package repositories

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"edudham/internal/database"
	"edudham/internal/models"
	"edudham/internal/utils"
)

// The homepage configuration is a single document under a fixed key.
const homepageSingletonID = "singleton"

type HomepageRepository interface {
	Get(ctx context.Context) (*models.HomepageConfig, error)
	Upsert(ctx context.Context, config *models.HomepageConfig) error
}

type homepageRepository struct {
	db database.Service
}

func NewHomepageRepository(db database.Service) HomepageRepository {
	return &homepageRepository{db: db}
}

func (r *homepageRepository) Get(ctx context.Context) (*models.HomepageConfig, error) {
	queryType := "get"
	repository := "homepage"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("homepage_config")
	var config models.HomepageConfig
	err := collection.FindOne(ctx, bson.M{"_id": homepageSingletonID}).Decode(&config)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, err // Can be mongo.ErrNoDocuments
	}
	return &config, nil
}

func (r *homepageRepository) Upsert(ctx context.Context, config *models.HomepageConfig) error {
	queryType := "upsert"
	repository := "homepage"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	collection := r.db.Client().Database(database.Name).Collection("homepage_config")
	update := bson.M{"$set": config}
	opts := options.Update().SetUpsert(true)
	_, err := collection.UpdateOne(ctx, bson.M{"_id": homepageSingletonID}, update, opts)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return fmt.Errorf("failed to upsert homepage config: %w", err)
	}
	return nil
}
