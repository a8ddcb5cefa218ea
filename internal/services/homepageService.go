package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"edudham/internal/authz"
	"edudham/internal/models"
	"edudham/internal/repositories"
)

type HomepageService interface {
	Get(ctx context.Context) (*models.HomepageConfig, error)
	Update(ctx context.Context, actor authz.Actor, config *models.HomepageConfig) (*models.HomepageConfig, error)
}

type homepageService struct {
	homepageRepo repositories.HomepageRepository
}

func NewHomepageService(homepageRepo repositories.HomepageRepository) HomepageService {
	return &homepageService{homepageRepo: homepageRepo}
}

// Get returns the stored configuration, falling back to the built-in
// defaults before any admin has saved one.
func (s *homepageService) Get(ctx context.Context) (*models.HomepageConfig, error) {
	config, err := s.homepageRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			defaults := models.DefaultHomepageConfig()
			return &defaults, nil
		}
		return nil, err
	}
	return config, nil
}

// Update overwrites the singleton configuration wholesale.
func (s *homepageService) Update(ctx context.Context, actor authz.Actor, config *models.HomepageConfig) (*models.HomepageConfig, error) {
	if err := authz.Can(actor, authz.ActionEditHomepage, ""); err != nil {
		return nil, err
	}

	config.UpdatedAt = time.Now().UTC()
	if err := s.homepageRepo.Upsert(ctx, config); err != nil {
		return nil, err
	}

	log.Info().Msg("Homepage configuration updated")
	return config, nil
}
