package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"edudham/internal/authz"
	"edudham/internal/models"
	"edudham/internal/repositories"
	"edudham/internal/utils"
	"edudham/internal/xerrors"
)

type CategoryService interface {
	Create(ctx context.Context, actor authz.Actor, req *models.CategoryCreate) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, actor authz.Actor, categoryID string, req *models.CategoryCreate) error
	Delete(ctx context.Context, actor authz.Actor, categoryID string) error
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
}

func NewCategoryService(categoryRepo repositories.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

// Create adds a category to the canonical list. Names are unique under
// case-insensitive comparison.
func (s *categoryService) Create(ctx context.Context, actor authz.Actor, req *models.CategoryCreate) (*models.Category, error) {
	if err := authz.Can(actor, authz.ActionManageCategories, ""); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	existing, err := s.categoryRepo.FindByName(ctx, req.Name)
	if err == nil && existing != nil {
		return nil, xerrors.Conflictf("category %q already exists", existing.Name)
	}
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	category := &models.Category{
		ID:        uuid.NewString(),
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.categoryRepo.Create(ctx, category)
	if err != nil {
		return nil, err
	}

	log.Info().Str("category_id", created.ID).Str("name", created.Name).Msg("Category created")
	return created, nil
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

func (s *categoryService) Update(ctx context.Context, actor authz.Actor, categoryID string, req *models.CategoryCreate) error {
	if err := authz.Can(actor, authz.ActionManageCategories, ""); err != nil {
		return err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	existing, err := s.categoryRepo.FindByName(ctx, req.Name)
	if err == nil && existing != nil && existing.ID != categoryID {
		return xerrors.Conflictf("category %q already exists", existing.Name)
	}
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	result, err := s.categoryRepo.Update(ctx, categoryID, bson.M{"name": req.Name})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return xerrors.NotFoundf("category %s", categoryID)
	}

	log.Info().Str("category_id", categoryID).Msg("Category updated")
	return nil
}

func (s *categoryService) Delete(ctx context.Context, actor authz.Actor, categoryID string) error {
	if err := authz.Can(actor, authz.ActionManageCategories, ""); err != nil {
		return err
	}

	result, err := s.categoryRepo.Delete(ctx, categoryID)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return xerrors.NotFoundf("category %s", categoryID)
	}

	log.Info().Str("category_id", categoryID).Msg("Category deleted")
	return nil
}
