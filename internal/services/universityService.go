package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"edudham/internal/authz"
	"edudham/internal/metrics"
	"edudham/internal/models"
	"edudham/internal/repositories"
	"edudham/internal/utils"
	"edudham/internal/xerrors"
)

// MaxPhotoSizeBytes caps uploaded university photos at 5MB.
const MaxPhotoSizeBytes = 5 * 1024 * 1024

type UniversityService interface {
	Create(ctx context.Context, actor authz.Actor, req *models.UniversityCreate) (*models.University, error)
	GetByID(ctx context.Context, universityID string) (*models.University, error)
	Search(ctx context.Context, filter *models.UniversityFilter) ([]models.University, error)
	Update(ctx context.Context, actor authz.Actor, universityID string, req *models.UniversityUpdate) (*models.University, error)
	Delete(ctx context.Context, actor authz.Actor, universityID string) error
	FilterOptions(ctx context.Context) (*models.FilterOptions, error)
	EncodePhoto(actor authz.Actor, contentType string, data []byte) (string, error)
}

type universityService struct {
	universityRepo repositories.UniversityRepository
	categoryRepo   repositories.CategoryRepository
}

func NewUniversityService(universityRepo repositories.UniversityRepository, categoryRepo repositories.CategoryRepository) UniversityService {
	return &universityService{universityRepo: universityRepo, categoryRepo: categoryRepo}
}

func (s *universityService) Create(ctx context.Context, actor authz.Actor, req *models.UniversityCreate) (*models.University, error) {
	if err := authz.Can(actor, authz.ActionCreateUniversity, ""); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	university := &models.University{
		ID:                  uuid.NewString(),
		Name:                req.Name,
		Location:            req.Location,
		State:               req.State,
		Categories:          req.Categories,
		MainPhoto:           req.MainPhoto,
		PhotoGallery:        req.PhotoGallery,
		Description:         req.Description,
		Courses:             req.Courses,
		PlacementPercentage: req.PlacementPercentage,
		Rating:              req.Rating,
		Tags:                req.Tags,
		ContactDetails:      req.ContactDetails,
		CreatedAt:           time.Now().UTC(),
	}
	if university.Categories == nil {
		university.Categories = []string{}
	}
	if university.PhotoGallery == nil {
		university.PhotoGallery = []string{}
	}
	if university.Courses == nil {
		university.Courses = []models.Course{}
	}
	if university.Tags == nil {
		university.Tags = []string{}
	}
	if university.ContactDetails == nil {
		university.ContactDetails = map[string]string{}
	}

	created, err := s.universityRepo.Create(ctx, university)
	if err != nil {
		return nil, err
	}

	metrics.UniversitiesCreatedTotal.Inc()
	log.Info().Str("university_id", created.ID).Str("name", created.Name).Msg("University created")
	return created, nil
}

func (s *universityService) GetByID(ctx context.Context, universityID string) (*models.University, error) {
	university, err := s.universityRepo.FindByID(ctx, universityID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, xerrors.NotFoundf("university %s", universityID)
		}
		return nil, err
	}
	return university, nil
}

func buildSearchQuery(filter *models.UniversityFilter) bson.M {
	query := bson.M{}

	if filter.Search != "" {
		regex := bson.M{"$regex": filter.Search, "$options": "i"}
		query["$or"] = bson.A{
			bson.M{"name": regex},
			bson.M{"tags": regex},
			bson.M{"location": regex},
			bson.M{"state": regex},
			bson.M{"courses.course_name": regex},
			bson.M{"courses.category": regex},
			bson.M{"description": regex},
			bson.M{"university_categories": bson.M{"$elemMatch": regex}},
		}
	}
	if filter.Location != "" {
		query["location"] = bson.M{"$regex": filter.Location, "$options": "i"}
	}
	if filter.State != "" {
		query["state"] = bson.M{"$regex": filter.State, "$options": "i"}
	}
	if filter.CourseType != "" {
		query["courses.course_name"] = bson.M{"$regex": filter.CourseType, "$options": "i"}
	}
	if filter.Category != "" {
		query["university_categories"] = filter.Category
	}
	if filter.MinRating != nil {
		query["rating"] = bson.M{"$gte": *filter.MinRating}
	}
	if filter.MinPlacement != nil {
		query["placement_percentage"] = bson.M{"$gte": *filter.MinPlacement}
	}

	return query
}

// averageCourseFee returns the mean of positive course fees and whether any
// fee data exists at all.
func averageCourseFee(u *models.University) (float64, bool) {
	var sum float64
	var n int
	for _, course := range u.Courses {
		if course.Fees > 0 {
			sum += course.Fees
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Search runs the catalog query. Fee bounds are applied after the store
// query against each university's average annual course fee; universities
// with no fee data pass through the fee filter unfiltered.
func (s *universityService) Search(ctx context.Context, filter *models.UniversityFilter) ([]models.University, error) {
	universities, err := s.universityRepo.Search(ctx, buildSearchQuery(filter))
	if err != nil {
		return nil, err
	}

	if filter.MinFee != nil || filter.MaxFee != nil {
		filtered := make([]models.University, 0, len(universities))
		for i := range universities {
			avg, ok := averageCourseFee(&universities[i])
			if ok {
				if filter.MinFee != nil && avg < *filter.MinFee {
					continue
				}
				if filter.MaxFee != nil && avg > *filter.MaxFee {
					continue
				}
			}
			filtered = append(filtered, universities[i])
		}
		universities = filtered
	}

	return universities, nil
}

func (s *universityService) Update(ctx context.Context, actor authz.Actor, universityID string, req *models.UniversityUpdate) (*models.University, error) {
	if err := authz.Can(actor, authz.ActionUpdateUniversity, universityID); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	updateFields := bson.M{}
	if req.Name != nil {
		updateFields["name"] = *req.Name
	}
	if req.Location != nil {
		updateFields["location"] = *req.Location
	}
	if req.State != nil {
		updateFields["state"] = *req.State
	}
	if req.Categories != nil {
		updateFields["university_categories"] = *req.Categories
	}
	if req.MainPhoto != nil {
		updateFields["main_photo"] = *req.MainPhoto
	}
	if req.PhotoGallery != nil {
		updateFields["photo_gallery"] = *req.PhotoGallery
	}
	if req.Description != nil {
		updateFields["description"] = *req.Description
	}
	if req.Courses != nil {
		updateFields["courses"] = *req.Courses
	}
	if req.PlacementPercentage != nil {
		updateFields["placement_percentage"] = *req.PlacementPercentage
	}
	if req.Rating != nil {
		updateFields["rating"] = *req.Rating
	}
	if req.Tags != nil {
		updateFields["tags"] = *req.Tags
	}
	if req.ContactDetails != nil {
		updateFields["contact_details"] = *req.ContactDetails
	}

	if len(updateFields) == 0 {
		return nil, xerrors.Validationf("no fields provided for update")
	}

	result, err := s.universityRepo.Update(ctx, universityID, updateFields)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, xerrors.NotFoundf("university %s", universityID)
	}

	updated, err := s.universityRepo.FindByID(ctx, universityID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve updated university: %w", err)
	}

	log.Info().Str("university_id", universityID).Msg("University updated")
	return updated, nil
}

func (s *universityService) Delete(ctx context.Context, actor authz.Actor, universityID string) error {
	if err := authz.Can(actor, authz.ActionDeleteUniversity, ""); err != nil {
		return err
	}

	result, err := s.universityRepo.Delete(ctx, universityID)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return xerrors.NotFoundf("university %s", universityID)
	}

	log.Info().Str("university_id", universityID).Msg("University deleted")
	return nil
}

// FilterOptions returns the distinct trimmed locations in the catalog and
// the union of the canonical category list with categories attached to
// universities.
func (s *universityService) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	universities, err := s.universityRepo.Search(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	locationSet := map[string]struct{}{}
	categorySet := map[string]struct{}{}
	for i := range universities {
		if loc := strings.TrimSpace(universities[i].Location); loc != "" {
			locationSet[loc] = struct{}{}
		}
		for _, c := range universities[i].Categories {
			if c = strings.TrimSpace(c); c != "" {
				categorySet[c] = struct{}{}
			}
		}
	}
	for i := range categories {
		categorySet[categories[i].Name] = struct{}{}
	}

	options := &models.FilterOptions{
		Locations:  make([]string, 0, len(locationSet)),
		Categories: make([]string, 0, len(categorySet)),
	}
	for loc := range locationSet {
		options.Locations = append(options.Locations, loc)
	}
	for c := range categorySet {
		options.Categories = append(options.Categories, c)
	}
	sort.Strings(options.Locations)
	sort.Strings(options.Categories)
	return options, nil
}

// EncodePhoto validates an uploaded image and returns it as a base64 data
// URL for embedding in a university document.
func (s *universityService) EncodePhoto(actor authz.Actor, contentType string, data []byte) (string, error) {
	if err := authz.Can(actor, authz.ActionUploadPhoto, ""); err != nil {
		return "", err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", xerrors.Validationf("file must be an image")
	}
	if len(data) > MaxPhotoSizeBytes {
		return "", xerrors.Validationf("image must be less than 5MB")
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return fmt.Sprintf("data:%s;base64,%s", contentType, encoded), nil
}
