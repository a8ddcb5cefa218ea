package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"edudham/internal/authz"
	"edudham/internal/metrics"
	"edudham/internal/models"
	"edudham/internal/repositories"
	"edudham/internal/utils"
	"edudham/internal/xerrors"
)

type ApplicationService interface {
	Create(ctx context.Context, req *models.ApplicationCreate) (*models.Application, error)
	List(ctx context.Context, actor authz.Actor) ([]models.Application, error)
	ListByUniversity(ctx context.Context, actor authz.Actor, universityID string) ([]models.Application, error)
	UpdateStatus(ctx context.Context, actor authz.Actor, applicationID string, req *models.ApplicationStatusUpdate) (*models.Application, error)
	Delete(ctx context.Context, actor authz.Actor, applicationID string) error
}

type applicationService struct {
	applicationRepo repositories.ApplicationRepository
	universityRepo  repositories.UniversityRepository
}

func NewApplicationService(applicationRepo repositories.ApplicationRepository, universityRepo repositories.UniversityRepository) ApplicationService {
	return &applicationService{applicationRepo: applicationRepo, universityRepo: universityRepo}
}

// Create submits a public admission inquiry. The referenced university must
// exist; its name is denormalized into the application from the store, never
// taken from the caller.
func (s *applicationService) Create(ctx context.Context, req *models.ApplicationCreate) (*models.Application, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	university, err := s.universityRepo.FindByID(ctx, req.UniversityID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, xerrors.NotFoundf("university %s", req.UniversityID)
		}
		return nil, err
	}

	application := &models.Application{
		ID:             uuid.NewString(),
		UniversityID:   university.ID,
		UniversityName: university.Name,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		CourseInterest: req.CourseInterest,
		ShortNote:      req.ShortNote,
		Status:         models.StatusPending,
		CreatedAt:      time.Now().UTC(),
	}

	created, err := s.applicationRepo.Create(ctx, application)
	if err != nil {
		return nil, err
	}

	metrics.ApplicationsSubmittedTotal.Inc()
	log.Info().Str("application_id", created.ID).Str("university_id", created.UniversityID).Msg("Application submitted")
	return created, nil
}

// List returns applications visible to the actor: all of them for admins,
// only the assigned university's for managers.
func (s *applicationService) List(ctx context.Context, actor authz.Actor) ([]models.Application, error) {
	scope := authz.Scope(actor)
	if err := authz.Can(actor, authz.ActionViewApplications, scope); err != nil {
		return nil, err
	}
	return s.applicationRepo.Find(ctx, scope)
}

func (s *applicationService) ListByUniversity(ctx context.Context, actor authz.Actor, universityID string) ([]models.Application, error) {
	if err := authz.Can(actor, authz.ActionViewApplications, universityID); err != nil {
		return nil, err
	}
	return s.applicationRepo.Find(ctx, universityID)
}

// UpdateStatus moves an application to any of the valid statuses. There is
// no transition graph; staff may move an application back and forth.
func (s *applicationService) UpdateStatus(ctx context.Context, actor authz.Actor, applicationID string, req *models.ApplicationStatusUpdate) (*models.Application, error) {
	if !req.Status.Valid() {
		return nil, xerrors.Validationf("unknown status %q", req.Status)
	}

	application, err := s.applicationRepo.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, xerrors.NotFoundf("application %s", applicationID)
		}
		return nil, err
	}

	if err := authz.Can(actor, authz.ActionUpdateApplication, application.UniversityID); err != nil {
		return nil, err
	}

	if _, err := s.applicationRepo.UpdateStatus(ctx, applicationID, req.Status); err != nil {
		return nil, err
	}

	application.Status = req.Status
	log.Info().Str("application_id", applicationID).Str("status", string(req.Status)).Msg("Application status updated")
	return application, nil
}

func (s *applicationService) Delete(ctx context.Context, actor authz.Actor, applicationID string) error {
	application, err := s.applicationRepo.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return xerrors.NotFoundf("application %s", applicationID)
		}
		return err
	}

	if err := authz.Can(actor, authz.ActionDeleteApplication, application.UniversityID); err != nil {
		return err
	}

	result, err := s.applicationRepo.Delete(ctx, applicationID)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return xerrors.NotFoundf("application %s", applicationID)
	}

	log.Info().Str("application_id", applicationID).Msg("Application deleted")
	return nil
}
