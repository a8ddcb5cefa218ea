package services

import (
	"context"

	"edudham/internal/authz"
	"edudham/internal/models"
	"edudham/internal/repositories"
)

// AdminStats is the dashboard snapshot shown to administrators.
type AdminStats struct {
	TotalUniversities   int64 `json:"total_universities"`
	TotalApplications   int64 `json:"total_applications"`
	TotalManagers       int64 `json:"total_managers"`
	PendingApplications int64 `json:"pending_applications"`
}

type StatsService interface {
	AdminStats(ctx context.Context, actor authz.Actor) (*AdminStats, error)
}

type statsService struct {
	universityRepo  repositories.UniversityRepository
	applicationRepo repositories.ApplicationRepository
	userRepo        repositories.UserRepository
}

func NewStatsService(universityRepo repositories.UniversityRepository, applicationRepo repositories.ApplicationRepository, userRepo repositories.UserRepository) StatsService {
	return &statsService{universityRepo: universityRepo, applicationRepo: applicationRepo, userRepo: userRepo}
}

func (s *statsService) AdminStats(ctx context.Context, actor authz.Actor) (*AdminStats, error) {
	if err := authz.Can(actor, authz.ActionViewStats, ""); err != nil {
		return nil, err
	}

	totalUniversities, err := s.universityRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	totalApplications, err := s.applicationRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	totalManagers, err := s.userRepo.CountByRole(ctx, models.RoleManager)
	if err != nil {
		return nil, err
	}
	pendingApplications, err := s.applicationRepo.CountByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, err
	}

	return &AdminStats{
		TotalUniversities:   totalUniversities,
		TotalApplications:   totalApplications,
		TotalManagers:       totalManagers,
		PendingApplications: pendingApplications,
	}, nil
}
