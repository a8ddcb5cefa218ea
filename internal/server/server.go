package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	_ "github.com/joho/godotenv/autoload"

	"edudham/internal/database"
	"edudham/internal/repositories"
	"edudham/internal/services"
)

type Server struct {
	port       int
	httpServer *http.Server
	db         database.Service

	userService        services.UserService
	otpService         services.OTPService
	authService        services.AuthService
	universityService  services.UniversityService
	applicationService services.ApplicationService
	categoryService    services.CategoryService
	homepageService    services.HomepageService
	statsService       services.StatsService
	excelService       services.ExcelService
}

func NewServer() *Server {
	portStr := os.Getenv("PORT")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Warn().Str("port", portStr).Msg("Invalid PORT environment variable. Using default 8080.")
		port = 8080
	}

	db := database.New()

	userRepo := repositories.NewUserRepository(db)
	otpRepo := repositories.NewOTPRepository(db)
	universityRepo := repositories.NewUniversityRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	homepageRepo := repositories.NewHomepageRepository(db)

	emailService := services.NewEmailService()
	userService := services.NewUserService(userRepo)

	s := &Server{
		port:               port,
		db:                 db,
		userService:        userService,
		otpService:         services.NewOTPService(userRepo, otpRepo, emailService),
		authService:        services.NewAuthService(userRepo),
		universityService:  services.NewUniversityService(universityRepo, categoryRepo),
		applicationService: services.NewApplicationService(applicationRepo, universityRepo),
		categoryService:    services.NewCategoryService(categoryRepo),
		homepageService:    services.NewHomepageService(homepageRepo),
		statsService:       services.NewStatsService(universityRepo, applicationRepo, userRepo),
		excelService:       services.NewExcelService(universityRepo, applicationRepo),
	}

	services.InitializeGoth()

	// Startup maintenance: indexes, bootstrap admin, legacy data migration.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to create user indexes")
	}
	if err := userService.EnsureDefaultAdmin(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure default admin account")
	}
	if migrated, err := universityRepo.MigrateLegacyCategories(ctx); err != nil {
		log.Error().Err(err).Msg("Legacy category migration failed")
	} else if migrated > 0 {
		log.Info().Int64("migrated", migrated).Msg("Migrated legacy university categories")
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	log.Info().Int("port", s.port).Msg("Starting server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) GracefulShutdown(done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown with error")
	}

	log.Info().Msg("Server exiting")
	done <- true
}
