package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"edudham/internal/handlers"
	"edudham/internal/middlewares"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.Use(middlewares.CorsMiddleware)
	r.Use(middlewares.RateLimit)

	prom := middlewares.NewPrometheusMiddleware()
	r.Use(prom.Instrument)

	ch := handlers.NewCommonHandler(s.db)
	r.HandleFunc("/", ch.HelloWorldHandler)
	r.HandleFunc("/health", ch.HealthHandler)
	r.Handle("/metrics", promhttp.Handler())

	s.registerAuthRoutes(r)
	s.registerUniversityRoutes(r)
	s.registerApplicationRoutes(r)
	s.registerCategoryRoutes(r)
	s.registerHomepageRoutes(r)
	s.registerAdminRoutes(r)

	return r
}

func (s *Server) registerAuthRoutes(r *mux.Router) {
	ah := handlers.NewAuthHandler(s.userService, s.otpService, s.authService)

	// Register carries optional auth: an admin token allows creating staff
	// accounts, everyone else becomes a student.
	r.Handle("/api/auth/register", middlewares.OptionalAuthMiddleware(http.HandlerFunc(ah.Register))).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/login", ah.Login).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/request-otp", ah.RequestOTP).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/verify-otp", ah.VerifyOTP).Methods("POST", "OPTIONS")
	r.Handle("/api/auth/me", middlewares.AuthMiddleware(http.HandlerFunc(ah.Me))).Methods("GET", "OPTIONS")

	r.HandleFunc("/api/auth/success", ah.AuthSuccess).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/auth/error", ah.AuthError).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/auth/{provider}", ah.ProviderAuth).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/auth/{provider}/callback", ah.ProviderCallback).Methods("GET", "OPTIONS")
}

func (s *Server) registerUniversityRoutes(r *mux.Router) {
	uh := handlers.NewUniversityHandler(s.universityService, s.excelService)

	// Static paths before the {id} routes so mux does not swallow them.
	r.HandleFunc("/api/universities/filter-options", uh.FilterOptions).Methods("GET", "OPTIONS")
	r.Handle("/api/universities/upload-photo", middlewares.AuthMiddleware(http.HandlerFunc(uh.UploadPhoto))).Methods("POST", "OPTIONS")
	r.Handle("/api/universities/bulk-template/download", middlewares.AuthMiddleware(http.HandlerFunc(uh.DownloadBulkTemplate))).Methods("GET", "OPTIONS")
	r.Handle("/api/universities/bulk-upload", middlewares.AuthMiddleware(http.HandlerFunc(uh.BulkUpload))).Methods("POST", "OPTIONS")

	r.HandleFunc("/api/universities", uh.Search).Methods("GET", "OPTIONS")
	r.Handle("/api/universities", middlewares.AuthMiddleware(http.HandlerFunc(uh.Create))).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/universities/{id}", uh.GetByID).Methods("GET", "OPTIONS")
	r.Handle("/api/universities/{id}", middlewares.AuthMiddleware(http.HandlerFunc(uh.Update))).Methods("PUT", "OPTIONS")
	r.Handle("/api/universities/{id}", middlewares.AuthMiddleware(http.HandlerFunc(uh.Delete))).Methods("DELETE", "OPTIONS")
	r.Handle("/api/universities/{id}/applications/export", middlewares.AuthMiddleware(http.HandlerFunc(uh.ExportApplications))).Methods("GET", "OPTIONS")
}

func (s *Server) registerApplicationRoutes(r *mux.Router) {
	aph := handlers.NewApplicationHandler(s.applicationService, s.excelService)

	r.HandleFunc("/api/applications", aph.Create).Methods("POST", "OPTIONS")
	r.Handle("/api/applications", middlewares.AuthMiddleware(http.HandlerFunc(aph.List))).Methods("GET", "OPTIONS")
	r.Handle("/api/applications/export/excel", middlewares.AuthMiddleware(http.HandlerFunc(aph.ExportExcel))).Methods("GET", "OPTIONS")
	r.Handle("/api/applications/{id}/status", middlewares.AuthMiddleware(http.HandlerFunc(aph.UpdateStatus))).Methods("PUT", "OPTIONS")
	r.Handle("/api/applications/{id}", middlewares.AuthMiddleware(http.HandlerFunc(aph.Delete))).Methods("DELETE", "OPTIONS")
	r.Handle("/api/universities/{id}/applications", middlewares.AuthMiddleware(http.HandlerFunc(aph.ListByUniversity))).Methods("GET", "OPTIONS")
}

func (s *Server) registerCategoryRoutes(r *mux.Router) {
	ch := handlers.NewCategoryHandler(s.categoryService)

	r.HandleFunc("/api/categories", ch.List).Methods("GET", "OPTIONS")
	r.Handle("/api/categories", middlewares.AuthMiddleware(http.HandlerFunc(ch.Create))).Methods("POST", "OPTIONS")
	r.Handle("/api/categories/{id}", middlewares.AuthMiddleware(http.HandlerFunc(ch.Update))).Methods("PUT", "OPTIONS")
	r.Handle("/api/categories/{id}", middlewares.AuthMiddleware(http.HandlerFunc(ch.Delete))).Methods("DELETE", "OPTIONS")
}

func (s *Server) registerHomepageRoutes(r *mux.Router) {
	hh := handlers.NewHomepageHandler(s.homepageService)

	r.HandleFunc("/api/homepage-config", hh.Get).Methods("GET", "OPTIONS")
	r.Handle("/api/homepage-config", middlewares.AuthMiddleware(http.HandlerFunc(hh.Update))).Methods("PUT", "OPTIONS")
}

func (s *Server) registerAdminRoutes(r *mux.Router) {
	adh := handlers.NewAdminHandler(s.userService, s.statsService)

	r.Handle("/api/admin/stats", middlewares.AuthMiddleware(http.HandlerFunc(adh.Stats))).Methods("GET", "OPTIONS")
	r.Handle("/api/admin/users", middlewares.AuthMiddleware(http.HandlerFunc(adh.CreateUser))).Methods("POST", "OPTIONS")
	r.Handle("/api/admin/users", middlewares.AuthMiddleware(http.HandlerFunc(adh.ListUsers))).Methods("GET", "OPTIONS")
	r.Handle("/api/admin/users/{id}", middlewares.AuthMiddleware(http.HandlerFunc(adh.UpdateUser))).Methods("PUT", "OPTIONS")
	r.Handle("/api/admin/users/{id}", middlewares.AuthMiddleware(http.HandlerFunc(adh.DeleteUser))).Methods("DELETE", "OPTIONS")
}
