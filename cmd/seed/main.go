// Command seed populates an empty database with an admin account and a few
// sample universities for local development. It refuses to touch a database
// that already has users.
package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/joho/godotenv/autoload"

	"edudham/internal/database"
	"edudham/internal/models"
	"edudham/internal/repositories"
)

func sampleUniversities() []models.University {
	now := time.Now().UTC()
	return []models.University{
		{
			ID:        uuid.NewString(),
			Name:      "University of Lucknow",
			Location:  "Lucknow",
			State:     "Uttar Pradesh",
			MainPhoto: "https://images.unsplash.com/photo-1562774053-701939374585?crop=entropy&cs=srgb&fm=jpg&q=85",
			PhotoGallery: []string{
				"https://images.unsplash.com/photo-1562774053-701939374585?crop=entropy&cs=srgb&fm=jpg&q=85",
				"https://images.unsplash.com/photo-1541339907198-e08756dedf3f?crop=entropy&cs=srgb&fm=jpg&q=85",
			},
			Description: "One of the oldest and most prestigious universities in Uttar Pradesh, offering a wide range of undergraduate and postgraduate programs in arts, science, and commerce.",
			Courses: []models.Course{
				{CourseName: "B.A.", Duration: "3 Years", Fees: 15000, Category: "Arts"},
				{CourseName: "B.Sc.", Duration: "3 Years", Fees: 20000, Category: "Science"},
				{CourseName: "B.Com", Duration: "3 Years", Fees: 18000, Category: "Commerce"},
				{CourseName: "MBA", Duration: "2 Years", Fees: 75000, Category: "Management"},
			},
			Categories:          []string{"Government"},
			PlacementPercentage: 85.5,
			Rating:              4.3,
			Tags:                []string{"Arts", "Science", "Commerce", "Government"},
			ContactDetails: map[string]string{
				"phone":   "+91-522-2740443",
				"email":   "info@lkouniv.ac.in",
				"website": "https://www.lkouniv.ac.in",
			},
			CreatedAt: now,
		},
		{
			ID:        uuid.NewString(),
			Name:      "IIT Kanpur",
			Location:  "Kanpur",
			State:     "Uttar Pradesh",
			MainPhoto: "https://images.unsplash.com/photo-1498243691581-b145c3f54a5a?crop=entropy&cs=srgb&fm=jpg&q=85",
			PhotoGallery: []string{
				"https://images.unsplash.com/photo-1498243691581-b145c3f54a5a?crop=entropy&cs=srgb&fm=jpg&q=85",
			},
			Description: "A premier engineering institute known for cutting-edge research, a rigorous curriculum, and outstanding placements.",
			Courses: []models.Course{
				{CourseName: "B.Tech", Duration: "4 Years", Fees: 220000, Category: "Engineering"},
				{CourseName: "M.Tech", Duration: "2 Years", Fees: 60000, Category: "Engineering"},
				{CourseName: "Ph.D", Duration: "5 Years", Fees: 30000, Category: "Research"},
			},
			Categories:          []string{"Government", "Engineering"},
			PlacementPercentage: 97.0,
			Rating:              4.8,
			Tags:                []string{"Engineering", "Technology", "Research"},
			ContactDetails: map[string]string{
				"phone":   "+91-512-2590151",
				"email":   "info@iitk.ac.in",
				"website": "https://www.iitk.ac.in",
			},
			CreatedAt: now,
		},
		{
			ID:          uuid.NewString(),
			Name:        "Banaras Hindu University",
			Location:    "Varanasi",
			State:       "Uttar Pradesh",
			MainPhoto:   "https://images.unsplash.com/photo-1680084521806-b408d976e3e7?crop=entropy&cs=srgb&fm=jpg&q=85",
			Description: "A large residential university with faculties spanning arts, science, law, medicine, and agriculture.",
			Courses: []models.Course{
				{CourseName: "B.A.", Duration: "3 Years", Fees: 12000, Category: "Arts"},
				{CourseName: "LLB", Duration: "3 Years", Fees: 25000, Category: "Law"},
				{CourseName: "MBBS", Duration: "5 Years", Fees: 120000, Category: "Medicine"},
			},
			Categories:          []string{"Government"},
			PhotoGallery:        []string{},
			PlacementPercentage: 80.0,
			Rating:              4.5,
			Tags:                []string{"Arts", "Law", "Medicine", "Government"},
			ContactDetails: map[string]string{
				"email":   "info@bhu.ac.in",
				"website": "https://www.bhu.ac.in",
			},
			CreatedAt: now,
		},
	}
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	db := database.New()
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database connection")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	users := db.Client().Database(database.Name).Collection("users")
	existing, err := users.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to count users")
	}
	if existing > 0 {
		log.Info().Int64("users", existing).Msg("Database already has data. Skipping seed to preserve existing records.")
		return
	}

	userRepo := repositories.NewUserRepository(db)
	universityRepo := repositories.NewUniversityRepository(db)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to create user indexes")
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@edudham.com"
	}
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash admin password")
	}

	admin := &models.User{
		ID:           uuid.NewString(),
		Email:        adminEmail,
		PasswordHash: string(hash),
		Name:         "Admin User",
		Role:         models.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := userRepo.Create(ctx, admin); err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin user")
	}
	log.Info().Str("email", adminEmail).Msg("Created admin user")

	for _, university := range sampleUniversities() {
		u := university
		if _, err := universityRepo.Create(ctx, &u); err != nil {
			log.Fatal().Err(err).Str("name", u.Name).Msg("Failed to create sample university")
		}
		log.Info().Str("name", u.Name).Msg("Created sample university")
	}

	log.Info().Msg("Database seeding complete")
}
