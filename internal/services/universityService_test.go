package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"edudham/internal/authz"
	"edudham/internal/models"
	"edudham/internal/xerrors"
)

func floatPtr(v float64) *float64 { return &v }

func TestBuildSearchQuery(t *testing.T) {
	t.Run("empty filter", func(t *testing.T) {
		query := buildSearchQuery(&models.UniversityFilter{})
		assert.Empty(t, query)
	})

	t.Run("free text search", func(t *testing.T) {
		query := buildSearchQuery(&models.UniversityFilter{Search: "engineering"})
		or, ok := query["$or"].(bson.A)
		require.True(t, ok)
		assert.Len(t, or, 8)
	})

	t.Run("scalar filters", func(t *testing.T) {
		query := buildSearchQuery(&models.UniversityFilter{
			Location:     "Lucknow",
			State:        "Uttar Pradesh",
			CourseType:   "B.Tech",
			Category:     "Government",
			MinRating:    floatPtr(4),
			MinPlacement: floatPtr(80),
		})
		assert.Equal(t, bson.M{"$regex": "Lucknow", "$options": "i"}, query["location"])
		assert.Equal(t, bson.M{"$regex": "B.Tech", "$options": "i"}, query["courses.course_name"])
		assert.Equal(t, "Government", query["university_categories"])
		assert.Equal(t, bson.M{"$gte": 4.0}, query["rating"])
		assert.Equal(t, bson.M{"$gte": 80.0}, query["placement_percentage"])
	})
}

func seedCatalog(repo *mockUniversityRepo) {
	repo.universities["uni-cheap"] = &models.University{
		ID: "uni-cheap", Name: "Budget College",
		Courses: []models.Course{{CourseName: "B.A.", Fees: 10000}, {CourseName: "B.Com", Fees: 20000}},
	}
	repo.universities["uni-pricey"] = &models.University{
		ID: "uni-pricey", Name: "Premium Institute",
		Courses: []models.Course{{CourseName: "MBA", Fees: 200000}},
	}
	repo.universities["uni-nofees"] = &models.University{
		ID: "uni-nofees", Name: "No Fee Data University",
		Courses: []models.Course{{CourseName: "Diploma"}},
	}
}

// Fee filtering is a post-query pass over the average positive course fee.
// Universities with no fee data always pass the fee filter.
func TestSearchFeeFilter(t *testing.T) {
	repo := newMockUniversityRepo()
	seedCatalog(repo)
	svc := NewUniversityService(repo, newMockCategoryRepo())

	t.Run("max fee excludes expensive", func(t *testing.T) {
		results, err := svc.Search(context.Background(), &models.UniversityFilter{MaxFee: floatPtr(50000)})
		require.NoError(t, err)

		names := make([]string, 0, len(results))
		for _, u := range results {
			names = append(names, u.Name)
		}
		assert.ElementsMatch(t, []string{"Budget College", "No Fee Data University"}, names)
	})

	t.Run("min fee excludes cheap but keeps no-fee-data", func(t *testing.T) {
		results, err := svc.Search(context.Background(), &models.UniversityFilter{MinFee: floatPtr(100000)})
		require.NoError(t, err)

		names := make([]string, 0, len(results))
		for _, u := range results {
			names = append(names, u.Name)
		}
		assert.ElementsMatch(t, []string{"Premium Institute", "No Fee Data University"}, names)
	})

	t.Run("no fee filter returns all", func(t *testing.T) {
		results, err := svc.Search(context.Background(), &models.UniversityFilter{})
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})
}

func TestAverageCourseFee(t *testing.T) {
	avg, ok := averageCourseFee(&models.University{
		Courses: []models.Course{{Fees: 10000}, {Fees: 20000}, {Fees: 0}},
	})
	assert.True(t, ok)
	assert.InDelta(t, 15000, avg, 0.001)

	_, ok = averageCourseFee(&models.University{Courses: []models.Course{{Fees: 0}}})
	assert.False(t, ok)

	_, ok = averageCourseFee(&models.University{})
	assert.False(t, ok)
}

func TestCreateUniversityAuthorization(t *testing.T) {
	repo := newMockUniversityRepo()
	svc := NewUniversityService(repo, newMockCategoryRepo())

	req := &models.UniversityCreate{
		Name: "New University", Location: "Agra", Description: "A fine school",
		PlacementPercentage: 70, Rating: 4,
	}

	t.Run("admin allowed", func(t *testing.T) {
		admin := authz.Actor{UserID: "a-1", Role: models.RoleAdmin}
		created, err := svc.Create(context.Background(), admin, req)
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.NotNil(t, created.Courses)
		assert.NotNil(t, created.Tags)
	})

	t.Run("manager forbidden", func(t *testing.T) {
		manager := authz.Actor{UserID: "m-1", Role: models.RoleManager, UniversityID: "uni-a"}
		_, err := svc.Create(context.Background(), manager, req)
		assert.True(t, errors.Is(err, xerrors.ErrForbidden))
	})
}

func TestUpdateUniversityScoping(t *testing.T) {
	repo := newMockUniversityRepo()
	repo.universities["uni-a"] = &models.University{ID: "uni-a", Name: "Alpha"}
	svc := NewUniversityService(repo, newMockCategoryRepo())

	newName := "Alpha Renamed"

	t.Run("owning manager allowed", func(t *testing.T) {
		manager := authz.Actor{UserID: "m-1", Role: models.RoleManager, UniversityID: "uni-a"}
		updated, err := svc.Update(context.Background(), manager, "uni-a", &models.UniversityUpdate{Name: &newName})
		require.NoError(t, err)
		assert.Equal(t, "Alpha Renamed", updated.Name)
	})

	t.Run("other manager forbidden", func(t *testing.T) {
		other := authz.Actor{UserID: "m-2", Role: models.RoleManager, UniversityID: "uni-b"}
		_, err := svc.Update(context.Background(), other, "uni-a", &models.UniversityUpdate{Name: &newName})
		assert.True(t, errors.Is(err, xerrors.ErrForbidden))
	})

	t.Run("missing university", func(t *testing.T) {
		admin := authz.Actor{UserID: "a-1", Role: models.RoleAdmin}
		_, err := svc.Update(context.Background(), admin, "uni-missing", &models.UniversityUpdate{Name: &newName})
		assert.True(t, errors.Is(err, xerrors.ErrNotFound))
	})
}

func TestDeleteUniversity(t *testing.T) {
	repo := newMockUniversityRepo()
	repo.universities["uni-a"] = &models.University{ID: "uni-a", Name: "Alpha"}
	svc := NewUniversityService(repo, newMockCategoryRepo())

	manager := authz.Actor{UserID: "m-1", Role: models.RoleManager, UniversityID: "uni-a"}
	err := svc.Delete(context.Background(), manager, "uni-a")
	assert.True(t, errors.Is(err, xerrors.ErrForbidden))

	admin := authz.Actor{UserID: "a-1", Role: models.RoleAdmin}
	require.NoError(t, svc.Delete(context.Background(), admin, "uni-a"))

	err = svc.Delete(context.Background(), admin, "uni-a")
	assert.True(t, errors.Is(err, xerrors.ErrNotFound))
}

func TestFilterOptions(t *testing.T) {
	universityRepo := newMockUniversityRepo()
	universityRepo.universities["uni-a"] = &models.University{
		ID: "uni-a", Location: "  Lucknow ", Categories: []string{"Government", " Engineering "},
	}
	universityRepo.universities["uni-b"] = &models.University{
		ID: "uni-b", Location: "Kanpur", Categories: []string{"Government"},
	}
	categoryRepo := newMockCategoryRepo()
	categoryRepo.categories["c-1"] = &models.Category{ID: "c-1", Name: "Medical"}

	svc := NewUniversityService(universityRepo, categoryRepo)
	options, err := svc.FilterOptions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Kanpur", "Lucknow"}, options.Locations)
	assert.Equal(t, []string{"Engineering", "Government", "Medical"}, options.Categories)
}

func TestEncodePhoto(t *testing.T) {
	svc := NewUniversityService(newMockUniversityRepo(), newMockCategoryRepo())
	admin := authz.Actor{UserID: "a-1", Role: models.RoleAdmin}

	t.Run("valid image", func(t *testing.T) {
		url, err := svc.EncodePhoto(admin, "image/png", []byte{0x89, 0x50, 0x4e, 0x47})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
	})

	t.Run("non image rejected", func(t *testing.T) {
		_, err := svc.EncodePhoto(admin, "application/pdf", []byte("pdf"))
		assert.True(t, errors.Is(err, xerrors.ErrValidation))
	})

	t.Run("oversized rejected", func(t *testing.T) {
		_, err := svc.EncodePhoto(admin, "image/jpeg", make([]byte, MaxPhotoSizeBytes+1))
		assert.True(t, errors.Is(err, xerrors.ErrValidation))
	})

	t.Run("student forbidden", func(t *testing.T) {
		student := authz.Actor{UserID: "s-1", Role: models.RoleStudent}
		_, err := svc.EncodePhoto(student, "image/png", []byte{1})
		assert.True(t, errors.Is(err, xerrors.ErrForbidden))
	})
}
