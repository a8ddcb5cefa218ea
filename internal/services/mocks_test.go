package services

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"edudham/internal/models"
)

func duplicateKeyError() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
}

type mockUserRepo struct {
	users map[string]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[string]*models.User{}}
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == user.Email {
			return nil, duplicateKeyError()
		}
	}
	clone := *user
	m.users[user.ID] = &clone
	return user, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepo) FindByID(ctx context.Context, userID string) (*models.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *u
	return &clone, nil
}

func (m *mockUserRepo) FindAll(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserRepo) Update(ctx context.Context, userID string, updateFields bson.M) (*mongo.UpdateResult, error) {
	u, ok := m.users[userID]
	if !ok {
		return &mongo.UpdateResult{}, nil
	}
	if v, ok := updateFields["name"]; ok {
		u.Name = v.(string)
	}
	if v, ok := updateFields["email"]; ok {
		u.Email = v.(string)
	}
	if v, ok := updateFields["password_hash"]; ok {
		u.PasswordHash = v.(string)
	}
	if v, ok := updateFields["university_id"]; ok {
		u.UniversityID = v.(string)
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockUserRepo) Delete(ctx context.Context, userID string) (*mongo.DeleteResult, error) {
	if _, ok := m.users[userID]; !ok {
		return &mongo.DeleteResult{}, nil
	}
	delete(m.users, userID)
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

func (m *mockUserRepo) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	var n int64
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (m *mockUserRepo) EnsureIndexes(ctx context.Context) error { return nil }

type mockOTPRepo struct {
	otps []models.OTP
}

func (m *mockOTPRepo) Insert(ctx context.Context, otp *models.OTP) error {
	m.otps = append(m.otps, *otp)
	return nil
}

func (m *mockOTPRepo) FindByEmail(ctx context.Context, email string) (*models.OTP, error) {
	for i := range m.otps {
		if m.otps[i].Email == email {
			clone := m.otps[i]
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockOTPRepo) DeleteByEmail(ctx context.Context, email string) error {
	kept := m.otps[:0]
	for _, otp := range m.otps {
		if otp.Email != email {
			kept = append(kept, otp)
		}
	}
	m.otps = kept
	return nil
}

type mockUniversityRepo struct {
	universities map[string]*models.University
}

func newMockUniversityRepo() *mockUniversityRepo {
	return &mockUniversityRepo{universities: map[string]*models.University{}}
}

func (m *mockUniversityRepo) Create(ctx context.Context, university *models.University) (*models.University, error) {
	clone := *university
	m.universities[university.ID] = &clone
	return university, nil
}

func (m *mockUniversityRepo) FindByID(ctx context.Context, universityID string) (*models.University, error) {
	u, ok := m.universities[universityID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *u
	return &clone, nil
}

// Search ignores the query; tests that need filtering semantics exercise
// buildSearchQuery directly.
func (m *mockUniversityRepo) Search(ctx context.Context, query bson.M) ([]models.University, error) {
	out := make([]models.University, 0, len(m.universities))
	for _, u := range m.universities {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUniversityRepo) Update(ctx context.Context, universityID string, updateFields bson.M) (*mongo.UpdateResult, error) {
	u, ok := m.universities[universityID]
	if !ok {
		return &mongo.UpdateResult{}, nil
	}
	if v, ok := updateFields["name"]; ok {
		u.Name = v.(string)
	}
	if v, ok := updateFields["description"]; ok {
		u.Description = v.(string)
	}
	if v, ok := updateFields["rating"]; ok {
		u.Rating = v.(float64)
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockUniversityRepo) Delete(ctx context.Context, universityID string) (*mongo.DeleteResult, error) {
	if _, ok := m.universities[universityID]; !ok {
		return &mongo.DeleteResult{}, nil
	}
	delete(m.universities, universityID)
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

func (m *mockUniversityRepo) CountAll(ctx context.Context) (int64, error) {
	return int64(len(m.universities)), nil
}

func (m *mockUniversityRepo) MigrateLegacyCategories(ctx context.Context) (int64, error) {
	return 0, nil
}

type mockApplicationRepo struct {
	applications map[string]*models.Application
}

func newMockApplicationRepo() *mockApplicationRepo {
	return &mockApplicationRepo{applications: map[string]*models.Application{}}
}

func (m *mockApplicationRepo) Create(ctx context.Context, application *models.Application) (*models.Application, error) {
	clone := *application
	m.applications[application.ID] = &clone
	return application, nil
}

func (m *mockApplicationRepo) FindByID(ctx context.Context, applicationID string) (*models.Application, error) {
	a, ok := m.applications[applicationID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *a
	return &clone, nil
}

func (m *mockApplicationRepo) Find(ctx context.Context, universityID string) ([]models.Application, error) {
	out := []models.Application{}
	for _, a := range m.applications {
		if universityID == "" || a.UniversityID == universityID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockApplicationRepo) UpdateStatus(ctx context.Context, applicationID string, status models.ApplicationStatus) (*mongo.UpdateResult, error) {
	a, ok := m.applications[applicationID]
	if !ok {
		return &mongo.UpdateResult{}, nil
	}
	a.Status = status
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockApplicationRepo) Delete(ctx context.Context, applicationID string) (*mongo.DeleteResult, error) {
	if _, ok := m.applications[applicationID]; !ok {
		return &mongo.DeleteResult{}, nil
	}
	delete(m.applications, applicationID)
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

func (m *mockApplicationRepo) CountAll(ctx context.Context) (int64, error) {
	return int64(len(m.applications)), nil
}

func (m *mockApplicationRepo) CountByStatus(ctx context.Context, status models.ApplicationStatus) (int64, error) {
	var n int64
	for _, a := range m.applications {
		if a.Status == status {
			n++
		}
	}
	return n, nil
}

type mockCategoryRepo struct {
	categories map[string]*models.Category
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: map[string]*models.Category{}}
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	clone := *category
	m.categories[category.ID] = &clone
	return category, nil
}

func (m *mockCategoryRepo) FindAll(ctx context.Context) ([]models.Category, error) {
	out := []models.Category{}
	for _, c := range m.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockCategoryRepo) FindByName(ctx context.Context, name string) (*models.Category, error) {
	for _, c := range m.categories {
		if strings.EqualFold(c.Name, name) {
			clone := *c
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockCategoryRepo) Update(ctx context.Context, categoryID string, updateFields bson.M) (*mongo.UpdateResult, error) {
	c, ok := m.categories[categoryID]
	if !ok {
		return &mongo.UpdateResult{}, nil
	}
	if v, ok := updateFields["name"]; ok {
		c.Name = v.(string)
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockCategoryRepo) Delete(ctx context.Context, categoryID string) (*mongo.DeleteResult, error) {
	if _, ok := m.categories[categoryID]; !ok {
		return &mongo.DeleteResult{}, nil
	}
	delete(m.categories, categoryID)
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

type mockHomepageRepo struct {
	config *models.HomepageConfig
}

func (m *mockHomepageRepo) Get(ctx context.Context) (*models.HomepageConfig, error) {
	if m.config == nil {
		return nil, mongo.ErrNoDocuments
	}
	clone := *m.config
	return &clone, nil
}

func (m *mockHomepageRepo) Upsert(ctx context.Context, config *models.HomepageConfig) error {
	clone := *config
	m.config = &clone
	return nil
}

type mockEmailService struct {
	sent []string
	fail bool
}

func (m *mockEmailService) SendEmail(to, subject, msg string) error {
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, to)
	return nil
}
