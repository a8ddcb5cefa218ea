package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edudham/internal/authz"
	"edudham/internal/models"
	"edudham/internal/xerrors"
)

func TestGetHomepageDefaults(t *testing.T) {
	svc := NewHomepageService(&mockHomepageRepo{})

	config, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Find Your Perfect", config.HeroTitle)
	assert.Equal(t, "Edu Dham", config.SiteName)
	assert.NotEmpty(t, config.BackgroundImages)
}

func TestUpdateHomepage(t *testing.T) {
	repo := &mockHomepageRepo{}
	svc := NewHomepageService(repo)

	updated, err := svc.Update(context.Background(), adminActor, &models.HomepageConfig{
		HeroTitle: "Welcome",
		SiteName:  "My Portal",
	})
	require.NoError(t, err)
	assert.False(t, updated.UpdatedAt.IsZero())

	// Subsequent reads return the stored config, not the defaults.
	config, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Welcome", config.HeroTitle)
	assert.Equal(t, "My Portal", config.SiteName)
}

func TestUpdateHomepageRequiresAdmin(t *testing.T) {
	svc := NewHomepageService(&mockHomepageRepo{})

	manager := authz.Actor{UserID: "m-1", Role: models.RoleManager, UniversityID: "uni-a"}
	_, err := svc.Update(context.Background(), manager, &models.HomepageConfig{HeroTitle: "Nope"})
	assert.True(t, errors.Is(err, xerrors.ErrForbidden))
}
