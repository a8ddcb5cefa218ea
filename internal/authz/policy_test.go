package authz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"edudham/internal/models"
	"edudham/internal/xerrors"
)

func TestCanAdmin(t *testing.T) {
	admin := Actor{UserID: "u1", Role: models.RoleAdmin}

	actions := []Action{
		ActionManageUsers, ActionViewStats, ActionManageCategories,
		ActionEditHomepage, ActionCreateUniversity, ActionDeleteUniversity,
		ActionBulkImportUniversities, ActionUploadPhoto,
		ActionUpdateUniversity, ActionViewApplications,
		ActionUpdateApplication, ActionDeleteApplication,
		ActionExportApplications,
	}
	for _, action := range actions {
		assert.NoError(t, Can(admin, action, "any-university"))
	}
}

func TestCanManagerScoped(t *testing.T) {
	manager := Actor{UserID: "u2", Role: models.RoleManager, UniversityID: "uni-a"}

	scoped := []Action{
		ActionUpdateUniversity, ActionViewApplications,
		ActionUpdateApplication, ActionDeleteApplication,
		ActionExportApplications,
	}

	t.Run("own university allowed", func(t *testing.T) {
		for _, action := range scoped {
			assert.NoError(t, Can(manager, action, "uni-a"))
		}
	})

	t.Run("other university forbidden", func(t *testing.T) {
		for _, action := range scoped {
			err := Can(manager, action, "uni-b")
			assert.True(t, errors.Is(err, xerrors.ErrForbidden))
		}
	})

	t.Run("unassigned manager forbidden", func(t *testing.T) {
		unassigned := Actor{UserID: "u3", Role: models.RoleManager}
		for _, action := range scoped {
			err := Can(unassigned, action, "uni-a")
			assert.True(t, errors.Is(err, xerrors.ErrForbidden))
		}
	})

	t.Run("photo upload allowed regardless of scope", func(t *testing.T) {
		assert.NoError(t, Can(manager, ActionUploadPhoto, ""))
	})

	t.Run("admin-only actions forbidden", func(t *testing.T) {
		for _, action := range []Action{
			ActionManageUsers, ActionViewStats, ActionManageCategories,
			ActionEditHomepage, ActionCreateUniversity,
			ActionDeleteUniversity, ActionBulkImportUniversities,
		} {
			err := Can(manager, action, "uni-a")
			assert.True(t, errors.Is(err, xerrors.ErrForbidden))
		}
	})
}

func TestCanStudent(t *testing.T) {
	student := Actor{UserID: "u4", Role: models.RoleStudent}

	for _, action := range []Action{
		ActionManageUsers, ActionUploadPhoto, ActionUpdateUniversity,
		ActionViewApplications, ActionExportApplications,
	} {
		err := Can(student, action, "uni-a")
		assert.True(t, errors.Is(err, xerrors.ErrForbidden))
	}
}

func TestScope(t *testing.T) {
	assert.Equal(t, "", Scope(Actor{Role: models.RoleAdmin, UniversityID: "uni-a"}))
	assert.Equal(t, "uni-a", Scope(Actor{Role: models.RoleManager, UniversityID: "uni-a"}))
	assert.Equal(t, "", Scope(Actor{Role: models.RoleManager}))
}
