// Package authz centralizes every role/ownership decision in the API.
// Handlers never inspect roles directly; they ask Can with the action and
// the university the resource belongs to.
package authz

import (
	"edudham/internal/models"
	"edudham/internal/xerrors"
)

type Action int

const (
	// Admin-only actions.
	ActionManageUsers Action = iota
	ActionViewStats
	ActionManageCategories
	ActionEditHomepage
	ActionCreateUniversity
	ActionDeleteUniversity
	ActionBulkImportUniversities

	// Admin or any manager.
	ActionUploadPhoto

	// Admin, or a manager scoped to the resource's university.
	ActionUpdateUniversity
	ActionViewApplications
	ActionUpdateApplication
	ActionDeleteApplication
	ActionExportApplications
)

// Actor is the authenticated principal a decision is made for.
type Actor struct {
	UserID       string
	Role         models.Role
	UniversityID string
}

// Can reports whether actor may perform action on a resource owned by
// universityID. Actions that are not scoped to a university ignore the
// argument; pass the empty string for them. A nil return means allowed.
func Can(actor Actor, action Action, universityID string) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}

	if actor.Role == models.RoleManager {
		switch action {
		case ActionUploadPhoto:
			return nil
		case ActionUpdateUniversity, ActionViewApplications,
			ActionUpdateApplication, ActionDeleteApplication,
			ActionExportApplications:
			if actor.UniversityID == "" {
				return xerrors.Forbiddenf("no university assigned")
			}
			if universityID != actor.UniversityID {
				return xerrors.Forbiddenf("resource belongs to another university")
			}
			return nil
		}
	}

	return xerrors.ErrForbidden
}

// Scope returns the university id a listing should be restricted to: empty
// for admins (no restriction), the assigned university for managers.
func Scope(actor Actor) string {
	if actor.Role == models.RoleAdmin {
		return ""
	}
	return actor.UniversityID
}
