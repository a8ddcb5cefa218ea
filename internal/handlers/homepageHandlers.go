package handlers

import (
	"net/http"

	"edudham/internal/models"
	"edudham/internal/services"
	"edudham/internal/utils"
)

type HomepageHandler struct {
	homepageService services.HomepageService
}

func NewHomepageHandler(homepageService services.HomepageService) *HomepageHandler {
	return &HomepageHandler{homepageService: homepageService}
}

// Get is public; the frontend renders the landing page from it.
func (h *HomepageHandler) Get(w http.ResponseWriter, r *http.Request) {
	config, err := h.homepageService.Get(r.Context())
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, config)
}

func (h *HomepageHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, err := utils.GetClaimsFromContext(w, r)
	if err != nil {
		return
	}

	var config models.HomepageConfig
	if err := utils.DecodeJSONBody(r, &config); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	updated, err := h.homepageService.Update(r.Context(), claims.Actor(), &config)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, updated)
}
