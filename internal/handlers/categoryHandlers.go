package handlers

import (
	"net/http"

	"edudham/internal/models"
	"edudham/internal/services"
	"edudham/internal/utils"
)

type CategoryHandler struct {
	categoryService services.CategoryService
}

func NewCategoryHandler(categoryService services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, err := utils.GetClaimsFromContext(w, r)
	if err != nil {
		return
	}

	var req models.CategoryCreate
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	category, err := h.categoryService.Create(r.Context(), claims.Actor(), &req)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, category)
}

// List is public: the category list feeds the catalog's filter dropdowns.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, err := utils.GetClaimsFromContext(w, r)
	if err != nil {
		return
	}
	categoryID, err := utils.GetIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	var req models.CategoryCreate
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	if err := h.categoryService.Update(r.Context(), claims.Actor(), categoryID, &req); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Category updated"})
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, err := utils.GetClaimsFromContext(w, r)
	if err != nil {
		return
	}
	categoryID, err := utils.GetIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	if err := h.categoryService.Delete(r.Context(), claims.Actor(), categoryID); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}
