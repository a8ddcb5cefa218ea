package handlers

import (
	"net/http"

	"edudham/internal/models"
	"edudham/internal/services"
	"edudham/internal/utils"
)

type AdminHandler struct {
	userService  services.UserService
	statsService services.StatsService
}

func NewAdminHandler(userService services.UserService, statsService services.StatsService) *AdminHandler {
	return &AdminHandler{userService: userService, statsService: statsService}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	claims, err := utils.GetClaimsFromContext(w, r)
	if err != nil {
		return
	}

	stats, err := h.statsService.AdminStats(r.Context(), claims.Actor())
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	claims, err := utils.GetClaimsFromContext(w, r)
	if err != nil {
		return
	}

	var req models.RegisterRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	user, err := h.userService.CreateUser(r.Context(), claims.Actor(), &req)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, user)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	claims, err := utils.GetClaimsFromContext(w, r)
	if err != nil {
		return
	}

	users, err := h.userService.ListUsers(r.Context(), claims.Actor())
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	claims, err := utils.GetClaimsFromContext(w, r)
	if err != nil {
		return
	}
	userID, err := utils.GetIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	var req models.UserUpdateRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), claims.Actor(), userID, &req)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	claims, err := utils.GetClaimsFromContext(w, r)
	if err != nil {
		return
	}
	userID, err := utils.GetIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	if err := h.userService.DeleteUser(r.Context(), claims.Actor(), userID); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
