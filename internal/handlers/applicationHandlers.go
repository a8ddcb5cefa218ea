package handlers

import (
	"net/http"

	"edudham/internal/models"
	"edudham/internal/services"
	"edudham/internal/utils"
)

type ApplicationHandler struct {
	applicationService services.ApplicationService
	excelService       services.ExcelService
}

func NewApplicationHandler(applicationService services.ApplicationService, excelService services.ExcelService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService, excelService: excelService}
}

// Create is the public admission inquiry endpoint; no authentication.
func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ApplicationCreate
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	application, err := h.applicationService.Create(r.Context(), &req)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, application)
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, err := utils.GetClaimsFromContext(w, r)
	if err != nil {
		return
	}

	applications, err := h.applicationService.List(r.Context(), claims.Actor())
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	if applications == nil {
		applications = []models.Application{}
	}

	utils.RespondWithJSON(w, http.StatusOK, applications)
}

func (h *ApplicationHandler) ListByUniversity(w http.ResponseWriter, r *http.Request) {
	claims, err := utils.GetClaimsFromContext(w, r)
	if err != nil {
		return
	}
	universityID, err := utils.GetIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	applications, err := h.applicationService.ListByUniversity(r.Context(), claims.Actor(), universityID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	if applications == nil {
		applications = []models.Application{}
	}

	utils.RespondWithJSON(w, http.StatusOK, applications)
}

func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, err := utils.GetClaimsFromContext(w, r)
	if err != nil {
		return
	}
	applicationID, err := utils.GetIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	var req models.ApplicationStatusUpdate
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	application, err := h.applicationService.UpdateStatus(r.Context(), claims.Actor(), applicationID, &req)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, application)
}

func (h *ApplicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, err := utils.GetClaimsFromContext(w, r)
	if err != nil {
		return
	}
	applicationID, err := utils.GetIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	if err := h.applicationService.Delete(r.Context(), claims.Actor(), applicationID); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Application deleted"})
}

// ExportExcel downloads the caller's visible applications as a workbook.
func (h *ApplicationHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	claims, err := utils.GetClaimsFromContext(w, r)
	if err != nil {
		return
	}

	file, err := h.excelService.ExportApplications(r.Context(), claims.Actor())
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	writeExcelResponse(w, file)
}
