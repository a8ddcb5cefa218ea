package handlers

import (
	"io"
	"net/http"
	"strconv"

	"edudham/internal/models"
	"edudham/internal/services"
	"edudham/internal/utils"
)

type UniversityHandler struct {
	universityService services.UniversityService
	excelService      services.ExcelService
}

func NewUniversityHandler(universityService services.UniversityService, excelService services.ExcelService) *UniversityHandler {
	return &UniversityHandler{universityService: universityService, excelService: excelService}
}

func floatQueryParam(r *http.Request, name string) *float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Search is the public catalog listing with optional filters.
func (h *UniversityHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &models.UniversityFilter{
		Search:       q.Get("search"),
		Location:     q.Get("location"),
		State:        q.Get("state"),
		CourseType:   q.Get("course_type"),
		Category:     q.Get("category"),
		MinFee:       floatQueryParam(r, "min_fee"),
		MaxFee:       floatQueryParam(r, "max_fee"),
		MinRating:    floatQueryParam(r, "min_rating"),
		MinPlacement: floatQueryParam(r, "min_placement"),
	}

	universities, err := h.universityService.Search(r.Context(), filter)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	if universities == nil {
		universities = []models.University{}
	}

	utils.RespondWithJSON(w, http.StatusOK, universities)
}

func (h *UniversityHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	universityID, err := utils.GetIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	university, err := h.universityService.GetByID(r.Context(), universityID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, university)
}

func (h *UniversityHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, err := utils.GetClaimsFromContext(w, r)
	if err != nil {
		return
	}

	var req models.UniversityCreate
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	university, err := h.universityService.Create(r.Context(), claims.Actor(), &req)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, university)
}

func (h *UniversityHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, err := utils.GetClaimsFromContext(w, r)
	if err != nil {
		return
	}
	universityID, err := utils.GetIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	var req models.UniversityUpdate
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	university, err := h.universityService.Update(r.Context(), claims.Actor(), universityID, &req)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, university)
}

func (h *UniversityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, err := utils.GetClaimsFromContext(w, r)
	if err != nil {
		return
	}
	universityID, err := utils.GetIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	if err := h.universityService.Delete(r.Context(), claims.Actor(), universityID); err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "University deleted"})
}

func (h *UniversityHandler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.universityService.FilterOptions(r.Context())
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, options)
}

// UploadPhoto accepts a multipart image and returns it as a base64 data
// URL the caller can attach to a university.
func (h *UniversityHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	claims, err := utils.GetClaimsFromContext(w, r)
	if err != nil {
		return
	}

	if err := r.ParseMultipartForm(services.MaxPhotoSizeBytes + 1024); err != nil {
		utils.SendJSONError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		utils.SendJSONError(w, "Missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, services.MaxPhotoSizeBytes+1))
	if err != nil {
		utils.SendJSONError(w, "Failed to read uploaded file", http.StatusBadRequest)
		return
	}

	photoURL, err := h.universityService.EncodePhoto(claims.Actor(), header.Header.Get("Content-Type"), data)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"photo_url": photoURL})
}

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func writeExcelResponse(w http.ResponseWriter, file *services.ExcelFile) {
	w.Header().Set("Content-Type", excelContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+file.Filename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Content)
}

func (h *UniversityHandler) DownloadBulkTemplate(w http.ResponseWriter, r *http.Request) {
	claims, err := utils.GetClaimsFromContext(w, r)
	if err != nil {
		return
	}

	file, err := h.excelService.BuildTemplate(claims.Actor())
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	writeExcelResponse(w, file)
}

func (h *UniversityHandler) BulkUpload(w http.ResponseWriter, r *http.Request) {
	claims, err := utils.GetClaimsFromContext(w, r)
	if err != nil {
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.SendJSONError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		utils.SendJSONError(w, "Missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.SendJSONError(w, "Failed to read uploaded file", http.StatusBadRequest)
		return
	}

	result, err := h.excelService.ImportUniversities(r.Context(), claims.Actor(), header.Filename, data)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *UniversityHandler) ExportApplications(w http.ResponseWriter, r *http.Request) {
	claims, err := utils.GetClaimsFromContext(w, r)
	if err != nil {
		return
	}
	universityID, err := utils.GetIDFromVars(w, r, "id")
	if err != nil {
		return
	}

	file, err := h.excelService.ExportUniversityApplications(r.Context(), claims.Actor(), universityID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	writeExcelResponse(w, file)
}
