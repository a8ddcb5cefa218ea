package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"edudham/internal/authz"
	"edudham/internal/metrics"
	"edudham/internal/models"
	"edudham/internal/repositories"
	"edudham/internal/xerrors"
)

const (
	universitySheetName  = "Universities"
	applicationSheetName = "Applications"
	exportDateFormat     = "2006-01-02 15:04"
)

var templateHeaders = []string{
	"name", "location", "state", "description",
	"courses", "placement_percentage", "rating",
	"tags", "email", "phone", "website",
}

var requiredImportColumns = []string{"name", "location", "description", "placement_percentage"}

var exportHeaders = []string{"Name", "Email", "Phone", "University Name", "Course Interest", "Short Note", "Date", "Status"}

// BulkImportResult summarizes an import: which rows became universities and
// which failed, by row number.
type BulkImportResult struct {
	Message      string   `json:"message"`
	CreatedCount int      `json:"created_count"`
	Created      []string `json:"created"`
	Errors       []string `json:"errors"`
	ErrorCount   int      `json:"error_count"`
}

// ExcelFile is a generated workbook plus its download filename.
type ExcelFile struct {
	Filename string
	Content  []byte
}

// ExcelService handles the spreadsheet surface: the bulk upload template,
// the import itself, and application exports.
type ExcelService interface {
	BuildTemplate(actor authz.Actor) (*ExcelFile, error)
	ImportUniversities(ctx context.Context, actor authz.Actor, filename string, data []byte) (*BulkImportResult, error)
	ExportApplications(ctx context.Context, actor authz.Actor) (*ExcelFile, error)
	ExportUniversityApplications(ctx context.Context, actor authz.Actor, universityID string) (*ExcelFile, error)
}

type excelService struct {
	universityRepo  repositories.UniversityRepository
	applicationRepo repositories.ApplicationRepository
}

func NewExcelService(universityRepo repositories.UniversityRepository, applicationRepo repositories.ApplicationRepository) ExcelService {
	return &excelService{universityRepo: universityRepo, applicationRepo: applicationRepo}
}

// BuildTemplate produces the styled workbook admins fill in for bulk
// upload: a Universities sheet with two sample rows and an Instructions
// sheet describing each column.
func (s *excelService) BuildTemplate(actor authz.Actor) (*ExcelFile, error) {
	if err := authz.Can(actor, authz.ActionBulkImportUniversities, ""); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", universitySheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerRow := make([]interface{}, len(templateHeaders))
	for i, h := range templateHeaders {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(universitySheetName, "A1", &headerRow); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"1E3A5F"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(templateHeaders))
	_ = f.SetCellStyle(universitySheetName, "A1", lastCol+"1", headerStyle)
	_ = f.SetRowHeight(universitySheetName, 1, 22)

	sampleRows := [][]interface{}{
		{
			"Example University of Technology", "Lucknow", "Uttar Pradesh",
			"A premier institute offering cutting-edge engineering and technology programs.",
			"B.Tech, M.Tech, MBA, MCA", 85.5, 4.2,
			"Engineering, Technology, Research",
			"info@eut.ac.in", "+91-9876543210", "https://eut.ac.in",
		},
		{
			"National College of Science", "Kanpur", "Uttar Pradesh",
			"Leading science college with state-of-the-art laboratories and experienced faculty.",
			"B.Sc, M.Sc, Ph.D", 78.0, 3.9,
			"Science, Research, Academia",
			"contact@ncs.ac.in", "+91-9123456780", "https://ncs.ac.in",
		},
	}

	sampleStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"F0F4FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{WrapText: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sample style: %w", err)
	}
	for i, row := range sampleRows {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(universitySheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write sample row: %w", err)
		}
		_ = f.SetCellStyle(universitySheetName, cell, fmt.Sprintf("%s%d", lastCol, i+2), sampleStyle)
	}

	colWidths := []float64{35, 20, 25, 50, 35, 22, 10, 30, 25, 18, 30}
	for i, width := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(universitySheetName, col, col, width)
	}

	if _, err := f.NewSheet("Instructions"); err != nil {
		return nil, fmt.Errorf("failed to create instructions sheet: %w", err)
	}
	_ = f.SetColWidth("Instructions", "A", "A", 80)
	instructions := []string{
		"BULK UNIVERSITY UPLOAD - INSTRUCTIONS",
		"",
		"REQUIRED FIELDS (must be filled):",
		"  - name                 : Full university name",
		"  - location             : City / District name",
		"  - state                : State name (e.g., Uttar Pradesh, Delhi, Bihar)",
		"  - description          : Short description of the university",
		"  - placement_percentage : Number between 0 and 100 (e.g., 85.5)",
		"",
		"OPTIONAL FIELDS:",
		"  - courses              : Comma-separated course names (e.g., B.Tech, MBA, MCA)",
		"  - rating               : Number between 0 and 5 (e.g., 4.2)",
		"  - tags                 : Comma-separated keywords for search",
		"  - email                : Contact email of the university",
		"  - phone                : Contact phone number",
		"  - website              : University website URL",
		"",
		"NOTES:",
		"  - Do NOT change or delete the header row (row 1).",
		"  - You can delete the 2 sample rows before uploading.",
		"  - Photos can be added individually after bulk upload via the Edit button.",
		"  - Maximum 200 universities per upload.",
	}
	for i, line := range instructions {
		_ = f.SetCellValue("Instructions", fmt.Sprintf("A%d", i+1), line)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 13, Color: "1E3A5F"},
	})
	if err == nil {
		_ = f.SetCellStyle("Instructions", "A1", "A1", titleStyle)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize template workbook: %w", err)
	}
	return &ExcelFile{Filename: "university_bulk_upload_template.xlsx", Content: buf.Bytes()}, nil
}

// parseFloatCell treats an empty cell as zero; a non-empty cell must be a
// number.
func parseFloatCell(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", value)
	}
	return v, nil
}

func splitCommaList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ImportUniversities reads an uploaded workbook and creates one university
// per data row. Rows with a blank name are skipped silently; other bad rows
// are reported by row number without aborting the rest of the file. A
// missing required column fails the whole upload.
func (s *excelService) ImportUniversities(ctx context.Context, actor authz.Actor, filename string, data []byte) (*BulkImportResult, error) {
	if err := authz.Can(actor, authz.ActionBulkImportUniversities, ""); err != nil {
		return nil, err
	}

	lower := strings.ToLower(filename)
	if !strings.HasSuffix(lower, ".xlsx") && !strings.HasSuffix(lower, ".xls") {
		return nil, xerrors.Validationf("file must be an Excel file (.xlsx or .xls)")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, xerrors.Validationf("could not read Excel file, please use the provided template")
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil || len(rows) == 0 {
		return nil, xerrors.Validationf("could not read Excel file, please use the provided template")
	}

	headers := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		headers[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, col := range requiredImportColumns {
		if _, ok := headers[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, xerrors.Validationf("missing required columns: %s, please use the provided template", strings.Join(missing, ", "))
	}

	cell := func(row []string, column string) string {
		idx, ok := headers[column]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	result := &BulkImportResult{Created: []string{}, Errors: []string{}}
	for i, row := range rows[1:] {
		rowIdx := i + 2

		name := cell(row, "name")
		if name == "" {
			continue
		}

		location := cell(row, "location")
		description := cell(row, "description")
		if location == "" || description == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Missing required fields (name, location, description)", rowIdx))
			metrics.BulkImportRowsTotal.WithLabelValues("failed").Inc()
			continue
		}

		placement, err := parseFloatCell(cell(row, "placement_percentage"))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: placement_percentage %s", rowIdx, err.Error()))
			metrics.BulkImportRowsTotal.WithLabelValues("failed").Inc()
			continue
		}
		rating, err := parseFloatCell(cell(row, "rating"))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: rating %s", rowIdx, err.Error()))
			metrics.BulkImportRowsTotal.WithLabelValues("failed").Inc()
			continue
		}

		courseNames := splitCommaList(cell(row, "courses"))
		courses := make([]models.Course, 0, len(courseNames))
		for _, courseName := range courseNames {
			courses = append(courses, models.Course{
				CourseName: courseName,
				Duration:   "N/A",
				Category:   "Uncategorized",
			})
		}

		contactDetails := map[string]string{}
		if v := cell(row, "email"); v != "" {
			contactDetails["email"] = v
		}
		if v := cell(row, "phone"); v != "" {
			contactDetails["phone"] = v
		}
		if v := cell(row, "website"); v != "" {
			contactDetails["website"] = v
		}

		university := &models.University{
			ID:                  uuid.NewString(),
			Name:                name,
			Location:            location,
			State:               cell(row, "state"),
			Categories:          []string{},
			PhotoGallery:        []string{},
			Description:         description,
			Courses:             courses,
			PlacementPercentage: placement,
			Rating:              rating,
			Tags:                splitCommaList(cell(row, "tags")),
			ContactDetails:      contactDetails,
			CreatedAt:           time.Now().UTC(),
		}

		if _, err := s.universityRepo.Create(ctx, university); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", rowIdx, err.Error()))
			metrics.BulkImportRowsTotal.WithLabelValues("failed").Inc()
			continue
		}

		result.Created = append(result.Created, name)
		metrics.BulkImportRowsTotal.WithLabelValues("created").Inc()
	}

	result.CreatedCount = len(result.Created)
	result.ErrorCount = len(result.Errors)
	result.Message = fmt.Sprintf("Bulk upload complete. %d universities created.", result.CreatedCount)
	log.Info().Int("created", result.CreatedCount).Int("errors", result.ErrorCount).Msg("Bulk university import finished")
	return result, nil
}

func writeApplicationsWorkbook(applications []models.Application) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", applicationSheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerRow := make([]interface{}, len(exportHeaders))
	for i, h := range exportHeaders {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(applicationSheetName, "A1", &headerRow); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"EA580C"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	_ = f.SetCellStyle(applicationSheetName, "A1", lastCol+"1", headerStyle)

	widths := make([]int, len(exportHeaders))
	for i, h := range exportHeaders {
		widths[i] = len(h)
	}
	for i := range applications {
		app := &applications[i]
		row := []interface{}{
			app.Name,
			app.Email,
			app.Phone,
			app.UniversityName,
			app.CourseInterest,
			app.ShortNote,
			app.CreatedAt.Format(exportDateFormat),
			string(app.Status),
		}
		if err := f.SetSheetRow(applicationSheetName, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, fmt.Errorf("failed to write application row: %w", err)
		}
		for j, v := range row {
			if l := len(fmt.Sprint(v)); l > widths[j] {
				widths[j] = l
			}
		}
	}

	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		adjusted := float64(w + 2)
		if adjusted > 50 {
			adjusted = 50
		}
		_ = f.SetColWidth(applicationSheetName, col, col, adjusted)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize applications workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func exportFilename(universityName string) string {
	return strings.ReplaceAll(universityName, " ", "_") + "_applications.xlsx"
}

// ExportApplications writes the actor's visible applications to a
// spreadsheet: every application for admins, the assigned university's for
// managers.
func (s *excelService) ExportApplications(ctx context.Context, actor authz.Actor) (*ExcelFile, error) {
	scope := authz.Scope(actor)
	if err := authz.Can(actor, authz.ActionExportApplications, scope); err != nil {
		return nil, err
	}

	filename := "all_applications.xlsx"
	if scope != "" {
		university, err := s.universityRepo.FindByID(ctx, scope)
		if err == nil {
			filename = exportFilename(university.Name)
		} else if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
	}

	applications, err := s.applicationRepo.Find(ctx, scope)
	if err != nil {
		return nil, err
	}

	content, err := writeApplicationsWorkbook(applications)
	if err != nil {
		return nil, err
	}

	metrics.ExportsGeneratedTotal.Inc()
	log.Info().Int("count", len(applications)).Msg("Applications exported")
	return &ExcelFile{Filename: filename, Content: content}, nil
}

// ExportUniversityApplications exports one university's applications; the
// university must exist and the actor must own it (or be an admin).
func (s *excelService) ExportUniversityApplications(ctx context.Context, actor authz.Actor, universityID string) (*ExcelFile, error) {
	if err := authz.Can(actor, authz.ActionExportApplications, universityID); err != nil {
		return nil, err
	}

	university, err := s.universityRepo.FindByID(ctx, universityID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, xerrors.NotFoundf("university %s", universityID)
		}
		return nil, err
	}

	applications, err := s.applicationRepo.Find(ctx, universityID)
	if err != nil {
		return nil, err
	}

	content, err := writeApplicationsWorkbook(applications)
	if err != nil {
		return nil, err
	}

	metrics.ExportsGeneratedTotal.Inc()
	log.Info().Str("university_id", universityID).Int("count", len(applications)).Msg("University applications exported")
	return &ExcelFile{Filename: exportFilename(university.Name), Content: content}, nil
}
