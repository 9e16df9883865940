package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/placement-tracker-api/internal/dto"
	"github.com/noah-isme/placement-tracker-api/internal/models"
	"github.com/noah-isme/placement-tracker-api/internal/placement"
	"github.com/noah-isme/placement-tracker-api/pkg/response"
)

type mentorService interface {
	Dashboard(ctx context.Context, actor *models.JWTClaims, opts placement.CohortOptions) (*dto.MentorDashboardResponse, *placement.Page, error)
	ExportRows(ctx context.Context, actor *models.JWTClaims, opts placement.CohortOptions) ([]placement.StudentView, error)
}

type exportService interface {
	MentorStudents(views []placement.StudentView, format string) (*dto.ExportFile, error)
	Students(views []placement.StudentView, format string) (*dto.ExportFile, error)
	Placements(views []placement.PlacementView, format string) (*dto.ExportFile, error)
}

// MentorHandler serves the mentor cohort dashboard and its export.
type MentorHandler struct {
	service mentorService
	exports exportService
}

// NewMentorHandler constructs the handler.
func NewMentorHandler(svc mentorService, exports exportService) *MentorHandler {
	return &MentorHandler{service: svc, exports: exports}
}

func cohortOptions(c *gin.Context) placement.CohortOptions {
	return placement.CohortOptions{
		Search: c.Query("q"),
		Status: c.Query("status"),
		GPA:    c.Query("gpa"),
		Sort:   c.Query("sort"),
		Page:   c.Query("page"),
	}
}

// Dashboard godoc
// @Summary Mentor cohort dashboard
// @Tags Mentor
// @Produce json
// @Param q query string false "Search by name or email"
// @Param status query string false "all, placed, in-progress or not-placed"
// @Param gpa query string false "all, high, medium or low"
// @Param sort query string false "name_asc, cgpa_asc, cgpa_desc, package_asc or package_desc"
// @Param page query int false "Page number"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /mentor/dashboard [get]
func (h *MentorHandler) Dashboard(c *gin.Context) {
	resp, page, err := h.service.Dashboard(c.Request.Context(), claimsFromContext(c), cohortOptions(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, toPagination(page))
}

// Export godoc
// @Summary Export the filtered cohort
// @Tags Mentor
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /mentor/export [get]
func (h *MentorHandler) Export(c *gin.Context) {
	rows, err := h.service.ExportRows(c.Request.Context(), claimsFromContext(c), cohortOptions(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.MentorStudents(rows, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
