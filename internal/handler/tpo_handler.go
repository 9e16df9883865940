package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/placement-tracker-api/internal/dto"
	"github.com/noah-isme/placement-tracker-api/internal/middleware"
	"github.com/noah-isme/placement-tracker-api/internal/models"
	"github.com/noah-isme/placement-tracker-api/internal/placement"
	appErrors "github.com/noah-isme/placement-tracker-api/pkg/errors"
	"github.com/noah-isme/placement-tracker-api/pkg/response"
)

type tpoService interface {
	Dashboard(ctx context.Context, actor *models.JWTClaims, filter dto.TPODashboardFilter) (*dto.TPODashboardResponse, bool, error)
	AssignMentor(ctx context.Context, actor *models.JWTClaims, req dto.AssignMentorRequest) (*models.Student, error)
	BulkAssignMentor(ctx context.Context, actor *models.JWTClaims, req dto.BulkAssignRequest) (*dto.BulkAssignResponse, error)
	Placements(ctx context.Context, actor *models.JWTClaims, opts placement.ListingOptions) (*dto.PlacementListingResponse, *placement.Page, error)
	PlacementExportRows(ctx context.Context, actor *models.JWTClaims, opts placement.ListingOptions) ([]placement.PlacementView, error)
	StudentExportRows(ctx context.Context, actor *models.JWTClaims) ([]placement.StudentView, error)
}

// TPOHandler serves placement office reporting and mentor administration.
type TPOHandler struct {
	service tpoService
	exports exportService
}

// NewTPOHandler constructs the handler.
func NewTPOHandler(svc tpoService, exports exportService) *TPOHandler {
	return &TPOHandler{service: svc, exports: exports}
}

func listingOptions(c *gin.Context) placement.ListingOptions {
	return placement.ListingOptions{
		Status: c.Query("status"),
		Branch: c.Query("branch"),
		Search: c.Query("q"),
		Sort:   c.Query("sort"),
		Page:   c.Query("page"),
	}
}

// Dashboard godoc
// @Summary Placement office dashboard
// @Tags TPO
// @Produce json
// @Param branch query string false "Branch"
// @Param mentor query string false "Mentor ID"
// @Param status query string false "placed, in-progress or not-placed"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /tpo/dashboard [get]
func (h *TPOHandler) Dashboard(c *gin.Context) {
	var filter dto.TPODashboardFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid dashboard filter"))
		return
	}
	resp, hit, err := h.service.Dashboard(c.Request.Context(), claimsFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, resp, nil, middleware.ExtractMeta(c))
}

// AssignMentor godoc
// @Summary Assign or clear a student's mentor
// @Description mentor_id "none" clears the assignment
// @Tags TPO
// @Accept json
// @Produce json
// @Param payload body dto.AssignMentorRequest true "Assignment"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tpo/assign [post]
func (h *TPOHandler) AssignMentor(c *gin.Context) {
	var req dto.AssignMentorRequest
	if !bindJSON(c, &req, "invalid assignment payload") {
		return
	}
	student, err := h.service.AssignMentor(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// BulkAssignMentor godoc
// @Summary Assign one mentor to many students
// @Tags TPO
// @Accept json
// @Produce json
// @Param payload body dto.BulkAssignRequest true "Bulk assignment"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tpo/bulk-assign [post]
func (h *TPOHandler) BulkAssignMentor(c *gin.Context) {
	var req dto.BulkAssignRequest
	if !bindJSON(c, &req, "invalid bulk assignment payload") {
		return
	}
	resp, err := h.service.BulkAssignMentor(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Placements godoc
// @Summary Placement listing
// @Tags TPO
// @Produce json
// @Param status query string false "Pending, Accepted or Rejected"
// @Param branch query string false "Branch"
// @Param q query string false "Search student, company or position"
// @Param sort query string false "date_desc, date_asc, package_desc, package_asc, company_asc or company_desc"
// @Param page query int false "Page number"
// @Success 200 {object} response.Envelope
// @Router /tpo/placements [get]
func (h *TPOHandler) Placements(c *gin.Context) {
	resp, page, err := h.service.Placements(c.Request.Context(), claimsFromContext(c), listingOptions(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, toPagination(page))
}

// ExportStudents godoc
// @Summary Export all students
// @Tags TPO
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /tpo/students/export [get]
func (h *TPOHandler) ExportStudents(c *gin.Context) {
	rows, err := h.service.StudentExportRows(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.Students(rows, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// ExportPlacements godoc
// @Summary Export the filtered placement listing
// @Tags TPO
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /tpo/placements/export [get]
func (h *TPOHandler) ExportPlacements(c *gin.Context) {
	rows, err := h.service.PlacementExportRows(c.Request.Context(), claimsFromContext(c), listingOptions(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.Placements(rows, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
