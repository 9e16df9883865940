package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/placement-tracker-api/internal/dto"
	"github.com/noah-isme/placement-tracker-api/internal/models"
	"github.com/noah-isme/placement-tracker-api/pkg/response"
)

type studentService interface {
	Dashboard(ctx context.Context, actor *models.JWTClaims, studentID string) (*dto.StudentDashboardResponse, error)
	AddPlacement(ctx context.Context, actor *models.JWTClaims, studentID string, req dto.PlacementRequest) (*models.Placement, error)
	UpdatePlacement(ctx context.Context, actor *models.JWTClaims, placementID string, req dto.PlacementRequest) (*models.Placement, error)
	DeletePlacement(ctx context.Context, actor *models.JWTClaims, placementID string) error
	UpdateAcademics(ctx context.Context, actor *models.JWTClaims, studentID string, req dto.AcademicUpdateRequest) (*models.AcademicRecord, error)
	UpdateSemester(ctx context.Context, actor *models.JWTClaims, studentID, rawSemester string, req dto.SemesterUpdateRequest) (*dto.SemesterUpdateResponse, error)
}

// StudentHandler serves student pages, placement edits and academic updates.
type StudentHandler struct {
	service studentService
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(svc studentService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// Dashboard godoc
// @Summary Student dashboard
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/dashboard [get]
func (h *StudentHandler) Dashboard(c *gin.Context) {
	resp, err := h.service.Dashboard(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// AddPlacement godoc
// @Summary Add a placement offer
// @Tags Placements
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.PlacementRequest true "Placement"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /students/{id}/placements [post]
func (h *StudentHandler) AddPlacement(c *gin.Context) {
	var req dto.PlacementRequest
	if !bindJSON(c, &req, "invalid placement payload") {
		return
	}
	created, err := h.service.AddPlacement(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// UpdatePlacement godoc
// @Summary Edit a placement offer
// @Tags Placements
// @Accept json
// @Produce json
// @Param id path string true "Placement ID"
// @Param payload body dto.PlacementRequest true "Placement"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /placements/{id} [put]
func (h *StudentHandler) UpdatePlacement(c *gin.Context) {
	var req dto.PlacementRequest
	if !bindJSON(c, &req, "invalid placement payload") {
		return
	}
	updated, err := h.service.UpdatePlacement(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// DeletePlacement godoc
// @Summary Delete a placement offer
// @Tags Placements
// @Param id path string true "Placement ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /placements/{id} [delete]
func (h *StudentHandler) DeletePlacement(c *gin.Context) {
	if err := h.service.DeletePlacement(c.Request.Context(), claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UpdateAcademics godoc
// @Summary Update current semester and semester GPAs
// @Description CGPA is recomputed from semesters before the current one
// @Tags Academics
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.AcademicUpdateRequest true "Academic update"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /students/{id}/academics [put]
func (h *StudentHandler) UpdateAcademics(c *gin.Context) {
	var req dto.AcademicUpdateRequest
	if !bindJSON(c, &req, "invalid academic payload") {
		return
	}
	record, err := h.service.UpdateAcademics(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// UpdateSemester godoc
// @Summary Update one semester GPA
// @Description CGPA is recomputed as the average of all stored semesters
// @Tags Academics
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param sem path int true "Semester number (1-8)"
// @Param payload body dto.SemesterUpdateRequest true "GPA"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students/{id}/semesters/{sem} [put]
func (h *StudentHandler) UpdateSemester(c *gin.Context) {
	var req dto.SemesterUpdateRequest
	if !bindJSON(c, &req, "invalid GPA payload") {
		return
	}
	resp, err := h.service.UpdateSemester(c.Request.Context(), claimsFromContext(c), c.Param("id"), c.Param("sem"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
