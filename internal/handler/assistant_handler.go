package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/placement-tracker-api/internal/dto"
	"github.com/noah-isme/placement-tracker-api/internal/models"
	"github.com/noah-isme/placement-tracker-api/pkg/response"
)

type assistantService interface {
	AskTPO(ctx context.Context, actor *models.JWTClaims, req dto.AssistantRequest) (*dto.AssistantResponse, error)
	AskStudent(ctx context.Context, actor *models.JWTClaims, studentID string, req dto.AssistantRequest) (*dto.AssistantResponse, error)
}

// AssistantHandler exposes the question answering endpoints.
type AssistantHandler struct {
	service assistantService
}

// NewAssistantHandler constructs the handler.
func NewAssistantHandler(svc assistantService) *AssistantHandler {
	return &AssistantHandler{service: svc}
}

// AskTPO godoc
// @Summary Ask about institution placement data
// @Tags Assistant
// @Accept json
// @Produce json
// @Param payload body dto.AssistantRequest true "Question"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /tpo/assistant [post]
func (h *AssistantHandler) AskTPO(c *gin.Context) {
	var req dto.AssistantRequest
	if !bindJSON(c, &req, "invalid question payload") {
		return
	}
	resp, err := h.service.AskTPO(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// AskStudent godoc
// @Summary Ask about your own record
// @Tags Assistant
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.AssistantRequest true "Question"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /students/{id}/assistant [post]
func (h *AssistantHandler) AskStudent(c *gin.Context) {
	var req dto.AssistantRequest
	if !bindJSON(c, &req, "invalid question payload") {
		return
	}
	resp, err := h.service.AskStudent(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
