package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/placement-tracker-api/internal/middleware"
	"github.com/noah-isme/placement-tracker-api/internal/models"
	"github.com/noah-isme/placement-tracker-api/internal/placement"
	appErrors "github.com/noah-isme/placement-tracker-api/pkg/errors"
	"github.com/noah-isme/placement-tracker-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.Claims(c)
}

func toPagination(page *placement.Page) *models.Pagination {
	if page == nil {
		return nil
	}
	return &models.Pagination{
		Page:       page.Number,
		PageSize:   page.Size,
		TotalCount: page.TotalItems,
		TotalPages: page.TotalPages,
	}
}

// bindJSON decodes the body and reports a validation error when it is malformed.
func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}
