package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/placement-tracker-api/internal/models"
	appErrors "github.com/noah-isme/placement-tracker-api/pkg/errors"
)

type decoded struct {
	Data       map[string]interface{} `json:"data"`
	Error      *appErrors.Error       `json:"error"`
	Pagination *models.Pagination     `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
}

func recorder() (*httptest.ResponseRecorder, *gin.Context) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return rec, c
}

func TestJSONWithPagination(t *testing.T) {
	rec, c := recorder()
	JSON(c, http.StatusOK, map[string]string{"name": "Ana"}, &models.Pagination{Page: 2, PageSize: 12, TotalCount: 20, TotalPages: 2})

	var body decoded
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Ana", body.Data["name"])
	assert.Equal(t, 2, body.Pagination.Page)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestErrorForbiddenCarriesRedirect(t *testing.T) {
	rec, c := recorder()
	Error(c, appErrors.Clone(appErrors.ErrForbidden, "nope"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	var body decoded
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
	assert.Equal(t, "/", body.Meta["redirect"])
}

func TestErrorUnknownIsInternal(t *testing.T) {
	rec, c := recorder()
	Error(c, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body decoded
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Nil(t, body.Meta)
	assert.Equal(t, "internal server error", body.Error.Message)
}

func TestAttachment(t *testing.T) {
	rec, c := recorder()
	Attachment(c, "students.csv", "text/csv", []byte("Name\n"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="students.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Name\n", rec.Body.String())
}
