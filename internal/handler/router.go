package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/placement-tracker-api/internal/middleware"
	"github.com/noah-isme/placement-tracker-api/internal/models"
)

// Handlers groups every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Auth      *AuthHandler
	Student   *StudentHandler
	Mentor    *MentorHandler
	TPO       *TPOHandler
	Assistant *AssistantHandler
	Metrics   *MetricsHandler
}

// RegisterRoutes mounts ops endpoints at the root and the API under prefix.
// Role gates here are coarse; per-record decisions are made by the services.
func RegisterRoutes(r *gin.Engine, prefix string, tokens middleware.TokenValidator, h Handlers) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)
	api.Use(middleware.WithResponseMeta())

	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/login", h.Auth.Login)
		auth.GET("/me", middleware.JWT(tokens), h.Auth.Me)
	}

	secured := api.Group("")
	secured.Use(middleware.JWT(tokens))

	students := secured.Group("/students/:id")
	{
		students.GET("/dashboard", middleware.RequireRoles(models.RoleStudent, models.RoleMentor), h.Student.Dashboard)
		students.POST("/placements", middleware.RequireRoles(models.RoleStudent), h.Student.AddPlacement)
		students.PUT("/academics", middleware.RequireRoles(models.RoleStudent, models.RoleMentor, models.RoleTPO), h.Student.UpdateAcademics)
		students.PUT("/semesters/:sem", middleware.RequireRoles(models.RoleStudent, models.RoleMentor, models.RoleTPO), h.Student.UpdateSemester)
		students.POST("/assistant", middleware.RequireRoles(models.RoleStudent), h.Assistant.AskStudent)
	}

	placements := secured.Group("/placements", middleware.RequireRoles(models.RoleStudent))
	{
		placements.PUT("/:id", h.Student.UpdatePlacement)
		placements.DELETE("/:id", h.Student.DeletePlacement)
	}

	mentor := secured.Group("/mentor", middleware.RequireRoles(models.RoleMentor))
	{
		mentor.GET("/dashboard", h.Mentor.Dashboard)
		mentor.GET("/export", h.Mentor.Export)
	}

	tpo := secured.Group("/tpo", middleware.RequireRoles(models.RoleTPO))
	{
		tpo.GET("/dashboard", h.TPO.Dashboard)
		tpo.POST("/assign", h.TPO.AssignMentor)
		tpo.POST("/bulk-assign", h.TPO.BulkAssignMentor)
		tpo.GET("/students/export", h.TPO.ExportStudents)
		tpo.GET("/placements", h.TPO.Placements)
		tpo.GET("/placements/export", h.TPO.ExportPlacements)
		tpo.POST("/assistant", h.Assistant.AskTPO)
	}
}
