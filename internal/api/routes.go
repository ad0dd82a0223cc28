package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devinpereira/Flexin/internal/domain"
	"github.com/devinpereira/Flexin/internal/engine"
	"github.com/devinpereira/Flexin/internal/logger"
	"github.com/devinpereira/Flexin/internal/service"
	"github.com/devinpereira/Flexin/internal/storage"
)

// RouteDeps groups everything SetupRoutes wires into handlers.
type RouteDeps struct {
	JWTSecret          string
	Vocabulary         engine.Vocabulary
	VocabularyStore    storage.FileStorage // optional
	VocabularyKey      string
	ScheduleService    service.ScheduleService
	ProfileService     service.ProfileService
	CatalogService     service.CatalogService
	DiagnosticsService service.DiagnosticsService
	Regenerator        Regenerator // defaults to ScheduleService
	Log                *logger.Logger
}

func SetupRoutes(router *gin.Engine, deps RouteDeps) {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Regenerator == nil {
		deps.Regenerator = deps.ScheduleService
	}

	scheduleHandler := NewScheduleHandler(deps.ScheduleService)
	profileHandler := NewProfileHandler(deps.ProfileService)
	exerciseHandler := NewExerciseHandler(deps.CatalogService)
	vocabularyHandler := NewVocabularyHandler(deps.Vocabulary, deps.VocabularyStore, deps.VocabularyKey)
	adminHandler := NewAdminHandler(deps.Regenerator, deps.DiagnosticsService)

	router.Use(RequestIDMiddleware(), RequestLogger(deps.Log))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/vocabulary", vocabularyHandler.GetVocabulary)
		apiV1.GET("/vocabulary/artifact", vocabularyHandler.GetVocabularyArtifact)
		apiV1.GET("/exercises", exerciseHandler.ListExercises)
		apiV1.GET("/exercises/:id", exerciseHandler.GetExercise)
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(deps.JWTSecret))
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userID, "role": role})
		})

		scheduleGroup := protected.Group("/schedules")
		{
			scheduleGroup.POST("", scheduleHandler.GenerateSchedule)
			scheduleGroup.GET("/latest", scheduleHandler.GetLatestSchedule)
		}

		protected.GET("/profile", profileHandler.GetProfile)
		protected.PUT("/profile", profileHandler.PutProfile)

		adminGroup := protected.Group("/admin")
		adminGroup.Use(RoleMiddleware(domain.RoleAdmin))
		{
			adminGroup.POST("/schedules/regenerate", adminHandler.RegenerateSchedules)
			adminGroup.GET("/diagnostics", adminHandler.ListDiagnostics)
			adminGroup.POST("/catalog/reload", exerciseHandler.ReloadCatalog)
		}
	}
}
