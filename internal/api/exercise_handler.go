package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devinpereira/Flexin/internal/domain"
	"github.com/devinpereira/Flexin/internal/service"
)

// ExerciseHandler holds the catalog service dependency.
type ExerciseHandler struct {
	catalogService service.CatalogService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(catalogService service.CatalogService) *ExerciseHandler {
	return &ExerciseHandler{catalogService: catalogService}
}

// ExerciseResponse is the DTO for returning catalog entries.
type ExerciseResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	BodyPart   string `json:"body_part"`
	Difficulty string `json:"difficulty"`
}

// MapExerciseToResponse converts a domain.CatalogEntry to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.CatalogEntry) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:         ex.ID,
		Name:       ex.Name,
		BodyPart:   ex.BodyPart,
		Difficulty: ex.Difficulty,
	}
}

// MapExercisesToResponse converts a slice of domain.CatalogEntry to a slice of ExerciseResponse DTO.
func MapExercisesToResponse(entries []domain.CatalogEntry) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(entries))
	for i := range entries {
		responses[i] = MapExerciseToResponse(&entries[i])
	}
	return responses
}

// ListExercises returns the catalog in the order the engine matches it.
// GET /api/v1/exercises
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	entries := h.catalogService.ListExercises(c.Request.Context())
	c.JSON(http.StatusOK, MapExercisesToResponse(entries))
}

// GetExercise returns a single catalog entry.
// GET /api/v1/exercises/:id
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	entry, err := h.catalogService.GetExercise(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercise.")
		}
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(entry))
}

// ReloadCatalog swaps in the catalog currently stored in the database.
// POST /api/v1/admin/catalog/reload
func (h *ExerciseHandler) ReloadCatalog(c *gin.Context) {
	if err := h.catalogService.Reload(c.Request.Context()); err != nil {
		if errors.Is(err, service.ErrCatalogReadOnly) {
			abortWithError(c, http.StatusConflict, "Catalog is not backed by the database.")
			return
		}
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "Failed to reload catalog.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": len(h.catalogService.ListExercises(c.Request.Context()))})
}
