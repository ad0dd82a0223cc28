package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devinpereira/Flexin/internal/domain"
	"github.com/devinpereira/Flexin/internal/service"
)

// ProfileHandler serves the stored training profile of the authenticated user.
type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

type ProfileResponse struct {
	UserID    string             `json:"userId"`
	Profile   domain.UserProfile `json:"profile"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func MapProfileToResponse(p *domain.StoredProfile) ProfileResponse {
	if p == nil {
		return ProfileResponse{}
	}
	return ProfileResponse{
		UserID:    p.UserID,
		Profile:   p.Profile,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// PutProfile saves the profile used by the weekly regeneration job.
// PUT /api/v1/profile
func (h *ProfileHandler) PutProfile(c *gin.Context) {
	req, err := bindProfileRequest(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	stored, err := h.profileService.SaveProfile(c.Request.Context(), userID, req.ToDomain())
	if err != nil {
		if errors.Is(err, service.ErrInvalidProfile) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			_ = c.Error(err)
			abortWithError(c, http.StatusInternalServerError, "Failed to save profile.")
		}
		return
	}
	c.JSON(http.StatusOK, MapProfileToResponse(stored))
}

// GetProfile returns the saved profile.
// GET /api/v1/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	stored, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			_ = c.Error(err)
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve profile.")
		}
		return
	}
	c.JSON(http.StatusOK, MapProfileToResponse(stored))
}
