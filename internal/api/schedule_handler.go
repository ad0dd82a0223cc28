package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/devinpereira/Flexin/internal/domain"
	"github.com/devinpereira/Flexin/internal/service"
)

// ScheduleHandler holds the schedule service dependency.
type ScheduleHandler struct {
	scheduleService service.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleService service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// --- DTOs ---

// ProfileRequest is the profile a schedule is generated from.
type ProfileRequest struct {
	Goal        string   `json:"goal" binding:"required,oneof=weight_loss fat_loss muscle_gain endurance flexibility weight_maintenance"`
	Experience  string   `json:"experience" binding:"required,oneof=beginner intermediate advanced"`
	Age         int      `json:"age" binding:"min=0,max=120"`
	DaysPerWeek int      `json:"days_per_week" binding:"required,min=1,max=7"`
	Equipment   []string `json:"equipment" binding:"omitempty,dive,required"`
}

// ToDomain converts the request into a domain.UserProfile.
func (r ProfileRequest) ToDomain() domain.UserProfile {
	return domain.UserProfile{
		Goal:        domain.Goal(r.Goal),
		Experience:  domain.Experience(r.Experience),
		Age:         r.Age,
		DaysPerWeek: r.DaysPerWeek,
		Equipment:   r.Equipment,
	}
}

// ScheduleResponse is the DTO for a generated weekly schedule.
type ScheduleResponse struct {
	RequestID         string                `json:"requestId"`
	VocabularyVersion string                `json:"vocabularyVersion"`
	Strategy          string                `json:"strategy"`
	GeneratedAt       time.Time             `json:"generatedAt"`
	Schedule          domain.WeeklySchedule `json:"schedule"`
}

// MapScheduleToResponse converts a domain.ScheduleRecord to ScheduleResponse DTO.
func MapScheduleToResponse(rec *domain.ScheduleRecord) ScheduleResponse {
	if rec == nil {
		return ScheduleResponse{Schedule: domain.WeeklySchedule{}}
	}
	schedule := rec.Schedule
	if schedule == nil {
		schedule = domain.WeeklySchedule{}
	}
	return ScheduleResponse{
		RequestID:         rec.RequestID,
		VocabularyVersion: rec.VocabularyVersion,
		Strategy:          rec.Strategy,
		GeneratedAt:       rec.CreatedAt,
		Schedule:          schedule,
	}
}

// --- Handler Methods ---

// GenerateSchedule builds a weekly schedule from the posted profile and stores it.
// POST /api/v1/schedules
func (h *ScheduleHandler) GenerateSchedule(c *gin.Context) {
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

	record, err := h.scheduleService.GenerateSchedule(c.Request.Context(), userID, req.ToDomain())
	if err != nil {
		if errors.Is(err, service.ErrInvalidProfile) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			_ = c.Error(err)
			abortWithError(c, http.StatusInternalServerError, "Failed to generate schedule.")
		}
		return
	}

	c.JSON(http.StatusOK, MapScheduleToResponse(record))
}

// GetLatestSchedule returns the most recent schedule of the authenticated user.
// GET /api/v1/schedules/latest
func (h *ScheduleHandler) GetLatestSchedule(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	record, err := h.scheduleService.GetLatestSchedule(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrScheduleNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			_ = c.Error(err)
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve schedule.")
		}
		return
	}

	c.JSON(http.StatusOK, MapScheduleToResponse(record))
}

// bindProfileRequest decodes the body, lower-cases the enum fields and then validates, so
// "Muscle_Gain" is accepted like "muscle_gain".
func bindProfileRequest(c *gin.Context) (ProfileRequest, error) {
	var req ProfileRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		return req, err
	}
	req.Goal = strings.ToLower(strings.TrimSpace(req.Goal))
	req.Experience = strings.ToLower(strings.TrimSpace(req.Experience))
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		return req, err
	}
	return req, nil
}
