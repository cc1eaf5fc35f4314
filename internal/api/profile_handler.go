package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/fitgen/internal/apperr"
	"alcyxob/fitgen/internal/service"
)

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (r ProfileRequest) toInput() service.ProfileInput {
	in := service.ProfileInput{
		Experience:           r.Experience,
		Constraints:          sanitizeConstraints(r.Constraints),
		PreferredDurationMin: r.PreferredDurationMin,
	}
	// nil leaves the stored list untouched on update.
	if r.Goals != nil {
		in.Goals = sanitizeList(r.Goals)
	}
	if r.Equipment != nil {
		in.Equipment = sanitizeList(r.Equipment)
	}
	return in
}

// GetProfile handles GET /profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	p, err := h.profileService.Get(c.Request.Context(), uid)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// CreateProfile handles POST /profile.
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	p, err := h.profileService.Create(c.Request.Context(), uid, req.toInput())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// UpdateProfile handles PATCH /profile/:id.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	profileID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, apperr.Validation("invalid profile id", []FieldError{{Field: "id", Rule: "objectid"}}))
		return
	}
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	p, err := h.profileService.Update(c.Request.Context(), uid, profileID, req.toInput())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
