package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/fitgen/internal/apperr"
	"alcyxob/fitgen/internal/domain"
	"alcyxob/fitgen/internal/planner"
	"alcyxob/fitgen/internal/service"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
	sessionService service.SessionService
}

func NewWorkoutHandler(workoutService service.WorkoutService, sessionService service.SessionService) *WorkoutHandler {
	return &WorkoutHandler{
		workoutService: workoutService,
		sessionService: sessionService,
	}
}

// --- DTOs ---

// CompletedWorkoutResponse is a plan in display form with the completion that listed it.
type CompletedWorkoutResponse struct {
	planner.DisplayPlan
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Rating      *int       `json:"rating,omitempty"`
	Feedback    string     `json:"feedback,omitempty"`
}

type SessionResponse struct {
	ID          string     `json:"id"`
	PlanID      string     `json:"planId"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Feedback    string     `json:"feedback,omitempty"`
	Rating      *int       `json:"rating,omitempty"`
}

func MapSessionToResponse(s *domain.WorkoutSession) SessionResponse {
	return SessionResponse{
		ID:          s.ID.Hex(),
		PlanID:      s.PlanID.Hex(),
		StartedAt:   s.StartedAt,
		CompletedAt: s.CompletedAt,
		Feedback:    s.Feedback,
		Rating:      s.Rating,
	}
}

func planIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, apperr.Validation("invalid workout id", []FieldError{{Field: "id", Rule: "objectid"}}))
		return primitive.NilObjectID, false
	}
	return id, true
}

func writeGenerated(c *gin.Context, res *service.GenerateResult) {
	body := planner.ToDisplay(res.Plan)
	body.Deduped = res.Deduped
	status := http.StatusCreated
	if res.Deduped {
		status = http.StatusOK
	}
	c.JSON(status, body)
}

// --- Handler Methods ---

// Generate handles POST /workouts/generate.
// A repeated canonical request returns the stored plan with 200 and deduped=true.
func (h *WorkoutHandler) Generate(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	var req GenerateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	if req.UserID != "" && req.UserID != uid {
		abortWithError(c, apperr.Forbidden("cannot generate workouts for another user"))
		return
	}

	res, err := h.workoutService.Generate(c.Request.Context(), req.ToDomain(uid))
	if err != nil {
		abortWithError(c, err)
		return
	}
	writeGenerated(c, res)
}

// QuickGenerate handles POST /workouts/quick-generate.
func (h *WorkoutHandler) QuickGenerate(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	res, err := h.workoutService.QuickGenerate(c.Request.Context(), uid)
	if err != nil {
		abortWithError(c, err)
		return
	}
	writeGenerated(c, res)
}

// GetWorkout handles GET /workouts/:id. Only the owner sees the plan.
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	planID, ok := planIDParam(c)
	if !ok {
		return
	}
	plan, err := h.workoutService.GetPlan(c.Request.Context(), uid, planID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, planner.StoredToDisplay(plan))
}

// ListCompleted handles GET /workouts?userId=…; callers may only list their own.
func (h *WorkoutHandler) ListCompleted(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	if q := c.Query("userId"); q != "" && q != uid {
		abortWithError(c, apperr.Forbidden("cannot list another user's workouts"))
		return
	}

	completed, err := h.sessionService.ListCompleted(c.Request.Context(), uid, service.CompletedListLimit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	out := make([]CompletedWorkoutResponse, 0, len(completed))
	for _, w := range completed {
		out = append(out, CompletedWorkoutResponse{
			DisplayPlan: planner.StoredToDisplay(w.Plan),
			CompletedAt: w.Session.CompletedAt,
			Rating:      w.Session.Rating,
			Feedback:    w.Session.Feedback,
		})
	}
	c.JSON(http.StatusOK, out)
}

// StartWorkout handles POST /workouts/:id/start.
func (h *WorkoutHandler) StartWorkout(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	planID, ok := planIDParam(c)
	if !ok {
		return
	}
	session, err := h.sessionService.Start(c.Request.Context(), uid, planID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapSessionToResponse(session))
}

// CompleteWorkout handles POST /workouts/:id/complete. The body is optional.
func (h *WorkoutHandler) CompleteWorkout(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	planID, ok := planIDParam(c)
	if !ok {
		return
	}
	var req CompleteWorkoutRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithBindError(c, err)
			return
		}
	}

	session, err := h.sessionService.Complete(c.Request.Context(), uid, planID, service.CompleteInput{
		Feedback: req.Feedback,
		Rating:   req.Rating,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapSessionToResponse(session))
}

// ListEquipment handles GET /equipment.
func ListEquipment(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"equipment": domain.EquipmentCatalog})
}
