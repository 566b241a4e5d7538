package api

import (
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// WorkoutHandler serves the authenticated caller's own workout record.
type WorkoutHandler struct {
	workoutService service.WorkoutRecordService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutRecordService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

// ExerciseRequest is one exercise in a workout payload.
type ExerciseRequest struct {
	Name              string   `json:"name" binding:"required"`
	Weight            *float64 `json:"weight" binding:"omitempty,gte=0"`
	NumberSets        *int     `json:"numberSets" binding:"omitempty,gte=0"`
	NumberReps        *int     `json:"numberReps" binding:"omitempty,gte=0"`
	RestTimeInSeconds *int     `json:"restTimeInSeconds" binding:"omitempty,gte=0"`
}

// WorkoutRequest is the body of POST /workouts and PUT /workouts/{name}.
type WorkoutRequest struct {
	WorkoutName string            `json:"workoutName" binding:"required"`
	Exercises   []ExerciseRequest `json:"exercises" binding:"omitempty,dive"`
}

func (r WorkoutRequest) toDomain() domain.Workout {
	w := domain.Workout{WorkoutName: r.WorkoutName, Exercises: make([]domain.Exercise, len(r.Exercises))}
	for i, ex := range r.Exercises {
		w.Exercises[i] = domain.Exercise{
			Name:              ex.Name,
			Weight:            ex.Weight,
			NumberSets:        ex.NumberSets,
			NumberReps:        ex.NumberReps,
			RestTimeInSeconds: ex.RestTimeInSeconds,
		}
	}
	return w
}

// RecordResponse is the caller's full record.
type RecordResponse struct {
	UserID   string           `json:"userId"`
	Workouts []domain.Workout `json:"workouts"`
}

// MapRecordToResponse converts a record, always rendering empty slices as [].
func MapRecordToResponse(rec *domain.UserWorkoutRecord) RecordResponse {
	if rec == nil {
		return RecordResponse{Workouts: []domain.Workout{}}
	}
	resp := RecordResponse{UserID: rec.UserID, Workouts: make([]domain.Workout, len(rec.Workouts))}
	for i, w := range rec.Workouts {
		if w.Exercises == nil {
			w.Exercises = []domain.Exercise{}
		}
		resp.Workouts[i] = w
	}
	return resp
}

// --- Handler Methods ---

// GetRecord godoc
// @Summary Get my workouts
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} RecordResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "No record provisioned for this user"
// @Router /workouts [get]
func (h *WorkoutHandler) GetRecord(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}

	rec, err := h.workoutService.GetUserRecord(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapRecordToResponse(rec))
}

// AddWorkout godoc
// @Summary Add a workout
// @Description Appends a workout. Names are trimmed and unique per user, ignoring case.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body WorkoutRequest true "Workout"
// @Success 201 {object} RecordResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "A workout with this name exists"
// @Router /workouts [post]
func (h *WorkoutHandler) AddWorkout(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}

	var req WorkoutRequest
	if err := bindJSON(c, &req); err != nil {
		respondServiceError(c, err)
		return
	}

	rec, err := h.workoutService.AddWorkout(c.Request.Context(), userID, req.toDomain())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapRecordToResponse(rec))
}

// UpdateWorkout godoc
// @Summary Replace a workout
// @Description The path name must equal the body's workoutName.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workoutName path string true "Workout name"
// @Param workout body WorkoutRequest true "Workout"
// @Success 200 {object} RecordResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /workouts/{workoutName} [put]
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}

	var req WorkoutRequest
	if err := bindJSON(c, &req); err != nil {
		respondServiceError(c, err)
		return
	}

	rec, err := h.workoutService.UpdateWorkout(c.Request.Context(), userID, workoutNameParam(c), req.toDomain())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapRecordToResponse(rec))
}

// DeleteWorkout godoc
// @Summary Delete a workout
// @Description Removes every workout with exactly this (trimmed) name. Deleting a missing workout succeeds.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param workoutName path string true "Workout name"
// @Success 200 {object} RecordResponse
// @Failure 404 {object} ErrorResponse
// @Router /workouts/{workoutName} [delete]
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}

	rec, err := h.workoutService.DeleteWorkout(c.Request.Context(), userID, workoutNameParam(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapRecordToResponse(rec))
}

// workoutNameParam returns the decoded workout name from the catch-all route
// segment, which gin reports with its leading slash.
func workoutNameParam(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("workoutName"), "/")
}

func (h *WorkoutHandler) caller(c *gin.Context) (string, bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, ErrCodeUnauthorized, "Unable to identify user from token")
		return "", false
	}
	return userID, true
}
