package handlers

import (
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/lingua_app/internal/core/ports/services"
	"github.com/SscSPs/lingua_app/internal/dto"
	"github.com/gin-gonic/gin"
)

type exerciseHandler struct {
	exerciseService    portssvc.ExerciseSvcFacade
	subExerciseService portssvc.SubExerciseSvcFacade
}

func newExerciseHandler(es portssvc.ExerciseSvcFacade, ses portssvc.SubExerciseSvcFacade) *exerciseHandler {
	return &exerciseHandler{exerciseService: es, subExerciseService: ses}
}

func registerExerciseRoutes(rg *gin.RouterGroup, h *exerciseHandler) {
	exercises := rg.Group("/exercises")
	{
		exercises.GET("", h.listExercises)
		exercises.POST("", h.createExercise)
		exercises.GET("/:id", h.getExercise)
		exercises.DELETE("/:id", h.deleteExercise)
	}

	subExercises := rg.Group("/sub-exercises")
	{
		subExercises.GET("", h.listSubExercises)
		subExercises.GET("/exercise-id/:id", h.listSubExercisesByExercise)
		subExercises.GET("/:id", h.getSubExercise)
	}
}

// parseIDParam reads a positive numeric path parameter, answering 400 otherwise.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{OK: false, Message: "Invalid " + name})
		return 0, false
	}
	return id, true
}

// listExercises godoc
// @Summary List exercises
// @Tags exercises
// @Produce json
// @Success 200 {object} dto.ListExercisesResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /exercises [get]
func (h *exerciseHandler) listExercises(c *gin.Context) {
	exercises, err := h.exerciseService.ListExercises(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "list exercises")
		return
	}
	c.JSON(http.StatusOK, dto.ListExercisesResponse{Exercises: exercises})
}

// getExercise godoc
// @Summary Get an exercise
// @Tags exercises
// @Produce json
// @Param id path int true "Exercise ID"
// @Success 200 {object} dto.ExerciseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /exercises/{id} [get]
func (h *exerciseHandler) getExercise(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	exercise, err := h.exerciseService.GetExercise(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err, "get exercise")
		return
	}
	c.JSON(http.StatusOK, dto.ExerciseResponse{Exercise: *exercise})
}

// createExercise godoc
// @Summary Create an exercise
// @Tags exercises
// @Accept json
// @Produce json
// @Param exercise body dto.CreateExerciseRequest true "Exercise"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /exercises [post]
func (h *exerciseHandler) createExercise(c *gin.Context) {
	var req dto.CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}
	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err, "create exercise")
		return
	}
	c.JSON(http.StatusCreated, dto.CreatedResponse{OK: true, Message: "Exercise created", ID: exercise.ExerciseID})
}

// deleteExercise godoc
// @Summary Delete an exercise
// @Description Also removes its sub-exercises and every completion recorded for them.
// @Tags exercises
// @Produce json
// @Param id path int true "Exercise ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /exercises/{id} [delete]
func (h *exerciseHandler) deleteExercise(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.exerciseService.DeleteExercise(c.Request.Context(), id); err != nil {
		respondWithError(c, err, "delete exercise")
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{OK: true, Message: "Successfully deleted exercise"})
}

// listSubExercises godoc
// @Summary List sub-exercises
// @Tags sub-exercises
// @Produce json
// @Success 200 {object} dto.ListSubExercisesResponse
// @Security BearerAuth
// @Router /sub-exercises [get]
func (h *exerciseHandler) listSubExercises(c *gin.Context) {
	subs, err := h.subExerciseService.ListSubExercises(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "list sub-exercises")
		return
	}
	c.JSON(http.StatusOK, dto.ListSubExercisesResponse{SubExercises: subs})
}

// getSubExercise godoc
// @Summary Get a sub-exercise
// @Tags sub-exercises
// @Produce json
// @Param id path int true "Sub-exercise ID"
// @Success 200 {object} dto.SubExerciseResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /sub-exercises/{id} [get]
func (h *exerciseHandler) getSubExercise(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	sub, err := h.subExerciseService.GetSubExercise(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err, "get sub-exercise")
		return
	}
	c.JSON(http.StatusOK, dto.SubExerciseResponse{SubExercise: *sub})
}

// listSubExercisesByExercise godoc
// @Summary List the sub-exercises of an exercise
// @Tags sub-exercises
// @Produce json
// @Param id path int true "Exercise ID"
// @Success 200 {object} dto.ListSubExercisesResponse
// @Failure 404 {object} ErrorResponse "No sub-exercises found for this exercise"
// @Security BearerAuth
// @Router /sub-exercises/exercise-id/{id} [get]
func (h *exerciseHandler) listSubExercisesByExercise(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	subs, err := h.subExerciseService.ListSubExercisesByExercise(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err, "list sub-exercises by exercise")
		return
	}
	c.JSON(http.StatusOK, dto.ListSubExercisesResponse{SubExercises: subs})
}
