package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/lingua_app/internal/core/ports/services"
	"github.com/SscSPs/lingua_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// completedExerciseHandler only ever touches the caller's own records.
type completedExerciseHandler struct {
	completedService portssvc.CompletedExerciseSvcFacade
}

func newCompletedExerciseHandler(cs portssvc.CompletedExerciseSvcFacade) *completedExerciseHandler {
	return &completedExerciseHandler{completedService: cs}
}

func registerCompletedExerciseRoutes(rg *gin.RouterGroup, h *completedExerciseHandler) {
	completed := rg.Group("/completed-exercises")
	{
		completed.GET("", h.listCompleted)
		completed.GET("/get-completed", h.getLatest)
		completed.POST("", h.createCompleted)
		completed.DELETE("/:id", h.deleteCompleted)
	}
}

// listCompleted godoc
// @Summary List your completed exercises
// @Description Newest first. Pass the returned nextToken to fetch the following page.
// @Tags completed-exercises
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListCompletedExercisesResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /completed-exercises [get]
func (h *completedExerciseHandler) listCompleted(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var params dto.ListCompletedExercisesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondWithBindError(c, err)
		return
	}
	resp, err := h.completedService.ListCompletedExercises(c.Request.Context(), userID, params)
	if err != nil {
		respondWithError(c, err, "list completed exercises")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getLatest godoc
// @Summary Get your most recent completed exercise
// @Tags completed-exercises
// @Produce json
// @Success 200 {object} dto.CompletedExerciseResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /completed-exercises/get-completed [get]
func (h *completedExerciseHandler) getLatest(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	latest, err := h.completedService.GetLatestCompletedExercise(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err, "get latest completed exercise")
		return
	}
	c.JSON(http.StatusOK, dto.CompletedExerciseResponse{CompletedExercise: *latest})
}

// createCompleted godoc
// @Summary Record a completed exercise
// @Tags completed-exercises
// @Accept json
// @Produce json
// @Param body body dto.CreateCompletedExerciseRequest true "Completion"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /completed-exercises [post]
func (h *completedExerciseHandler) createCompleted(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreateCompletedExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}
	completed, err := h.completedService.CreateCompletedExercise(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, err, "record completed exercise")
		return
	}
	c.JSON(http.StatusCreated, dto.CreatedResponse{OK: true, Message: "Completed entry inserted", ID: completed.CompletedExerciseID})
}

// deleteCompleted godoc
// @Summary Delete one of your completed exercises
// @Tags completed-exercises
// @Produce json
// @Param id path int true "Completed exercise ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} ErrorResponse "Not found or not yours"
// @Security BearerAuth
// @Router /completed-exercises/{id} [delete]
func (h *completedExerciseHandler) deleteCompleted(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.completedService.DeleteCompletedExercise(c.Request.Context(), userID, id); err != nil {
		respondWithError(c, err, "delete completed exercise")
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{OK: true, Message: "Completed exercise successfully deleted"})
}
