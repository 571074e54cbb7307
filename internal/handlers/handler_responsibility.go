package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khalidalhothifi/expense-manager/internal/apperrors"
	portssvc "github.com/khalidalhothifi/expense-manager/internal/core/ports/services"
	"github.com/khalidalhothifi/expense-manager/internal/dto"
	"github.com/khalidalhothifi/expense-manager/internal/middleware"
)

// responsibilityHandler handles HTTP requests for budget envelopes.
type responsibilityHandler struct {
	respService portssvc.ResponsibilitySvcFacade
}

func newResponsibilityHandler(rs portssvc.ResponsibilitySvcFacade) *responsibilityHandler {
	return &responsibilityHandler{respService: rs}
}

// registerResponsibilityRoutes registers all responsibility-related routes.
func registerResponsibilityRoutes(rg *gin.RouterGroup, respService portssvc.ResponsibilitySvcFacade) {
	h := newResponsibilityHandler(respService)

	resps := rg.Group("/responsibilities")
	{
		resps.GET("", h.listResponsibilities)
		resps.GET("/:id", h.getResponsibility)
		resps.POST("", h.createResponsibility)
		resps.PUT("/:id", h.updateResponsibility)
		resps.DELETE("/:id", h.deleteResponsibility)
		resps.POST("/reallocate", h.reallocateBudget)
	}
}

// listResponsibilities godoc
// @Summary List budget envelopes
// @Tags responsibilities
// @Produce json
// @Success 200 {array} dto.ResponsibilityResponse
// @Security BearerAuth
// @Router /responsibilities [get]
func (h *responsibilityHandler) listResponsibilities(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	resps, err := h.respService.ListResponsibilities(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list responsibilities", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list responsibilities"})
		return
	}
	c.JSON(http.StatusOK, dto.ToListResponsibilityResponse(resps))
}

// getResponsibility godoc
// @Summary Get a budget envelope by ID
// @Tags responsibilities
// @Produce json
// @Param id path string true "Responsibility ID"
// @Success 200 {object} dto.ResponsibilityResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /responsibilities/{id} [get]
func (h *responsibilityHandler) getResponsibility(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	resp, err := h.respService.GetResponsibilityByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Responsibility not found"})
			return
		}
		logger.Error("Failed to get responsibility", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve responsibility"})
		return
	}
	c.JSON(http.StatusOK, dto.ToResponsibilityResponse(resp))
}

// createResponsibility godoc
// @Summary Create a budget envelope
// @Tags responsibilities
// @Accept json
// @Produce json
// @Param responsibility body dto.CreateResponsibilityRequest true "Envelope details"
// @Success 201 {object} dto.ResponsibilityResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /responsibilities [post]
func (h *responsibilityHandler) createResponsibility(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateResponsibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.respService.CreateResponsibility(c.Request.Context(), req, creatorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Creator not found"})
		default:
			logger.Error("Failed to create responsibility", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create responsibility"})
		}
		return
	}
	c.JSON(http.StatusCreated, dto.ToResponsibilityResponse(resp))
}

// updateResponsibility godoc
// @Summary Update a budget envelope
// @Description Applies field changes and appends one history line.
// @Tags responsibilities
// @Accept json
// @Produce json
// @Param id path string true "Responsibility ID"
// @Param responsibility body dto.UpdateResponsibilityRequest true "Fields to update"
// @Success 200 {object} dto.ResponsibilityResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /responsibilities/{id} [put]
func (h *responsibilityHandler) updateResponsibility(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateResponsibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	editorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.respService.UpdateResponsibility(c.Request.Context(), c.Param("id"), req, editorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Responsibility not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to update responsibility", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update responsibility"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToResponsibilityResponse(resp))
}

// deleteResponsibility godoc
// @Summary Delete a budget envelope
// @Description Soft-deletes an envelope.
// @Tags responsibilities
// @Produce json
// @Param id path string true "Responsibility ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /responsibilities/{id} [delete]
func (h *responsibilityHandler) deleteResponsibility(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.respService.DeleteResponsibility(c.Request.Context(), c.Param("id"), actorID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Responsibility not found"})
			return
		}
		logger.Error("Failed to delete responsibility", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete responsibility"})
		return
	}
	c.Status(http.StatusNoContent)
}

// reallocateBudget godoc
// @Summary Reallocate budget between envelopes
// @Description Atomically moves an amount from one envelope to another; manager only.
// @Tags responsibilities
// @Accept json
// @Produce json
// @Param reallocation body dto.ReallocateBudgetRequest true "Transfer details"
// @Success 200 {object} dto.ReallocateBudgetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /responsibilities/reallocate [post]
func (h *responsibilityHandler) reallocateBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ReallocateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	updated, err := h.respService.ReallocateBudget(c.Request.Context(), req, actorID)
	if err != nil {
		var insufficient *apperrors.InsufficientFundsError
		switch {
		case errors.As(err, &insufficient):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: insufficient.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Only managers may reallocate budgets"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Responsibility not found"})
		default:
			logger.Error("Failed to reallocate budget", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to reallocate budget"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ReallocateBudgetResponse{
		Success: true,
		Updated: dto.ToListResponsibilityResponse(updated),
	})
}
