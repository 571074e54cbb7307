package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	portssvc "github.com/khalidalhothifi/expense-manager/internal/core/ports/services"
	"github.com/khalidalhothifi/expense-manager/internal/dto"
	"github.com/khalidalhothifi/expense-manager/internal/middleware"
)

// settingsHandler handles HTTP requests for system settings.
type settingsHandler struct {
	settingsService portssvc.SettingsSvcFacade
}

func newSettingsHandler(ss portssvc.SettingsSvcFacade) *settingsHandler {
	return &settingsHandler{settingsService: ss}
}

// registerSettingsRoutes registers the settings routes; managers only.
func registerSettingsRoutes(rg *gin.RouterGroup, settingsService portssvc.SettingsSvcFacade, userService portssvc.UserSvcFacade) {
	h := newSettingsHandler(settingsService)
	managerOnly := middleware.RequireRole(userService, domain.RoleManager)

	settings := rg.Group("/settings", managerOnly)
	{
		settings.GET("", h.getSettings)
		settings.PUT("", h.saveSettings)
	}
}

// getSettings godoc
// @Summary Get notification settings
// @Description Returns the SMTP transport config and email templates; manager only.
// @Tags settings
// @Produce json
// @Success 200 {object} dto.SettingsResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /settings [get]
func (h *settingsHandler) getSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		logger.Error("Failed to get settings", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve settings"})
		return
	}
	c.JSON(http.StatusOK, dto.ToSettingsResponse(settings))
}

// saveSettings godoc
// @Summary Save notification settings
// @Description Persists the SMTP transport config and/or email templates; manager only.
// @Tags settings
// @Accept json
// @Produce json
// @Param settings body dto.SaveSettingsRequest true "Settings sections to save"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /settings [put]
func (h *settingsHandler) saveSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SaveSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	if err := h.settingsService.SaveSettings(c.Request.Context(), req); err != nil {
		logger.Error("Failed to save settings", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
