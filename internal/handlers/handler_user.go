package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/N7ghtm4r3/Neutron/internal/core/ports/services"
	"github.com/N7ghtm4r3/Neutron/internal/dto"
	"github.com/N7ghtm4r3/Neutron/internal/middleware"
	"github.com/gin-gonic/gin"
)

// userHandler handles HTTP requests on the authenticated user's profile.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := &userHandler{userService: userService}

	users := rg.Group("/users/:user_id")
	{
		users.GET("", h.getUser)
		users.DELETE("", h.deleteUser)
		users.PATCH("/email", h.changeEmail)
		users.PATCH("/password", h.changePassword)
		users.PATCH("/currency", h.changeCurrency)
		users.PATCH("/language", h.changeLanguage)
	}
}

func (h *userHandler) getUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("user_id")

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *userHandler) deleteUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("user_id")

	if err := h.userService.DeleteUser(c.Request.Context(), userID); err != nil {
		respondWithError(c, logger, err, "Failed to delete user")
		return
	}
	logger.Info("User account deleted", slog.String("user_id", userID))
	c.Status(http.StatusNoContent)
}

func (h *userHandler) changeEmail(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("user_id")

	var req dto.ChangeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if err := h.userService.ChangeEmail(c.Request.Context(), userID, req.Email); err != nil {
		respondWithError(c, logger, err, "Failed to change email")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *userHandler) changePassword(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("user_id")

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if err := h.userService.ChangePassword(c.Request.Context(), userID, req.Password); err != nil {
		respondWithError(c, logger, err, "Failed to change password")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *userHandler) changeCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("user_id")

	var req dto.ChangeCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if err := h.userService.ChangeCurrency(c.Request.Context(), userID, req.Currency); err != nil {
		respondWithError(c, logger, err, "Failed to change currency")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *userHandler) changeLanguage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("user_id")

	var req dto.ChangeLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if err := h.userService.ChangeLanguage(c.Request.Context(), userID, req.Language); err != nil {
		respondWithError(c, logger, err, "Failed to change language")
		return
	}
	c.Status(http.StatusNoContent)
}
