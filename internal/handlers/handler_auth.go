package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/N7ghtm4r3/Neutron/internal/apperrors"
	portssvc "github.com/N7ghtm4r3/Neutron/internal/core/ports/services"
	"github.com/N7ghtm4r3/Neutron/internal/dto"
	"github.com/N7ghtm4r3/Neutron/internal/middleware"
	"github.com/N7ghtm4r3/Neutron/internal/utils"
	"github.com/N7ghtm4r3/Neutron/pkg/config"
	"github.com/gin-gonic/gin"
)

// authHandler handles the public sign-up and sign-in endpoints.
type authHandler struct {
	cfg         *config.Config
	userService portssvc.UserSvcFacade
}

func registerAuthRoutes(r *gin.Engine, cfg *config.Config, userService portssvc.UserSvcFacade) {
	h := &authHandler{cfg: cfg, userService: userService}

	users := r.Group("/api/v1/users")
	{
		users.POST("", h.signUp)
		users.POST("/session", h.signIn)
	}
}

func (h *authHandler) issueToken(userID string) (string, error) {
	return utils.GenerateJWT(userID, h.cfg.JWTSecret, h.cfg.JWTExpiryDuration, h.cfg.JWTIssuer)
}

func (h *authHandler) signUp(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for sign-up", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to register user")
		return
	}

	token, err := h.issueToken(user.UserID)
	if err != nil {
		logger.Error("Failed to issue token after sign-up", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue session token"})
		return
	}

	logger.Info("User signed up", slog.String("user_id", user.UserID))
	c.JSON(http.StatusCreated, dto.AuthResponse{
		UserResponse: dto.ToUserResponse(user),
		Token:        token,
	})
}

func (h *authHandler) signIn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for sign-in", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req)
	if err != nil {
		// A missing user and a wrong password look the same to the caller.
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		respondWithError(c, logger, err, "Failed to sign in")
		return
	}

	token, err := h.issueToken(user.UserID)
	if err != nil {
		logger.Error("Failed to issue token after sign-in", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue session token"})
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		UserResponse: dto.ToUserResponse(user),
		Token:        token,
	})
}
