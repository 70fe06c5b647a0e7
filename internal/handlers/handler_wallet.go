package handlers

import (
	"net/http"

	portssvc "github.com/N7ghtm4r3/Neutron/internal/core/ports/services"
	"github.com/N7ghtm4r3/Neutron/internal/dto"
	"github.com/N7ghtm4r3/Neutron/internal/middleware"
	"github.com/gin-gonic/gin"
)

// walletHandler serves the earnings summary of a user.
type walletHandler struct {
	walletService portssvc.WalletSvcFacade
}

func registerWalletRoutes(rg *gin.RouterGroup, walletService portssvc.WalletSvcFacade) {
	h := &walletHandler{walletService: walletService}
	rg.GET("/users/:user_id/wallet", h.getWalletStatus)
}

func (h *walletHandler) getWalletStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("user_id")

	var params dto.WalletParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	status, err := h.walletService.GetWalletStatus(c.Request.Context(), userID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to compute wallet status")
		return
	}
	c.JSON(http.StatusOK, dto.ToWalletStatusResponse(status))
}
