package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/N7ghtm4r3/Neutron/internal/core/ports/services"
	"github.com/N7ghtm4r3/Neutron/internal/dto"
	"github.com/N7ghtm4r3/Neutron/internal/middleware"
	"github.com/gin-gonic/gin"
)

// revenueHandler handles HTTP requests on revenues, projects and tickets.
type revenueHandler struct {
	revenueService portssvc.RevenueSvcFacade
}

func registerRevenueRoutes(rg *gin.RouterGroup, revenueService portssvc.RevenueSvcFacade) {
	h := &revenueHandler{revenueService: revenueService}

	revenues := rg.Group("/users/:user_id/revenues")
	{
		revenues.POST("", h.createRevenue)
		revenues.GET("", h.listRevenues)
		revenues.GET("/labels", h.listLabels)
		revenues.GET("/:revenue_id", h.getRevenue)
		revenues.PATCH("/:revenue_id", h.editRevenue)
		revenues.DELETE("/:revenue_id", h.deleteRevenue)
	}

	projects := rg.Group("/users/:user_id/revenues/projects/:revenue_id")
	{
		projects.GET("", h.getProjectRevenue)
		projects.GET("/balance", h.getProjectBalance)
		projects.POST("/tickets", h.addTicket)
		projects.GET("/tickets", h.listTickets)
		projects.PATCH("/tickets/:ticket_id", h.editTicket)
		projects.PUT("/tickets/:ticket_id", h.closeTicket)
		projects.DELETE("/tickets/:ticket_id", h.deleteTicket)
	}
}

func (h *revenueHandler) createRevenue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("user_id")

	var req dto.CreateRevenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createRevenue", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	id, err := h.revenueService.CreateRevenue(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create revenue")
		return
	}
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: id})
}

func (h *revenueHandler) listRevenues(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("user_id")

	var params dto.ListRevenuesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.revenueService.ListRevenues(c.Request.Context(), userID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list revenues")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *revenueHandler) listLabels(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("user_id")

	labels, err := h.revenueService.ListLabels(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list labels")
		return
	}
	c.JSON(http.StatusOK, dto.ToListRevenueLabelResponse(labels))
}

func (h *revenueHandler) getRevenue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("user_id")
	revenueID := c.Param("revenue_id")

	revenue, err := h.revenueService.GetRevenue(c.Request.Context(), userID, revenueID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve revenue")
		return
	}
	c.JSON(http.StatusOK, revenue)
}

func (h *revenueHandler) editRevenue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("user_id")
	revenueID := c.Param("revenue_id")

	var req dto.CreateRevenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.revenueService.EditRevenue(c.Request.Context(), userID, revenueID, req); err != nil {
		respondWithError(c, logger, err, "Failed to edit revenue")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *revenueHandler) deleteRevenue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("user_id")
	revenueID := c.Param("revenue_id")

	if err := h.revenueService.DeleteRevenue(c.Request.Context(), userID, revenueID); err != nil {
		respondWithError(c, logger, err, "Failed to delete revenue")
		return
	}
	logger.Info("Revenue deleted", slog.String("revenue_id", revenueID))
	c.Status(http.StatusNoContent)
}

func (h *revenueHandler) getProjectRevenue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("user_id")
	projectID := c.Param("revenue_id")

	project, err := h.revenueService.GetProjectRevenue(c.Request.Context(), userID, projectID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve project revenue")
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectRevenueResponse(project))
}

func (h *revenueHandler) getProjectBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("user_id")
	projectID := c.Param("revenue_id")

	var params dto.ProjectBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	balance, err := h.revenueService.GetProjectBalance(c.Request.Context(), userID, projectID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to compute project balance")
		return
	}
	c.JSON(http.StatusOK, dto.ProjectBalanceResponse{Balance: balance})
}

func (h *revenueHandler) addTicket(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("user_id")
	projectID := c.Param("revenue_id")

	var req dto.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for addTicket", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	id, err := h.revenueService.AddTicket(c.Request.Context(), userID, projectID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to add ticket")
		return
	}
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: id})
}

func (h *revenueHandler) listTickets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("user_id")
	projectID := c.Param("revenue_id")

	var params dto.ListTicketsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.revenueService.ListTickets(c.Request.Context(), userID, projectID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list tickets")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *revenueHandler) editTicket(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("user_id")
	projectID := c.Param("revenue_id")
	ticketID := c.Param("ticket_id")

	var req dto.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.revenueService.EditTicket(c.Request.Context(), userID, projectID, ticketID, req); err != nil {
		respondWithError(c, logger, err, "Failed to edit ticket")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *revenueHandler) closeTicket(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("user_id")
	projectID := c.Param("revenue_id")
	ticketID := c.Param("ticket_id")

	if err := h.revenueService.CloseTicket(c.Request.Context(), userID, projectID, ticketID); err != nil {
		respondWithError(c, logger, err, "Failed to close ticket")
		return
	}
	logger.Info("Ticket closed", slog.String("ticket_id", ticketID))
	c.Status(http.StatusNoContent)
}

func (h *revenueHandler) deleteTicket(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("user_id")
	projectID := c.Param("revenue_id")
	ticketID := c.Param("ticket_id")

	if err := h.revenueService.DeleteTicket(c.Request.Context(), userID, projectID, ticketID); err != nil {
		respondWithError(c, logger, err, "Failed to delete ticket")
		return
	}
	c.Status(http.StatusNoContent)
}
