package handlers

import (
	"net/http"

	"eras_backend/internal/middleware"
	"eras_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	*BaseHandler
	alertService services.AlertService
}

func NewAlertHandler(base *BaseHandler, alertService services.AlertService) *AlertHandler {
	return &AlertHandler{
		BaseHandler:  base,
		alertService: alertService,
	}
}

func (h *AlertHandler) RegisterRoutes(r *gin.RouterGroup) {
	alerts := r.Group("/alerts")
	alerts.Use(middleware.AuthMiddleware())
	{
		alerts.GET("", h.GetAlerts)
		alerts.GET("/unread-count", h.GetUnreadCount)
		alerts.POST("/:id/mark-read", h.MarkRead)
	}

	// Area autocomplete for the report form; no auth needed.
	r.GET("/disasters/areas-by-city", h.AreasByCity)
}

func (h *AlertHandler) GetAlerts(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.alertService.UserAlerts(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AlertHandler) GetUnreadCount(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	count, err := h.alertService.UnreadCount(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

func (h *AlertHandler) MarkRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	alertID := c.Param("id")

	if err := h.alertService.MarkAlertRead(userID, alertID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AlertHandler) AreasByCity(c *gin.Context) {
	city := c.Query("city")

	resp, err := h.alertService.AreasByCity(city)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
