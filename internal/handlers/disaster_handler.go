package handlers

import (
	"net/http"
	"time"

	"eras_backend/internal/middleware"
	"eras_backend/internal/models"
	"eras_backend/internal/repositories"
	"eras_backend/internal/services"
	"eras_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type DisasterHandler struct {
	*BaseHandler
	disasterService services.DisasterService
	responseService services.ResponseService
}

func NewDisasterHandler(base *BaseHandler, disasterService services.DisasterService, responseService services.ResponseService) *DisasterHandler {
	return &DisasterHandler{
		BaseHandler:     base,
		disasterService: disasterService,
		responseService: responseService,
	}
}

func (h *DisasterHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public reads. Visibility of unpublished reports still depends on who is
	// asking, so the token is parsed when present.
	public := r.Group("/disasters")
	public.Use(middleware.OptionalAuthMiddleware())
	{
		public.GET("", h.ListDisasters)
		public.GET("/:id", h.GetDisaster)
		public.GET("/:id/responses", h.ListResponses)
	}

	// Authenticated writes
	protected := r.Group("/disasters")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("", h.CreateDisaster)
		protected.PUT("/:id", h.UpdateDisaster)
		protected.DELETE("/:id", h.DeleteDisaster)
		protected.GET("/my", h.MyDisasters)
		protected.POST("/:id/report", h.ReportDisaster)
		protected.POST("/:id/mark-resolved", h.MarkResolved)
	}

	// Service provider surface
	provider := r.Group("/disasters")
	provider.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleServiceProvider))
	{
		provider.GET("/nearby", h.NearbyDisasters)
		provider.POST("/:id/respond", h.SubmitResponse)
	}

	// Admin surface
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireSuperuser())
	{
		admin.GET("/disasters", h.AdminListDisasters)
		admin.POST("/disasters/:id/approve", h.ModerateDisaster)
		admin.PUT("/reports/:id/review", h.ReviewReport)
	}
}

func (h *DisasterHandler) ListDisasters(c *gin.Context) {
	var criteria repositories.DisasterCriteria
	if !h.BindAndValidateQuery(c, &criteria) {
		return
	}

	resp, err := h.disasterService.ListPublic(criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *DisasterHandler) GetDisaster(c *gin.Context) {
	actor := h.OptionalActor(c)
	disasterID := c.Param("id")

	detail, err := h.disasterService.GetDisaster(actor, disasterID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *DisasterHandler) ListResponses(c *gin.Context) {
	disasterID := c.Param("id")

	responses, err := h.responseService.ListByDisaster(disasterID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"responses": responses})
}

func (h *DisasterHandler) CreateDisaster(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.CreateDisasterRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	disaster, err := h.disasterService.CreateDisaster(actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, disaster)
}

func (h *DisasterHandler) UpdateDisaster(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	disasterID := c.Param("id")

	var req dto.UpdateDisasterRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	disaster, err := h.disasterService.UpdateDisaster(actor, disasterID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, disaster)
}

func (h *DisasterHandler) DeleteDisaster(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	disasterID := c.Param("id")

	if err := h.disasterService.DeleteDisaster(actor, disasterID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *DisasterHandler) MyDisasters(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	page := ParseQueryInt(c, "page", 1)

	resp, err := h.disasterService.MyDisasters(actor, page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *DisasterHandler) NearbyDisasters(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	disasters, err := h.disasterService.NearbyDisasters(actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"disasters": disasters})
}

func (h *DisasterHandler) SubmitResponse(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	disasterID := c.Param("id")

	var req dto.SubmitResponseRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.responseService.SubmitResponse(actor, disasterID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *DisasterHandler) ReportDisaster(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	disasterID := c.Param("id")

	var req dto.ReportDisasterRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	report, err := h.disasterService.ReportDisaster(actor, disasterID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

func (h *DisasterHandler) AdminListDisasters(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}
	status := c.Query("status")
	page := ParseQueryInt(c, "page", 1)

	resp, err := h.disasterService.AdminList(status, page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *DisasterHandler) ModerateDisaster(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	disasterID := c.Param("id")

	var req dto.ModerateDisasterRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	disaster, err := h.disasterService.Moderate(actor, disasterID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, disaster)
}

func (h *DisasterHandler) MarkResolved(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	disasterID := c.Param("id")

	var req dto.ResolveDisasterRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	disaster, err := h.disasterService.MarkResolved(actor, disasterID, &req, time.Now())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, disaster)
}

func (h *DisasterHandler) ReviewReport(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	reportID := c.Param("id")

	var req dto.ReviewReportRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.disasterService.ReviewReport(actor, reportID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
