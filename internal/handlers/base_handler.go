package handlers

import (
	"strconv"

	"eras_backend/internal/logger"
	"eras_backend/internal/models"
	"eras_backend/internal/services"
	"eras_backend/internal/validator"
	"eras_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// BaseHandler bundles the cross-cutting handler plumbing: request binding,
// validation, error translation and actor resolution.
type BaseHandler struct {
	validator   *validator.Validator
	authService services.AuthService
}

func NewBaseHandler(v *validator.Validator, authService services.AuthService) *BaseHandler {
	return &BaseHandler{
		validator:   v,
		authService: authService,
	}
}

func (h *BaseHandler) BindAndValidateJSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind JSON body", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return false
	}

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		} else {
			logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

func (h *BaseHandler) BindAndValidateQuery(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindQuery(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind query params", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid query parameters: "+err.Error()))
		return false
	}

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, "Validation failed (query)", "errors", vErr.Errors, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		} else {
			logger.CtxWithError(ctx, "Internal validator error (query)", err, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		logger.CtxWarn(ctx, "Service error",
			"error", appErr.Message,
			"details", appErr.Details,
			"path", c.Request.URL.Path,
		)
		apperrors.HandleError(c, appErr)
	} else {
		logger.CtxWithError(ctx, "Internal server error", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.InternalError(err))
	}
}

func (h *BaseHandler) GetAndAuthorizeUserID(c *gin.Context) (string, bool) {
	ctx := c.Request.Context()

	userIDVal, exists := c.Get("userID")
	if !exists {
		logger.CtxWarn(ctx, "Unauthorized access: userID not found in context",
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
		)
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return "", false
	}

	userIDStr, ok := userIDVal.(string)
	if !ok || userIDStr == "" {
		logger.CtxWarn(ctx, "Unauthorized access: invalid userID in context",
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
		)
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Invalid user ID in context"))
		return "", false
	}

	return userIDStr, true
}

// GetActor resolves the authenticated user into a full actor context,
// including the location profile the permission checks depend on. Writes the
// error response itself on failure.
func (h *BaseHandler) GetActor(c *gin.Context) (models.ActorContext, bool) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return models.ActorContext{}, false
	}

	actor, err := h.authService.ResolveActor(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return models.ActorContext{}, false
	}
	return actor, true
}

// OptionalActor resolves the actor when a token was presented and returns the
// anonymous zero value otherwise. Used on public read paths where visibility
// still depends on who is asking.
func (h *BaseHandler) OptionalActor(c *gin.Context) models.ActorContext {
	userIDVal, exists := c.Get("userID")
	if !exists {
		return models.ActorContext{}
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return models.ActorContext{}
	}

	actor, err := h.authService.ResolveActor(userID)
	if err != nil {
		logger.CtxWarn(c.Request.Context(), "Failed to resolve optional actor", "user_id", userID, "error", err)
		return models.ActorContext{}
	}
	return actor
}

func ParseQueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func ParsePagination(c *gin.Context) (page int, pageSize int) {
	const defaultPage = 1
	const defaultPageSize = 20
	const maxPageSize = 100

	page = ParseQueryInt(c, "page", defaultPage)
	if page <= 0 {
		page = defaultPage
	}

	pageSize = ParseQueryInt(c, "page_size", defaultPageSize)
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return page, pageSize
}
