package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	lendingapp "github.com/lending/backend/internal/application/lending"
	"github.com/lending/backend/internal/infrastructure/auth"
	"github.com/lending/backend/internal/interfaces/http/middleware"
)

// ApplicationHandler handles loan application API endpoints
type ApplicationHandler struct {
	BaseHandler
	applicationService *lendingapp.ApplicationService
}

// NewApplicationHandler creates a new ApplicationHandler
func NewApplicationHandler(applicationService *lendingapp.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
	}
}

// Create submits a new loan application into the marketing review queue
func (h *ApplicationHandler) Create(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	var req lendingapp.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	app, err := h.applicationService.Create(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, app)
}

// Review records an approve or reject decision for the application's
// current pending stage
func (h *ApplicationHandler) Review(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid application ID format")
		return
	}

	var req lendingapp.ReviewApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	app, err := h.applicationService.Review(c.Request.Context(), actorID, applicationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, app)
}

// GetByID retrieves an application by its ID
func (h *ApplicationHandler) GetByID(c *gin.Context) {
	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid application ID format")
		return
	}

	app, err := h.applicationService.GetByID(c.Request.Context(), applicationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, app)
}

// List retrieves a paginated list of applications with optional filtering
func (h *ApplicationHandler) List(c *gin.Context) {
	var filter lendingapp.ApplicationListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	apps, total, err := h.applicationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, apps, total, page, pageSize)
}

// GetLogs retrieves the audit trail of an application, newest first
func (h *ApplicationHandler) GetLogs(c *gin.Context) {
	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid application ID format")
		return
	}

	logs, err := h.applicationService.GetLogs(c.Request.Context(), applicationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, logs)
}

// RegisterRoutes registers all loan application routes
func (h *ApplicationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	applications := rg.Group("/lending/applications")
	{
		applications.POST("", middleware.RequireRole(auth.RoleMarketing), h.Create)
		applications.GET("", h.List)
		applications.GET("/:id", h.GetByID)
		applications.GET("/:id/logs", h.GetLogs)
		applications.POST("/:id/review",
			middleware.RequireAnyRole(auth.RoleMarketing, auth.RoleBranchManager, auth.RoleBackOffice),
			h.Review)
	}
}
