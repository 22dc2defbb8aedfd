package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	lendingapp "github.com/lending/backend/internal/application/lending"
	"github.com/lending/backend/internal/infrastructure/auth"
	"github.com/lending/backend/internal/interfaces/http/middleware"
)

// LoanHandler handles loan API endpoints
type LoanHandler struct {
	BaseHandler
	loanService *lendingapp.LoanService
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(loanService *lendingapp.LoanService) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
	}
}

// Create disburses a loan from a fully approved application
func (h *LoanHandler) Create(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	var req lendingapp.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	loan, err := h.loanService.Create(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, loan)
}

// Update modifies the mutable terms of an active loan
func (h *LoanHandler) Update(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid loan ID format")
		return
	}

	var req lendingapp.UpdateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	loan, err := h.loanService.Update(c.Request.Context(), actorID, loanID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, loan)
}

// MarkPaidOff settles a loan whose remaining principal has reached zero
func (h *LoanHandler) MarkPaidOff(c *gin.Context) {
	h.changeStatus(c, h.loanService.MarkPaidOff)
}

// MarkDefaulted flags an active loan as defaulted
func (h *LoanHandler) MarkDefaulted(c *gin.Context) {
	h.changeStatus(c, h.loanService.MarkDefaulted)
}

func (h *LoanHandler) changeStatus(c *gin.Context, change func(ctx context.Context, actorID, loanID uuid.UUID) (*lendingapp.LoanResponse, error)) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid loan ID format")
		return
	}

	loan, err := change(c.Request.Context(), actorID, loanID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, loan)
}

// GetByID retrieves a loan by its ID
func (h *LoanHandler) GetByID(c *gin.Context) {
	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid loan ID format")
		return
	}

	loan, err := h.loanService.GetByID(c.Request.Context(), loanID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, loan)
}

// GetByApplication retrieves the loan disbursed from an application
func (h *LoanHandler) GetByApplication(c *gin.Context) {
	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid application ID format")
		return
	}

	loan, err := h.loanService.GetByApplicationID(c.Request.Context(), applicationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, loan)
}

// Search retrieves loans matching the given criteria
func (h *LoanHandler) Search(c *gin.Context) {
	var filter lendingapp.LoanSearchFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	loans, err := h.loanService.Search(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, loans)
}

// GetHistory retrieves a customer's loans, most recent first
func (h *LoanHandler) GetHistory(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	loans, err := h.loanService.GetHistory(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, loans)
}

// GetExposure retrieves a customer's total outstanding exposure
func (h *LoanHandler) GetExposure(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	exposure, err := h.loanService.GetCustomerExposure(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, exposure)
}

// GetLogs retrieves the audit trail of a loan, newest first
func (h *LoanHandler) GetLogs(c *gin.Context) {
	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid loan ID format")
		return
	}

	logs, err := h.loanService.GetLogs(c.Request.Context(), loanID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, logs)
}

// RegisterRoutes registers all loan routes
func (h *LoanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	loans := rg.Group("/lending/loans")
	{
		loans.POST("", middleware.RequireRole(auth.RoleBackOffice), h.Create)
		loans.GET("", h.Search)
		loans.GET("/:id", h.GetByID)
		loans.GET("/:id/logs", h.GetLogs)
		loans.PUT("/:id", middleware.RequireRole(auth.RoleBackOffice), h.Update)
		loans.POST("/:id/paid-off", middleware.RequireRole(auth.RoleBackOffice), h.MarkPaidOff)
		loans.POST("/:id/default", middleware.RequireRole(auth.RoleBackOffice), h.MarkDefaulted)
	}

	rg.GET("/lending/applications/:id/loan", h.GetByApplication)

	customers := rg.Group("/lending/customers")
	{
		customers.GET("/:id/loans", h.GetHistory)
		customers.GET("/:id/exposure", h.GetExposure)
	}
}
