package account

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jwalitptl/loyalty-admin-api/internal/handler"
	"github.com/jwalitptl/loyalty-admin-api/internal/model"
	accountService "github.com/jwalitptl/loyalty-admin-api/internal/service/account"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("trialaction", func(fl validator.FieldLevel) bool {
			return model.TrialAction(fl.Field().String()).Valid()
		})
		v.RegisterValidation("billingstatus", func(fl validator.FieldLevel) bool {
			return model.BillingStatus(fl.Field().String()).Valid()
		})
	}
}

type Handler struct {
	service accountService.AccountServicer
}

func NewHandler(service accountService.AccountServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	accounts := r.Group("/accounts")
	{
		accounts.POST("", h.ProvisionAccount)
		accounts.GET("", h.ListAccounts)
		accounts.GET("/:id", h.GetAccount)
		accounts.GET("/slug/:slug", h.GetAccountBySlug)
		accounts.PUT("/:id", h.UpdateAccount)
		accounts.GET("/:id/sub-accounts", h.ListSubAccounts)
		accounts.PUT("/:id/plan", h.ReassignPlan)
		accounts.POST("/:id/trial", h.ApplyTrialAction)
		accounts.PUT("/:id/billing-status", h.OverrideBillingStatus)
	}
}

type provisionResponse struct {
	Account *model.Account `json:"account"`
	Admin   *model.AppUser `json:"admin"`
}

type reassignPlanRequest struct {
	PlanID uuid.UUID `json:"planId" binding:"required"`
}

type trialActionRequest struct {
	Action        model.TrialAction `json:"action" binding:"required,trialaction"`
	ExtensionDays *int              `json:"extensionDays"`
	TrialEndsAt   *time.Time        `json:"trialEndsAt"`
}

type billingOverrideRequest struct {
	PlanStatus model.BillingStatus `json:"planStatus" binding:"required,billingstatus"`
}

func (h *Handler) ProvisionAccount(c *gin.Context) {
	var req model.ProvisionAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	account, admin, err := h.service.ProvisionAccount(c.Request.Context(), &req)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(provisionResponse{
		Account: account,
		Admin:   admin,
	}))
}

func (h *Handler) GetAccount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid account ID"))
		return
	}

	account, err := h.service.GetAccount(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(account))
}

func (h *Handler) GetAccountBySlug(c *gin.Context) {
	account, err := h.service.GetAccountBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(account))
}

func (h *Handler) ListAccounts(c *gin.Context) {
	filters := &model.AccountFilters{
		Type:   model.AccountType(c.Query("type")),
		Status: model.AccountStatus(c.Query("status")),
	}
	if parent := c.Query("parentId"); parent != "" {
		parentID, err := uuid.Parse(parent)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid parent ID"))
			return
		}
		filters.ParentID = &parentID
	}
	if err := c.ShouldBindQuery(&filters.Pagination); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	accounts, err := h.service.ListAccounts(c.Request.Context(), filters)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(accounts))
}

func (h *Handler) ListSubAccounts(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid account ID"))
		return
	}

	accounts, err := h.service.ListSubAccounts(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(accounts))
}

func (h *Handler) UpdateAccount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid account ID"))
		return
	}

	var upd model.AccountUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	account, err := h.service.UpdateAccount(c.Request.Context(), id, &upd)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(account))
}

func (h *Handler) ReassignPlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid account ID"))
		return
	}

	var req reassignPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	account, err := h.service.ReassignPlan(c.Request.Context(), id, req.PlanID)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(account))
}

func (h *Handler) ApplyTrialAction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid account ID"))
		return
	}

	var req trialActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	account, err := h.service.ApplyTrialAction(c.Request.Context(), id, req.Action, model.TrialActionParams{
		ExtensionDays: req.ExtensionDays,
		TrialEndsAt:   req.TrialEndsAt,
	})
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(account))
}

func (h *Handler) OverrideBillingStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid account ID"))
		return
	}

	var req billingOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	account, err := h.service.OverrideBillingStatus(c.Request.Context(), id, req.PlanStatus)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(account))
}
