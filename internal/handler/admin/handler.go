package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/loyalty-admin-api/internal/middleware"
	"github.com/jwalitptl/loyalty-admin-api/internal/model"
	viewasService "github.com/jwalitptl/loyalty-admin-api/internal/service/viewas"
)

// Handler serves the console's view-as endpoints. These predate the
// versioned API and keep their legacy wire contract: flat JSON bodies
// and a bare {"error": ...} object with status 400 for every failure.
type Handler struct {
	service viewasService.ViewAsServicer
}

func NewHandler(service viewasService.ViewAsServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/create-view-as-session", h.CreateViewAsSession)
	r.POST("/end-view-as-session", h.EndViewAsSession)
}

type createSessionRequest struct {
	AccountID uuid.UUID `json:"accountId" binding:"required"`
	UserID    uuid.UUID `json:"userId" binding:"required"`
}

type createSessionResponse struct {
	SessionToken string         `json:"sessionToken"`
	ExpiresAt    time.Time      `json:"expiresAt"`
	AccountName  string         `json:"accountName"`
	UserName     string         `json:"userName"`
	UserRole     model.UserRole `json:"userRole"`
}

type endSessionRequest struct {
	SessionToken string `json:"sessionToken" binding:"required"`
}

func (h *Handler) CreateViewAsSession(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing caller identity"})
		return
	}

	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	grant, err := h.service.Issue(c.Request.Context(), caller, req.AccountID, req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, createSessionResponse{
		SessionToken: grant.SessionToken,
		ExpiresAt:    grant.ExpiresAt,
		AccountName:  grant.AccountName,
		UserName:     grant.UserName,
		UserRole:     grant.UserRole,
	})
}

func (h *Handler) EndViewAsSession(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing caller identity"})
		return
	}

	var req endSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Revoke(c.Request.Context(), caller, req.SessionToken); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "view-as session ended"})
}
