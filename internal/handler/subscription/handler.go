package subscription

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anshuman/hospital-api/internal/handler"
	"github.com/anshuman/hospital-api/internal/middleware"
	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/internal/service/subscription"
)

type Handler struct {
	service *subscription.Service
}

func NewHandler(service *subscription.Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes exposes the plan catalog without authentication.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/plans", h.ListPlans)
}

// RegisterRoutes mounts the hospital-scoped subscription endpoints.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	subs := r.Group("/subscription")
	{
		subs.GET("", h.GetSubscription)
		subs.GET("/usage", h.GetUsage)
		subs.GET("/features", h.GetFeatures)
		subs.POST("/upgrade", h.UpgradeSubscription)
		subs.POST("/check-limits", h.CheckLimits)
		subs.GET("/billing", h.BillingHistory)
	}
}

func (h *Handler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.service.Catalog()))
}

func (h *Handler) GetSubscription(c *gin.Context) {
	hospitalID := middleware.HospitalID(c)
	sub, err := h.service.GetForHospital(c.Request.Context(), hospitalID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(sub))
}

func (h *Handler) GetUsage(c *gin.Context) {
	hospitalID := middleware.HospitalID(c)
	usage, err := h.service.Usage(c.Request.Context(), hospitalID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(usage))
}

// GetFeatures returns the feature flags the hospital's plan enables.
func (h *Handler) GetFeatures(c *gin.Context) {
	hospitalID := middleware.HospitalID(c)
	sub, err := h.service.CurrentForHospital(c.Request.Context(), hospitalID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	if sub == nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("no active subscription found"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"enabled_features":    sub.Features,
		"plan_name":           sub.PlanName,
		"subscription_active": sub.IsActive,
	}))
}

func (h *Handler) UpgradeSubscription(c *gin.Context) {
	var req model.UpgradeSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	hospitalID := middleware.HospitalID(c)
	sub, err := h.service.Upgrade(c.Request.Context(), hospitalID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(sub))
}

func (h *Handler) CheckLimits(c *gin.Context) {
	var req model.CheckLimitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	hospitalID := middleware.HospitalID(c)
	result, err := h.service.CheckLimit(c.Request.Context(), hospitalID, req.Resource)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) BillingHistory(c *gin.Context) {
	hospitalID := middleware.HospitalID(c)
	records, err := h.service.BillingHistory(c.Request.Context(), hospitalID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(records))
}
