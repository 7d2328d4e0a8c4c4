package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anshuman/hospital-api/internal/handler"
	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/internal/repository"
	"github.com/anshuman/hospital-api/internal/service/auth"
	"github.com/anshuman/hospital-api/internal/service/hospital"
	"github.com/anshuman/hospital-api/internal/service/subscription"
)

// Handler serves the platform admin surface: hospital management,
// subscriptions, and the dashboard stats.
type Handler struct {
	authSvc       *auth.Service
	hospitalSvc   *hospital.Service
	subSvc        *subscription.Service
	analyticsRepo repository.AnalyticsRepository
	creds         auth.SuperAdminCredentials
}

func NewHandler(
	authSvc *auth.Service,
	hospitalSvc *hospital.Service,
	subSvc *subscription.Service,
	analyticsRepo repository.AnalyticsRepository,
	creds auth.SuperAdminCredentials,
) *Handler {
	return &Handler{
		authSvc:       authSvc,
		hospitalSvc:   hospitalSvc,
		subSvc:        subSvc,
		analyticsRepo: analyticsRepo,
		creds:         creds,
	}
}

// RegisterPublicRoutes mounts the admin login endpoint.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/login", h.Login)
}

// RegisterRoutes mounts the authenticated admin endpoints.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats", h.PlatformStats)

	hospitals := r.Group("/hospitals")
	{
		hospitals.GET("", h.ListHospitals)
		hospitals.GET("/:id", h.GetHospital)
		hospitals.PUT("/:id", h.UpdateHospital)
		hospitals.DELETE("/:id", h.DeleteHospital)
		hospitals.POST("/:id/change-password", h.ChangeHospitalAdminPassword)
		hospitals.POST("/:id/reset-password", h.ResetHospitalAdminPassword)
	}

	subs := r.Group("/subscriptions")
	{
		subs.GET("", h.ListSubscriptions)
		subs.POST("/:hospitalId/upgrade", h.UpgradeSubscription)
		subs.POST("/:hospitalId/extend", h.ExtendSubscription)
	}
}

type adminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	tokens, user, err := h.authSvc.AdminLogin(c.Request.Context(), req.Username, req.Password, h.creds)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"user":          user,
	}))
}

func (h *Handler) PlatformStats(c *gin.Context) {
	stats, err := h.hospitalSvc.PlatformStats(c.Request.Context(), h.analyticsRepo)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

func (h *Handler) ListHospitals(c *gin.Context) {
	var filters model.HospitalFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	filters.Normalize(100)

	hospitals, total, err := h.hospitalSvc.AdminList(c.Request.Context(), &filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.ListData{
		Items:      hospitals,
		Pagination: model.NewPageInfo(filters.Pagination, total),
	}))
}

func (h *Handler) GetHospital(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid hospital ID"))
		return
	}

	row, err := h.hospitalSvc.AdminGet(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(row))
}

func (h *Handler) UpdateHospital(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid hospital ID"))
		return
	}

	var req model.UpdateHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	updated, err := h.hospitalSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

// DeleteHospital soft-deletes a hospital. The request body must repeat the
// hospital's exact name as confirmation.
func (h *Handler) DeleteHospital(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid hospital ID"))
		return
	}

	var req model.DeleteHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.hospitalSvc.Delete(c.Request.Context(), id, req.ConfirmationName); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": true}))
}

func (h *Handler) ChangeHospitalAdminPassword(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid hospital ID"))
		return
	}

	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.hospitalSvc.ChangeAdminPassword(c.Request.Context(), id, &req); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"changed": true}))
}

func (h *Handler) ResetHospitalAdminPassword(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid hospital ID"))
		return
	}

	password, err := h.hospitalSvc.ResetAdminPassword(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"new_password": password}))
}

func (h *Handler) ListSubscriptions(c *gin.Context) {
	var filters model.SubscriptionFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	filters.Normalize(100)

	subs, total, err := h.subSvc.AdminList(c.Request.Context(), &filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.ListData{
		Items:      subs,
		Pagination: model.NewPageInfo(filters.Pagination, total),
	}))
}

func (h *Handler) UpgradeSubscription(c *gin.Context) {
	hospitalID, err := uuid.Parse(c.Param("hospitalId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid hospital ID"))
		return
	}

	var req model.UpgradeSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	sub, err := h.subSvc.Upgrade(c.Request.Context(), hospitalID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(sub))
}

func (h *Handler) ExtendSubscription(c *gin.Context) {
	hospitalID, err := uuid.Parse(c.Param("hospitalId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid hospital ID"))
		return
	}

	var req model.ExtendSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	sub, err := h.subSvc.Extend(c.Request.Context(), hospitalID, req.Days)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(sub))
}
