package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/anshuman/hospital-api/internal/email"
	"github.com/anshuman/hospital-api/internal/handler"
	"github.com/anshuman/hospital-api/internal/middleware"
	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/internal/service/auth"
)

type Handler struct {
	service  *auth.Service
	emailSvc *email.Service
}

func NewHandler(service *auth.Service, emailSvc *email.Service) *Handler {
	return &Handler{service: service, emailSvc: emailSvc}
}

// RegisterPublicRoutes mounts the unauthenticated endpoints.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.POST("/refresh", h.Refresh)
}

// RegisterRoutes mounts the endpoints that need a valid token.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/profile", h.Profile)
	r.POST("/change-password", h.ChangePassword)
}

func (h *Handler) Profile(c *gin.Context) {
	user, hospital, sub, err := h.service.Profile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"user":         user,
		"hospital":     hospital,
		"subscription": sub,
	}))
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	hospital, admin, err := h.service.RegisterHospital(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if err := h.emailSvc.SendWelcome(admin.Email, hospital.Name, admin.FirstName); err != nil {
		log.Warn().Err(err).Str("hospital", hospital.Name).Msg("welcome email not sent")
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(gin.H{
		"hospital": hospital,
		"admin":    admin,
	}))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(resp))
}

func (h *Handler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	tokens, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	userID := middleware.UserID(c)
	if err := h.service.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"changed": true}))
}
