package staff

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/anshuman/hospital-api/internal/email"
	"github.com/anshuman/hospital-api/internal/handler"
	"github.com/anshuman/hospital-api/internal/middleware"
	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/internal/service/staff"
)

type Handler struct {
	service  *staff.Service
	emailSvc *email.Service
}

func NewHandler(service *staff.Service, emailSvc *email.Service) *Handler {
	return &Handler{service: service, emailSvc: emailSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	s := r.Group("/staff")
	{
		s.POST("", h.CreateStaff)
		s.GET("", h.ListStaff)
		s.GET("/roles", h.ListRoles)
		s.GET("/doctors/available", h.AvailableDoctors)
		s.GET("/:id", h.GetStaff)
		s.PUT("/:id", h.UpdateStaff)
		s.POST("/:id/toggle-active", h.ToggleActive)
		s.POST("/:id/reset-password", h.ResetPassword)
		s.DELETE("/:id", h.DeleteStaff)
	}
}

func (h *Handler) CreateStaff(c *gin.Context) {
	var req model.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	member, err := h.service.Create(c.Request.Context(), middleware.HospitalID(c), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(member))
}

func (h *Handler) ListStaff(c *gin.Context) {
	var filters model.StaffFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	members, pageInfo, err := h.service.List(c.Request.Context(), middleware.HospitalID(c), &filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.ListData{
		Items:      members,
		Pagination: pageInfo,
	}))
}

func (h *Handler) ListRoles(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.service.Roles()))
}

func (h *Handler) AvailableDoctors(c *gin.Context) {
	doctors, err := h.service.AvailableDoctors(c.Request.Context(), middleware.HospitalID(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) GetStaff(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid staff ID"))
		return
	}

	member, err := h.service.Get(c.Request.Context(), middleware.HospitalID(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(member))
}

func (h *Handler) UpdateStaff(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid staff ID"))
		return
	}

	var req model.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	member, err := h.service.Update(c.Request.Context(), middleware.HospitalID(c), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(member))
}

func (h *Handler) ToggleActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid staff ID"))
		return
	}

	active, err := h.service.ToggleActive(c.Request.Context(), middleware.HospitalID(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"is_active": active}))
}

// ResetPassword sets a staff member's password back to the temporary
// default, emails them, and returns it. Hospital admins only.
func (h *Handler) ResetPassword(c *gin.Context) {
	if middleware.Role(c) != model.RoleAdmin {
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("insufficient permissions"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid staff ID"))
		return
	}

	member, tempPassword, err := h.service.ResetPassword(c.Request.Context(), middleware.HospitalID(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	if err := h.emailSvc.SendPasswordReset(member.User.Email, member.User.FirstName); err != nil {
		log.Warn().Err(err).Str("email", member.User.Email).Msg("password reset email failed")
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"temporary_password": tempPassword,
	}))
}

func (h *Handler) DeleteStaff(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid staff ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.HospitalID(c), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": true}))
}
