package settings

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anshuman/hospital-api/internal/handler"
	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/internal/service/settings"
)

type Handler struct {
	service *settings.Service
}

func NewHandler(service *settings.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	s := r.Group("/settings")
	{
		s.GET("", h.GetSettings)
		s.PUT("", h.UpdateSettings)
		s.POST("/validate", h.ValidateSettings)
		s.POST("/reset", h.ResetSettings)
		s.GET("/export", h.ExportSettings)
	}
}

func (h *Handler) GetSettings(c *gin.Context) {
	result, err := h.service.Get(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var req model.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.service.Update(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) ValidateSettings(c *gin.Context) {
	var req model.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.Validate(c.Request.Context(), &req); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"valid": true}))
}

func (h *Handler) ResetSettings(c *gin.Context) {
	result, err := h.service.Reset(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) ExportSettings(c *gin.Context) {
	data, err := h.service.Export(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="settings.json"`)
	c.Data(http.StatusOK, "application/json", data)
}
