package analytics

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anshuman/hospital-api/internal/handler"
	"github.com/anshuman/hospital-api/internal/middleware"
	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/internal/service/analytics"
)

type Handler struct {
	service *analytics.Service
}

func NewHandler(service *analytics.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	a := r.Group("/analytics")
	{
		a.GET("/overview", h.Overview)
		a.GET("/appointments", h.Appointments)
		a.GET("/patients", h.Patients)
		a.GET("/doctors", h.Doctors)
		a.GET("/revenue", h.Revenue)
	}
}

func period(c *gin.Context) string {
	return c.DefaultQuery("period", model.Period30Days)
}

// scope resolves the report scope from the caller's token. Hospital users see
// their own numbers; platform admins carry no hospital claim and get the
// platform-wide aggregates.
func scope(c *gin.Context) *uuid.UUID {
	if id := middleware.HospitalID(c); id != uuid.Nil {
		return &id
	}
	return nil
}

func (h *Handler) Overview(c *gin.Context) {
	report, err := h.service.Overview(c.Request.Context(), scope(c), period(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(report))
}

func (h *Handler) Appointments(c *gin.Context) {
	report, err := h.service.Appointments(c.Request.Context(), scope(c), period(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(report))
}

func (h *Handler) Patients(c *gin.Context) {
	report, err := h.service.Patients(c.Request.Context(), scope(c), period(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(report))
}

func (h *Handler) Doctors(c *gin.Context) {
	report, err := h.service.Doctors(c.Request.Context(), scope(c), period(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(report))
}

func (h *Handler) Revenue(c *gin.Context) {
	report, err := h.service.Revenue(c.Request.Context(), scope(c), period(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(report))
}
