package pharmacy

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anshuman/hospital-api/internal/handler"
	"github.com/anshuman/hospital-api/internal/middleware"
	"github.com/anshuman/hospital-api/internal/model"
	"github.com/anshuman/hospital-api/internal/service/pharmacy"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service *pharmacy.Service
}

func NewHandler(service *pharmacy.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	medicines := r.Group("/pharmacy/medicines")
	{
		medicines.POST("", h.CreateMedicine)
		medicines.GET("", h.ListMedicines)
		medicines.GET("/dashboard", h.DashboardStats)
		medicines.POST("/import", h.ImportMedicines)
		medicines.GET("/import/template", h.ImportTemplate)
		medicines.GET("/export", h.ExportMedicines)
		medicines.DELETE("/all", h.DeleteAllMedicines)
		medicines.GET("/:id", h.GetMedicine)
		medicines.PUT("/:id", h.UpdateMedicine)
		medicines.DELETE("/:id", h.DeleteMedicine)
	}
}

func (h *Handler) CreateMedicine(c *gin.Context) {
	var req model.CreateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	medicine, err := h.service.Create(c.Request.Context(), middleware.HospitalID(c), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(medicine))
}

func (h *Handler) ListMedicines(c *gin.Context) {
	var filters model.MedicineFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	medicines, pageInfo, summary, err := h.service.List(c.Request.Context(), middleware.HospitalID(c), &filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"items":      medicines,
		"pagination": pageInfo,
		"summary":    summary,
	}))
}

func (h *Handler) DashboardStats(c *gin.Context) {
	stats, err := h.service.DashboardStats(c.Request.Context(), middleware.HospitalID(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

func (h *Handler) GetMedicine(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid medicine ID"))
		return
	}

	medicine, err := h.service.Get(c.Request.Context(), middleware.HospitalID(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(medicine))
}

func (h *Handler) UpdateMedicine(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid medicine ID"))
		return
	}

	var req model.UpdateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	medicine, err := h.service.Update(c.Request.Context(), middleware.HospitalID(c), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(medicine))
}

func (h *Handler) DeleteMedicine(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid medicine ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.HospitalID(c), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": true}))
}

func (h *Handler) DeleteAllMedicines(c *gin.Context) {
	deleted, err := h.service.DeleteAll(c.Request.Context(), middleware.HospitalID(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted_count": deleted}))
}

// ImportMedicines accepts a CSV or XLSX upload, picked by file extension.
func (h *Handler) ImportMedicines(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("file is required"))
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("failed to open uploaded file"))
		return
	}
	defer f.Close()

	var report *model.MedicineImportReport
	switch strings.ToLower(filepath.Ext(file.Filename)) {
	case ".xlsx", ".xls":
		report, err = h.service.ImportXLSX(c.Request.Context(), middleware.HospitalID(c), f)
	case ".csv":
		report, err = h.service.ImportCSV(c.Request.Context(), middleware.HospitalID(c), f)
	default:
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("unsupported file type, expected .csv or .xlsx"))
		return
	}
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(report))
}

func (h *Handler) ImportTemplate(c *gin.Context) {
	if c.Query("format") == "xlsx" {
		data, err := h.service.TemplateXLSX()
		if err != nil {
			handler.RespondError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="medicines_template.xlsx"`)
		c.Data(http.StatusOK, xlsxContentType, data)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="medicines_template.csv"`)
	c.Data(http.StatusOK, "text/csv", h.service.TemplateCSV())
}

func (h *Handler) ExportMedicines(c *gin.Context) {
	data, err := h.service.ExportXLSX(c.Request.Context(), middleware.HospitalID(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="medicines.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
