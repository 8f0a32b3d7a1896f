package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/grupoterra/cotizador-api/internal/middleware"
	"github.com/grupoterra/cotizador-api/internal/models"
	"github.com/grupoterra/cotizador-api/internal/repository"
	"github.com/grupoterra/cotizador-api/internal/services"
)

type QuotationHandler struct {
	quotationService *services.QuotationService
	exportService    *services.ExportService
}

func NewQuotationHandler(quotationService *services.QuotationService, exportService *services.ExportService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService, exportService: exportService}
}

func (h *QuotationHandler) listQuery(c *gin.Context) *repository.ListQuery {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Filters["status"] = c.Query("status")
	query.Filters["project_id"] = c.Query("project_id")
	query.Filters["lead_id"] = c.Query("lead_id")
	query.Filters["advisor_id"] = c.Query("advisor_id")

	// Sales advisors only see their own quotations
	if middleware.GetUserRole(c) == models.RoleSalesAdvisor {
		query.Filters["advisor_id"] = strconv.FormatUint(uint64(middleware.GetUserID(c)), 10)
	}
	return query
}

// @Summary List Quotations
// @Description Get a paginated list of quotations
// @Tags Quotations
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param project_id query int false "Filter by project"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /quotations [get]
func (h *QuotationHandler) Index(c *gin.Context) {
	quotations, total, err := h.quotationService.List(c.Request.Context(), h.listQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, q := range quotations {
		responses = append(responses, q.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"quotations": responses, "pagination": gin.H{"total": total}})
}

// @Summary Get Quotation
// @Description Get a quotation by ID
// @Tags Quotations
// @Produce json
// @Param quotation_id path int true "Quotation ID"
// @Success 200 {object} models.QuotationResponse
// @Security BearerAuth
// @Router /quotations/{quotation_id} [get]
func (h *QuotationHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("quotation_id"), 10, 32)
	quotation, err := h.quotationService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cotización no encontrada"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotation": quotation.ToResponse()})
}

type UpdateQuotationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// @Summary Update Quotation Status
// @Description Transition a quotation's lifecycle status
// @Tags Quotations
// @Accept json
// @Produce json
// @Param quotation_id path int true "Quotation ID"
// @Param request body UpdateQuotationStatusRequest true "New Status"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /quotations/{quotation_id}/status [patch]
func (h *QuotationHandler) UpdateStatus(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("quotation_id"), 10, 32)
	var req UpdateQuotationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Estado es requerido"})
		return
	}

	if err := h.quotationService.UpdateStatus(c.Request.Context(), uint(id), req.Status); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Estado actualizado"})
}

// @Summary Delete Quotation
// @Description Delete a quotation (Admin)
// @Tags Quotations
// @Produce json
// @Param quotation_id path int true "Quotation ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /quotations/{quotation_id} [delete]
func (h *QuotationHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("quotation_id"), 10, 32)
	if err := h.quotationService.Delete(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cotización eliminada"})
}

// @Summary Export Quotations CSV
// @Description Download the filtered quotation list as CSV
// @Tags Quotations
// @Produce text/csv
// @Success 200 {file} file
// @Security BearerAuth
// @Router /quotations/export/csv [get]
func (h *QuotationHandler) ExportCSV(c *gin.Context) {
	data, filename, err := h.exportService.ExportQuotationsCSV(c.Request.Context(), h.listQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// @Summary Export Quotations XLSX
// @Description Download the filtered quotation list as an Excel workbook
// @Tags Quotations
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Security BearerAuth
// @Router /quotations/export/xlsx [get]
func (h *QuotationHandler) ExportXLSX(c *gin.Context) {
	data, filename, err := h.exportService.ExportQuotationsXLSX(c.Request.Context(), h.listQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// @Summary Export Quotation XLSX
// @Description Download a single quotation as an Excel sheet
// @Tags Quotations
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param quotation_id path int true "Quotation ID"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /quotations/{quotation_id}/export [get]
func (h *QuotationHandler) ExportOne(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("quotation_id"), 10, 32)
	data, filename, err := h.exportService.ExportQuotationXLSX(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cotización no encontrada"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
