package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/grupoterra/cotizador-api/internal/middleware"
	"github.com/grupoterra/cotizador-api/internal/models"
	"github.com/grupoterra/cotizador-api/internal/repository"
	"github.com/grupoterra/cotizador-api/internal/services"
)

type LeadHandler struct {
	leadService      *services.LeadService
	quotationService *services.QuotationService
}

func NewLeadHandler(leadService *services.LeadService, quotationService *services.QuotationService) *LeadHandler {
	return &LeadHandler{leadService: leadService, quotationService: quotationService}
}

// @Summary List Leads
// @Description Get a paginated list of leads
// @Tags Leads
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /leads [get]
func (h *LeadHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Filters["status"] = c.Query("status")

	// Sales advisors only see their own leads
	if middleware.GetUserRole(c) == models.RoleSalesAdvisor {
		query.Filters["advisor_id"] = strconv.FormatUint(uint64(middleware.GetUserID(c)), 10)
	}

	leads, total, err := h.leadService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, l := range leads {
		responses = append(responses, l.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"leads": responses, "pagination": gin.H{"total": total}})
}

// @Summary Get Lead
// @Description Get a lead by ID
// @Tags Leads
// @Produce json
// @Param lead_id path int true "Lead ID"
// @Success 200 {object} models.LeadResponse
// @Security BearerAuth
// @Router /leads/{lead_id} [get]
func (h *LeadHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("lead_id"), 10, 32)
	lead, err := h.leadService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cliente no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lead": lead.ToResponse()})
}

// @Summary Create Lead
// @Description Create a new lead
// @Tags Leads
// @Accept json
// @Produce json
// @Param request body models.Lead true "Lead Data"
// @Success 201 {object} models.LeadResponse
// @Security BearerAuth
// @Router /leads [post]
func (h *LeadHandler) Create(c *gin.Context) {
	var lead models.Lead
	if err := BindNestedOrFlat(c, "lead", &lead); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// New leads default to the advisor creating them
	if lead.AdvisorID == nil {
		advisorID := middleware.GetUserID(c)
		lead.AdvisorID = &advisorID
	}

	if err := h.leadService.Create(c.Request.Context(), &lead); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"lead": lead.ToResponse()})
}

// @Summary Update Lead
// @Description Update an existing lead
// @Tags Leads
// @Accept json
// @Produce json
// @Param lead_id path int true "Lead ID"
// @Param request body models.Lead true "Lead Data"
// @Success 200 {object} models.LeadResponse
// @Security BearerAuth
// @Router /leads/{lead_id} [put]
func (h *LeadHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("lead_id"), 10, 32)
	var lead models.Lead
	if err := BindNestedOrFlat(c, "lead", &lead); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lead.ID = uint(id)

	if err := h.leadService.Update(c.Request.Context(), &lead); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"lead": lead.ToResponse()})
}

// @Summary Delete Lead
// @Description Delete a lead
// @Tags Leads
// @Produce json
// @Param lead_id path int true "Lead ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /leads/{lead_id} [delete]
func (h *LeadHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("lead_id"), 10, 32)
	if err := h.leadService.Delete(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cliente eliminado"})
}

// @Summary Lead Quotations
// @Description Get the quotations issued to a lead
// @Tags Leads
// @Produce json
// @Param lead_id path int true "Lead ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /leads/{lead_id}/quotations [get]
func (h *LeadHandler) Quotations(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("lead_id"), 10, 32)
	quotations, err := h.quotationService.FindByLead(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, q := range quotations {
		responses = append(responses, q.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"quotations": responses})
}
