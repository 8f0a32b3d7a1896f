package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grupoterra/cotizador-api/internal/middleware"
	"github.com/grupoterra/cotizador-api/internal/quotation"
	"github.com/grupoterra/cotizador-api/internal/services"
)

// SessionHandler exposes the quotation editing sessions: the selection chain,
// live pricing fields and the discount authorization workflow.
type SessionHandler struct {
	draftService *services.DraftService
}

func NewSessionHandler(draftService *services.DraftService) *SessionHandler {
	return &SessionHandler{draftService: draftService}
}

// respondSessionError maps the draft/session errors onto HTTP statuses.
func respondSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound), errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, quotation.ErrSubmitInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, quotation.ErrSessionEnded):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	}
}

type CreateSessionRequest struct {
	QuotationID uint `json:"quotation_id"`
}

// @Summary Start Session
// @Description Open a quotation editing session; pass quotation_id to edit an existing quotation
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body CreateSessionRequest false "Session Options"
// @Success 201 {object} quotation.View
// @Security BearerAuth
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req CreateSessionRequest
	c.ShouldBindJSON(&req)

	advisorID := middleware.GetUserID(c)

	var (
		session *quotation.Session
		err     error
	)
	if req.QuotationID != 0 {
		session, err = h.draftService.StartSessionFromQuotation(c.Request.Context(), advisorID, req.QuotationID)
	} else {
		session, err = h.draftService.StartSession(c.Request.Context(), advisorID)
	}
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session": session.View()})
}

// @Summary Get Session
// @Description Get the current state of an editing session
// @Tags Sessions
// @Produce json
// @Param token path string true "Session Token"
// @Success 200 {object} quotation.View
// @Security BearerAuth
// @Router /sessions/{token} [get]
func (h *SessionHandler) Show(c *gin.Context) {
	session, err := h.draftService.Get(c.Param("token"))
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session.View()})
}

type SetLeadRequest struct {
	LeadID uint `json:"lead_id" binding:"required"`
}

// @Summary Set Session Lead
// @Description Assign the client lead to the draft
// @Tags Sessions
// @Accept json
// @Produce json
// @Param token path string true "Session Token"
// @Param request body SetLeadRequest true "Lead"
// @Success 200 {object} quotation.View
// @Security BearerAuth
// @Router /sessions/{token}/lead [put]
func (h *SessionHandler) SetLead(c *gin.Context) {
	var req SetLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.draftService.SetLead(c.Request.Context(), c.Param("token"), req.LeadID)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session.View()})
}

type SetProjectRequest struct {
	ProjectID uint `json:"project_id" binding:"required"`
}

// @Summary Set Session Project
// @Description Select the project; block, lot and lot-sourced fields reset
// @Tags Sessions
// @Accept json
// @Produce json
// @Param token path string true "Session Token"
// @Param request body SetProjectRequest true "Project"
// @Success 200 {object} quotation.View
// @Security BearerAuth
// @Router /sessions/{token}/project [put]
func (h *SessionHandler) SetProject(c *gin.Context) {
	var req SetProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.draftService.SetProject(c.Request.Context(), c.Param("token"), req.ProjectID)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session.View()})
}

type SetBlockRequest struct {
	BlockID uint `json:"block_id" binding:"required"`
}

// @Summary Set Session Block
// @Description Select a block of the current project; the lot resets
// @Tags Sessions
// @Accept json
// @Produce json
// @Param token path string true "Session Token"
// @Param request body SetBlockRequest true "Block"
// @Success 200 {object} quotation.View
// @Security BearerAuth
// @Router /sessions/{token}/block [put]
func (h *SessionHandler) SetBlock(c *gin.Context) {
	var req SetBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.draftService.SetBlock(c.Request.Context(), c.Param("token"), req.BlockID)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session.View()})
}

type SetLotRequest struct {
	LotID uint `json:"lot_id" binding:"required"`
}

// @Summary Set Session Lot
// @Description Select an available lot; its area and unit price source the draft
// @Tags Sessions
// @Accept json
// @Produce json
// @Param token path string true "Session Token"
// @Param request body SetLotRequest true "Lot"
// @Success 200 {object} quotation.View
// @Security BearerAuth
// @Router /sessions/{token}/lot [put]
func (h *SessionHandler) SetLot(c *gin.Context) {
	var req SetLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.draftService.SetLot(c.Request.Context(), c.Param("token"), req.LotID)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session.View()})
}

type SetFieldsRequest struct {
	Area           *float64 `json:"area"`
	UnitPrice      *float64 `json:"unit_price"`
	Discount       *float64 `json:"discount"`
	DownPaymentPct *float64 `json:"down_payment_pct"`
	MonthsFinanced *int     `json:"months_financed"`
	QuotationDate  *string  `json:"quotation_date"`
	ExchangeRate   *float64 `json:"exchange_rate"`
}

// @Summary Update Session Fields
// @Description Edit the pricing inputs; each change recomputes the snapshot. Over-cap discounts get clamped and flagged.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param token path string true "Session Token"
// @Param request body SetFieldsRequest true "Fields"
// @Success 200 {object} quotation.View
// @Security BearerAuth
// @Router /sessions/{token}/fields [patch]
func (h *SessionHandler) SetFields(c *gin.Context) {
	var req SetFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.draftService.Get(c.Param("token"))
	if err != nil {
		respondSessionError(c, err)
		return
	}

	if req.Area != nil {
		if err := session.SetArea(*req.Area); err != nil {
			respondSessionError(c, err)
			return
		}
	}
	if req.UnitPrice != nil {
		if err := session.SetUnitPrice(*req.UnitPrice); err != nil {
			respondSessionError(c, err)
			return
		}
	}
	if req.DownPaymentPct != nil {
		if err := session.SetDownPaymentPct(*req.DownPaymentPct); err != nil {
			respondSessionError(c, err)
			return
		}
	}
	if req.MonthsFinanced != nil {
		if err := session.SetMonthsFinanced(*req.MonthsFinanced); err != nil {
			respondSessionError(c, err)
			return
		}
	}
	if req.QuotationDate != nil {
		if err := session.SetQuotationDate(*req.QuotationDate); err != nil {
			respondSessionError(c, err)
			return
		}
	}
	if req.ExchangeRate != nil {
		if err := session.SetExchangeRate(*req.ExchangeRate, "manual"); err != nil {
			respondSessionError(c, err)
			return
		}
	}

	clamped := false
	if req.Discount != nil {
		clamped, err = session.SetDiscount(*req.Discount)
		if err != nil {
			respondSessionError(c, err)
			return
		}
	}

	resp := gin.H{"session": session.View()}
	if clamped {
		resp["discount_clamped"] = true
		resp["message"] = "El descuento excede el límite permitido y fue ajustado"
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Refresh Session Exchange Rate
// @Description Re-read the provider exchange rate into the draft
// @Tags Sessions
// @Produce json
// @Param token path string true "Session Token"
// @Success 200 {object} quotation.View
// @Security BearerAuth
// @Router /sessions/{token}/rate/refresh [post]
func (h *SessionHandler) RefreshRate(c *gin.Context) {
	session, err := h.draftService.RefreshExchangeRate(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session.View()})
}

type SelectSupervisorRequest struct {
	SupervisorID uint `json:"supervisor_id" binding:"required"`
}

// @Summary Select Supervisor
// @Description Pick the supervisor that will authorize an above-cap discount
// @Tags Sessions
// @Accept json
// @Produce json
// @Param token path string true "Session Token"
// @Param request body SelectSupervisorRequest true "Supervisor"
// @Success 200 {object} quotation.View
// @Security BearerAuth
// @Router /sessions/{token}/supervisor [put]
func (h *SessionHandler) SelectSupervisor(c *gin.Context) {
	var req SelectSupervisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.draftService.SelectSupervisor(c.Request.Context(), c.Param("token"), req.SupervisorID)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session.View()})
}

// @Summary Send OTP
// @Description Mail the authorization passcode to the selected supervisor. Resends travel the same endpoint.
// @Tags Sessions
// @Produce json
// @Param token path string true "Session Token"
// @Success 200 {object} quotation.View
// @Security BearerAuth
// @Router /sessions/{token}/otp/send [post]
func (h *SessionHandler) SendOtp(c *gin.Context) {
	session, err := h.draftService.SendOtp(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session.View(), "message": "Código enviado al supervisor"})
}

type ValidateOtpRequest struct {
	Code string `json:"code" binding:"required"`
}

// @Summary Validate OTP
// @Description Check the supervisor passcode; a correct code approves the discount
// @Tags Sessions
// @Accept json
// @Produce json
// @Param token path string true "Session Token"
// @Param request body ValidateOtpRequest true "Passcode"
// @Success 200 {object} quotation.View
// @Security BearerAuth
// @Router /sessions/{token}/otp/validate [post]
func (h *SessionHandler) ValidateOtp(c *gin.Context) {
	var req ValidateOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El código es requerido"})
		return
	}

	session, err := h.draftService.ValidateOtp(c.Request.Context(), c.Param("token"), req.Code)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session.View(), "message": "Descuento autorizado"})
}

// @Summary Submit Session
// @Description Persist the draft as a quotation and close the session
// @Tags Sessions
// @Produce json
// @Param token path string true "Session Token"
// @Success 201 {object} models.QuotationResponse
// @Security BearerAuth
// @Router /sessions/{token}/submit [post]
func (h *SessionHandler) Submit(c *gin.Context) {
	q, err := h.draftService.Submit(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"quotation": q.ToResponse(), "message": "Cotización registrada"})
}

// @Summary Discard Session
// @Description Drop the editing session without persisting anything
// @Tags Sessions
// @Produce json
// @Param token path string true "Session Token"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /sessions/{token} [delete]
func (h *SessionHandler) Discard(c *gin.Context) {
	if err := h.draftService.Discard(c.Param("token")); err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sesión descartada"})
}
