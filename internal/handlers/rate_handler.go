package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grupoterra/cotizador-api/internal/services"
)

type RateHandler struct {
	rateService *services.ExchangeRateService
}

func NewRateHandler(rateService *services.ExchangeRateService) *RateHandler {
	return &RateHandler{rateService: rateService}
}

// @Summary Current Exchange Rate
// @Description Get the cached USD/HNL reference exchange rate
// @Tags ExchangeRate
// @Produce json
// @Success 200 {object} services.Rate
// @Failure 503 {object} map[string]string
// @Security BearerAuth
// @Router /exchange_rate [get]
func (h *RateHandler) Current(c *gin.Context) {
	rate, err := h.rateService.CurrentRate(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exchange_rate": rate})
}
