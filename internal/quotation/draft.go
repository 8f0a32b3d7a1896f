// Package quotation holds the in-memory editing session for a price
// quotation: the dependent selection chain (lead → project → block → lot),
// the pricing inputs with their derived snapshot, and the discount
// authorization workflow. Sessions live only in memory and die on submit or
// discard; the persisted quotation store is the source of truth afterwards.
package quotation

import (
	"errors"
	"time"

	"github.com/grupoterra/cotizador-api/internal/models"
	"github.com/grupoterra/cotizador-api/internal/pricing"
	"github.com/grupoterra/cotizador-api/internal/statemachine"
)

// Session errors
var (
	ErrProjectNotSelected = errors.New("debe seleccionar un proyecto primero")
	ErrBlockNotSelected   = errors.New("debe seleccionar una manzana primero")
	ErrLotSourced         = errors.New("el área y precio provienen del lote seleccionado")
	ErrBlockMismatch      = errors.New("el lote no pertenece a la manzana seleccionada")
	ErrSessionEnded       = errors.New("la sesión de cotización ha finalizado")
	ErrSubmitInFlight     = errors.New("ya hay un envío en curso")
)

// SelectionChain is the ordered tuple of catalog selections. Downstream
// fields may only be set once their upstream field is; an upstream change
// clears everything below it.
type SelectionChain struct {
	LeadID    uint `json:"lead_id"`
	ProjectID uint `json:"project_id"`
	BlockID   uint `json:"block_id"`
	LotID     uint `json:"lot_id"`
}

// Draft aggregates everything the session edits before submit.
type Draft struct {
	QuotationID   uint             `json:"quotation_id"` // >0 on the update flow
	Chain         SelectionChain   `json:"chain"`
	Inputs        pricing.Inputs   `json:"inputs"`
	Snapshot      pricing.Snapshot `json:"snapshot"`
	QuotationDate string           `json:"quotation_date"`
	ExchangeRate  float64          `json:"exchange_rate"`
	RateSource    string           `json:"rate_source"`
}

// AuthView is the authorization slice of a session view.
type AuthView struct {
	State            string     `json:"state"`
	SupervisorID     uint       `json:"supervisor_id,omitempty"`
	RemainingSeconds int        `json:"remaining_seconds"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
}

// View is the read-only JSON projection of a session.
type View struct {
	Token         string           `json:"token"`
	QuotationID   uint             `json:"quotation_id,omitempty"`
	Chain         SelectionChain   `json:"chain"`
	Inputs        pricing.Inputs   `json:"inputs"`
	Snapshot      pricing.Snapshot `json:"snapshot"`
	QuotationDate string           `json:"quotation_date"`
	ExchangeRate  float64          `json:"exchange_rate"`
	RateSource    string           `json:"rate_source,omitempty"`
	LotSourced    bool             `json:"lot_sourced"`
	DiscountCap   float64          `json:"discount_cap"`
	Capped        bool             `json:"capped"`
	Authorization AuthView         `json:"authorization"`
}

// BuildQuotation maps a draft into the persisted quotation shape. Derived
// fields come from the snapshot; the store recomputes them again on write.
func (d *Draft) BuildQuotation(advisorID uint) *models.Quotation {
	q := &models.Quotation{
		ID:             d.QuotationID,
		LeadID:         d.Chain.LeadID,
		ProjectID:      d.Chain.ProjectID,
		BlockID:        d.Chain.BlockID,
		LotID:          d.Chain.LotID,
		QuotationDate:  d.QuotationDate,
		ExchangeRate:   d.ExchangeRate,
		Area:           d.Inputs.Area,
		UnitPrice:      d.Inputs.UnitPrice,
		Discount:       d.Inputs.Discount,
		DownPaymentPct: d.Inputs.DownPaymentPct,
		MonthsFinanced: d.Inputs.MonthsFinanced,
		TotalPrice:     d.Snapshot.TotalPrice,
		FinalPrice:     d.Snapshot.FinalPrice,
		AmountFinanced: d.Snapshot.AmountFinanced,
		MonthlyPayment: d.Snapshot.MonthlyPayment,
		Status:         models.QuotationStatusActive,
	}
	if advisorID != 0 {
		q.AdvisorID = &advisorID
	}
	if d.RateSource != "" {
		src := d.RateSource
		q.RateSource = &src
	}
	return q
}

// authView builds the AuthView for a machine.
func authView(a *statemachine.DiscountFSM) AuthView {
	view := AuthView{
		State:            a.Current(),
		SupervisorID:     a.SupervisorID(),
		RemainingSeconds: a.RemainingSeconds(),
	}
	if view.State == statemachine.AuthStateOtpPending {
		exp := a.ExpiresAt()
		view.ExpiresAt = &exp
	}
	return view
}
