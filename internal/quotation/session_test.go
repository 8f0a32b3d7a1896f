package quotation

import (
	"context"
	"testing"
	"time"

	"github.com/grupoterra/cotizador-api/internal/models"
	"github.com/grupoterra/cotizador-api/internal/statemachine"
	"github.com/stretchr/testify/assert"
)

func testProject() *models.Project {
	return &models.Project{
		ID:                     10,
		Name:                   "Altos del Valle",
		Active:                 true,
		PricePerSquareUnit:     700,
		DefaultDownPaymentPct:  20,
		DefaultFinancingMonths: 36,
	}
}

func testLot(blockID uint) *models.Lot {
	return &models.Lot{
		ID:        77,
		BlockID:   blockID,
		Name:      "Lote 001",
		Status:    models.LotStatusAvailable,
		Length:    20,
		Width:     6,
		UnitPrice: 700,
	}
}

func TestSession_ChainOrderEnforced(t *testing.T) {
	s := NewSession("tok", 1, true)

	assert.ErrorIs(t, s.SetBlock(5), ErrProjectNotSelected)
	assert.ErrorIs(t, s.SetLot(testLot(5)), ErrBlockNotSelected)

	assert.NoError(t, s.SetProject(testProject()))
	assert.NoError(t, s.SetBlock(5))
	assert.NoError(t, s.SetLot(testLot(5)))

	v := s.View()
	assert.Equal(t, uint(10), v.Chain.ProjectID)
	assert.Equal(t, uint(5), v.Chain.BlockID)
	assert.Equal(t, uint(77), v.Chain.LotID)
}

func TestSession_ProjectChangeResetsDownstream(t *testing.T) {
	s := NewSession("tok", 1, true)
	assert.NoError(t, s.SetProject(testProject()))
	assert.NoError(t, s.SetBlock(5))
	assert.NoError(t, s.SetLot(testLot(5)))

	other := testProject()
	other.ID = 11
	assert.NoError(t, s.SetProject(other))

	v := s.View()
	assert.Equal(t, uint(11), v.Chain.ProjectID)
	assert.Zero(t, v.Chain.BlockID)
	assert.Zero(t, v.Chain.LotID)
	// lot-sourced fields are wiped with the lot
	assert.Zero(t, v.Inputs.Area)
	assert.Zero(t, v.Inputs.UnitPrice)
	assert.False(t, v.LotSourced)
}

func TestSession_BlockChangeClearsLot(t *testing.T) {
	s := NewSession("tok", 1, true)
	assert.NoError(t, s.SetProject(testProject()))
	assert.NoError(t, s.SetBlock(5))
	assert.NoError(t, s.SetLot(testLot(5)))

	assert.NoError(t, s.SetBlock(6))
	v := s.View()
	assert.Equal(t, uint(6), v.Chain.BlockID)
	assert.Zero(t, v.Chain.LotID)
	assert.Zero(t, v.Inputs.Area)
}

func TestSession_LotSelectionSeedsPricing(t *testing.T) {
	s := NewSession("tok", 1, true)
	assert.NoError(t, s.SetProject(testProject()))
	assert.NoError(t, s.SetBlock(5))
	assert.NoError(t, s.SetLot(testLot(5)))

	v := s.View()
	assert.Equal(t, 120.0, v.Inputs.Area)
	assert.Equal(t, 700.0, v.Inputs.UnitPrice)
	// defaults seeded from the project, recompute ran synchronously
	assert.Equal(t, 20.0, v.Inputs.DownPaymentPct)
	assert.Equal(t, 36, v.Inputs.MonthsFinanced)
	assert.Equal(t, 84000.0, v.Snapshot.TotalPrice)

	// the sourced fields are read-only while the lot is selected
	assert.ErrorIs(t, s.SetArea(999), ErrLotSourced)
	assert.ErrorIs(t, s.SetUnitPrice(999), ErrLotSourced)
}

func TestSession_LotMustBelongToBlock(t *testing.T) {
	s := NewSession("tok", 1, true)
	assert.NoError(t, s.SetProject(testProject()))
	assert.NoError(t, s.SetBlock(5))
	assert.ErrorIs(t, s.SetLot(testLot(9)), ErrBlockMismatch)
}

func TestSession_DefaultsNotReseededAfterManualEdit(t *testing.T) {
	s := NewSession("tok", 1, true)
	assert.NoError(t, s.SetDownPaymentPct(50))
	assert.NoError(t, s.SetProject(testProject()))

	// the advisor already diverged, so the project default must not override
	assert.Equal(t, 50.0, s.View().Inputs.DownPaymentPct)
}

func TestSession_DiscountClampForCappedAdvisor(t *testing.T) {
	s := NewSession("tok", 1, true)
	p := testProject()
	p.MaxDiscountPct = 15
	assert.NoError(t, s.SetProject(p))
	assert.NoError(t, s.SetArea(10))
	assert.NoError(t, s.SetUnitPrice(10)) // totalPrice = 100

	clamped, err := s.SetDiscount(50)
	assert.NoError(t, err)
	assert.True(t, clamped)
	assert.Equal(t, 15.0, s.View().Inputs.Discount)
}

func TestSession_NoCapForUncappedRole(t *testing.T) {
	s := NewSession("tok", 1, false)
	assert.NoError(t, s.SetArea(10))
	assert.NoError(t, s.SetUnitPrice(10))

	clamped, err := s.SetDiscount(50)
	assert.NoError(t, err)
	assert.False(t, clamped)
	assert.Equal(t, 50.0, s.View().Inputs.Discount)

	// absolute ceiling still applies: never beyond the total price
	clamped, err = s.SetDiscount(500)
	assert.NoError(t, err)
	assert.True(t, clamped)
	assert.Equal(t, 100.0, s.View().Inputs.Discount)
}

func TestSession_ApprovalLiftsCap(t *testing.T) {
	ctx := context.Background()
	s := NewSession("tok", 1, true)
	p := testProject()
	p.MaxDiscountPct = 15
	assert.NoError(t, s.SetProject(p))
	assert.NoError(t, s.SetArea(10))
	assert.NoError(t, s.SetUnitPrice(10))

	assert.NoError(t, s.Auth().SelectSupervisor(ctx, 4))
	assert.NoError(t, s.Auth().MarkSent(ctx, "246810", time.Now().Add(5*time.Minute), nil))
	assert.NoError(t, s.Auth().Validate(ctx, "246810"))
	assert.Equal(t, statemachine.AuthStateApproved, s.Auth().Current())

	clamped, err := s.SetDiscount(80)
	assert.NoError(t, err)
	assert.False(t, clamped)
	assert.Equal(t, 80.0, s.View().Inputs.Discount)

	// the 100% ceiling survives approval
	clamped, _ = s.SetDiscount(130)
	assert.True(t, clamped)
	assert.Equal(t, 100.0, s.View().Inputs.Discount)
}

func TestSession_MissingFields(t *testing.T) {
	s := NewSession("tok", 1, true)
	missing := s.MissingFields()
	assert.Contains(t, missing, "lead_id")
	assert.Contains(t, missing, "lot_id")
	assert.Contains(t, missing, "exchange_rate")

	assert.NoError(t, s.SetLead(3))
	assert.NoError(t, s.SetProject(testProject()))
	assert.NoError(t, s.SetBlock(5))
	assert.NoError(t, s.SetLot(testLot(5)))
	assert.NoError(t, s.SetQuotationDate("2026-03-10"))
	assert.NoError(t, s.SetExchangeRate(24.75, "BCH"))

	assert.Empty(t, s.MissingFields())
}

func TestSession_SubmitPendingFlag(t *testing.T) {
	s := NewSession("tok", 1, true)
	assert.NoError(t, s.BeginSubmit())
	assert.ErrorIs(t, s.BeginSubmit(), ErrSubmitInFlight)

	// a failed submit leaves the session editable
	s.FinishSubmit(false)
	assert.NoError(t, s.BeginSubmit())
	s.FinishSubmit(true)

	assert.True(t, s.Ended())
	assert.ErrorIs(t, s.BeginSubmit(), ErrSessionEnded)
	assert.ErrorIs(t, s.SetLead(9), ErrSessionEnded)
}

func TestSession_EndBumpsGeneration(t *testing.T) {
	s := NewSession("tok", 1, true)
	gen := s.Generation()
	s.End()
	assert.Equal(t, gen+1, s.Generation())
	// idempotent
	s.End()
	assert.Equal(t, gen+1, s.Generation())
}

func TestSession_BuildQuotation(t *testing.T) {
	s := NewSession("tok", 42, true)
	assert.NoError(t, s.SetLead(3))
	assert.NoError(t, s.SetProject(testProject()))
	assert.NoError(t, s.SetBlock(5))
	assert.NoError(t, s.SetLot(testLot(5)))
	_, err := s.SetDiscount(5000)
	assert.NoError(t, err)
	assert.NoError(t, s.SetQuotationDate("2026-03-10"))
	assert.NoError(t, s.SetExchangeRate(24.75, "BCH"))

	d := s.Draft()
	q := d.BuildQuotation(s.AdvisorID)
	assert.Equal(t, uint(3), q.LeadID)
	assert.Equal(t, uint(77), q.LotID)
	assert.Equal(t, 84000.0, q.TotalPrice)
	assert.Equal(t, 79000.0, q.FinalPrice)
	assert.Equal(t, 63200.0, q.AmountFinanced)
	assert.Equal(t, 1756.0, q.MonthlyPayment)
	assert.Equal(t, uint(42), *q.AdvisorID)
	assert.Equal(t, "BCH", *q.RateSource)
}
