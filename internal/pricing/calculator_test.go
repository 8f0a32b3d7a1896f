package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecompute_Example(t *testing.T) {
	// 120 m2 at L700/m2, L5000 discount, 20% down, 36 months
	snap := Recompute(Inputs{
		Area:           120,
		UnitPrice:      700,
		Discount:       5000,
		DownPaymentPct: 20,
		MonthsFinanced: 36,
	})

	assert.Equal(t, 84000.0, snap.TotalPrice)
	assert.Equal(t, 79000.0, snap.FinalPrice)
	assert.Equal(t, 63200.0, snap.AmountFinanced)
	// 63200 / 36 = 1755.55..., rounded to the whole unit
	assert.Equal(t, 1756.0, snap.MonthlyPayment)
}

func TestRecompute_Identities(t *testing.T) {
	cases := []Inputs{
		{Area: 200, UnitPrice: 450.50, Discount: 0, DownPaymentPct: 0, MonthsFinanced: 12},
		{Area: 85.5, UnitPrice: 1200, Discount: 2500, DownPaymentPct: 10, MonthsFinanced: 24},
		{Area: 300, UnitPrice: 325.25, Discount: 10000, DownPaymentPct: 100, MonthsFinanced: 60},
		{Area: 0, UnitPrice: 700, Discount: 0, DownPaymentPct: 20, MonthsFinanced: 36},
	}

	for _, in := range cases {
		snap := Recompute(in)
		assert.InDelta(t, snap.TotalPrice-in.Discount, snap.FinalPrice, 1e-9)
		assert.InDelta(t, snap.FinalPrice*(1-in.DownPaymentPct/100), snap.AmountFinanced, 1e-9)
	}
}

func TestRecompute_Pure(t *testing.T) {
	in := Inputs{Area: 120, UnitPrice: 700, Discount: 5000, DownPaymentPct: 20, MonthsFinanced: 36}
	assert.Equal(t, Recompute(in), Recompute(in))
}

func TestRecompute_FullDownPayment(t *testing.T) {
	snap := Recompute(Inputs{Area: 100, UnitPrice: 500, DownPaymentPct: 100, MonthsFinanced: 12})
	assert.Equal(t, 0.0, snap.AmountFinanced)
	assert.Equal(t, 0.0, snap.MonthlyPayment)
}

func TestRecompute_ZeroMonthsYieldsZeroMonthly(t *testing.T) {
	// Callers guard monthsFinanced >= 1; the calculator itself must stay total.
	snap := Recompute(Inputs{Area: 100, UnitPrice: 500, MonthsFinanced: 0})
	assert.Equal(t, 0.0, snap.MonthlyPayment)
	assert.Equal(t, 50000.0, snap.TotalPrice)
}
