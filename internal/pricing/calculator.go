// Package pricing derives the financial fields of a quotation from its raw
// inputs. Recompute is pure and total: callers normalize malformed or
// negative values to zero before entry, so there is no error path here.
package pricing

import (
	"github.com/shopspring/decimal"
)

// Inputs are the raw fields a quotation is priced from.
type Inputs struct {
	Area           float64 `json:"area"`
	UnitPrice      float64 `json:"unit_price"`
	Discount       float64 `json:"discount"`
	DownPaymentPct float64 `json:"down_payment_pct"`
	MonthsFinanced int     `json:"months_financed"`
}

// Snapshot holds the derived fields. It is never edited directly; it is
// recomputed from Inputs on every change so displayed values cannot drift.
type Snapshot struct {
	TotalPrice     float64 `json:"total_price"`
	FinalPrice     float64 `json:"final_price"`
	AmountFinanced float64 `json:"amount_financed"`
	MonthlyPayment float64 `json:"monthly_payment"`
}

// Recompute derives a Snapshot from the given Inputs.
//
//	totalPrice     = area × unitPrice
//	finalPrice     = totalPrice − discount
//	amountFinanced = finalPrice × (1 − downPaymentPct/100)
//	monthlyPayment = round(amountFinanced / monthsFinanced)
//
// Only the monthly payment is rounded (to the nearest whole currency unit);
// every other value keeps full precision until presentation.
func Recompute(in Inputs) Snapshot {
	area := decimal.NewFromFloat(in.Area)
	unitPrice := decimal.NewFromFloat(in.UnitPrice)
	discount := decimal.NewFromFloat(in.Discount)
	downPct := decimal.NewFromFloat(in.DownPaymentPct)

	total := area.Mul(unitPrice)
	final := total.Sub(discount)

	hundred := decimal.NewFromInt(100)
	financed := final.Mul(hundred.Sub(downPct)).Div(hundred)

	monthly := decimal.Zero
	if in.MonthsFinanced >= 1 {
		months := decimal.NewFromInt(int64(in.MonthsFinanced))
		monthly = financed.Div(months).Round(0)
	}

	totalF, _ := total.Float64()
	finalF, _ := final.Float64()
	financedF, _ := financed.Float64()
	monthlyF, _ := monthly.Float64()

	return Snapshot{
		TotalPrice:     totalF,
		FinalPrice:     finalF,
		AmountFinanced: financedF,
		MonthlyPayment: monthlyF,
	}
}
