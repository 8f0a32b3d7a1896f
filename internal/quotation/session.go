package quotation

import (
	"math"
	"sync"
	"time"

	"github.com/grupoterra/cotizador-api/internal/models"
	"github.com/grupoterra/cotizador-api/internal/pricing"
	"github.com/grupoterra/cotizador-api/internal/statemachine"
)

// Session is one advisor's exclusive editing session over a quotation draft.
// All mutations go through its lock so a chain reset and its pricing
// recompute are observed atomically; no edit ever sees a stale snapshot.
type Session struct {
	Token     string
	AdvisorID uint

	mu           sync.Mutex
	draft        Draft
	auth         *statemachine.DiscountFSM
	capPct       float64
	capped       bool // role capability: discount cap applies until approved
	lotSourced   bool
	termsTouched bool // advisor diverged from the project financing defaults
	submitting   bool
	ended        bool
	generation   uint64
	createdAt    time.Time
	lastTouch    time.Time
}

// NewSession creates an empty editing session. capped marks the sales-advisor
// capability: discounts above the project cap need supervisor approval.
func NewSession(token string, advisorID uint, capped bool) *Session {
	now := time.Now()
	s := &Session{
		Token:     token,
		AdvisorID: advisorID,
		auth:      statemachine.NewDiscountFSM(),
		capPct:    models.DefaultDiscountCapPct,
		capped:    capped,
		createdAt: now,
		lastTouch: now,
	}
	s.draft.Inputs.MonthsFinanced = 1
	s.recomputeLocked()
	return s
}

// Hydrate loads an existing persisted quotation into the session (update
// flow). The authorization workflow still starts from scratch: it is never
// carried across sessions.
func (s *Session) Hydrate(q *models.Quotation, capPct float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft.QuotationID = q.ID
	s.draft.Chain = SelectionChain{
		LeadID:    q.LeadID,
		ProjectID: q.ProjectID,
		BlockID:   q.BlockID,
		LotID:     q.LotID,
	}
	s.draft.Inputs = pricing.Inputs{
		Area:           q.Area,
		UnitPrice:      q.UnitPrice,
		Discount:       q.Discount,
		DownPaymentPct: q.DownPaymentPct,
		MonthsFinanced: q.MonthsFinanced,
	}
	s.draft.QuotationDate = q.QuotationDate
	s.draft.ExchangeRate = q.ExchangeRate
	if q.RateSource != nil {
		s.draft.RateSource = *q.RateSource
	}
	if capPct > 0 {
		s.capPct = capPct
	}
	s.lotSourced = q.LotID != 0
	s.termsTouched = true
	s.recomputeLocked()
}

// SetLead records the client lead. Leads sit above the catalog chain and do
// not reset anything below.
func (s *Session) SetLead(leadID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	s.draft.Chain.LeadID = leadID
	s.touchLocked()
	return nil
}

// SetProject selects a project and applies the reset cascade: block, lot and
// lot-sourced pricing fields are cleared before anything else can run. The
// project's financing defaults seed the terms unless the advisor already
// diverged this session.
func (s *Session) SetProject(p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}

	s.draft.Chain.ProjectID = p.ID
	s.draft.Chain.BlockID = 0
	s.draft.Chain.LotID = 0
	s.clearLotSourcedLocked()

	s.capPct = p.DiscountCap()

	if p.HasFinancingDefaults() && !s.termsTouched {
		if p.DefaultDownPaymentPct > 0 {
			s.draft.Inputs.DownPaymentPct = p.DefaultDownPaymentPct
		}
		if p.DefaultFinancingMonths > 0 {
			s.draft.Inputs.MonthsFinanced = p.DefaultFinancingMonths
		}
	}

	s.recomputeLocked()
	s.touchLocked()
	return nil
}

// SetBlock selects a block within the current project, clearing the lot and
// its sourced fields.
func (s *Session) SetBlock(blockID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	if s.draft.Chain.ProjectID == 0 {
		return ErrProjectNotSelected
	}

	s.draft.Chain.BlockID = blockID
	s.draft.Chain.LotID = 0
	s.clearLotSourcedLocked()
	s.recomputeLocked()
	s.touchLocked()
	return nil
}

// SetLot selects a lot and copies its area and unit price into the inputs;
// both stay read-only while the lot remains selected.
func (s *Session) SetLot(lot *models.Lot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	if s.draft.Chain.BlockID == 0 {
		return ErrBlockNotSelected
	}
	if lot.BlockID != s.draft.Chain.BlockID {
		return ErrBlockMismatch
	}

	s.draft.Chain.LotID = lot.ID
	s.draft.Inputs.Area = lot.Area()
	s.draft.Inputs.UnitPrice = lot.EffectiveUnitPrice()
	s.lotSourced = true
	s.recomputeLocked()
	s.touchLocked()
	return nil
}

// SetArea sets the area manually; rejected while a lot sources the field.
func (s *Session) SetArea(area float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	if s.lotSourced {
		return ErrLotSourced
	}
	s.draft.Inputs.Area = sanitize(area)
	s.recomputeLocked()
	s.touchLocked()
	return nil
}

// SetUnitPrice sets the unit price manually; rejected while a lot sources it.
func (s *Session) SetUnitPrice(price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	if s.lotSourced {
		return ErrLotSourced
	}
	s.draft.Inputs.UnitPrice = sanitize(price)
	s.recomputeLocked()
	s.touchLocked()
	return nil
}

// SetDiscount stores a discount amount, clamped by the cap rule. For capped
// advisors without approval the ceiling is totalPrice × cap/100; everyone is
// bounded by the total price itself (the 100% absolute ceiling). Returns
// true when the entered value was clamped so the caller can surface a notice.
func (s *Session) SetDiscount(amount float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return false, ErrSessionEnded
	}

	entered := sanitize(amount)
	limit := s.draft.Snapshot.TotalPrice
	if s.capped && !s.auth.Approved() {
		limit = s.draft.Snapshot.TotalPrice * s.capPct / 100
	}

	clamped := false
	if entered > limit {
		entered = limit
		clamped = true
	}

	s.draft.Inputs.Discount = entered
	s.recomputeLocked()
	s.touchLocked()
	return clamped, nil
}

// SetDownPaymentPct stores the down payment percentage, clamped to [0,100].
func (s *Session) SetDownPaymentPct(pct float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	pct = sanitize(pct)
	if pct > 100 {
		pct = 100
	}
	s.draft.Inputs.DownPaymentPct = pct
	s.termsTouched = true
	s.recomputeLocked()
	s.touchLocked()
	return nil
}

// SetMonthsFinanced stores the financing term, floored at one month.
func (s *Session) SetMonthsFinanced(months int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	if months < 1 {
		months = 1
	}
	s.draft.Inputs.MonthsFinanced = months
	s.termsTouched = true
	s.recomputeLocked()
	s.touchLocked()
	return nil
}

// SetQuotationDate stores the quotation date (ISO date string).
func (s *Session) SetQuotationDate(date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	s.draft.QuotationDate = date
	s.touchLocked()
	return nil
}

// SetExchangeRate stores the conversion rate and its source.
func (s *Session) SetExchangeRate(rate float64, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	s.draft.ExchangeRate = sanitize(rate)
	s.draft.RateSource = source
	s.touchLocked()
	return nil
}

// Auth exposes the discount authorization machine.
func (s *Session) Auth() *statemachine.DiscountFSM {
	return s.auth
}

// DiscountCap returns the active cap percentage.
func (s *Session) DiscountCap() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capPct
}

// MissingFields lists the required fields still empty, in submit order.
func (s *Session) MissingFields() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var missing []string
	if s.draft.Chain.LeadID == 0 {
		missing = append(missing, "lead_id")
	}
	if s.draft.Chain.ProjectID == 0 {
		missing = append(missing, "project_id")
	}
	if s.draft.Chain.BlockID == 0 {
		missing = append(missing, "block_id")
	}
	if s.draft.Chain.LotID == 0 {
		missing = append(missing, "lot_id")
	}
	if s.draft.QuotationDate == "" {
		missing = append(missing, "quotation_date")
	}
	if s.draft.ExchangeRate <= 0 {
		missing = append(missing, "exchange_rate")
	}
	if s.draft.Inputs.Area <= 0 {
		missing = append(missing, "area")
	}
	if s.draft.Inputs.UnitPrice <= 0 {
		missing = append(missing, "unit_price")
	}
	if s.draft.Inputs.DownPaymentPct < 0 {
		missing = append(missing, "down_payment_pct")
	}
	if s.draft.Inputs.MonthsFinanced < 1 {
		missing = append(missing, "months_financed")
	}
	return missing
}

// BeginSubmit flags a submit in flight; a second call before FinishSubmit is
// rejected so double-clicks cannot double-create.
func (s *Session) BeginSubmit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	if s.submitting {
		return ErrSubmitInFlight
	}
	s.submitting = true
	return nil
}

// FinishSubmit clears the in-flight flag; on success the session ends, on
// failure the draft stays intact for correction.
func (s *Session) FinishSubmit(ok bool) {
	s.mu.Lock()
	s.submitting = false
	s.mu.Unlock()
	if ok {
		s.End()
	}
}

// End terminates the session: the countdown stops and the generation bumps
// so any late async result is discarded instead of touching dead state.
func (s *Session) End() {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	s.generation++
	s.mu.Unlock()
	s.auth.StopCountdown()
}

// Ended reports whether the session was terminated.
func (s *Session) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// Generation returns the session generation token. Async work captures it
// before suspending and re-checks it before applying its result.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// LastTouch returns the time of the last edit; the sweeper uses it.
func (s *Session) LastTouch() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTouch
}

// Draft returns a copy of the current draft.
func (s *Session) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// View builds the JSON projection of the session.
func (s *Session) View() View {
	s.mu.Lock()
	draft := s.draft
	lotSourced := s.lotSourced
	capPct := s.capPct
	capped := s.capped
	s.mu.Unlock()

	return View{
		Token:         s.Token,
		QuotationID:   draft.QuotationID,
		Chain:         draft.Chain,
		Inputs:        draft.Inputs,
		Snapshot:      draft.Snapshot,
		QuotationDate: draft.QuotationDate,
		ExchangeRate:  draft.ExchangeRate,
		RateSource:    draft.RateSource,
		LotSourced:    lotSourced,
		DiscountCap:   capPct,
		Capped:        capped,
		Authorization: authView(s.auth),
	}
}

// clearLotSourcedLocked wipes the fields a lot selection populated.
func (s *Session) clearLotSourcedLocked() {
	if s.lotSourced {
		s.draft.Inputs.Area = 0
		s.draft.Inputs.UnitPrice = 0
		s.lotSourced = false
	}
}

// recomputeLocked refreshes the derived snapshot; runs on every input change.
func (s *Session) recomputeLocked() {
	s.draft.Snapshot = pricing.Recompute(s.draft.Inputs)
}

func (s *Session) touchLocked() {
	s.lastTouch = time.Now()
}

// sanitize clamps negatives and NaN to zero before pricing sees them.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
