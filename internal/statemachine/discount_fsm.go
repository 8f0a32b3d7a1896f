package statemachine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/looplab/fsm"
)

// Discount authorization states. The workflow gates discounts above the
// advisor cap behind a supervisor one-time passcode; "approved" is terminal
// for the editing session.
const (
	AuthStateNone               = "none"
	AuthStateSupervisorSelected = "supervisor_selected"
	AuthStateOtpPending         = "otp_pending"
	AuthStateOtpExpired         = "otp_expired"
	AuthStateApproved           = "approved"
)

// Workflow errors surfaced to the handler layer
var (
	ErrSupervisorRequired = errors.New("debe seleccionar un supervisor")
	ErrOtpFormat          = errors.New("el código debe tener exactamente 6 dígitos")
	ErrOtpExpired         = errors.New("el código ha expirado, solicita un reenvío")
	ErrOtpInvalid         = errors.New("código incorrecto")
)

// DiscountFSM is the per-session discount authorization state machine.
// It owns the one-second countdown that expires a pending passcode; the
// countdown goroutine is torn down on approval, expiry or session end.
type DiscountFSM struct {
	mu           sync.Mutex
	fsm          *fsm.FSM
	supervisorID uint
	code         string
	expiresAt    time.Time
	now          func() time.Time
	stopTick     chan struct{}
}

// NewDiscountFSM creates a discount authorization machine in the initial state
func NewDiscountFSM() *DiscountFSM {
	d := &DiscountFSM{
		now: time.Now,
	}

	d.fsm = fsm.NewFSM(
		AuthStateNone,
		fsm.Events{
			// none → supervisor_selected
			{Name: "select_supervisor", Src: []string{AuthStateNone}, Dst: AuthStateSupervisorSelected},

			// supervisor_selected → otp_pending
			{Name: "send", Src: []string{AuthStateSupervisorSelected}, Dst: AuthStateOtpPending},

			// otp_pending → otp_expired (countdown reached zero)
			{Name: "expire", Src: []string{AuthStateOtpPending}, Dst: AuthStateOtpExpired},

			// otp_expired → otp_pending (resend to the same supervisor)
			{Name: "resend", Src: []string{AuthStateOtpExpired}, Dst: AuthStateOtpPending},

			// otp_pending → approved
			{Name: "approve", Src: []string{AuthStateOtpPending}, Dst: AuthStateApproved},
		},
		fsm.Callbacks{},
	)

	return d
}

// SelectSupervisor records the supervisor that will authorize the discount.
// Re-picking while still in supervisor_selected only swaps the identity.
func (d *DiscountFSM) SelectSupervisor(ctx context.Context, supervisorID uint) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if supervisorID == 0 {
		return ErrSupervisorRequired
	}

	switch d.fsm.Current() {
	case AuthStateNone:
		if err := d.fsm.Event(ctx, "select_supervisor"); err != nil {
			return fmt.Errorf("failed to select supervisor: %w", err)
		}
	case AuthStateSupervisorSelected:
		// swap only
	default:
		return fmt.Errorf("supervisor cannot be changed in current state: %s", d.fsm.Current())
	}

	d.supervisorID = supervisorID
	return nil
}

// MarkSent transitions to otp_pending after a passcode dispatch, capturing the
// code and its expiry. From supervisor_selected it is a first send, from
// otp_expired a resend; the countdown restarts either way. onExpire runs once
// if the countdown reaches zero without a successful validation.
func (d *DiscountFSM) MarkSent(ctx context.Context, code string, expiresAt time.Time, onExpire func()) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.supervisorID == 0 {
		return ErrSupervisorRequired
	}

	var event string
	switch d.fsm.Current() {
	case AuthStateSupervisorSelected:
		event = "send"
	case AuthStateOtpExpired:
		event = "resend"
	default:
		return fmt.Errorf("otp cannot be sent in current state: %s", d.fsm.Current())
	}

	if err := d.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("failed to dispatch otp: %w", err)
	}

	d.code = code
	d.expiresAt = expiresAt
	d.startCountdownLocked(onExpire)
	return nil
}

// Validate checks a 6-digit code against the pending passcode. An expired or
// wrong code never advances the state and never touches the countdown.
// Expiry is checked locally before anything else, so a validate after the
// deadline is rejected without work.
func (d *DiscountFSM) Validate(ctx context.Context, code string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !isSixDigits(code) {
		return ErrOtpFormat
	}

	switch d.fsm.Current() {
	case AuthStateOtpPending:
		if d.now().After(d.expiresAt) {
			// the ticker will move us to otp_expired on its next pass
			return ErrOtpExpired
		}
	case AuthStateOtpExpired:
		return ErrOtpExpired
	default:
		return fmt.Errorf("otp cannot be validated in current state: %s", d.fsm.Current())
	}

	if code != d.code {
		return ErrOtpInvalid
	}

	if err := d.fsm.Event(ctx, "approve"); err != nil {
		return fmt.Errorf("failed to approve discount: %w", err)
	}

	d.stopCountdownLocked()
	return nil
}

// ExpireIfDue fires the expire transition when the pending passcode's
// deadline has passed. Returns true if the state changed.
func (d *DiscountFSM) ExpireIfDue() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.fsm.Current() != AuthStateOtpPending || !d.now().After(d.expiresAt) {
		return false
	}

	if err := d.fsm.Event(context.Background(), "expire"); err != nil {
		return false
	}
	d.stopCountdownLocked()
	return true
}

// startCountdownLocked (re)starts the one-second tick. Caller holds d.mu.
func (d *DiscountFSM) startCountdownLocked(onExpire func()) {
	d.stopCountdownLocked()
	stop := make(chan struct{})
	d.stopTick = stop

	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if d.ExpireIfDue() {
					if onExpire != nil {
						onExpire()
					}
					return
				}
			}
		}
	}()
}

func (d *DiscountFSM) stopCountdownLocked() {
	if d.stopTick != nil {
		close(d.stopTick)
		d.stopTick = nil
	}
}

// StopCountdown cancels the tick without changing state. Called when the
// editing session ends so no late tick touches a defunct session.
func (d *DiscountFSM) StopCountdown() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopCountdownLocked()
}

// Current returns the current state
func (d *DiscountFSM) Current() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fsm.Current()
}

// Approved returns true once the discount has been authorized
func (d *DiscountFSM) Approved() bool {
	return d.Current() == AuthStateApproved
}

// SupervisorID returns the selected supervisor, zero when none
func (d *DiscountFSM) SupervisorID() uint {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.supervisorID
}

// ExpiresAt returns the pending passcode deadline
func (d *DiscountFSM) ExpiresAt() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.expiresAt
}

// RemainingSeconds returns the countdown remainder, zero when lapsed
func (d *DiscountFSM) RemainingSeconds() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fsm.Current() != AuthStateOtpPending {
		return 0
	}
	remaining := int(d.expiresAt.Sub(d.now()).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// SetClock overrides the time source; test hook.
func (d *DiscountFSM) SetClock(now func() time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.now = now
}

func isSixDigits(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
