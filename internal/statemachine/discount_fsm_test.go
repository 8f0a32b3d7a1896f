package statemachine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDiscountFSM_FullProgression(t *testing.T) {
	ctx := context.Background()
	d := NewDiscountFSM()

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	now := base
	d.SetClock(func() time.Time { return now })

	assert.Equal(t, AuthStateNone, d.Current())

	// none → supervisor_selected
	assert.NoError(t, d.SelectSupervisor(ctx, 7))
	assert.Equal(t, AuthStateSupervisorSelected, d.Current())
	assert.Equal(t, uint(7), d.SupervisorID())

	// supervisor_selected → otp_pending, expires in 300s
	expiresAt := base.Add(300 * time.Second)
	assert.NoError(t, d.MarkSent(ctx, "482913", expiresAt, nil))
	assert.Equal(t, AuthStateOtpPending, d.Current())
	assert.Equal(t, 300, d.RemainingSeconds())
	d.StopCountdown()

	// 300s elapse without validation → otp_expired
	now = base.Add(301 * time.Second)
	assert.True(t, d.ExpireIfDue())
	assert.Equal(t, AuthStateOtpExpired, d.Current())

	// validate after expiry is rejected locally
	assert.ErrorIs(t, d.Validate(ctx, "482913"), ErrOtpExpired)
	assert.Equal(t, AuthStateOtpExpired, d.Current())

	// resend refreshes the deadline → otp_pending again
	assert.NoError(t, d.MarkSent(ctx, "115007", now.Add(300*time.Second), nil))
	assert.Equal(t, AuthStateOtpPending, d.Current())
	d.StopCountdown()

	// correct 6-digit code before expiry → approved
	assert.NoError(t, d.Validate(ctx, "115007"))
	assert.Equal(t, AuthStateApproved, d.Current())
	assert.True(t, d.Approved())
}

func TestDiscountFSM_SendRequiresSupervisor(t *testing.T) {
	d := NewDiscountFSM()
	err := d.MarkSent(context.Background(), "123456", time.Now().Add(time.Minute), nil)
	assert.ErrorIs(t, err, ErrSupervisorRequired)
	assert.Equal(t, AuthStateNone, d.Current())
}

func TestDiscountFSM_ValidateGuards(t *testing.T) {
	ctx := context.Background()
	d := NewDiscountFSM()
	assert.NoError(t, d.SelectSupervisor(ctx, 3))
	assert.NoError(t, d.MarkSent(ctx, "654321", time.Now().Add(5*time.Minute), nil))
	defer d.StopCountdown()

	// format guard: exactly 6 digits
	assert.ErrorIs(t, d.Validate(ctx, "12345"), ErrOtpFormat)
	assert.ErrorIs(t, d.Validate(ctx, "12a456"), ErrOtpFormat)

	// wrong code keeps the state and the countdown
	before := d.RemainingSeconds()
	assert.ErrorIs(t, d.Validate(ctx, "000000"), ErrOtpInvalid)
	assert.Equal(t, AuthStateOtpPending, d.Current())
	assert.LessOrEqual(t, d.RemainingSeconds(), before)

	// correct code still works afterwards
	assert.NoError(t, d.Validate(ctx, "654321"))
	assert.Equal(t, AuthStateApproved, d.Current())
}

func TestDiscountFSM_ExpireOnlyFromPending(t *testing.T) {
	d := NewDiscountFSM()
	assert.False(t, d.ExpireIfDue())

	ctx := context.Background()
	assert.NoError(t, d.SelectSupervisor(ctx, 1))
	assert.False(t, d.ExpireIfDue(), "no passcode dispatched yet")
}

func TestDiscountFSM_CountdownCallbackFires(t *testing.T) {
	ctx := context.Background()
	d := NewDiscountFSM()
	assert.NoError(t, d.SelectSupervisor(ctx, 9))

	expired := make(chan struct{})
	assert.NoError(t, d.MarkSent(ctx, "999111", time.Now().Add(-time.Second), func() {
		close(expired)
	}))

	select {
	case <-expired:
	case <-time.After(3 * time.Second):
		t.Fatal("countdown did not fire expiry callback")
	}
	assert.Equal(t, AuthStateOtpExpired, d.Current())
}

func TestDiscountFSM_CannotReenterAfterApproval(t *testing.T) {
	ctx := context.Background()
	d := NewDiscountFSM()
	assert.NoError(t, d.SelectSupervisor(ctx, 2))
	assert.NoError(t, d.MarkSent(ctx, "321321", time.Now().Add(time.Minute), nil))
	assert.NoError(t, d.Validate(ctx, "321321"))

	assert.Error(t, d.MarkSent(ctx, "111111", time.Now().Add(time.Minute), nil))
	assert.Error(t, d.SelectSupervisor(ctx, 5))
	assert.Equal(t, AuthStateApproved, d.Current())
}
