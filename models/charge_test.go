package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCharge(status ChargeStatus) *Charge {
	return &Charge{
		Amount: decimal.RequireFromString("100.00"),
		Status: status,
	}
}

func TestMarkPaid(t *testing.T) {
	ch := newTestCharge(ChargePending)
	require.NoError(t, ch.MarkPaid("pi_123"))
	assert.Equal(t, ChargePaid, ch.Status)
	assert.Equal(t, "pi_123", ch.PaymentGatewayID)
	require.NotNil(t, ch.PaidAt)

	// Paying twice is a conflict, not a silent overwrite
	assert.Error(t, ch.MarkPaid("pi_456"))
	assert.Equal(t, "pi_123", ch.PaymentGatewayID)
}

func TestMarkPaidRejectsNonPending(t *testing.T) {
	for _, status := range []ChargeStatus{ChargeCanceled, ChargeRefunded, ChargePartiallyRefunded, ChargeInDispute} {
		ch := newTestCharge(status)
		assert.Error(t, ch.MarkPaid("pi_123"), "status %s", status)
		assert.Equal(t, status, ch.Status)
	}
}

func TestMarkFailed(t *testing.T) {
	ch := newTestCharge(ChargePending)
	assert.True(t, ch.MarkFailed())
	assert.Equal(t, ChargeCanceled, ch.Status)
}

func TestMarkFailedNeverCancelsPaidCharge(t *testing.T) {
	// A late failure notification after a success must not undo the payment
	ch := newTestCharge(ChargePending)
	require.NoError(t, ch.MarkPaid("pi_123"))

	assert.False(t, ch.MarkFailed())
	assert.Equal(t, ChargePaid, ch.Status)
}

func TestApplyRefundPartialThenFull(t *testing.T) {
	ch := newTestCharge(ChargePending)
	require.NoError(t, ch.MarkPaid("pi_123"))

	require.NoError(t, ch.ApplyRefund(decimal.RequireFromString("40.00")))
	assert.Equal(t, ChargePartiallyRefunded, ch.Status)
	assert.True(t, ch.RefundedAmount.Equal(decimal.RequireFromString("40.00")))

	require.NoError(t, ch.ApplyRefund(decimal.RequireFromString("60.00")))
	assert.Equal(t, ChargeRefunded, ch.Status)
	assert.True(t, ch.RefundedAmount.Equal(decimal.RequireFromString("100.00")))
}

func TestApplyRefundRejectsInvalidStates(t *testing.T) {
	for _, status := range []ChargeStatus{ChargePending, ChargeCanceled, ChargeRefunded, ChargeInDispute} {
		ch := newTestCharge(status)
		assert.Error(t, ch.ApplyRefund(decimal.RequireFromString("10.00")), "status %s", status)
	}
}

func TestApplyRefundRejectsNonPositiveAmount(t *testing.T) {
	ch := newTestCharge(ChargePaid)
	assert.Error(t, ch.ApplyRefund(decimal.Zero))
	assert.Error(t, ch.ApplyRefund(decimal.RequireFromString("-5.00")))
	assert.Equal(t, ChargePaid, ch.Status)
}

func TestApplyRefundOverpayStillFullRefund(t *testing.T) {
	ch := newTestCharge(ChargePaid)
	require.NoError(t, ch.ApplyRefund(decimal.RequireFromString("150.00")))
	assert.Equal(t, ChargeRefunded, ch.Status)
}

func TestMarkDisputedFromAnyStatus(t *testing.T) {
	for _, status := range []ChargeStatus{ChargePending, ChargePaid, ChargeCanceled, ChargeRefunded, ChargePartiallyRefunded} {
		ch := newTestCharge(status)
		ch.MarkDisputed()
		assert.Equal(t, ChargeInDispute, ch.Status)
	}
}
