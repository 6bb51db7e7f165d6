package model

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertBuckets(t *testing.T, a *Account, available, held string) {
	t.Helper()

	assert.True(t, a.Available().Equal(dec(available)), "available = %s, want %s", a.Available(), available)
	assert.True(t, a.Held().Equal(dec(held)), "held = %s, want %s", a.Held(), held)
	assert.True(t, a.Total().Equal(dec(available).Add(dec(held))), "total = %s", a.Total())
}

func TestNewAccountIsEmpty(t *testing.T) {
	a := NewAccount()

	assertBuckets(t, a, "0", "0")
	assert.False(t, a.Locked())
}

func TestDepositIncreasesAvailableAndTotal(t *testing.T) {
	a := NewAccount()
	a.Deposit(dec("1.0"))

	assertBuckets(t, a, "1", "0")
}

func TestWithdraw(t *testing.T) {
	tests := []struct {
		name          string
		deposit       string
		dispute       string
		withdraw      string
		wantAvailable string
		wantHeld      string
		wantRequested string
		wantErrAvail  string
	}{
		{name: "enough funds", deposit: "1.0", withdraw: "0.4", wantAvailable: "0.6", wantHeld: "0"},
		{name: "whole balance", deposit: "1.0", withdraw: "1.0", wantAvailable: "0", wantHeld: "0"},
		{name: "empty account", withdraw: "1.0", wantAvailable: "0", wantHeld: "0", wantRequested: "1.0", wantErrAvail: "0"},
		{name: "funds held by dispute", deposit: "1.0", dispute: "0.4", withdraw: "1.0", wantAvailable: "0.6", wantHeld: "0.4", wantRequested: "1.0", wantErrAvail: "0.6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAccount()
			if tt.deposit != "" {
				a.Deposit(dec(tt.deposit))
			}
			if tt.dispute != "" {
				require.NoError(t, a.Dispute(dec(tt.dispute)))
			}

			err := a.Withdraw(dec(tt.withdraw))

			if tt.wantRequested != "" {
				var insufficient *InsufficientFundsError
				require.True(t, errors.As(err, &insufficient))
				assert.True(t, insufficient.Requested.Equal(dec(tt.wantRequested)))
				assert.True(t, insufficient.Available.Equal(dec(tt.wantErrAvail)))
			} else {
				require.NoError(t, err)
			}
			assertBuckets(t, a, tt.wantAvailable, tt.wantHeld)
		})
	}
}

func TestDisputeMovesFundsToHeld(t *testing.T) {
	a := NewAccount()
	a.Deposit(dec("1.0"))

	require.NoError(t, a.Dispute(dec("0.4")))

	assertBuckets(t, a, "0.6", "0.4")
}

func TestDisputeFailsIfInsufficientFunds(t *testing.T) {
	a := NewAccount()
	a.Deposit(dec("1.0"))

	err := a.Dispute(dec("1.4"))

	var insufficient *InsufficientFundsError
	require.True(t, errors.As(err, &insufficient))
	assert.True(t, insufficient.Requested.Equal(dec("1.4")))
	assert.True(t, insufficient.Available.Equal(dec("1.0")))
	assertBuckets(t, a, "1.0", "0")
}

func TestResolveReleasesHeldFunds(t *testing.T) {
	a := NewAccount()
	a.Deposit(dec("1.0"))
	require.NoError(t, a.Dispute(dec("0.4")))

	a.Resolve(dec("0.4"))

	assertBuckets(t, a, "1.0", "0")
}

func TestChargebackRemovesHeldFundsAndLocks(t *testing.T) {
	a := NewAccount()
	a.Deposit(dec("1.0"))
	require.NoError(t, a.Dispute(dec("0.4")))

	a.Chargeback(dec("0.4"))

	assertBuckets(t, a, "0.6", "0")
	assert.True(t, a.Locked())
}

func TestLockedAccount(t *testing.T) {
	a := NewAccount()
	a.Deposit(dec("1.0"))
	require.NoError(t, a.Dispute(dec("0.4")))
	a.Chargeback(dec("0.4"))

	t.Run("withdraw refused", func(t *testing.T) {
		assert.ErrorIs(t, a.Withdraw(dec("0.1")), ErrLocked)
	})
	t.Run("dispute refused", func(t *testing.T) {
		assert.ErrorIs(t, a.Dispute(dec("0.1")), ErrLocked)
	})
	t.Run("deposit still accepted", func(t *testing.T) {
		a.Deposit(dec("2.0"))
		assertBuckets(t, a, "2.6", "0")
		assert.True(t, a.Locked())
	})
}

func TestLockedIsCheckedBeforeFunds(t *testing.T) {
	a := NewAccount()
	a.Deposit(dec("1"))
	require.NoError(t, a.Dispute(dec("1")))
	a.Chargeback(dec("1"))

	assert.ErrorIs(t, a.Withdraw(dec("5")), ErrLocked)
}
