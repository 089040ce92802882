package domain

import (
	"errors"
	"testing"
)

func TestNewRejection_MessageCollapse(t *testing.T) {
	tests := []struct {
		name   string
		reason error
		isBuy  bool
		want   string
	}{
		{"Buy Invalid Amount", ErrInvalidAmount, true, MsgBuyRejected},
		{"Buy Insufficient Funds", ErrInsufficientFunds, true, MsgBuyRejected},
		{"Buy Insufficient Liquidity", ErrInsufficientLiquidity, true, MsgBuyRejected},
		{"Sell Invalid Amount", ErrInvalidAmount, false, MsgSellRejected},
		{"Sell Insufficient Holdings", ErrInsufficientHoldings, false, MsgSellRejected},
		{"No Tranche Selected", ErrNoTrancheSelected, true, MsgSelectTranche},
		{"Unknown Tranche", ErrTrancheNotFound, true, MsgUnknownTranche},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rej := NewRejection(tt.reason, tt.isBuy)
			if rej.Message != tt.want {
				t.Errorf("expected %q, got %q", tt.want, rej.Message)
			}
		})
	}
}

func TestRejectionError_Unwrap(t *testing.T) {
	rej := NewRejection(ErrInsufficientFunds, true)

	if !errors.Is(rej, ErrInsufficientFunds) {
		t.Error("rejection should unwrap to its taxonomy error")
	}
	if errors.Is(rej, ErrInsufficientHoldings) {
		t.Error("rejection should not match unrelated taxonomy errors")
	}
}
