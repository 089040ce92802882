package domain

import "errors"

var (
	// ErrInvalidAmount is returned for non-numeric, non-positive or
	// fractional unit counts.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientFunds is returned when a buy exceeds the cash balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientLiquidity is returned when a buy exceeds the
	// tranche's remaining liquidity.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")

	// ErrInsufficientHoldings is returned when a sell exceeds the units held.
	ErrInsufficientHoldings = errors.New("insufficient holdings")

	// ErrNoTrancheSelected is returned when submit runs before a tranche
	// has been selected.
	ErrNoTrancheSelected = errors.New("no tranche selected")

	// ErrTrancheNotFound is returned for a name outside the closed
	// tranche set. Should not occur in normal operation.
	ErrTrancheNotFound = errors.New("tranche not found")
)

// User-visible messages. Buy-side rejections collapse to one message,
// sell-side to another; no further detail is surfaced.
const (
	MsgBuyRejected    = "Insufficient funds or invalid unit amount"
	MsgSellRejected   = "Insufficient units to sell"
	MsgSelectTranche  = "Select a tranche before trading"
	MsgUnknownTranche = "Unknown tranche"
)

// RejectionError pairs a taxonomy error with the collapsed message the
// presentation layer shows.
type RejectionError struct {
	Reason  error
	Message string
}

func (e *RejectionError) Error() string {
	return e.Reason.Error()
}

func (e *RejectionError) Unwrap() error {
	return e.Reason
}

// NewRejection picks the collapsed user message for a taxonomy error.
func NewRejection(reason error, isBuy bool) *RejectionError {
	msg := MsgBuyRejected
	switch {
	case errors.Is(reason, ErrNoTrancheSelected):
		msg = MsgSelectTranche
	case errors.Is(reason, ErrTrancheNotFound):
		msg = MsgUnknownTranche
	case errors.Is(reason, ErrInsufficientHoldings):
		msg = MsgSellRejected
	case !isBuy:
		msg = MsgSellRejected
	}
	return &RejectionError{Reason: reason, Message: msg}
}
