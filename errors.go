package consideration

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrInvalidParam represents an invalid parameter error
	ErrInvalidParam = errors.New("invalid parameter")

	// ErrOrderCancelled is returned when fulfillment is attempted on an order
	// whose on-chain status is cancelled
	ErrOrderCancelled = errors.New("order cancelled")

	// ErrOrderFullyFilled is returned when fulfillment is attempted on an
	// order with no remaining fillable units
	ErrOrderFullyFilled = errors.New("order fully filled")
)

// InvalidParamError represents an invalid parameter error with context
type InvalidParamError struct {
	Message string
}

func (e *InvalidParamError) Error() string {
	return e.Message
}

func (e *InvalidParamError) Unwrap() error {
	return ErrInvalidParam
}

// CancelledOrderError is raised when an order's on-chain status reports it
// cancelled. Fatal: the order can never be fulfilled.
type CancelledOrderError struct {
	OrderHash common.Hash
}

func (e *CancelledOrderError) Error() string {
	return fmt.Sprintf("order %s has been cancelled", e.OrderHash.Hex())
}

func (e *CancelledOrderError) Unwrap() error {
	return ErrOrderCancelled
}

// InsufficientBalancesError is raised at order creation, when configured to
// check, if the offerer cannot fund the fee-adjusted offer.
type InsufficientBalancesError struct {
	Insufficient []InsufficientAmount
}

func (e *InsufficientBalancesError) Error() string {
	return fmt.Sprintf("offerer balance insufficient for %d offer item(s)", len(e.Insufficient))
}

// InsufficientApprovalsError is raised at fulfillment when the offerer's
// approvals on the order's transfer path no longer cover the offer side.
// Only the offerer can repair this.
type InsufficientApprovalsError struct {
	Insufficient []InsufficientAmount
}

func (e *InsufficientApprovalsError) Error() string {
	return fmt.Sprintf("offerer approvals insufficient for %d offer item(s)", len(e.Insufficient))
}

// InvalidOrderTypeError is raised when the order-type lookup is given an
// options combination outside its 2x2x2 domain. This is a programming-contract
// violation, not a recoverable condition.
type InvalidOrderTypeError struct {
	AllowPartialFills bool
	RestrictedByZone  bool
	UseProxy          bool
}

func (e *InvalidOrderTypeError) Error() string {
	return fmt.Sprintf(
		"no order type for combination partial=%t restricted=%t proxy=%t",
		e.AllowPartialFills, e.RestrictedByZone, e.UseProxy,
	)
}
