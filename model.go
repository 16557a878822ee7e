package consideration

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/exchangekit/consideration-sdk-go/chain"
)

// Fee is a basis-points cut of the aggregate currency amount, paid to a
// recipient through an appended consideration item.
type Fee struct {
	Recipient   common.Address
	BasisPoints uint64
}

// CreateOrderInput is the caller-facing order description. Zero/nil fields
// take named defaults: Zone -> zero address, StartTime -> now,
// EndTime -> max uint256, Nonce -> resolved on-chain, Salt -> random.
type CreateOrderInput struct {
	Zone              common.Address
	StartTime         *big.Int
	EndTime           *big.Int
	Offer             []chain.OfferItem
	Consideration     []chain.ConsiderationItem
	Nonce             *big.Int
	AllowPartialFills bool
	RestrictedByZone  bool
	Fees              []Fee
	Salt              *big.Int
}

// CreatedOrder is the terminal artifact of a create-order pipeline.
type CreatedOrder struct {
	Order     chain.Order
	Nonce     *big.Int
	OrderHash common.Hash
}

// FulfillOrderInput tunes fulfillment. A nil UnitsToFill settles the whole
// remaining order; a non-nil value settles that many units against the
// order's maximum fillable size.
type FulfillOrderInput struct {
	UnitsToFill *big.Int
}

// TimeBasedItemParams carries everything needed to interpolate an item's
// effective amount at fulfillment time.
type TimeBasedItemParams struct {
	StartTime                      *big.Int
	EndTime                        *big.Int
	CurrentBlockTimestamp          *big.Int
	AscendingAmountTimestampBuffer *big.Int
}
