package consideration

import "github.com/exchangekit/consideration-sdk-go/chain"

type orderTypeKey struct {
	allowPartialFills bool
	restrictedByZone  bool
	useProxy          bool
}

// All eight combinations of the three order axes. Lookup failure is a
// programming-contract violation surfaced as InvalidOrderTypeError.
var orderTypeTable = map[orderTypeKey]chain.OrderType{
	{false, false, false}: chain.OrderTypeFullOpen,
	{true, false, false}:  chain.OrderTypePartialOpen,
	{false, true, false}:  chain.OrderTypeFullRestricted,
	{true, true, false}:   chain.OrderTypePartialRestricted,
	{false, false, true}:  chain.OrderTypeFullOpenViaProxy,
	{true, false, true}:   chain.OrderTypePartialOpenViaProxy,
	{false, true, true}:   chain.OrderTypeFullRestrictedViaProxy,
	{true, true, true}:    chain.OrderTypePartialRestrictedViaProxy,
}

func resolveOrderType(allowPartialFills, restrictedByZone, useProxy bool) (chain.OrderType, error) {
	orderType, ok := orderTypeTable[orderTypeKey{allowPartialFills, restrictedByZone, useProxy}]
	if !ok {
		return 0, &InvalidOrderTypeError{
			AllowPartialFills: allowPartialFills,
			RestrictedByZone:  restrictedByZone,
			UseProxy:          useProxy,
		}
	}
	return orderType, nil
}
