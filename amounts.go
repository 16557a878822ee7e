package consideration

import (
	"math/big"

	"github.com/exchangekit/consideration-sdk-go/chain"
)

// interpolatedAmount computes an item's effective amount at fulfillment time.
// Amounts move linearly from start to end over [startTime, endTime]. The
// ascending-amount buffer shifts the evaluation point slightly forward so a
// fulfillment mined a few blocks after submission still covers the required
// amount. Consideration amounts round up, offer amounts round down, keeping
// both sides safe for the fulfiller.
func interpolatedAmount(startAmount, endAmount *big.Int, timeParams TimeBasedItemParams, roundUp bool) *big.Int {
	if startAmount.Cmp(endAmount) == 0 {
		return new(big.Int).Set(startAmount)
	}

	duration := new(big.Int).Sub(timeParams.EndTime, timeParams.StartTime)
	if duration.Sign() <= 0 {
		return new(big.Int).Set(endAmount)
	}

	at := new(big.Int).Add(timeParams.CurrentBlockTimestamp, timeParams.AscendingAmountTimestampBuffer)
	if at.Cmp(timeParams.EndTime) > 0 {
		at.Set(timeParams.EndTime)
	}
	if at.Cmp(timeParams.StartTime) < 0 {
		at.Set(timeParams.StartTime)
	}

	elapsed := new(big.Int).Sub(at, timeParams.StartTime)
	remaining := new(big.Int).Sub(duration, elapsed)

	// (startAmount*remaining + endAmount*elapsed) / duration
	total := new(big.Int).Mul(startAmount, remaining)
	total.Add(total, new(big.Int).Mul(endAmount, elapsed))
	if roundUp {
		total.Add(total, new(big.Int).Sub(duration, big.NewInt(1)))
	}

	return total.Div(total, duration)
}

func gcd(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, a, b)
}

// maxFillableUnits is the order's maximum fillable size: the greatest common
// divisor of every item amount. Supplying u units out of n fills u/n of
// every item.
func maxFillableUnits(params chain.OrderParameters) *big.Int {
	units := new(big.Int)
	accumulate := func(amount *big.Int) {
		if amount == nil || amount.Sign() == 0 {
			return
		}
		if units.Sign() == 0 {
			units.Set(amount)
			return
		}
		units.Set(gcd(units, amount))
	}

	for _, item := range params.Offer {
		accumulate(item.StartAmount)
		accumulate(item.EndAmount)
	}
	for _, item := range params.Consideration {
		accumulate(item.StartAmount)
		accumulate(item.EndAmount)
	}

	return units
}

// fillFraction reduces units-to-fill against the order's maximum size to the
// numerator/denominator pair the standard path submits.
func fillFraction(unitsToFill, maxUnits *big.Int) (numerator, denominator *big.Int, err error) {
	if maxUnits.Sign() == 0 {
		return nil, nil, &InvalidParamError{Message: "order has no fillable amount"}
	}
	if unitsToFill.Sign() <= 0 || unitsToFill.Cmp(maxUnits) > 0 {
		return nil, nil, &InvalidParamError{
			Message: "unitsToFill must be between 1 and the order's maximum fillable size",
		}
	}

	divisor := gcd(unitsToFill, maxUnits)
	numerator = new(big.Int).Div(unitsToFill, divisor)
	denominator = new(big.Int).Div(maxUnits, divisor)
	return numerator, denominator, nil
}

// scaleAmount applies a fill fraction to an amount, rounding up so partial
// fills never underpay.
func scaleAmount(amount, numerator, denominator *big.Int) *big.Int {
	scaled := new(big.Int).Mul(amount, numerator)
	scaled.Add(scaled, new(big.Int).Sub(denominator, big.NewInt(1)))
	return scaled.Div(scaled, denominator)
}

// nativeValueForFulfillment sums the native-coin value the fulfiller must
// attach: every native consideration item's interpolated amount, scaled by
// the fill fraction.
func nativeValueForFulfillment(
	consideration []chain.ConsiderationItem,
	timeParams TimeBasedItemParams,
	numerator, denominator *big.Int,
) *big.Int {
	value := big.NewInt(0)
	for _, item := range consideration {
		if item.ItemType != chain.ItemTypeNative {
			continue
		}
		amount := interpolatedAmount(item.StartAmount, item.EndAmount, timeParams, true)
		if numerator != nil && denominator != nil && denominator.Cmp(big.NewInt(1)) != 0 {
			amount = scaleAmount(amount, numerator, denominator)
		}
		value.Add(value, amount)
	}
	return value
}
