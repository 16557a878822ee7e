package consideration

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exchangekit/consideration-sdk-go/chain"
)

func timeParams(start, end, now, buffer int64) TimeBasedItemParams {
	return TimeBasedItemParams{
		StartTime:                      big.NewInt(start),
		EndTime:                        big.NewInt(end),
		CurrentBlockTimestamp:          big.NewInt(now),
		AscendingAmountTimestampBuffer: big.NewInt(buffer),
	}
}

func TestInterpolatedAmountConstant(t *testing.T) {
	got := interpolatedAmount(big.NewInt(100), big.NewInt(100), timeParams(0, 1000, 500, 300), true)
	assert.Equal(t, big.NewInt(100), got)
}

func TestInterpolatedAmountAscending(t *testing.T) {
	// Halfway through a 0->1000 window from 100 to 200: exactly 150.
	params := timeParams(0, 1000, 500, 0)
	assert.Equal(t, big.NewInt(150), interpolatedAmount(big.NewInt(100), big.NewInt(200), params, true))

	// 1/3 elapsed from 100 to 200: 133.33..; consideration rounds up, offer
	// rounds down.
	params = timeParams(0, 3000, 1000, 0)
	assert.Equal(t, big.NewInt(134), interpolatedAmount(big.NewInt(100), big.NewInt(200), params, true))
	assert.Equal(t, big.NewInt(133), interpolatedAmount(big.NewInt(100), big.NewInt(200), params, false))
}

func TestInterpolatedAmountBuffer(t *testing.T) {
	// The buffer shifts the evaluation point forward: at t=500 with a 300s
	// buffer the ascending amount is taken at t=800.
	params := timeParams(0, 1000, 500, 300)
	assert.Equal(t, big.NewInt(180), interpolatedAmount(big.NewInt(100), big.NewInt(200), params, true))

	// Buffer never pushes past the end time.
	params = timeParams(0, 1000, 900, 300)
	assert.Equal(t, big.NewInt(200), interpolatedAmount(big.NewInt(100), big.NewInt(200), params, true))
}

func TestInterpolatedAmountBeforeStart(t *testing.T) {
	params := timeParams(1000, 2000, 0, 0)
	assert.Equal(t, big.NewInt(100), interpolatedAmount(big.NewInt(100), big.NewInt(200), params, true))
}

func TestMaxFillableUnits(t *testing.T) {
	params := chain.OrderParameters{
		Offer: []chain.OfferItem{{
			ItemType:    chain.ItemTypeERC1155,
			StartAmount: big.NewInt(10),
			EndAmount:   big.NewInt(10),
		}},
		Consideration: []chain.ConsiderationItem{{
			ItemType:    chain.ItemTypeNative,
			StartAmount: big.NewInt(1000),
			EndAmount:   big.NewInt(1500),
		}},
	}

	// gcd(10, 1000, 1500) = 10: the order splits into at most 10 units.
	assert.Equal(t, big.NewInt(10), maxFillableUnits(params))
}

func TestMaxFillableUnitsIndivisible(t *testing.T) {
	params := chain.OrderParameters{
		Offer: []chain.OfferItem{{
			ItemType:    chain.ItemTypeERC721,
			StartAmount: big.NewInt(1),
			EndAmount:   big.NewInt(1),
		}},
		Consideration: []chain.ConsiderationItem{{
			ItemType:    chain.ItemTypeNative,
			StartAmount: big.NewInt(1000),
			EndAmount:   big.NewInt(1000),
		}},
	}

	assert.Equal(t, big.NewInt(1), maxFillableUnits(params))
}

func TestFillFraction(t *testing.T) {
	numerator, denominator, err := fillFraction(big.NewInt(4), big.NewInt(10))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(2), numerator)
	assert.Equal(t, big.NewInt(5), denominator)

	numerator, denominator, err = fillFraction(big.NewInt(10), big.NewInt(10))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), numerator)
	assert.Equal(t, big.NewInt(1), denominator)
}

func TestFillFractionRejectsOutOfRange(t *testing.T) {
	_, _, err := fillFraction(big.NewInt(0), big.NewInt(10))
	assert.Error(t, err)

	_, _, err = fillFraction(big.NewInt(11), big.NewInt(10))
	assert.Error(t, err)

	_, _, err = fillFraction(big.NewInt(1), big.NewInt(0))
	assert.Error(t, err)
}

func TestScaleAmountRoundsUp(t *testing.T) {
	// 100 * 1/3 = 33.33.. -> 34: partial fills never underpay.
	assert.Equal(t, big.NewInt(34), scaleAmount(big.NewInt(100), big.NewInt(1), big.NewInt(3)))
	assert.Equal(t, big.NewInt(50), scaleAmount(big.NewInt(100), big.NewInt(1), big.NewInt(2)))
}

func TestNativeValueForFulfillment(t *testing.T) {
	consideration := []chain.ConsiderationItem{
		{
			ItemType:    chain.ItemTypeNative,
			StartAmount: big.NewInt(1000),
			EndAmount:   big.NewInt(1000),
		},
		{
			// ERC20 items never contribute to the attached value.
			ItemType:    chain.ItemTypeERC20,
			Token:       testWETH,
			StartAmount: big.NewInt(5000),
			EndAmount:   big.NewInt(5000),
		},
		{
			ItemType:    chain.ItemTypeNative,
			StartAmount: big.NewInt(100),
			EndAmount:   big.NewInt(100),
		},
	}
	params := timeParams(0, 1000, 500, 0)

	assert.Equal(t, big.NewInt(1100), nativeValueForFulfillment(consideration, params, nil, nil))

	// Half fill pays half the native value.
	assert.Equal(t, big.NewInt(550), nativeValueForFulfillment(consideration, params, big.NewInt(1), big.NewInt(2)))
}
