package consideration

import (
	"math/big"

	"github.com/exchangekit/consideration-sdk-go/chain"
)

var basisPointsDenominator = big.NewInt(10000)

// feePortion is the floored basis-points share of an amount. Flooring is the
// documented rounding policy: the reduced item amount and the fee item amount
// always sum back to the original exactly, and no remainder carries between
// fees.
func feePortion(amount *big.Int, basisPoints uint64) *big.Int {
	portion := new(big.Int).Mul(amount, new(big.Int).SetUint64(basisPoints))
	return portion.Div(portion, basisPointsDenominator)
}

// deductFees subtracts each fee's basis-points share from every currency
// item's start and end amounts and appends one consideration item per fee
// carrying the deducted amount. Non-currency items pass through unchanged.
// Inputs are never mutated; adjusted copies are returned.
//
// All currency items must share one token: fee consideration items are
// denominated in it.
func deductFees(
	offer []chain.OfferItem,
	consideration []chain.ConsiderationItem,
	fees []Fee,
) ([]chain.OfferItem, []chain.ConsiderationItem, error) {
	adjustedOffer := make([]chain.OfferItem, len(offer))
	copy(adjustedOffer, offer)
	adjustedConsideration := make([]chain.ConsiderationItem, len(consideration), len(consideration)+len(fees))
	copy(adjustedConsideration, consideration)

	if len(fees) == 0 {
		return adjustedOffer, adjustedConsideration, nil
	}

	currency, err := orderCurrency(offer, consideration)
	if err != nil {
		return nil, nil, err
	}
	if currency == nil {
		// No currency items anywhere; nothing to take a cut of.
		return nil, nil, &InvalidParamError{
			Message: "fees require at least one currency item in the order",
		}
	}

	// Fees must leave the reduced amounts non-negative: each fee is bounded
	// individually and the aggregate cut must stay under the whole.
	totalBasisPoints := uint64(0)
	for _, fee := range fees {
		if fee.BasisPoints == 0 || fee.BasisPoints >= 10000 {
			return nil, nil, &InvalidParamError{
				Message: "fee basis points must be between 1 and 9999",
			}
		}
		totalBasisPoints += fee.BasisPoints
	}
	if totalBasisPoints >= 10000 {
		return nil, nil, &InvalidParamError{
			Message: "fees must sum to less than 10000 basis points",
		}
	}

	// Each fee's cut is computed against the original amounts, never against
	// another fee's payout or an already-reduced item.
	for _, fee := range fees {
		feeStart := big.NewInt(0)
		feeEnd := big.NewInt(0)

		for i := range offer {
			if !offer[i].ItemType.IsCurrency() {
				continue
			}
			startCut := feePortion(offer[i].StartAmount, fee.BasisPoints)
			endCut := feePortion(offer[i].EndAmount, fee.BasisPoints)
			adjustedOffer[i].StartAmount = new(big.Int).Sub(adjustedOffer[i].StartAmount, startCut)
			adjustedOffer[i].EndAmount = new(big.Int).Sub(adjustedOffer[i].EndAmount, endCut)
			feeStart.Add(feeStart, startCut)
			feeEnd.Add(feeEnd, endCut)
		}

		for i := range consideration {
			if !consideration[i].ItemType.IsCurrency() {
				continue
			}
			startCut := feePortion(consideration[i].StartAmount, fee.BasisPoints)
			endCut := feePortion(consideration[i].EndAmount, fee.BasisPoints)
			adjustedConsideration[i].StartAmount = new(big.Int).Sub(adjustedConsideration[i].StartAmount, startCut)
			adjustedConsideration[i].EndAmount = new(big.Int).Sub(adjustedConsideration[i].EndAmount, endCut)
			feeStart.Add(feeStart, startCut)
			feeEnd.Add(feeEnd, endCut)
		}

		adjustedConsideration = append(adjustedConsideration, chain.ConsiderationItem{
			ItemType:             currency.ItemType,
			Token:                currency.Token,
			IdentifierOrCriteria: big.NewInt(0),
			StartAmount:          feeStart,
			EndAmount:            feeEnd,
			Recipient:            fee.Recipient,
		})
	}

	return adjustedOffer, adjustedConsideration, nil
}

// orderCurrency finds the single currency the order's fungible items are
// denominated in. Returns nil when the order holds no currency items, an
// error when it mixes currencies.
func orderCurrency(offer []chain.OfferItem, consideration []chain.ConsiderationItem) (*chain.ScanItem, error) {
	var currency *chain.ScanItem

	check := func(candidate chain.ScanItem) error {
		if currency == nil {
			currency = &candidate
			return nil
		}
		if currency.Token != candidate.Token || currency.ItemType != candidate.ItemType {
			return &InvalidParamError{
				Message: "order mixes multiple currencies; fees require a single currency",
			}
		}
		return nil
	}

	for _, item := range offer {
		if !item.ItemType.IsCurrency() {
			continue
		}
		if err := check(chain.ScanItem{ItemType: item.ItemType, Token: item.Token}); err != nil {
			return nil, err
		}
	}
	for _, item := range consideration {
		if !item.ItemType.IsCurrency() {
			continue
		}
		if err := check(chain.ScanItem{ItemType: item.ItemType, Token: item.Token}); err != nil {
			return nil, err
		}
	}

	return currency, nil
}
