package consideration

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/exchangekit/consideration-sdk-go/chain"
)

// InsufficientAmount describes one asset whose balance or approval falls
// short of the summed required amount.
type InsufficientAmount struct {
	Token                common.Address
	IdentifierOrCriteria *big.Int
	ItemType             chain.ItemType
	RequiredAmount       *big.Int
	AmountHave           *big.Int
}

// InsufficientApprovals is the shortfall against one approval target.
type InsufficientApprovals []InsufficientAmount

type assetKey struct {
	token      common.Address
	identifier string
}

func keyFor(token common.Address, identifier *big.Int) assetKey {
	id := "0"
	if identifier != nil {
		id = identifier.String()
	}
	return assetKey{token: token, identifier: id}
}

// maxAmount is the larger of an item's start and end amounts; approvals and
// balances must cover the worst case over the order's window.
func maxAmount(startAmount, endAmount *big.Int) *big.Int {
	if startAmount.Cmp(endAmount) >= 0 {
		return startAmount
	}
	return endAmount
}

// requiredByAsset sums required amounts per (token, identifier) key. The
// same asset may appear in multiple items, so summing must happen before any
// comparison against balances or approvals.
func requiredByAsset(items []chain.OfferItem) map[assetKey]*big.Int {
	required := make(map[assetKey]*big.Int, len(items))
	for _, item := range items {
		key := keyFor(item.Token, item.IdentifierOrCriteria)
		total, ok := required[key]
		if !ok {
			total = big.NewInt(0)
			required[key] = total
		}
		total.Add(total, maxAmount(item.StartAmount, item.EndAmount))
	}
	return required
}

// reconcileBalancesAndApprovals compares the snapshot against the summed
// required amounts. Owner-direct and proxy approvals are compared
// independently regardless of strategy: the proxy-usage decision needs both
// shortfall sets before it can run.
func reconcileBalancesAndApprovals(
	snapshot []chain.BalanceAndApproval,
	items []chain.OfferItem,
) (insufficientBalances []InsufficientAmount, insufficientOwnerApprovals, insufficientProxyApprovals InsufficientApprovals) {
	required := requiredByAsset(items)
	seen := make(map[assetKey]bool, len(snapshot))

	for _, entry := range snapshot {
		key := keyFor(entry.Token, entry.IdentifierOrCriteria)
		need, ok := required[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true

		shortfall := func(have *big.Int) *InsufficientAmount {
			if have.Cmp(need) >= 0 {
				return nil
			}
			return &InsufficientAmount{
				Token:                entry.Token,
				IdentifierOrCriteria: entry.IdentifierOrCriteria,
				ItemType:             entry.ItemType,
				RequiredAmount:       new(big.Int).Set(need),
				AmountHave:           new(big.Int).Set(have),
			}
		}

		if s := shortfall(entry.Balance); s != nil {
			insufficientBalances = append(insufficientBalances, *s)
		}
		if s := shortfall(entry.OwnerApproval); s != nil {
			insufficientOwnerApprovals = append(insufficientOwnerApprovals, *s)
		}
		if s := shortfall(entry.ProxyApproval); s != nil {
			insufficientProxyApprovals = append(insufficientProxyApprovals, *s)
		}
	}

	return insufficientBalances, insufficientOwnerApprovals, insufficientProxyApprovals
}

// scanItems projects items into the snapshot request shape, deduplicating
// per (token, identifier) so the same asset is read once.
func scanItems(items []chain.OfferItem) []chain.ScanItem {
	seen := make(map[assetKey]bool, len(items))
	out := make([]chain.ScanItem, 0, len(items))
	for _, item := range items {
		key := keyFor(item.Token, item.IdentifierOrCriteria)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, chain.ScanItem{
			ItemType:             item.ItemType,
			Token:                item.Token,
			IdentifierOrCriteria: item.IdentifierOrCriteria,
		})
	}
	return out
}

// offerView drops recipients so consideration items can flow through the
// same reconciliation path as offer items.
func offerView(items []chain.ConsiderationItem) []chain.OfferItem {
	out := make([]chain.OfferItem, len(items))
	for i, item := range items {
		out[i] = chain.OfferItem{
			ItemType:             item.ItemType,
			Token:                item.Token,
			IdentifierOrCriteria: item.IdentifierOrCriteria,
			StartAmount:          item.StartAmount,
			EndAmount:            item.EndAmount,
		}
	}
	return out
}

// useProxy decides the transfer path from the two shortfall sets. A pure
// decision: no chain state is consulted here.
//
// IF_ZERO_APPROVALS_NEEDED prefers whichever path needs no new approvals,
// defaulting to direct ownership on a tie.
func useProxy(
	strategy ProxyStrategy,
	hasProxy bool,
	insufficientOwnerApprovals, insufficientProxyApprovals InsufficientApprovals,
) bool {
	switch strategy {
	case ProxyStrategyNever:
		return false
	case ProxyStrategyAlways:
		return hasProxy
	case ProxyStrategyIfZeroApprovalsNeeded:
		return hasProxy &&
			len(insufficientProxyApprovals) == 0 &&
			len(insufficientOwnerApprovals) > 0
	default:
		return false
	}
}
