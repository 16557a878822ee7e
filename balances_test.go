package consideration

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exchangekit/consideration-sdk-go/chain"
)

func erc20Offer(token common.Address, start, end int64) chain.OfferItem {
	return chain.OfferItem{
		ItemType:             chain.ItemTypeERC20,
		Token:                token,
		IdentifierOrCriteria: big.NewInt(0),
		StartAmount:          big.NewInt(start),
		EndAmount:            big.NewInt(end),
	}
}

func TestRequiredByAssetSumsDuplicates(t *testing.T) {
	items := []chain.OfferItem{
		erc20Offer(testWETH, 100, 100),
		erc20Offer(testWETH, 50, 75),
	}

	required := requiredByAsset(items)
	require.Len(t, required, 1)

	// 100 + max(50, 75): required amounts sum per asset before comparison.
	need := required[keyFor(testWETH, big.NewInt(0))]
	assert.Equal(t, big.NewInt(175), need)
}

func TestReconcileBalancesAndApprovals(t *testing.T) {
	items := []chain.OfferItem{
		erc20Offer(testWETH, 60, 60),
		erc20Offer(testWETH, 60, 60),
	}
	snapshot := []chain.BalanceAndApproval{{
		ScanItem: chain.ScanItem{
			ItemType:             chain.ItemTypeERC20,
			Token:                testWETH,
			IdentifierOrCriteria: big.NewInt(0),
		},
		Balance:       big.NewInt(200),
		OwnerApproval: big.NewInt(100),
		ProxyApproval: big.NewInt(0),
	}}

	balances, ownerApprovals, proxyApprovals := reconcileBalancesAndApprovals(snapshot, items)

	// Balance 200 covers the summed 120; each single item alone would too,
	// but the owner approval of 100 does not cover the sum.
	assert.Empty(t, balances)
	require.Len(t, ownerApprovals, 1)
	assert.Equal(t, big.NewInt(120), ownerApprovals[0].RequiredAmount)
	assert.Equal(t, big.NewInt(100), ownerApprovals[0].AmountHave)
	require.Len(t, proxyApprovals, 1)
	assert.Equal(t, big.NewInt(0), proxyApprovals[0].AmountHave)
}

func TestScanItemsDeduplicates(t *testing.T) {
	items := []chain.OfferItem{
		erc20Offer(testWETH, 100, 100),
		erc20Offer(testWETH, 50, 50),
		{
			ItemType:             chain.ItemTypeERC721,
			Token:                testNFT,
			IdentifierOrCriteria: big.NewInt(7),
			StartAmount:          big.NewInt(1),
			EndAmount:            big.NewInt(1),
		},
	}

	scans := scanItems(items)
	require.Len(t, scans, 2)
	assert.Equal(t, testWETH, scans[0].Token)
	assert.Equal(t, testNFT, scans[1].Token)
}

func TestOfferView(t *testing.T) {
	consideration := []chain.ConsiderationItem{{
		ItemType:             chain.ItemTypeERC20,
		Token:                testWETH,
		IdentifierOrCriteria: big.NewInt(0),
		StartAmount:          big.NewInt(10),
		EndAmount:            big.NewInt(20),
		Recipient:            testFeeRecipient,
	}}

	view := offerView(consideration)
	require.Len(t, view, 1)
	assert.Equal(t, chain.ItemTypeERC20, view[0].ItemType)
	assert.Equal(t, big.NewInt(10), view[0].StartAmount)
	assert.Equal(t, big.NewInt(20), view[0].EndAmount)
}

func TestUseProxy(t *testing.T) {
	one := InsufficientApprovals{{Token: testWETH}}

	cases := []struct {
		name     string
		strategy ProxyStrategy
		hasProxy bool
		owner    InsufficientApprovals
		proxy    InsufficientApprovals
		want     bool
	}{
		{"never with shortfalls", ProxyStrategyNever, true, one, nil, false},
		{"always with proxy", ProxyStrategyAlways, true, nil, one, true},
		{"always without proxy", ProxyStrategyAlways, false, nil, nil, false},
		{"if-zero picks proxy", ProxyStrategyIfZeroApprovalsNeeded, true, one, nil, true},
		{"if-zero tie prefers direct", ProxyStrategyIfZeroApprovalsNeeded, true, nil, nil, false},
		{"if-zero both short prefers direct", ProxyStrategyIfZeroApprovalsNeeded, true, one, one, false},
		{"if-zero without proxy", ProxyStrategyIfZeroApprovalsNeeded, false, one, nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := useProxy(tc.strategy, tc.hasProxy, tc.owner, tc.proxy)
			assert.Equal(t, tc.want, got)
		})
	}
}

// A seller whose proxy already holds approval needs zero approval actions and
// settles through the proxy under IF_ZERO_APPROVALS_NEEDED.
func TestProxyApprovedPlanNeedsNoApprovals(t *testing.T) {
	items := []chain.OfferItem{{
		ItemType:             chain.ItemTypeERC721,
		Token:                testNFT,
		IdentifierOrCriteria: big.NewInt(1),
		StartAmount:          big.NewInt(1),
		EndAmount:            big.NewInt(1),
	}}
	snapshot := []chain.BalanceAndApproval{{
		ScanItem: chain.ScanItem{
			ItemType:             chain.ItemTypeERC721,
			Token:                testNFT,
			IdentifierOrCriteria: big.NewInt(1),
		},
		Balance:       big.NewInt(1),
		OwnerApproval: big.NewInt(0),
		ProxyApproval: new(big.Int).Set(chain.MaxUint256),
	}}

	balances, ownerApprovals, proxyApprovals := reconcileBalancesAndApprovals(snapshot, items)
	assert.Empty(t, balances)
	assert.NotEmpty(t, ownerApprovals)
	assert.Empty(t, proxyApprovals)

	usingProxy := useProxy(ProxyStrategyIfZeroApprovalsNeeded, true, ownerApprovals, proxyApprovals)
	assert.True(t, usingProxy)

	actions := approvalActions(proxyApprovals, testFeeRecipient)
	assert.Empty(t, actions)

	orderType, err := resolveOrderType(false, false, usingProxy)
	require.NoError(t, err)
	assert.Equal(t, chain.OrderTypeFullOpenViaProxy, orderType)
}
