package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemTypeIsCurrency(t *testing.T) {
	assert.True(t, ItemTypeNative.IsCurrency())
	assert.True(t, ItemTypeERC20.IsCurrency())
	assert.False(t, ItemTypeERC721.IsCurrency())
	assert.False(t, ItemTypeERC1155.IsCurrency())
	assert.False(t, ItemTypeERC721WithCriteria.IsCurrency())
}

func TestItemTypeIsCriteriaBased(t *testing.T) {
	assert.True(t, ItemTypeERC721WithCriteria.IsCriteriaBased())
	assert.True(t, ItemTypeERC1155WithCriteria.IsCriteriaBased())
	assert.False(t, ItemTypeERC721.IsCriteriaBased())
	assert.False(t, ItemTypeNative.IsCriteriaBased())
}

func TestOrderTypeBits(t *testing.T) {
	cases := []struct {
		orderType  OrderType
		partial    bool
		restricted bool
		proxy      bool
	}{
		{OrderTypeFullOpen, false, false, false},
		{OrderTypePartialOpen, true, false, false},
		{OrderTypeFullRestricted, false, true, false},
		{OrderTypePartialRestricted, true, true, false},
		{OrderTypeFullOpenViaProxy, false, false, true},
		{OrderTypePartialOpenViaProxy, true, false, true},
		{OrderTypeFullRestrictedViaProxy, false, true, true},
		{OrderTypePartialRestrictedViaProxy, true, true, true},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.partial, tc.orderType.AllowsPartialFills(), "type %d", tc.orderType)
		assert.Equal(t, tc.restricted, tc.orderType.IsRestricted(), "type %d", tc.orderType)
		assert.Equal(t, tc.proxy, tc.orderType.UsesProxy(), "type %d", tc.orderType)
	}
}

func TestABIsParse(t *testing.T) {
	assert.NotPanics(t, func() { GetExchangeABI() })
	assert.NotPanics(t, func() { GetERC20ABI() })
	assert.NotPanics(t, func() { GetERC721ABI() })
	assert.NotPanics(t, func() { GetERC1155ABI() })
	assert.NotPanics(t, func() { GetProxyRegistryABI() })
	assert.NotPanics(t, func() { GetMulticallABI() })
}

func TestExchangeABIMethods(t *testing.T) {
	exchangeABI := GetExchangeABI()
	for _, name := range []string{
		"getNonce",
		"getOrderStatus",
		"cancel",
		"incrementNonce",
		"validate",
		"fulfillBasicOrder",
		"fulfillAdvancedOrder",
	} {
		_, ok := exchangeABI.Methods[name]
		assert.True(t, ok, "method %s missing", name)
	}
}
