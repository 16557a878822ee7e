package consideration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exchangekit/consideration-sdk-go/chain"
)

func TestResolveOrderType(t *testing.T) {
	cases := []struct {
		name              string
		allowPartialFills bool
		restrictedByZone  bool
		useProxy          bool
		want              chain.OrderType
	}{
		{"full open", false, false, false, chain.OrderTypeFullOpen},
		{"partial open", true, false, false, chain.OrderTypePartialOpen},
		{"full restricted", false, true, false, chain.OrderTypeFullRestricted},
		{"partial restricted", true, true, false, chain.OrderTypePartialRestricted},
		{"full open via proxy", false, false, true, chain.OrderTypeFullOpenViaProxy},
		{"partial open via proxy", true, false, true, chain.OrderTypePartialOpenViaProxy},
		{"full restricted via proxy", false, true, true, chain.OrderTypeFullRestrictedViaProxy},
		{"partial restricted via proxy", true, true, true, chain.OrderTypePartialRestrictedViaProxy},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolveOrderType(tc.allowPartialFills, tc.restrictedByZone, tc.useProxy)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			// The resolved type must round-trip through the bit accessors.
			assert.Equal(t, tc.allowPartialFills, got.AllowsPartialFills())
			assert.Equal(t, tc.restrictedByZone, got.IsRestricted())
			assert.Equal(t, tc.useProxy, got.UsesProxy())
		})
	}
}

func TestResolveOrderTypeDistinct(t *testing.T) {
	seen := make(map[chain.OrderType]bool)
	for _, partial := range []bool{false, true} {
		for _, restricted := range []bool{false, true} {
			for _, proxy := range []bool{false, true} {
				got, err := resolveOrderType(partial, restricted, proxy)
				require.NoError(t, err)
				assert.False(t, seen[got], "order type %d resolved twice", got)
				seen[got] = true
			}
		}
	}
	assert.Len(t, seen, 8)
}

func TestInvalidOrderTypeError(t *testing.T) {
	err := &InvalidOrderTypeError{AllowPartialFills: true, UseProxy: true}
	assert.Contains(t, err.Error(), "partial=true")
	assert.Contains(t, err.Error(), "proxy=true")
}
