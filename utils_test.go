package consideration

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountToWei(t *testing.T) {
	wei, err := AmountToWei(decimal.NewFromFloat(1.5), 18)
	require.NoError(t, err)
	assert.Equal(t, "1500000000000000000", wei.String())

	wei, err = AmountToWei(decimal.NewFromInt(25), 6)
	require.NoError(t, err)
	assert.Equal(t, "25000000", wei.String())
}

func TestAmountToWeiTruncatesDust(t *testing.T) {
	wei, err := AmountToWei(decimal.RequireFromString("1.0000005"), 6)
	require.NoError(t, err)
	assert.Equal(t, "1000000", wei.String())
}

func TestAmountToWeiRejectsInvalid(t *testing.T) {
	_, err := AmountToWei(decimal.Zero, 18)
	assert.Error(t, err)

	_, err = AmountToWei(decimal.NewFromInt(-1), 18)
	assert.Error(t, err)

	_, err = AmountToWei(decimal.NewFromInt(1), 19)
	assert.Error(t, err)

	_, err = AmountToWei(decimal.RequireFromString("0.1"), 0)
	assert.Error(t, err)
}

func TestAmountFromWei(t *testing.T) {
	amount := AmountFromWei(big.NewInt(1500000000000000000), 18)
	assert.True(t, amount.Equal(decimal.RequireFromString("1.5")))
}
