package consideration

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exchangekit/consideration-sdk-go/chain"
)

func TestActionTypes(t *testing.T) {
	assert.Equal(t, ActionTypeApproval, ApprovalAction{}.Type())
	assert.Equal(t, ActionTypeCreateOrder, CreateOrderAction{}.Type())
	assert.Equal(t, ActionTypeExchange, ExchangeAction{}.Type())
}

func TestApprovalActions(t *testing.T) {
	insufficient := []InsufficientAmount{
		{
			Token:                testWETH,
			IdentifierOrCriteria: big.NewInt(0),
			ItemType:             chain.ItemTypeERC20,
			RequiredAmount:       big.NewInt(100),
			AmountHave:           big.NewInt(0),
		},
		{
			Token:                testNFT,
			IdentifierOrCriteria: big.NewInt(7),
			ItemType:             chain.ItemTypeERC721,
			RequiredAmount:       big.NewInt(1),
			AmountHave:           big.NewInt(0),
		},
	}

	actions := approvalActions(insufficient, testFeeRecipient)
	require.Len(t, actions, 2)

	first, ok := actions[0].(ApprovalAction)
	require.True(t, ok)
	assert.Equal(t, testWETH, first.Token)
	assert.Equal(t, chain.ItemTypeERC20, first.ItemType)
	assert.Equal(t, testFeeRecipient, first.Operator)

	second, ok := actions[1].(ApprovalAction)
	require.True(t, ok)
	assert.Equal(t, testNFT, second.Token)
	assert.Equal(t, chain.ItemTypeERC721, second.ItemType)
}

func TestApprovalActionsEmpty(t *testing.T) {
	assert.Empty(t, approvalActions(nil, testFeeRecipient))
}

func TestExecuteAllActionsDelegates(t *testing.T) {
	called := false
	useCase := &OrderUseCase[int]{
		Actions: []Action{CreateOrderAction{}},
		executeAll: func(ctx context.Context) (int, error) {
			called = true
			return 42, nil
		},
	}

	got, err := useCase.ExecuteAllActions(context.Background())
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, 42, got)
}
