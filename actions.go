package consideration

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/exchangekit/consideration-sdk-go/chain"
)

// ActionType tags the variants of Action.
type ActionType int

const (
	ActionTypeApproval ActionType = iota
	ActionTypeCreateOrder
	ActionTypeExchange
)

// Action is one discrete on-chain operation in a pipeline. Actions carry
// data only; execution lives in the pipeline runner.
type Action interface {
	Type() ActionType
}

// ApprovalAction grants the operator transfer rights over a token. ERC20
// items approve an unlimited allowance, ERC721/1155 items set operator
// approval for all ids.
type ApprovalAction struct {
	Token                common.Address
	ItemType             chain.ItemType
	IdentifierOrCriteria *big.Int
	Operator             common.Address
}

func (ApprovalAction) Type() ActionType { return ActionTypeApproval }

// CreateOrderAction is the terminal action of a create-order pipeline: sign
// the resolved order components.
type CreateOrderAction struct {
	Components chain.OrderComponents
}

func (CreateOrderAction) Type() ActionType { return ActionTypeCreateOrder }

// ExchangeAction is the terminal action of a fulfillment pipeline. Exactly
// one of Basic or Advanced is set, matching the selected settlement path.
type ExchangeAction struct {
	Basic             *chain.BasicOrderParameters
	Advanced          *chain.AdvancedOrder
	UseFulfillerProxy bool
	NativeValue       *big.Int
}

func (ExchangeAction) Type() ActionType { return ActionTypeExchange }

// OrderUseCase is a plan, not an execution: an ordered action list plus a
// single entry point that runs every action to completion in order and
// returns the terminal action's result.
//
// Execution is strictly sequential because later actions assume state
// changes from earlier ones are already mined. There is no serialization
// across pipelines; callers running multiple pipelines for one account must
// serialize them externally.
type OrderUseCase[T any] struct {
	Actions []Action

	executeAll func(ctx context.Context) (T, error)
}

// ExecuteAllActions runs each action to completion in order and returns the
// terminal result. Abandoning a pipeline is simply not calling this; any
// transaction already submitted cannot be unsent.
func (u *OrderUseCase[T]) ExecuteAllActions(ctx context.Context) (T, error) {
	return u.executeAll(ctx)
}

// executeApprovals submits every approval action sequentially, waiting for
// each to be mined before the next. The terminal action that follows relies
// on these allowances being live.
func (c *Client) executeApprovals(ctx context.Context, actions []Action) error {
	for _, action := range actions {
		approval, ok := action.(ApprovalAction)
		if !ok {
			continue
		}

		c.logger.Debug("executing approval",
			zap.String("token", approval.Token.Hex()),
			zap.String("operator", approval.Operator.Hex()),
			zap.Uint8("itemType", uint8(approval.ItemType)),
		)

		var txHash common.Hash
		if approval.ItemType == chain.ItemTypeERC20 {
			tx, err := c.contractCaller.ApproveERC20(ctx, approval.Token, approval.Operator)
			if err != nil {
				return err
			}
			txHash = tx.Hash()
		} else {
			tx, err := c.contractCaller.SetApprovalForAll(ctx, approval.Token, approval.Operator)
			if err != nil {
				return err
			}
			txHash = tx.Hash()
		}

		if _, err := c.contractCaller.WaitForReceipt(ctx, txHash); err != nil {
			return err
		}
	}

	return nil
}

// approvalActions converts an insufficient-approval set into one approval
// action per shortfall, all targeting the same operator.
func approvalActions(insufficient []InsufficientAmount, operator common.Address) []Action {
	actions := make([]Action, 0, len(insufficient))
	for _, item := range insufficient {
		actions = append(actions, ApprovalAction{
			Token:                item.Token,
			ItemType:             item.ItemType,
			IdentifierOrCriteria: item.IdentifierOrCriteria,
			Operator:             operator,
		})
	}
	return actions
}
