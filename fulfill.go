package consideration

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/exchangekit/consideration-sdk-go/chain"
)

// FulfillOrder reconciles the order's on-chain status with its parameters
// and returns a settlement plan: approvals the fulfiller still needs, then
// one exchange action on either the basic or the standard path.
//
// Both parties are snapshotted. The offerer must still hold and approve the
// offer side; a shortfall there could otherwise only surface as an on-chain
// revert, so it is rejected here. The fulfiller's shortfalls become approval
// actions in the plan.
//
// The caller's order value is never mutated. When the order is already
// validated on-chain, the plan carries a copy with the signature blanked to
// the zero-signature sentinel.
func (c *Client) FulfillOrder(ctx context.Context, order chain.Order, input FulfillOrderInput) (*OrderUseCase[*types.Transaction], error) {
	fulfiller := c.SignerAddress()
	parameters := order.Parameters

	if input.UnitsToFill != nil && !parameters.OrderType.AllowsPartialFills() {
		return nil, &InvalidParamError{Message: "order does not allow partial fills"}
	}

	// Nonce, both parties' proxies and the block timestamp are independent
	// reads.
	var (
		nonce          *big.Int
		fulfillerProxy common.Address
		offererProxy   common.Address
		blockTimestamp *big.Int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resolved, err := c.contractCaller.GetNonce(gctx, parameters.Offerer, parameters.Zone)
		if err != nil {
			return errors.Wrap(err, "resolve offerer nonce")
		}
		nonce = resolved
		return nil
	})
	g.Go(func() error {
		resolved, err := c.contractCaller.ProxyFor(gctx, fulfiller)
		if err != nil {
			return errors.Wrap(err, "resolve fulfiller proxy")
		}
		fulfillerProxy = resolved
		return nil
	})
	g.Go(func() error {
		resolved, err := c.contractCaller.ProxyFor(gctx, parameters.Offerer)
		if err != nil {
			return errors.Wrap(err, "resolve offerer proxy")
		}
		offererProxy = resolved
		return nil
	})
	g.Go(func() error {
		resolved, err := c.contractCaller.BlockTimestamp(gctx)
		if err != nil {
			return errors.Wrap(err, "read block timestamp")
		}
		blockTimestamp = resolved
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	components := chain.OrderComponents{
		OrderParameters: parameters,
		Nonce:           nonce,
	}
	orderHash := chain.HashOrderComponents(components)

	// The status read depends on the hash, the snapshots only on the proxies
	// already resolved; all three go out together.
	supplied := offerView(parameters.Consideration)
	var (
		status            *chain.OrderStatus
		fulfillerSnapshot []chain.BalanceAndApproval
		offererSnapshot   []chain.BalanceAndApproval
	)

	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		resolved, err := c.contractCaller.GetOrderStatus(gctx, orderHash)
		if err != nil {
			return errors.Wrap(err, "get order status")
		}
		status = resolved
		return nil
	})
	g.Go(func() error {
		resolved, err := c.contractCaller.GetBalancesAndApprovals(gctx, fulfiller, scanItems(supplied), fulfillerProxy)
		if err != nil {
			return errors.Wrap(err, "snapshot fulfiller balances")
		}
		fulfillerSnapshot = resolved
		return nil
	})
	g.Go(func() error {
		resolved, err := c.contractCaller.GetBalancesAndApprovals(gctx, parameters.Offerer, scanItems(parameters.Offer), offererProxy)
		if err != nil {
			return errors.Wrap(err, "snapshot offerer balances")
		}
		offererSnapshot = resolved
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	settleOrder, err := reconcileOrderStatus(order, orderHash, status)
	if err != nil {
		return nil, err
	}
	if settleOrder.Signature != order.Signature {
		c.logger.Debug("order validated on-chain, blanking signature",
			zap.String("orderHash", orderHash.Hex()))
	}

	if err := validateOffererFunding(offererSnapshot, parameters); err != nil {
		return nil, err
	}

	timeParams := TimeBasedItemParams{
		StartTime:                      parameters.StartTime,
		EndTime:                        parameters.EndTime,
		CurrentBlockTimestamp:          blockTimestamp,
		AscendingAmountTimestampBuffer: c.ascendingBuffer,
	}

	// The fulfiller supplies the consideration side; its shortfalls against
	// both approval targets decide the proxy path and the approval actions.
	_, insufficientOwnerApprovals, insufficientProxyApprovals :=
		reconcileBalancesAndApprovals(fulfillerSnapshot, supplied)

	hasProxy := fulfillerProxy != (common.Address{})
	useFulfillerProxy := useProxy(c.proxyStrategy, hasProxy, insufficientOwnerApprovals, insufficientProxyApprovals)

	var actions []Action
	if useFulfillerProxy {
		actions = approvalActions(insufficientProxyApprovals, fulfillerProxy)
	} else {
		actions = approvalActions(insufficientOwnerApprovals, c.contractCaller.GetExchangeAddress())
	}

	exchange, err := c.planExchange(settleOrder, status, input.UnitsToFill, timeParams, useFulfillerProxy)
	if err != nil {
		return nil, err
	}
	actions = append(actions, *exchange)

	c.logger.Debug("planned fulfillment",
		zap.String("orderHash", orderHash.Hex()),
		zap.Bool("basic", exchange.Basic != nil),
		zap.Bool("useFulfillerProxy", useFulfillerProxy),
		zap.Int("approvals", len(actions)-1),
	)

	return &OrderUseCase[*types.Transaction]{
		Actions: actions,
		executeAll: func(ctx context.Context) (*types.Transaction, error) {
			if err := c.executeApprovals(ctx, actions); err != nil {
				return nil, err
			}

			var tx *types.Transaction
			var err error
			if exchange.Basic != nil {
				tx, err = c.contractCaller.FulfillBasicOrder(ctx, *exchange.Basic, exchange.NativeValue)
			} else {
				tx, err = c.contractCaller.FulfillAdvancedOrder(ctx, *exchange.Advanced, exchange.UseFulfillerProxy, exchange.NativeValue)
			}
			if err != nil {
				return nil, errors.Wrap(err, "submit fulfillment")
			}

			if _, err := c.contractCaller.WaitForReceipt(ctx, tx.Hash()); err != nil {
				return nil, errors.Wrap(err, "await fulfillment")
			}

			return tx, nil
		},
	}, nil
}

// reconcileOrderStatus rejects dead orders and returns the order value to
// settle with. A validated order settles with the signature blanked to the
// zero-signature sentinel: validation makes the signature redundant and
// skipping its verification saves fulfillment gas. The input order is never
// mutated.
func reconcileOrderStatus(order chain.Order, orderHash common.Hash, status *chain.OrderStatus) (chain.Order, error) {
	if status.IsCancelled {
		return chain.Order{}, &CancelledOrderError{OrderHash: orderHash}
	}
	if status.TotalSize.Sign() > 0 && status.TotalFilled.Cmp(status.TotalSize) >= 0 {
		return chain.Order{}, errors.Wrapf(ErrOrderFullyFilled, "order %s", orderHash.Hex())
	}

	if status.IsValidated {
		order.Signature = chain.BlankSignature
	}
	return order, nil
}

// validateOffererFunding checks the offerer's snapshot against the offer
// side. Balances must cover the summed amounts, and so must the approvals
// for the path the order type names; the fulfiller cannot repair either.
func validateOffererFunding(snapshot []chain.BalanceAndApproval, parameters chain.OrderParameters) error {
	insufficientBalances, insufficientOwnerApprovals, insufficientProxyApprovals :=
		reconcileBalancesAndApprovals(snapshot, parameters.Offer)

	if len(insufficientBalances) > 0 {
		return &InsufficientBalancesError{Insufficient: insufficientBalances}
	}

	if parameters.OrderType.UsesProxy() {
		if len(insufficientProxyApprovals) > 0 {
			return &InsufficientApprovalsError{Insufficient: insufficientProxyApprovals}
		}
		return nil
	}
	if len(insufficientOwnerApprovals) > 0 {
		return &InsufficientApprovalsError{Insufficient: insufficientOwnerApprovals}
	}
	return nil
}

// planExchange selects the settlement path and assembles the terminal
// exchange action.
func (c *Client) planExchange(
	order chain.Order,
	status *chain.OrderStatus,
	unitsToFill *big.Int,
	timeParams TimeBasedItemParams,
	useFulfillerProxy bool,
) (*ExchangeAction, error) {
	parameters := order.Parameters

	if unitsToFill == nil && canFulfillBasic(parameters, status) {
		return &ExchangeAction{
			Basic: &chain.BasicOrderParameters{
				Offerer:           parameters.Offerer,
				Zone:              parameters.Zone,
				OrderType:         parameters.OrderType,
				StartTime:         parameters.StartTime,
				EndTime:           parameters.EndTime,
				Salt:              parameters.Salt,
				UseFulfillerProxy: useFulfillerProxy,
				Signature:         order.Signature,
				OfferItem:         parameters.Offer[0],
				Consideration:     parameters.Consideration,
			},
			UseFulfillerProxy: useFulfillerProxy,
			NativeValue:       nativeValueForFulfillment(parameters.Consideration, timeParams, nil, nil),
		}, nil
	}

	maxUnits := maxFillableUnits(parameters)
	units := unitsToFill
	if units == nil {
		units = maxUnits
	}

	numerator, denominator, err := fillFraction(units, maxUnits)
	if err != nil {
		return nil, err
	}

	return &ExchangeAction{
		Advanced: &chain.AdvancedOrder{
			Parameters:  parameters,
			Numerator:   numerator,
			Denominator: denominator,
			Signature:   order.Signature,
		},
		UseFulfillerProxy: useFulfillerProxy,
		NativeValue:       nativeValueForFulfillment(parameters.Consideration, timeParams, numerator, denominator),
	}, nil
}

// canFulfillBasic reports whether the order shape qualifies for the cheaper
// basic settlement path: exactly one offer item, no criteria-based items
// anywhere, and no partial fill in progress.
func canFulfillBasic(parameters chain.OrderParameters, status *chain.OrderStatus) bool {
	if len(parameters.Offer) != 1 {
		return false
	}
	if status.TotalFilled.Sign() != 0 {
		return false
	}
	if parameters.Offer[0].ItemType.IsCriteriaBased() {
		return false
	}
	for _, item := range parameters.Consideration {
		if item.ItemType.IsCriteriaBased() {
			return false
		}
	}
	return true
}
