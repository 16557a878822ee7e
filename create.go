package consideration

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/exchangekit/consideration-sdk-go/chain"
)

// CreateOrder derives everything a signable order needs — the offerer's
// proxy, the current nonce, fee-adjusted items, balance/approval shortfalls,
// the order type — and returns a plan: any approvals that must be mined
// first, then a terminal signing action producing the finished order.
//
// The returned use case has not touched the chain's state yet; nothing is
// submitted until ExecuteAllActions runs.
func (c *Client) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderUseCase[CreatedOrder], error) {
	if len(input.Offer) == 0 {
		return nil, &InvalidParamError{Message: "order must have at least one offer item"}
	}

	offerer := c.SignerAddress()

	// Named defaults, resolved exactly once at this boundary.
	startTime := input.StartTime
	if startTime == nil {
		startTime = big.NewInt(time.Now().Unix())
	}
	endTime := input.EndTime
	if endTime == nil {
		endTime = new(big.Int).Set(chain.MaxUint256)
	}
	salt := input.Salt
	if salt == nil {
		generated, err := randomSalt()
		if err != nil {
			return nil, err
		}
		salt = generated
	}

	// Proxy and nonce lookups have no data dependency; issue them together.
	var proxy common.Address
	nonce := input.Nonce

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resolved, err := c.contractCaller.ProxyFor(gctx, offerer)
		if err != nil {
			return errors.Wrap(err, "resolve offerer proxy")
		}
		proxy = resolved
		return nil
	})
	if nonce == nil {
		g.Go(func() error {
			resolved, err := c.contractCaller.GetNonce(gctx, offerer, input.Zone)
			if err != nil {
				return errors.Wrap(err, "resolve nonce")
			}
			nonce = resolved
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	consideration := withDefaultRecipient(input.Consideration, offerer)

	offer, consideration, err := deductFees(input.Offer, consideration, input.Fees)
	if err != nil {
		return nil, err
	}

	// The snapshot covers the assets of the as-built offer; fee deduction
	// changes amounts, never the asset set.
	snapshot, err := c.contractCaller.GetBalancesAndApprovals(ctx, offerer, scanItems(offer), proxy)
	if err != nil {
		return nil, errors.Wrap(err, "snapshot offerer balances")
	}

	insufficientBalances, insufficientOwnerApprovals, insufficientProxyApprovals :=
		reconcileBalancesAndApprovals(snapshot, offer)

	// Validation runs against the post-fee-deduction amounts: the offerer
	// only ever has to fund what the order actually moves.
	if !c.skipCreationChecks && len(insufficientBalances) > 0 {
		return nil, &InsufficientBalancesError{Insufficient: insufficientBalances}
	}

	hasProxy := proxy != (common.Address{})
	usingProxy := useProxy(c.proxyStrategy, hasProxy, insufficientOwnerApprovals, insufficientProxyApprovals)

	orderType, err := resolveOrderType(input.AllowPartialFills, input.RestrictedByZone, usingProxy)
	if err != nil {
		return nil, err
	}

	parameters := chain.OrderParameters{
		Offerer:       offerer,
		Zone:          input.Zone,
		Offer:         offer,
		Consideration: consideration,
		OrderType:     orderType,
		StartTime:     startTime,
		EndTime:       endTime,
		Salt:          salt,
	}
	components := chain.OrderComponents{
		OrderParameters: parameters,
		Nonce:           nonce,
	}

	var actions []Action
	if usingProxy {
		actions = approvalActions(insufficientProxyApprovals, proxy)
	} else {
		actions = approvalActions(insufficientOwnerApprovals, c.contractCaller.GetExchangeAddress())
	}
	actions = append(actions, CreateOrderAction{Components: components})

	c.logger.Debug("planned create order",
		zap.Int("approvals", len(actions)-1),
		zap.Bool("useProxy", usingProxy),
		zap.Uint8("orderType", uint8(orderType)),
	)

	return &OrderUseCase[CreatedOrder]{
		Actions: actions,
		executeAll: func(ctx context.Context) (CreatedOrder, error) {
			if err := c.executeApprovals(ctx, actions); err != nil {
				return CreatedOrder{}, err
			}

			signature, err := c.SignOrder(parameters, nonce)
			if err != nil {
				return CreatedOrder{}, err
			}

			return CreatedOrder{
				Order: chain.Order{
					Parameters: parameters,
					Signature:  signature,
				},
				Nonce:     nonce,
				OrderHash: chain.HashOrderComponents(components),
			}, nil
		},
	}, nil
}

// withDefaultRecipient fills empty consideration recipients with the offerer.
func withDefaultRecipient(items []chain.ConsiderationItem, offerer common.Address) []chain.ConsiderationItem {
	out := make([]chain.ConsiderationItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].Recipient == (common.Address{}) {
			out[i].Recipient = offerer
		}
	}
	return out
}
