package consideration

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/exchangekit/consideration-sdk-go/chain"
)

// Client is the main SDK client. It derives the on-chain calls an order
// lifecycle needs, in order, and hands execution to the underlying
// transaction layer; it holds no mutable order state of its own.
type Client struct {
	contractCaller     *chain.ContractCaller
	chainID            ChainID
	proxyStrategy      ProxyStrategy
	skipCreationChecks bool
	ascendingBuffer    *big.Int
	domain             *chain.EIP712Domain
	logger             *zap.Logger
}

// NewClient creates a new exchange SDK client.
func NewClient(config ClientConfig) (*Client, error) {
	isSupported := false
	for _, supportedID := range SupportedChainIDs {
		if config.ChainID == supportedID {
			isSupported = true
			break
		}
	}
	if !isSupported {
		return nil, &InvalidParamError{
			Message: fmt.Sprintf("chain_id must be one of %v", SupportedChainIDs),
		}
	}

	contracts := DefaultContractAddresses[config.ChainID]
	if config.ExchangeAddr == "" {
		config.ExchangeAddr = contracts.Exchange
	}
	if config.LegacyProxyRegistryAddr == "" {
		config.LegacyProxyRegistryAddr = contracts.LegacyProxyRegistry
	}
	if config.MulticallAddr == "" {
		config.MulticallAddr = contracts.Multicall
	}

	if config.AscendingAmountBufferSeconds == 0 {
		config.AscendingAmountBufferSeconds = DefaultAscendingAmountBufferSeconds
	}
	if config.GasLimit == 0 {
		config.GasLimit = DefaultGasLimit
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	contractCaller, err := chain.NewContractCaller(
		config.RPCURL,
		config.PrivateKey,
		config.ExchangeAddr,
		config.LegacyProxyRegistryAddr,
		config.MulticallAddr,
		config.GasLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create contract caller: %w", err)
	}

	return &Client{
		contractCaller:     contractCaller,
		chainID:            config.ChainID,
		proxyStrategy:      config.ProxyStrategy,
		skipCreationChecks: config.SkipCreationTimeBalanceChecks,
		ascendingBuffer:    big.NewInt(config.AscendingAmountBufferSeconds),
		domain: chain.NewEIP712Domain(
			big.NewInt(int64(config.ChainID)),
			common.HexToAddress(config.ExchangeAddr),
		),
		logger: config.Logger,
	}, nil
}

// Close closes the client and cleans up resources.
func (c *Client) Close() {
	if c.contractCaller != nil {
		c.contractCaller.Close()
	}
}

// SignerAddress returns the address of the held signing key, which acts as
// offerer for created orders and fulfiller for settled ones.
func (c *Client) SignerAddress() common.Address {
	return c.contractCaller.GetSignerAddress()
}

// GetOrderHash computes the deterministic hash of order components. The same
// hash indexes on-chain order status.
func (c *Client) GetOrderHash(components chain.OrderComponents) common.Hash {
	return chain.HashOrderComponents(components)
}

// GetOrderStatus reads validation/cancellation/fill progress for an order hash.
func (c *Client) GetOrderStatus(ctx context.Context, orderHash common.Hash) (*chain.OrderStatus, error) {
	status, err := c.contractCaller.GetOrderStatus(ctx, orderHash)
	if err != nil {
		return nil, errors.Wrap(err, "get order status")
	}
	return status, nil
}

// GetNonce reads the current anti-replay counter for (offerer, zone).
func (c *Client) GetNonce(ctx context.Context, offerer, zone common.Address) (*big.Int, error) {
	nonce, err := c.contractCaller.GetNonce(ctx, offerer, zone)
	if err != nil {
		return nil, errors.Wrap(err, "get nonce")
	}
	return nonce, nil
}

// CancelOrders submits an on-chain cancellation for the given orders.
func (c *Client) CancelOrders(ctx context.Context, orders []chain.OrderComponents) (*types.Transaction, error) {
	if len(orders) == 0 {
		return nil, &InvalidParamError{Message: "orders list cannot be empty"}
	}

	tx, err := c.contractCaller.Cancel(ctx, orders)
	if err != nil {
		return nil, errors.Wrap(err, "cancel orders")
	}

	c.logger.Debug("submitted cancel", zap.String("tx", tx.Hash().Hex()), zap.Int("orders", len(orders)))
	return tx, nil
}

// BulkCancelOrders increments the (offerer, zone) nonce, invalidating every
// order signed under the old nonce. A zero offerer defaults to the signer.
func (c *Client) BulkCancelOrders(ctx context.Context, offerer, zone common.Address) (*types.Transaction, error) {
	if offerer == (common.Address{}) {
		offerer = c.SignerAddress()
	}

	tx, err := c.contractCaller.IncrementNonce(ctx, offerer, zone)
	if err != nil {
		return nil, errors.Wrap(err, "bulk cancel orders")
	}

	c.logger.Debug("submitted nonce increment",
		zap.String("tx", tx.Hash().Hex()),
		zap.String("offerer", offerer.Hex()),
		zap.String("zone", zone.Hex()),
	)
	return tx, nil
}

// ApproveOrders validates orders on-chain, letting later fulfillment skip
// signature verification.
func (c *Client) ApproveOrders(ctx context.Context, orders []chain.Order) (*types.Transaction, error) {
	if len(orders) == 0 {
		return nil, &InvalidParamError{Message: "orders list cannot be empty"}
	}

	tx, err := c.contractCaller.Validate(ctx, orders)
	if err != nil {
		return nil, errors.Wrap(err, "approve orders")
	}

	c.logger.Debug("submitted validate", zap.String("tx", tx.Hash().Hex()), zap.Int("orders", len(orders)))
	return tx, nil
}
