package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// MaxUint256 is the unlimited approval amount.
var MaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// ContractCaller handles all interaction with the exchange contract, the
// legacy proxy registry and token contracts.
type ContractCaller struct {
	client            *ethclient.Client
	privateKey        *ecdsa.PrivateKey
	exchangeAddr      common.Address
	proxyRegistryAddr common.Address
	multicallAddr     common.Address
	gasLimit          uint64
}

// NewContractCaller creates a new ContractCaller instance.
func NewContractCaller(
	rpcURL string,
	privateKeyHex string,
	exchangeAddr string,
	proxyRegistryAddr string,
	multicallAddr string,
	gasLimit uint64,
) (*ContractCaller, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return &ContractCaller{
		client:            client,
		privateKey:        privateKey,
		exchangeAddr:      common.HexToAddress(exchangeAddr),
		proxyRegistryAddr: common.HexToAddress(proxyRegistryAddr),
		multicallAddr:     common.HexToAddress(multicallAddr),
		gasLimit:          gasLimit,
	}, nil
}

// GetSignerAddress returns the address of the signer.
func (cc *ContractCaller) GetSignerAddress() common.Address {
	publicKey := cc.privateKey.Public()
	publicKeyECDSA, _ := publicKey.(*ecdsa.PublicKey)
	return crypto.PubkeyToAddress(*publicKeyECDSA)
}

// GetPrivateKey returns the held signing key.
func (cc *ContractCaller) GetPrivateKey() *ecdsa.PrivateKey {
	return cc.privateKey
}

// GetExchangeAddress returns the exchange contract address.
func (cc *ContractCaller) GetExchangeAddress() common.Address {
	return cc.exchangeAddr
}

// ProxyFor looks up the account's registered transfer proxy in the legacy
// registry. The zero address means no proxy is registered.
func (cc *ContractCaller) ProxyFor(ctx context.Context, account common.Address) (common.Address, error) {
	registryABI := GetProxyRegistryABI()
	data, err := registryABI.Pack("proxies", account)
	if err != nil {
		return common.Address{}, err
	}

	result, err := cc.client.CallContract(ctx, ethereum.CallMsg{
		To:   &cc.proxyRegistryAddr,
		Data: data,
	}, nil)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to look up proxy: %w", err)
	}

	var proxy common.Address
	if err := registryABI.UnpackIntoInterface(&proxy, "proxies", result); err != nil {
		return common.Address{}, err
	}

	return proxy, nil
}

// GetNonce returns the current anti-replay counter for (offerer, zone).
func (cc *ContractCaller) GetNonce(ctx context.Context, offerer, zone common.Address) (*big.Int, error) {
	exchangeABI := GetExchangeABI()
	data, err := exchangeABI.Pack("getNonce", offerer, zone)
	if err != nil {
		return nil, err
	}

	result, err := cc.client.CallContract(ctx, ethereum.CallMsg{
		To:   &cc.exchangeAddr,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	var nonce *big.Int
	if err := exchangeABI.UnpackIntoInterface(&nonce, "getNonce", result); err != nil {
		return nil, err
	}

	return nonce, nil
}

// GetOrderStatus returns validation/cancellation/fill state for an order hash.
func (cc *ContractCaller) GetOrderStatus(ctx context.Context, orderHash common.Hash) (*OrderStatus, error) {
	exchangeABI := GetExchangeABI()
	data, err := exchangeABI.Pack("getOrderStatus", orderHash)
	if err != nil {
		return nil, err
	}

	result, err := cc.client.CallContract(ctx, ethereum.CallMsg{
		To:   &cc.exchangeAddr,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get order status: %w", err)
	}

	values, err := exchangeABI.Unpack("getOrderStatus", result)
	if err != nil {
		return nil, err
	}
	if len(values) != 4 {
		return nil, fmt.Errorf("unexpected getOrderStatus output arity: %d", len(values))
	}

	return &OrderStatus{
		IsValidated: values[0].(bool),
		IsCancelled: values[1].(bool),
		TotalFilled: values[2].(*big.Int),
		TotalSize:   values[3].(*big.Int),
	}, nil
}

// BlockTimestamp returns the latest block timestamp.
func (cc *ContractCaller) BlockTimestamp(ctx context.Context) (*big.Int, error) {
	header, err := cc.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest header: %w", err)
	}
	return new(big.Int).SetUint64(header.Time), nil
}

// NativeBalance returns the native coin balance for an account.
func (cc *ContractCaller) NativeBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	balance, err := cc.client.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// Cancel submits an on-chain cancellation for the given orders.
func (cc *ContractCaller) Cancel(ctx context.Context, orders []OrderComponents) (*types.Transaction, error) {
	exchangeABI := GetExchangeABI()

	encoded := make([]abiOrderComponents, len(orders))
	for i, o := range orders {
		encoded[i] = toABIOrderComponents(o)
	}

	data, err := exchangeABI.Pack("cancel", encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to pack cancel: %w", err)
	}

	return cc.sendExchangeTx(ctx, cc.exchangeAddr, big.NewInt(0), data)
}

// IncrementNonce bumps the (offerer, zone) nonce, invalidating every order
// signed under the previous value.
func (cc *ContractCaller) IncrementNonce(ctx context.Context, offerer, zone common.Address) (*types.Transaction, error) {
	exchangeABI := GetExchangeABI()
	data, err := exchangeABI.Pack("incrementNonce", offerer, zone)
	if err != nil {
		return nil, fmt.Errorf("failed to pack incrementNonce: %w", err)
	}

	return cc.sendExchangeTx(ctx, cc.exchangeAddr, big.NewInt(0), data)
}

// Validate marks the given orders as validated on-chain so fulfillment can
// skip signature verification.
func (cc *ContractCaller) Validate(ctx context.Context, orders []Order) (*types.Transaction, error) {
	exchangeABI := GetExchangeABI()

	encoded := make([]abiOrder, len(orders))
	for i, o := range orders {
		converted, err := toABIOrder(o)
		if err != nil {
			return nil, err
		}
		encoded[i] = converted
	}

	data, err := exchangeABI.Pack("validate", encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to pack validate: %w", err)
	}

	return cc.sendExchangeTx(ctx, cc.exchangeAddr, big.NewInt(0), data)
}

// FulfillBasicOrder submits the cheaper single-offer-item settlement path.
func (cc *ContractCaller) FulfillBasicOrder(ctx context.Context, params BasicOrderParameters, value *big.Int) (*types.Transaction, error) {
	exchangeABI := GetExchangeABI()

	encoded, err := toABIBasicOrderParameters(params)
	if err != nil {
		return nil, err
	}

	data, err := exchangeABI.Pack("fulfillBasicOrder", encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to pack fulfillBasicOrder: %w", err)
	}

	return cc.sendExchangeTx(ctx, cc.exchangeAddr, value, data)
}

// FulfillAdvancedOrder submits the standard settlement path with an explicit
// fill fraction.
func (cc *ContractCaller) FulfillAdvancedOrder(ctx context.Context, order AdvancedOrder, useFulfillerProxy bool, value *big.Int) (*types.Transaction, error) {
	exchangeABI := GetExchangeABI()

	encoded, err := toABIAdvancedOrder(order)
	if err != nil {
		return nil, err
	}

	data, err := exchangeABI.Pack("fulfillAdvancedOrder", encoded, useFulfillerProxy)
	if err != nil {
		return nil, fmt.Errorf("failed to pack fulfillAdvancedOrder: %w", err)
	}

	return cc.sendExchangeTx(ctx, cc.exchangeAddr, value, data)
}

// ApproveERC20 grants an unlimited ERC20 allowance to the operator.
func (cc *ContractCaller) ApproveERC20(ctx context.Context, token, operator common.Address) (*types.Transaction, error) {
	erc20ABI := GetERC20ABI()
	data, err := erc20ABI.Pack("approve", operator, MaxUint256)
	if err != nil {
		return nil, fmt.Errorf("failed to pack approve: %w", err)
	}

	return cc.sendExchangeTx(ctx, token, big.NewInt(0), data)
}

// SetApprovalForAll grants operator approval on an ERC721 or ERC1155 contract.
func (cc *ContractCaller) SetApprovalForAll(ctx context.Context, token, operator common.Address) (*types.Transaction, error) {
	erc721ABI := GetERC721ABI()
	data, err := erc721ABI.Pack("setApprovalForAll", operator, true)
	if err != nil {
		return nil, fmt.Errorf("failed to pack setApprovalForAll: %w", err)
	}

	return cc.sendExchangeTx(ctx, token, big.NewInt(0), data)
}

// WaitForReceipt waits for a transaction receipt and checks its status.
func (cc *ContractCaller) WaitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()

	for {
		receipt, err := cc.client.TransactionReceipt(timeoutCtx, txHash)
		if err == nil {
			if receipt.Status != types.ReceiptStatusSuccessful {
				return receipt, fmt.Errorf("transaction reverted: %s", txHash.Hex())
			}
			return receipt, nil
		}

		select {
		case <-timeoutCtx.Done():
			return nil, fmt.Errorf("timeout waiting for transaction receipt: %s", txHash.Hex())
		default:
			time.Sleep(2 * time.Second)
		}
	}
}

// sendExchangeTx builds, signs and submits a legacy transaction from the
// held key.
func (cc *ContractCaller) sendExchangeTx(ctx context.Context, to common.Address, value *big.Int, callData []byte) (*types.Transaction, error) {
	chainID, err := cc.client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	nonce, err := cc.client.PendingNonceAt(ctx, cc.GetSignerAddress())
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := cc.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}

	tx := types.NewTransaction(nonce, to, value, cc.gasLimit, gasPrice, callData)

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(chainID), cc.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := cc.client.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	return signedTx, nil
}

// Close closes the Ethereum client connection.
func (cc *ContractCaller) Close() {
	if cc.client != nil {
		cc.client.Close()
	}
}

// Flat mirrors of the public order types. The abi package maps tuple
// components to struct fields by name, which embedded structs defeat.

type abiOfferItem struct {
	ItemType             uint8
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
}

type abiConsiderationItem struct {
	ItemType             uint8
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
	Recipient            common.Address
}

type abiOrderParameters struct {
	Offerer       common.Address
	Zone          common.Address
	Offer         []abiOfferItem
	Consideration []abiConsiderationItem
	OrderType     uint8
	StartTime     *big.Int
	EndTime       *big.Int
	Salt          *big.Int
}

type abiOrderComponents struct {
	Offerer       common.Address
	Zone          common.Address
	Offer         []abiOfferItem
	Consideration []abiConsiderationItem
	OrderType     uint8
	StartTime     *big.Int
	EndTime       *big.Int
	Salt          *big.Int
	Nonce         *big.Int
}

type abiOrder struct {
	Parameters abiOrderParameters
	Signature  []byte
}

type abiAdvancedOrder struct {
	Parameters  abiOrderParameters
	Numerator   *big.Int
	Denominator *big.Int
	Signature   []byte
}

type abiBasicOrderParameters struct {
	Offerer           common.Address
	Zone              common.Address
	OrderType         uint8
	StartTime         *big.Int
	EndTime           *big.Int
	Salt              *big.Int
	UseFulfillerProxy bool
	Signature         []byte
	OfferItem         abiOfferItem
	Consideration     []abiConsiderationItem
}

func toABIOfferItems(items []OfferItem) []abiOfferItem {
	out := make([]abiOfferItem, len(items))
	for i, item := range items {
		out[i] = abiOfferItem{
			ItemType:             uint8(item.ItemType),
			Token:                item.Token,
			IdentifierOrCriteria: item.IdentifierOrCriteria,
			StartAmount:          item.StartAmount,
			EndAmount:            item.EndAmount,
		}
	}
	return out
}

func toABIConsiderationItems(items []ConsiderationItem) []abiConsiderationItem {
	out := make([]abiConsiderationItem, len(items))
	for i, item := range items {
		out[i] = abiConsiderationItem{
			ItemType:             uint8(item.ItemType),
			Token:                item.Token,
			IdentifierOrCriteria: item.IdentifierOrCriteria,
			StartAmount:          item.StartAmount,
			EndAmount:            item.EndAmount,
			Recipient:            item.Recipient,
		}
	}
	return out
}

func toABIOrderParameters(p OrderParameters) abiOrderParameters {
	return abiOrderParameters{
		Offerer:       p.Offerer,
		Zone:          p.Zone,
		Offer:         toABIOfferItems(p.Offer),
		Consideration: toABIConsiderationItems(p.Consideration),
		OrderType:     uint8(p.OrderType),
		StartTime:     p.StartTime,
		EndTime:       p.EndTime,
		Salt:          p.Salt,
	}
}

func toABIOrderComponents(c OrderComponents) abiOrderComponents {
	return abiOrderComponents{
		Offerer:       c.Offerer,
		Zone:          c.Zone,
		Offer:         toABIOfferItems(c.Offer),
		Consideration: toABIConsiderationItems(c.Consideration),
		OrderType:     uint8(c.OrderType),
		StartTime:     c.StartTime,
		EndTime:       c.EndTime,
		Salt:          c.Salt,
		Nonce:         c.Nonce,
	}
}

func toABIOrder(o Order) (abiOrder, error) {
	signature, err := decodeSignature(o.Signature)
	if err != nil {
		return abiOrder{}, err
	}
	return abiOrder{
		Parameters: toABIOrderParameters(o.Parameters),
		Signature:  signature,
	}, nil
}

func toABIAdvancedOrder(o AdvancedOrder) (abiAdvancedOrder, error) {
	signature, err := decodeSignature(o.Signature)
	if err != nil {
		return abiAdvancedOrder{}, err
	}
	return abiAdvancedOrder{
		Parameters:  toABIOrderParameters(o.Parameters),
		Numerator:   o.Numerator,
		Denominator: o.Denominator,
		Signature:   signature,
	}, nil
}

func toABIBasicOrderParameters(p BasicOrderParameters) (abiBasicOrderParameters, error) {
	signature, err := decodeSignature(p.Signature)
	if err != nil {
		return abiBasicOrderParameters{}, err
	}
	offer := toABIOfferItems([]OfferItem{p.OfferItem})
	return abiBasicOrderParameters{
		Offerer:           p.Offerer,
		Zone:              p.Zone,
		OrderType:         uint8(p.OrderType),
		StartTime:         p.StartTime,
		EndTime:           p.EndTime,
		Salt:              p.Salt,
		UseFulfillerProxy: p.UseFulfillerProxy,
		Signature:         signature,
		OfferItem:         offer[0],
		Consideration:     toABIConsiderationItems(p.Consideration),
	}, nil
}

func decodeSignature(signature string) ([]byte, error) {
	if signature == "" || signature == BlankSignature {
		return []byte{}, nil
	}
	raw, err := hexutil.Decode(signature)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signature: %w", err)
	}
	return raw, nil
}
