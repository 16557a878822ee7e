package chain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ItemType identifies the asset class of an offer or consideration item.
type ItemType uint8

const (
	ItemTypeNative ItemType = iota
	ItemTypeERC20
	ItemTypeERC721
	ItemTypeERC1155
	ItemTypeERC721WithCriteria
	ItemTypeERC1155WithCriteria
)

// IsCurrency reports whether the item type is a fungible currency with no
// per-unit identifier (native coin or ERC20).
func (t ItemType) IsCurrency() bool {
	return t == ItemTypeNative || t == ItemTypeERC20
}

// IsCriteriaBased reports whether the item's identifier field holds a merkle
// criteria root rather than a concrete token id.
func (t ItemType) IsCriteriaBased() bool {
	return t == ItemTypeERC721WithCriteria || t == ItemTypeERC1155WithCriteria
}

// OrderType is the protocol-level order classification. The three axes are
// partial-fill support, zone restriction, and proxy-routed transfers.
type OrderType uint8

const (
	OrderTypeFullOpen OrderType = iota
	OrderTypePartialOpen
	OrderTypeFullRestricted
	OrderTypePartialRestricted
	OrderTypeFullOpenViaProxy
	OrderTypePartialOpenViaProxy
	OrderTypeFullRestrictedViaProxy
	OrderTypePartialRestrictedViaProxy
)

// AllowsPartialFills reports whether the type permits filling fewer units
// than the order's maximum size.
func (t OrderType) AllowsPartialFills() bool {
	return t&1 == 1
}

// IsRestricted reports whether settlement is gated by the order's zone.
func (t OrderType) IsRestricted() bool {
	return t&2 == 2
}

// UsesProxy reports whether offerer transfers route through the legacy
// registry proxy.
func (t OrderType) UsesProxy() bool {
	return t >= OrderTypeFullOpenViaProxy
}

// OfferItem is an asset supplied by the offerer. StartAmount and EndAmount
// differ only for ascending or descending amount orders; the effective amount
// interpolates linearly over the order's active window.
type OfferItem struct {
	ItemType             ItemType
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
}

// ConsiderationItem is an asset owed to a recipient upon fulfillment.
type ConsiderationItem struct {
	ItemType             ItemType
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
	Recipient            common.Address
}

// OrderParameters is the immutable body of an order. Salt is fixed for the
// life of the order; fee injection produces a new value rather than mutating
// an existing one.
type OrderParameters struct {
	Offerer       common.Address
	Zone          common.Address
	Offer         []OfferItem
	Consideration []ConsiderationItem
	OrderType     OrderType
	StartTime     *big.Int
	EndTime       *big.Int
	Salt          *big.Int
}

// OrderComponents is OrderParameters plus the offerer's anti-replay nonce.
// This is the exact structure that is hashed and signed.
type OrderComponents struct {
	OrderParameters
	Nonce *big.Int
}

// Order pairs parameters with a signature. A signature equal to
// BlankSignature means the order was validated on-chain and needs no
// signature check at fulfillment.
type Order struct {
	Parameters OrderParameters
	Signature  string
}

// BlankSignature is the zero-signature sentinel for on-chain validated orders.
const BlankSignature = "0x"

// AdvancedOrder is an order plus the fraction being filled, used by the
// standard fulfillment path. Numerator and Denominator express units-to-fill
// against the order's maximum fillable size.
type AdvancedOrder struct {
	Parameters  OrderParameters
	Numerator   *big.Int
	Denominator *big.Int
	Signature   string
}

// BasicOrderParameters is the flattened calldata for the cheaper basic
// fulfillment path, which only supports single-offer-item orders.
type BasicOrderParameters struct {
	Offerer           common.Address
	Zone              common.Address
	OrderType         OrderType
	StartTime         *big.Int
	EndTime           *big.Int
	Salt              *big.Int
	UseFulfillerProxy bool
	Signature         string
	OfferItem         OfferItem
	Consideration     []ConsiderationItem
}

// OrderStatus is the on-chain validation/cancellation/fill state for an order
// hash. A TotalSize of zero means the fill denomination is not yet fixed.
type OrderStatus struct {
	IsValidated bool
	IsCancelled bool
	TotalFilled *big.Int
	TotalSize   *big.Int
}

const offerItemComponents = `[
	{"name": "itemType", "type": "uint8"},
	{"name": "token", "type": "address"},
	{"name": "identifierOrCriteria", "type": "uint256"},
	{"name": "startAmount", "type": "uint256"},
	{"name": "endAmount", "type": "uint256"}
]`

const considerationItemComponents = `[
	{"name": "itemType", "type": "uint8"},
	{"name": "token", "type": "address"},
	{"name": "identifierOrCriteria", "type": "uint256"},
	{"name": "startAmount", "type": "uint256"},
	{"name": "endAmount", "type": "uint256"},
	{"name": "recipient", "type": "address"}
]`

const orderParametersComponents = `[
	{"name": "offerer", "type": "address"},
	{"name": "zone", "type": "address"},
	{"name": "offer", "type": "tuple[]", "components": ` + offerItemComponents + `},
	{"name": "consideration", "type": "tuple[]", "components": ` + considerationItemComponents + `},
	{"name": "orderType", "type": "uint8"},
	{"name": "startTime", "type": "uint256"},
	{"name": "endTime", "type": "uint256"},
	{"name": "salt", "type": "uint256"}
]`

const orderComponentsComponents = `[
	{"name": "offerer", "type": "address"},
	{"name": "zone", "type": "address"},
	{"name": "offer", "type": "tuple[]", "components": ` + offerItemComponents + `},
	{"name": "consideration", "type": "tuple[]", "components": ` + considerationItemComponents + `},
	{"name": "orderType", "type": "uint8"},
	{"name": "startTime", "type": "uint256"},
	{"name": "endTime", "type": "uint256"},
	{"name": "salt", "type": "uint256"},
	{"name": "nonce", "type": "uint256"}
]`

const orderTupleComponents = `[
	{"name": "parameters", "type": "tuple", "components": ` + orderParametersComponents + `},
	{"name": "signature", "type": "bytes"}
]`

// Exchange contract ABI covering the reads and writes this SDK issues.
const exchangeABIJSON = `[
	{
		"name": "getNonce",
		"type": "function",
		"stateMutability": "view",
		"inputs": [
			{"name": "offerer", "type": "address"},
			{"name": "zone", "type": "address"}
		],
		"outputs": [{"name": "nonce", "type": "uint256"}]
	},
	{
		"name": "getOrderStatus",
		"type": "function",
		"stateMutability": "view",
		"inputs": [{"name": "orderHash", "type": "bytes32"}],
		"outputs": [
			{"name": "isValidated", "type": "bool"},
			{"name": "isCancelled", "type": "bool"},
			{"name": "totalFilled", "type": "uint256"},
			{"name": "totalSize", "type": "uint256"}
		]
	},
	{
		"name": "cancel",
		"type": "function",
		"inputs": [{"name": "orders", "type": "tuple[]", "components": ` + orderComponentsComponents + `}],
		"outputs": [{"name": "ok", "type": "bool"}]
	},
	{
		"name": "incrementNonce",
		"type": "function",
		"inputs": [
			{"name": "offerer", "type": "address"},
			{"name": "zone", "type": "address"}
		],
		"outputs": [{"name": "newNonce", "type": "uint256"}]
	},
	{
		"name": "validate",
		"type": "function",
		"inputs": [{"name": "orders", "type": "tuple[]", "components": ` + orderTupleComponents + `}],
		"outputs": [{"name": "ok", "type": "bool"}]
	},
	{
		"name": "fulfillBasicOrder",
		"type": "function",
		"stateMutability": "payable",
		"inputs": [{"name": "parameters", "type": "tuple", "components": [
			{"name": "offerer", "type": "address"},
			{"name": "zone", "type": "address"},
			{"name": "orderType", "type": "uint8"},
			{"name": "startTime", "type": "uint256"},
			{"name": "endTime", "type": "uint256"},
			{"name": "salt", "type": "uint256"},
			{"name": "useFulfillerProxy", "type": "bool"},
			{"name": "signature", "type": "bytes"},
			{"name": "offerItem", "type": "tuple", "components": ` + offerItemComponents + `},
			{"name": "consideration", "type": "tuple[]", "components": ` + considerationItemComponents + `}
		]}],
		"outputs": [{"name": "fulfilled", "type": "bool"}]
	},
	{
		"name": "fulfillAdvancedOrder",
		"type": "function",
		"stateMutability": "payable",
		"inputs": [
			{"name": "advancedOrder", "type": "tuple", "components": [
				{"name": "parameters", "type": "tuple", "components": ` + orderParametersComponents + `},
				{"name": "numerator", "type": "uint120"},
				{"name": "denominator", "type": "uint120"},
				{"name": "signature", "type": "bytes"}
			]},
			{"name": "useFulfillerProxy", "type": "bool"}
		],
		"outputs": [{"name": "fulfilled", "type": "bool"}]
	}
]`

// ERC20 ABI for balance, allowance and approve.
const erc20ABIJSON = `[
	{
		"constant": true,
		"inputs": [{"name": "account", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "spender", "type": "address"}
		],
		"name": "allowance",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "spender", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "approve",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	}
]`

// ERC721 ABI for ownership and operator approval.
const erc721ABIJSON = `[
	{
		"constant": true,
		"inputs": [{"name": "tokenId", "type": "uint256"}],
		"name": "ownerOf",
		"outputs": [{"name": "", "type": "address"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "operator", "type": "address"}
		],
		"name": "isApprovedForAll",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "operator", "type": "address"},
			{"name": "approved", "type": "bool"}
		],
		"name": "setApprovalForAll",
		"outputs": [],
		"type": "function"
	}
]`

// ERC1155 ABI for balance and operator approval.
const erc1155ABIJSON = `[
	{
		"constant": true,
		"inputs": [
			{"name": "account", "type": "address"},
			{"name": "id", "type": "uint256"}
		],
		"name": "balanceOf",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "operator", "type": "address"}
		],
		"name": "isApprovedForAll",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "operator", "type": "address"},
			{"name": "approved", "type": "bool"}
		],
		"name": "setApprovalForAll",
		"outputs": [],
		"type": "function"
	}
]`

// Legacy proxy registry ABI.
const proxyRegistryABIJSON = `[
	{
		"constant": true,
		"inputs": [{"name": "owner", "type": "address"}],
		"name": "proxies",
		"outputs": [{"name": "", "type": "address"}],
		"type": "function"
	}
]`

// Multicall ABI used to collapse independent reads into one round trip.
const multicallABIJSON = `[
	{
		"constant": false,
		"inputs": [{"name": "calls", "type": "tuple[]", "components": [
			{"name": "target", "type": "address"},
			{"name": "callData", "type": "bytes"}
		]}],
		"name": "aggregate",
		"outputs": [
			{"name": "blockNumber", "type": "uint256"},
			{"name": "returnData", "type": "bytes[]"}
		],
		"type": "function"
	}
]`

// GetExchangeABI returns the parsed exchange contract ABI.
func GetExchangeABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(exchangeABIJSON))
	if err != nil {
		panic("failed to parse exchange ABI: " + err.Error())
	}
	return parsed
}

// GetERC20ABI returns the parsed ERC20 ABI.
func GetERC20ABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		panic("failed to parse ERC20 ABI: " + err.Error())
	}
	return parsed
}

// GetERC721ABI returns the parsed ERC721 ABI.
func GetERC721ABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(erc721ABIJSON))
	if err != nil {
		panic("failed to parse ERC721 ABI: " + err.Error())
	}
	return parsed
}

// GetERC1155ABI returns the parsed ERC1155 ABI.
func GetERC1155ABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(erc1155ABIJSON))
	if err != nil {
		panic("failed to parse ERC1155 ABI: " + err.Error())
	}
	return parsed
}

// GetProxyRegistryABI returns the parsed legacy proxy registry ABI.
func GetProxyRegistryABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(proxyRegistryABIJSON))
	if err != nil {
		panic("failed to parse proxy registry ABI: " + err.Error())
	}
	return parsed
}

// GetMulticallABI returns the parsed multicall ABI.
func GetMulticallABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(multicallABIJSON))
	if err != nil {
		panic("failed to parse multicall ABI: " + err.Error())
	}
	return parsed
}
