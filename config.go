package consideration

import (
	"go.uber.org/zap"
)

// ChainID represents a blockchain chain ID
type ChainID int

const (
	ChainIDMainnet ChainID = 1
	ChainIDGoerli  ChainID = 5
)

// SupportedChainIDs lists all supported chain IDs
var SupportedChainIDs = []ChainID{ChainIDMainnet, ChainIDGoerli}

// ProxyStrategy controls whether transfers are routed through an account's
// legacy registry proxy.
type ProxyStrategy int

const (
	// ProxyStrategyNever transfers directly, never via proxy.
	ProxyStrategyNever ProxyStrategy = iota
	// ProxyStrategyIfZeroApprovalsNeeded uses the proxy only when it requires
	// no additional approvals while the direct path requires at least one.
	ProxyStrategyIfZeroApprovalsNeeded
	// ProxyStrategyAlways routes via proxy whenever one is registered.
	ProxyStrategyAlways
)

// ContractAddresses holds contract addresses for each chain
type ContractAddresses struct {
	Exchange            string
	LegacyProxyRegistry string
	Multicall           string
}

// DefaultContractAddresses maps chain IDs to their contract addresses
var DefaultContractAddresses = map[ChainID]ContractAddresses{
	ChainIDMainnet: {
		Exchange:            "0x00000000006c3852cbEf3e08E8dF289169EdE581",
		LegacyProxyRegistry: "0xa5409ec958C83C3f309868babACA7c86DCB077c1",
		Multicall:           "0xeefBa1e63905eF1D7ACbA5a8513c70307C1cE441",
	},
	ChainIDGoerli: {
		Exchange:            "0x00000000006c3852cbEf3e08E8dF289169EdE581",
		LegacyProxyRegistry: "0xc9711dc40FBF0bC50bBeD12eA8b78D07a3c21c1d",
		Multicall:           "0x77dCa2C955b15e9dE4dbBCf1246B4B85b651e50e",
	},
}

const (
	// DefaultAscendingAmountBufferSeconds treats an order as started slightly
	// early when interpolating ascending amounts, so a fulfillment mined a
	// few blocks later does not undershoot the required amount.
	DefaultAscendingAmountBufferSeconds = 300

	// DefaultGasLimit bounds every transaction this SDK submits.
	DefaultGasLimit = 500000
)

// ClientConfig holds configuration for creating a Client. Defaults are
// resolved once in NewClient; nothing is recomputed deeper in the call graph.
type ClientConfig struct {
	ChainID    ChainID
	RPCURL     string
	PrivateKey string

	// Optional contract address overrides; chain defaults apply when empty.
	ExchangeAddr            string
	LegacyProxyRegistryAddr string
	MulticallAddr           string

	ProxyStrategy ProxyStrategy

	// SkipCreationTimeBalanceChecks disables the offerer balance validation
	// performed during CreateOrder. Checks run by default.
	SkipCreationTimeBalanceChecks bool

	AscendingAmountBufferSeconds int64
	GasLimit                     uint64

	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}
