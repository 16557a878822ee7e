package chain

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// EIP712 related errors
var (
	ErrInvalidSignatureLength = errors.New("invalid signature length")
)

// EIP712 domain constants for the exchange contract
const (
	EIP712DomainName    = "Consideration"
	EIP712DomainVersion = "1"
)

// Pre-computed type hashes using keccak256. Nested struct definitions are
// appended to the root definition in alphabetical order per EIP-712.
var (
	// EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)
	EIP712DomainTypeHash = crypto.Keccak256Hash([]byte(
		"EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)",
	))

	offerItemTypeString = "OfferItem(uint8 itemType,address token,uint256 identifierOrCriteria," +
		"uint256 startAmount,uint256 endAmount)"

	considerationItemTypeString = "ConsiderationItem(uint8 itemType,address token,uint256 identifierOrCriteria," +
		"uint256 startAmount,uint256 endAmount,address recipient)"

	orderComponentsTypeString = "OrderComponents(address offerer,address zone,OfferItem[] offer," +
		"ConsiderationItem[] consideration,uint8 orderType,uint256 startTime,uint256 endTime," +
		"uint256 salt,uint256 nonce)"

	OfferItemTypeHash         = crypto.Keccak256Hash([]byte(offerItemTypeString))
	ConsiderationItemTypeHash = crypto.Keccak256Hash([]byte(considerationItemTypeString))
	OrderComponentsTypeHash   = crypto.Keccak256Hash([]byte(
		orderComponentsTypeString + considerationItemTypeString + offerItemTypeString,
	))
)

// EIP712Domain represents the EIP712 domain separator data.
type EIP712Domain struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract common.Address
}

// NewEIP712Domain creates a new EIP712Domain with the protocol constants.
func NewEIP712Domain(chainID *big.Int, verifyingContract common.Address) *EIP712Domain {
	return &EIP712Domain{
		Name:              EIP712DomainName,
		Version:           EIP712DomainVersion,
		ChainID:           chainID,
		VerifyingContract: verifyingContract,
	}
}

// Hash computes the EIP712 domain separator hash.
func (d *EIP712Domain) Hash() common.Hash {
	nameHash := crypto.Keccak256Hash([]byte(d.Name))
	versionHash := crypto.Keccak256Hash([]byte(d.Version))

	bytes32Type, _ := abi.NewType("bytes32", "", nil)
	uint256Type, _ := abi.NewType("uint256", "", nil)
	addressType, _ := abi.NewType("address", "", nil)

	arguments := abi.Arguments{
		{Type: bytes32Type}, // typeHash
		{Type: bytes32Type}, // nameHash
		{Type: bytes32Type}, // versionHash
		{Type: uint256Type}, // chainId
		{Type: addressType}, // verifyingContract
	}

	encoded, err := arguments.Pack(
		EIP712DomainTypeHash,
		nameHash,
		versionHash,
		d.ChainID,
		d.VerifyingContract,
	)
	if err != nil {
		panic("failed to encode domain separator: " + err.Error())
	}

	return crypto.Keccak256Hash(encoded)
}

// HashOfferItem computes the EIP712 struct hash for an offer item.
func HashOfferItem(item OfferItem) common.Hash {
	bytes32Type, _ := abi.NewType("bytes32", "", nil)
	uint8Type, _ := abi.NewType("uint8", "", nil)
	addressType, _ := abi.NewType("address", "", nil)
	uint256Type, _ := abi.NewType("uint256", "", nil)

	arguments := abi.Arguments{
		{Type: bytes32Type}, // typeHash
		{Type: uint8Type},   // itemType
		{Type: addressType}, // token
		{Type: uint256Type}, // identifierOrCriteria
		{Type: uint256Type}, // startAmount
		{Type: uint256Type}, // endAmount
	}

	encoded, err := arguments.Pack(
		OfferItemTypeHash,
		uint8(item.ItemType),
		item.Token,
		item.IdentifierOrCriteria,
		item.StartAmount,
		item.EndAmount,
	)
	if err != nil {
		panic("failed to encode offer item: " + err.Error())
	}

	return crypto.Keccak256Hash(encoded)
}

// HashConsiderationItem computes the EIP712 struct hash for a consideration item.
func HashConsiderationItem(item ConsiderationItem) common.Hash {
	bytes32Type, _ := abi.NewType("bytes32", "", nil)
	uint8Type, _ := abi.NewType("uint8", "", nil)
	addressType, _ := abi.NewType("address", "", nil)
	uint256Type, _ := abi.NewType("uint256", "", nil)

	arguments := abi.Arguments{
		{Type: bytes32Type}, // typeHash
		{Type: uint8Type},   // itemType
		{Type: addressType}, // token
		{Type: uint256Type}, // identifierOrCriteria
		{Type: uint256Type}, // startAmount
		{Type: uint256Type}, // endAmount
		{Type: addressType}, // recipient
	}

	encoded, err := arguments.Pack(
		ConsiderationItemTypeHash,
		uint8(item.ItemType),
		item.Token,
		item.IdentifierOrCriteria,
		item.StartAmount,
		item.EndAmount,
		item.Recipient,
	)
	if err != nil {
		panic("failed to encode consideration item: " + err.Error())
	}

	return crypto.Keccak256Hash(encoded)
}

// HashOrderComponents computes the EIP712 struct hash for order components.
// The hash is deterministic for a given value and doubles as the order hash
// used for on-chain status lookups.
func HashOrderComponents(components OrderComponents) common.Hash {
	offerHashes := make([]byte, 0, len(components.Offer)*32)
	for _, item := range components.Offer {
		h := HashOfferItem(item)
		offerHashes = append(offerHashes, h.Bytes()...)
	}
	considerationHashes := make([]byte, 0, len(components.Consideration)*32)
	for _, item := range components.Consideration {
		h := HashConsiderationItem(item)
		considerationHashes = append(considerationHashes, h.Bytes()...)
	}

	bytes32Type, _ := abi.NewType("bytes32", "", nil)
	addressType, _ := abi.NewType("address", "", nil)
	uint8Type, _ := abi.NewType("uint8", "", nil)
	uint256Type, _ := abi.NewType("uint256", "", nil)

	arguments := abi.Arguments{
		{Type: bytes32Type}, // typeHash
		{Type: addressType}, // offerer
		{Type: addressType}, // zone
		{Type: bytes32Type}, // keccak256(offer item hashes)
		{Type: bytes32Type}, // keccak256(consideration item hashes)
		{Type: uint8Type},   // orderType
		{Type: uint256Type}, // startTime
		{Type: uint256Type}, // endTime
		{Type: uint256Type}, // salt
		{Type: uint256Type}, // nonce
	}

	encoded, err := arguments.Pack(
		OrderComponentsTypeHash,
		components.Offerer,
		components.Zone,
		crypto.Keccak256Hash(offerHashes),
		crypto.Keccak256Hash(considerationHashes),
		uint8(components.OrderType),
		components.StartTime,
		components.EndTime,
		components.Salt,
		components.Nonce,
	)
	if err != nil {
		panic("failed to encode order components: " + err.Error())
	}

	return crypto.Keccak256Hash(encoded)
}

// OrderSignHash creates the final EIP712 digest to be signed:
// keccak256("\x19\x01" ++ domainSeparator ++ structHash).
func OrderSignHash(domain *EIP712Domain, components OrderComponents) common.Hash {
	domainSeparator := domain.Hash()
	structHash := HashOrderComponents(components)

	data := make([]byte, 0, 2+32+32)
	data = append(data, 0x19, 0x01)
	data = append(data, domainSeparator.Bytes()...)
	data = append(data, structHash.Bytes()...)

	return crypto.Keccak256Hash(data)
}

// SignOrderComponents signs the components digest and returns the signature
// in the 64-byte compact encoding.
func SignOrderComponents(domain *EIP712Domain, components OrderComponents, key *ecdsa.PrivateKey) (string, error) {
	digest := OrderSignHash(domain, components)

	signature, err := crypto.Sign(digest.Bytes(), key)
	if err != nil {
		return "", fmt.Errorf("failed to sign order: %w", err)
	}

	return CompactSignature(signature)
}

// CompactSignature converts a 65-byte [R || S || V] signature into the
// 64-byte [R || yParityAndS] encoding. The recovery bit is folded into the
// top bit of S.
func CompactSignature(signature []byte) (string, error) {
	if len(signature) != 65 {
		return "", ErrInvalidSignatureLength
	}

	compact := make([]byte, 64)
	copy(compact[:32], signature[:32])
	copy(compact[32:], signature[32:64])

	v := signature[64]
	if v >= 27 {
		v -= 27
	}
	if v == 1 {
		compact[32] |= 0x80
	}

	return hexutil.Encode(compact), nil
}

// RecoverSigner recovers the signing address from a digest and a 64-byte
// compact signature.
func RecoverSigner(digest common.Hash, compactSignature string) (common.Address, error) {
	raw, err := hexutil.Decode(compactSignature)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to decode signature: %w", err)
	}
	if len(raw) != 64 {
		return common.Address{}, ErrInvalidSignatureLength
	}

	signature := make([]byte, 65)
	copy(signature[:32], raw[:32])
	copy(signature[32:64], raw[32:])
	signature[32] &= 0x7f
	signature[64] = (raw[32] & 0x80) >> 7

	pub, err := crypto.SigToPub(digest.Bytes(), signature)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pub), nil
}
