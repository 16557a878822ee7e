package chain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testComponents() OrderComponents {
	return OrderComponents{
		OrderParameters: OrderParameters{
			Offerer: common.HexToAddress("0x3000000000000000000000000000000000000003"),
			Offer: []OfferItem{{
				ItemType:             ItemTypeERC721,
				Token:                common.HexToAddress("0x1000000000000000000000000000000000000001"),
				IdentifierOrCriteria: big.NewInt(1),
				StartAmount:          big.NewInt(1),
				EndAmount:            big.NewInt(1),
			}},
			Consideration: []ConsiderationItem{{
				ItemType:             ItemTypeNative,
				IdentifierOrCriteria: big.NewInt(0),
				StartAmount:          big.NewInt(1000),
				EndAmount:            big.NewInt(1000),
				Recipient:            common.HexToAddress("0x3000000000000000000000000000000000000003"),
			}},
			OrderType: OrderTypeFullOpen,
			StartTime: big.NewInt(0),
			EndTime:   big.NewInt(10000),
			Salt:      big.NewInt(12345),
		},
		Nonce: big.NewInt(0),
	}
}

func testDomain() *EIP712Domain {
	return NewEIP712Domain(big.NewInt(1), common.HexToAddress("0x00000000006c3852cbEf3e08E8dF289169EdE581"))
}

func TestHashOrderComponentsDeterministic(t *testing.T) {
	first := HashOrderComponents(testComponents())
	second := HashOrderComponents(testComponents())
	assert.Equal(t, first, second)
	assert.NotEqual(t, common.Hash{}, first)
}

func TestHashOrderComponentsSensitivity(t *testing.T) {
	base := HashOrderComponents(testComponents())

	changed := testComponents()
	changed.Salt = big.NewInt(54321)
	assert.NotEqual(t, base, HashOrderComponents(changed))

	changed = testComponents()
	changed.Nonce = big.NewInt(1)
	assert.NotEqual(t, base, HashOrderComponents(changed))

	changed = testComponents()
	changed.Offer[0].StartAmount = big.NewInt(2)
	assert.NotEqual(t, base, HashOrderComponents(changed))
}

func TestSignAndRecoverRoundTrip(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	domain := testDomain()
	components := testComponents()
	components.Offerer = signer

	signature, err := SignOrderComponents(domain, components, key)
	require.NoError(t, err)

	// 64-byte compact encoding: 0x plus 128 hex chars.
	assert.Len(t, signature, 2+128)

	digest := OrderSignHash(domain, components)
	recovered, err := RecoverSigner(digest, signature)
	require.NoError(t, err)
	assert.Equal(t, signer, recovered)
}

func TestRecoverSignerRejectsBadLength(t *testing.T) {
	_, err := RecoverSigner(common.Hash{}, "0x1234")
	assert.ErrorIs(t, err, ErrInvalidSignatureLength)
}

func TestCompactSignatureLength(t *testing.T) {
	_, err := CompactSignature(make([]byte, 64))
	assert.ErrorIs(t, err, ErrInvalidSignatureLength)

	raw := make([]byte, 65)
	raw[64] = 28
	compact, err := CompactSignature(raw)
	require.NoError(t, err)
	assert.Len(t, compact, 2+128)
	// v=28 folds into the top bit of s.
	assert.Equal(t, "8", compact[2+64:2+65])
}

func TestDomainHashChangesWithChain(t *testing.T) {
	mainnet := NewEIP712Domain(big.NewInt(1), common.Address{})
	goerli := NewEIP712Domain(big.NewInt(5), common.Address{})
	assert.NotEqual(t, mainnet.Hash(), goerli.Hash())
}
