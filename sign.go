package consideration

import (
	"crypto/rand"
	"math/big"

	"github.com/pkg/errors"

	"github.com/exchangekit/consideration-sdk-go/chain"
)

// SignOrder signs the order parameters under the given nonce and returns the
// 64-byte compact signature.
func (c *Client) SignOrder(orderParameters chain.OrderParameters, nonce *big.Int) (string, error) {
	if nonce == nil {
		return "", &InvalidParamError{Message: "nonce is required for signing"}
	}

	components := chain.OrderComponents{
		OrderParameters: orderParameters,
		Nonce:           nonce,
	}

	signature, err := chain.SignOrderComponents(c.domain, components, c.contractCaller.GetPrivateKey())
	if err != nil {
		return "", errors.Wrap(err, "sign order")
	}

	return signature, nil
}

// randomSalt draws a uniform 256-bit salt. The salt prevents hash collisions
// across otherwise-identical orders and is fixed for the order's life.
func randomSalt() (*big.Int, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return nil, errors.Wrap(err, "generate salt")
	}
	return new(big.Int).SetBytes(buf[:]), nil
}
