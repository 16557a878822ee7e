package consideration

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestInvalidParamErrorUnwraps(t *testing.T) {
	err := &InvalidParamError{Message: "bad input"}
	assert.True(t, errors.Is(err, ErrInvalidParam))
	assert.Equal(t, "bad input", err.Error())
}

func TestCancelledOrderErrorUnwraps(t *testing.T) {
	err := &CancelledOrderError{OrderHash: common.HexToHash("0x01")}
	assert.True(t, errors.Is(err, ErrOrderCancelled))
	assert.Contains(t, err.Error(), "cancelled")
}
