package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// MulticallCall is a single read in an aggregate batch.
type MulticallCall struct {
	Target   common.Address
	CallData []byte
}

// Aggregate collapses many read calls into one RPC round trip through the
// multicall contract. Returns the block number the reads were served at and
// the raw return data per call, in order.
func (cc *ContractCaller) Aggregate(ctx context.Context, calls []MulticallCall) (*big.Int, [][]byte, error) {
	multicallABI := GetMulticallABI()

	data, err := multicallABI.Pack("aggregate", calls)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to pack aggregate: %w", err)
	}

	result, err := cc.client.CallContract(ctx, ethereum.CallMsg{
		To:   &cc.multicallAddr,
		Data: data,
	}, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("multicall aggregate failed: %w", err)
	}

	values, err := multicallABI.Unpack("aggregate", result)
	if err != nil {
		return nil, nil, err
	}
	if len(values) != 2 {
		return nil, nil, fmt.Errorf("unexpected aggregate output arity: %d", len(values))
	}

	blockNumber := values[0].(*big.Int)
	returnData := values[1].([][]byte)
	if len(returnData) != len(calls) {
		return nil, nil, fmt.Errorf("aggregate returned %d results for %d calls", len(returnData), len(calls))
	}

	return blockNumber, returnData, nil
}
