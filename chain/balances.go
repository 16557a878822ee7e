package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ScanItem identifies one asset whose balance and approvals should be
// snapshotted for an account.
type ScanItem struct {
	ItemType             ItemType
	Token                common.Address
	IdentifierOrCriteria *big.Int
}

// BalanceAndApproval is the point-in-time snapshot for one item.
// OwnerApproval is the amount approved for the exchange contract directly,
// ProxyApproval the amount approved for the account's transfer proxy.
// Operator approvals on non-fungibles are reported as MaxUint256 or zero.
type BalanceAndApproval struct {
	ScanItem
	Balance       *big.Int
	OwnerApproval *big.Int
	ProxyApproval *big.Int
}

type scanKind int

const (
	scanBalance scanKind = iota
	scanOwnerOf
	scanOwnerApproval
	scanProxyApproval
)

type scanRef struct {
	item int
	kind scanKind
	std  ItemType
}

// GetBalancesAndApprovals snapshots balances and both approval targets for
// every item in one multicall round trip. A zero proxy address reports zero
// proxy approvals without issuing the reads. Native items need no approval
// and report unlimited approvals; criteria-based items carry a merkle root
// instead of a token id, so their balances cannot be checked client-side and
// are reported as unlimited.
func (cc *ContractCaller) GetBalancesAndApprovals(
	ctx context.Context,
	owner common.Address,
	items []ScanItem,
	proxy common.Address,
) ([]BalanceAndApproval, error) {
	erc20ABI := GetERC20ABI()
	erc721ABI := GetERC721ABI()
	erc1155ABI := GetERC1155ABI()
	hasProxy := proxy != (common.Address{})

	out := make([]BalanceAndApproval, len(items))
	var calls []MulticallCall
	var refs []scanRef

	push := func(ref scanRef, target common.Address, callData []byte) {
		calls = append(calls, MulticallCall{Target: target, CallData: callData})
		refs = append(refs, ref)
	}

	for i, item := range items {
		out[i] = BalanceAndApproval{
			ScanItem:      item,
			Balance:       big.NewInt(0),
			OwnerApproval: big.NewInt(0),
			ProxyApproval: big.NewInt(0),
		}

		switch item.ItemType {
		case ItemTypeNative:
			balance, err := cc.NativeBalance(ctx, owner)
			if err != nil {
				return nil, err
			}
			out[i].Balance = balance
			out[i].OwnerApproval = new(big.Int).Set(MaxUint256)
			out[i].ProxyApproval = new(big.Int).Set(MaxUint256)

		case ItemTypeERC20:
			balanceData, err := erc20ABI.Pack("balanceOf", owner)
			if err != nil {
				return nil, err
			}
			push(scanRef{i, scanBalance, ItemTypeERC20}, item.Token, balanceData)

			ownerData, err := erc20ABI.Pack("allowance", owner, cc.exchangeAddr)
			if err != nil {
				return nil, err
			}
			push(scanRef{i, scanOwnerApproval, ItemTypeERC20}, item.Token, ownerData)

			if hasProxy {
				proxyData, err := erc20ABI.Pack("allowance", owner, proxy)
				if err != nil {
					return nil, err
				}
				push(scanRef{i, scanProxyApproval, ItemTypeERC20}, item.Token, proxyData)
			}

		case ItemTypeERC721, ItemTypeERC721WithCriteria, ItemTypeERC1155, ItemTypeERC1155WithCriteria:
			switch item.ItemType {
			case ItemTypeERC721:
				ownerOfData, err := erc721ABI.Pack("ownerOf", item.IdentifierOrCriteria)
				if err != nil {
					return nil, err
				}
				push(scanRef{i, scanOwnerOf, ItemTypeERC721}, item.Token, ownerOfData)
			case ItemTypeERC1155:
				balanceData, err := erc1155ABI.Pack("balanceOf", owner, item.IdentifierOrCriteria)
				if err != nil {
					return nil, err
				}
				push(scanRef{i, scanBalance, ItemTypeERC1155}, item.Token, balanceData)
			default:
				out[i].Balance = new(big.Int).Set(MaxUint256)
			}

			approvedData, err := erc721ABI.Pack("isApprovedForAll", owner, cc.exchangeAddr)
			if err != nil {
				return nil, err
			}
			push(scanRef{i, scanOwnerApproval, ItemTypeERC721}, item.Token, approvedData)

			if hasProxy {
				proxyData, err := erc721ABI.Pack("isApprovedForAll", owner, proxy)
				if err != nil {
					return nil, err
				}
				push(scanRef{i, scanProxyApproval, ItemTypeERC721}, item.Token, proxyData)
			}

		default:
			return nil, fmt.Errorf("unknown item type: %d", item.ItemType)
		}
	}

	if len(calls) == 0 {
		return out, nil
	}

	_, returnData, err := cc.Aggregate(ctx, calls)
	if err != nil {
		return nil, err
	}

	for idx, ref := range refs {
		raw := returnData[idx]

		switch ref.kind {
		case scanBalance:
			var amount *big.Int
			if ref.std == ItemTypeERC20 {
				err = erc20ABI.UnpackIntoInterface(&amount, "balanceOf", raw)
			} else {
				err = erc1155ABI.UnpackIntoInterface(&amount, "balanceOf", raw)
			}
			if err != nil {
				return nil, fmt.Errorf("failed to unpack balance: %w", err)
			}
			out[ref.item].Balance = amount

		case scanOwnerOf:
			var holder common.Address
			if err := erc721ABI.UnpackIntoInterface(&holder, "ownerOf", raw); err != nil {
				return nil, fmt.Errorf("failed to unpack ownerOf: %w", err)
			}
			if holder == owner {
				out[ref.item].Balance = big.NewInt(1)
			}

		case scanOwnerApproval, scanProxyApproval:
			var amount *big.Int
			if ref.std == ItemTypeERC20 {
				if err := erc20ABI.UnpackIntoInterface(&amount, "allowance", raw); err != nil {
					return nil, fmt.Errorf("failed to unpack allowance: %w", err)
				}
			} else {
				var approved bool
				if err := erc721ABI.UnpackIntoInterface(&approved, "isApprovedForAll", raw); err != nil {
					return nil, fmt.Errorf("failed to unpack isApprovedForAll: %w", err)
				}
				if approved {
					amount = new(big.Int).Set(MaxUint256)
				} else {
					amount = big.NewInt(0)
				}
			}
			if ref.kind == scanOwnerApproval {
				out[ref.item].OwnerApproval = amount
			} else {
				out[ref.item].ProxyApproval = amount
			}
		}
	}

	return out, nil
}
