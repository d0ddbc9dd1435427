package blockchain

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// BalanceOf returns the token balance of account in ledger units.
func (evm *EVMClient) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	var out []interface{}
	if err := evm.Call(ctx, evm.token, &out, "balanceOf", account); err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// Allowance returns the remaining token amount spender may pull from owner,
// in ledger units.
func (evm *EVMClient) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	var out []interface{}
	if err := evm.Call(ctx, evm.token, &out, "allowance", owner, spender); err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// TokenDecimals reads the token precision from the contract. The configured
// precision is authoritative for conversion; this is a consistency check for
// callers pointing at non-default deployments.
func (evm *EVMClient) TokenDecimals(ctx context.Context) (uint8, error) {
	var out []interface{}
	if err := evm.Call(ctx, evm.token, &out, "decimals"); err != nil {
		return 0, err
	}
	return out[0].(uint8), nil
}

// Approve authorizes spender to pull amount ledger units from the signer's
// token balance. Returns the transaction hash without waiting.
func (evm *EVMClient) Approve(ctx context.Context, key *ecdsa.PrivateKey, spender common.Address, amount *big.Int) (common.Hash, error) {
	return evm.Submit(ctx, key, evm.token, evm.cfg.Gas.ApproveLimit, "approve", spender, amount)
}

// ApproveAndWait submits an approve and blocks until it is confirmed. Both
// two-step flows (stake, purchase coverage) run their first step through this
// barrier: the dependent transaction reverts unless the allowance is already
// visible on-chain.
func (evm *EVMClient) ApproveAndWait(ctx context.Context, key *ecdsa.PrivateKey, spender common.Address, amount *big.Int) (common.Hash, error) {
	return evm.SubmitAndWait(ctx, key, evm.token, evm.cfg.Gas.ApproveLimit, "approve", spender, amount)
}

// Transfer sends amount ledger units of the token to the given address.
func (evm *EVMClient) Transfer(ctx context.Context, key *ecdsa.PrivateKey, to common.Address, amount *big.Int) (common.Hash, error) {
	return evm.Submit(ctx, key, evm.token, evm.cfg.Gas.ApproveLimit, "transfer", to, amount)
}
