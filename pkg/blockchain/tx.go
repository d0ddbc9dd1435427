package blockchain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// maxReceiptBackoff caps the exponential backoff between receipt polls.
const maxReceiptBackoff = 10 * time.Second

// TxError reports a failed transaction build, submission or confirmation.
// Hash is set once the transaction was submitted, so the caller can inspect
// chain state independently of the SDK.
type TxError struct {
	Op   string
	Hash common.Hash
	Err  error
}

func (e *TxError) Error() string {
	if e.Hash != (common.Hash{}) {
		return fmt.Sprintf("%s: tx %s: %v", e.Op, e.Hash, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TxError) Unwrap() error { return e.Err }

// TransactOpts creates a transactor for the configured chain: EIP-155 keyed
// signer, a fresh pending nonce, the configured EIP-1559 fee caps and the
// given per-operation gas limit. A new nonce is fetched on every call;
// concurrent writes from the same key must be serialized by the caller.
func (evm *EVMClient) TransactOpts(ctx context.Context, key *ecdsa.PrivateKey, gasLimit uint64) (*bind.TransactOpts, error) {
	if key == nil {
		return nil, errors.New("private key is required for transactions")
	}

	chainID, err := evm.backend.ChainID(ctx)
	if err != nil {
		zap.L().Error("failed to get chain ID", zap.Error(err))
		return nil, err
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		zap.L().Error("failed to create transactor", zap.Error(err))
		return nil, err
	}

	nonce, err := evm.backend.PendingNonceAt(ctx, opts.From)
	if err != nil {
		return nil, &TxError{Op: "estimate nonce", Err: err}
	}

	opts.Nonce = new(big.Int).SetUint64(nonce)
	opts.GasLimit = gasLimit
	opts.GasFeeCap = evm.cfg.Gas.FeeCap()
	opts.GasTipCap = evm.cfg.Gas.TipCap()
	opts.Context = ctx
	return opts, nil
}

// Submit builds, signs and sends a state-changing contract call and returns
// its hash without waiting for confirmation.
func (evm *EVMClient) Submit(ctx context.Context, key *ecdsa.PrivateKey, target *Bound, gasLimit uint64, method string, params ...interface{}) (common.Hash, error) {
	ctx, cancel := context.WithTimeout(ctx, evm.cfg.Timeouts.ChainSubmit)
	defer cancel()

	opts, err := evm.TransactOpts(ctx, key, gasLimit)
	if err != nil {
		return common.Hash{}, err
	}

	tx, err := target.contract.Transact(opts, method, params...)
	if err != nil {
		return common.Hash{}, &TxError{Op: fmt.Sprintf("%s.%s", target.Name, method), Err: err}
	}

	zap.L().Debug("transaction submitted",
		zap.String("contract", string(target.Name)),
		zap.String("method", method),
		zap.String("hash", tx.Hash().Hex()),
		zap.Uint64("nonce", tx.Nonce()))
	return tx.Hash(), nil
}

// SubmitAndWait submits a contract call and blocks until its receipt is
// available, bounded by the ReceiptWait timeout. This is the confirmation
// barrier used between the two steps of approve-then-act flows.
func (evm *EVMClient) SubmitAndWait(ctx context.Context, key *ecdsa.PrivateKey, target *Bound, gasLimit uint64, method string, params ...interface{}) (common.Hash, error) {
	hash, err := evm.Submit(ctx, key, target, gasLimit, method, params...)
	if err != nil {
		return common.Hash{}, err
	}

	waitCtx, cancel := context.WithTimeout(ctx, evm.cfg.Timeouts.ReceiptWait)
	defer cancel()

	if _, err := evm.WaitForTransaction(waitCtx, hash, maxReceiptBackoff); err != nil {
		return hash, err
	}
	return hash, nil
}

// WaitForTransaction polls for a transaction receipt with exponential backoff
// until the receipt is available, the context is done, or an error occurs. If
// maxBackoff is non-zero, backoff will not exceed it. A reverted transaction
// is an error.
func (evm *EVMClient) WaitForTransaction(ctx context.Context, txHash common.Hash, maxBackoff time.Duration) (*types.Receipt, error) {
	backoff := time.Second
	for {
		receipt, err := evm.backend.TransactionReceipt(ctx, txHash)
		switch {
		case err == nil:
			if receipt.Status == types.ReceiptStatusFailed {
				return nil, &TxError{Op: "wait receipt", Hash: txHash, Err: errors.New("transaction reverted")}
			}
			return receipt, nil
		case errors.Is(err, ethereum.NotFound):
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, &TxError{Op: "wait receipt", Hash: txHash, Err: ctx.Err()}
			}
			if maxBackoff == 0 || backoff < maxBackoff {
				backoff *= 2
			}
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, &TxError{Op: "wait receipt", Hash: txHash, Err: err}
		default:
			return nil, &TxError{Op: "wait receipt", Hash: txHash, Err: err}
		}
	}
}

// ParsePrivateKeyECDSA parses a hex-encoded ECDSA private key and returns the
// corresponding Ethereum address together with the private key object.
func ParsePrivateKeyECDSA(privateKey string) (common.Address, *ecdsa.PrivateKey, error) {
	keyECDSA, err := crypto.HexToECDSA(privateKey)
	if err != nil {
		return common.Address{}, nil, err
	}

	publicKey, ok := keyECDSA.Public().(*ecdsa.PublicKey)
	if !ok {
		return common.Address{}, nil, errors.New("failed to get public key")
	}

	return crypto.PubkeyToAddress(*publicKey), keyECDSA, nil
}

// GetAddressFromPrivateKeyECDSA derives the Ethereum address from the given
// ECDSA private key. It returns nil if the key is nil or its public part
// cannot be asserted to *ecdsa.PublicKey.
func GetAddressFromPrivateKeyECDSA(key *ecdsa.PrivateKey) *common.Address {
	if key == nil {
		return nil
	}
	publicKey, ok := key.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil
	}
	addr := crypto.PubkeyToAddress(*publicKey)
	return &addr
}
