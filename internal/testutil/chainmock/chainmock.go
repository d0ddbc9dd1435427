// Package chainmock provides an in-memory chain backend for tests. It decodes
// ABI-encoded calls by selector, dispatches them to registered handlers,
// records submitted transactions and serves configurable receipts, so client
// packages can be tested without a network.
package chainmock

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Handler computes the decoded outputs of a read-only contract method given
// its decoded inputs.
type Handler func(args []interface{}) []interface{}

// Call records a single read-only contract call.
type Call struct {
	To     common.Address
	Method string
	Args   []interface{}
}

// SentTx records a submitted transaction with its decoded method and inputs.
type SentTx struct {
	Hash      common.Hash
	To        common.Address
	Method    string
	Args      []interface{}
	Nonce     uint64
	GasLimit  uint64
	GasFeeCap *big.Int
	GasTipCap *big.Int
}

// Backend is a fake chain. Register contract ABIs, install read handlers,
// then hand it to blockchain.NewEVMClient. Receipts for submitted
// transactions are successful unless the method was marked with FailReceipt.
type Backend struct {
	mu       sync.Mutex
	chainID  *big.Int
	abis     map[common.Address]abi.ABI
	handlers map[common.Address]map[string]Handler
	nonces   map[common.Address]uint64
	balances map[common.Address]*big.Int

	calls    []Call
	sent     []SentTx
	receipts map[common.Hash]uint64
	fail     map[string]bool
	withhold map[string]bool
}

// New returns a Backend reporting the given chain ID.
func New(chainID int64) *Backend {
	return &Backend{
		chainID:  big.NewInt(chainID),
		abis:     make(map[common.Address]abi.ABI),
		handlers: make(map[common.Address]map[string]Handler),
		nonces:   make(map[common.Address]uint64),
		balances: make(map[common.Address]*big.Int),
		receipts: make(map[common.Hash]uint64),
		fail:     make(map[string]bool),
		withhold: make(map[string]bool),
	}
}

// Register associates a contract address with its ABI so calls and
// transactions to it can be decoded.
func (b *Backend) Register(addr common.Address, contractABI abi.ABI) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.abis[addr] = contractABI
	if b.handlers[addr] == nil {
		b.handlers[addr] = make(map[string]Handler)
	}
}

// Handle installs a read handler for a method of a registered contract.
func (b *Backend) Handle(addr common.Address, method string, fn Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers[addr] == nil {
		b.handlers[addr] = make(map[string]Handler)
	}
	b.handlers[addr][method] = fn
}

// FailReceipt makes receipts for transactions invoking the named method
// report a reverted status.
func (b *Backend) FailReceipt(method string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[method] = true
}

// WithholdReceipt makes transactions invoking the named method never get a
// receipt, as if they were stuck in the mempool.
func (b *Backend) WithholdReceipt(method string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.withhold[method] = true
}

// SetBalance sets the native-currency balance returned for account.
func (b *Backend) SetBalance(account common.Address, wei *big.Int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[account] = wei
}

// Calls returns all recorded read-only calls.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// CallCount returns how many read-only calls hit the named method.
func (b *Backend) CallCount(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Sent returns all submitted transactions in submission order.
func (b *Backend) Sent() []SentTx {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]SentTx(nil), b.sent...)
}

func (b *Backend) methodFor(to common.Address, data []byte) (*abi.Method, error) {
	contractABI, ok := b.abis[to]
	if !ok {
		return nil, fmt.Errorf("chainmock: unregistered contract %s", to.Hex())
	}
	if len(data) < 4 {
		return nil, fmt.Errorf("chainmock: short calldata")
	}
	return contractABI.MethodById(data[:4])
}

// CallContract implements bind.ContractCaller.
func (b *Backend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if msg.To == nil {
		return nil, fmt.Errorf("chainmock: missing call target")
	}
	method, err := b.methodFor(*msg.To, msg.Data)
	if err != nil {
		return nil, err
	}
	args, err := method.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, err
	}
	b.calls = append(b.calls, Call{To: *msg.To, Method: method.Name, Args: args})

	fn, ok := b.handlers[*msg.To][method.Name]
	if !ok {
		return nil, fmt.Errorf("chainmock: no handler for %s.%s", msg.To.Hex(), method.Name)
	}
	return method.Outputs.Pack(fn(args)...)
}

// SendTransaction implements ethereum.TransactionSender. The transaction's
// method and inputs are decoded and recorded; a receipt becomes available
// immediately.
func (b *Backend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if tx.To() == nil {
		return fmt.Errorf("chainmock: contract creation not supported")
	}
	method, err := b.methodFor(*tx.To(), tx.Data())
	if err != nil {
		return err
	}
	args, err := method.Inputs.Unpack(tx.Data()[4:])
	if err != nil {
		return err
	}

	b.sent = append(b.sent, SentTx{
		Hash:      tx.Hash(),
		To:        *tx.To(),
		Method:    method.Name,
		Args:      args,
		Nonce:     tx.Nonce(),
		GasLimit:  tx.Gas(),
		GasFeeCap: tx.GasFeeCap(),
		GasTipCap: tx.GasTipCap(),
	})

	status := types.ReceiptStatusSuccessful
	if b.fail[method.Name] {
		status = types.ReceiptStatusFailed
	}
	if !b.withhold[method.Name] {
		b.receipts[tx.Hash()] = status
	}

	// The sender's pending nonce advances with each accepted transaction.
	from, err := types.Sender(types.LatestSignerForChainID(b.chainID), tx)
	if err == nil {
		b.nonces[from]++
	}
	return nil
}

// TransactionReceipt implements bind.DeployBackend.
func (b *Backend) TransactionReceipt(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	status, ok := b.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return &types.Receipt{Status: status, TxHash: txHash}, nil
}

// ChainID reports the configured chain ID.
func (b *Backend) ChainID(_ context.Context) (*big.Int, error) {
	return new(big.Int).Set(b.chainID), nil
}

// PendingNonceAt returns the next nonce for account.
func (b *Backend) PendingNonceAt(_ context.Context, account common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nonces[account], nil
}

// BalanceAt returns the balance set with SetBalance, defaulting to zero.
func (b *Backend) BalanceAt(_ context.Context, account common.Address, _ *big.Int) (*big.Int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bal, ok := b.balances[account]; ok {
		return new(big.Int).Set(bal), nil
	}
	return big.NewInt(0), nil
}

// CodeAt reports non-empty code for every address so bound contracts always
// look deployed.
func (b *Backend) CodeAt(_ context.Context, _ common.Address, _ *big.Int) ([]byte, error) {
	return []byte{0x01}, nil
}

// PendingCodeAt mirrors CodeAt for the pending state.
func (b *Backend) PendingCodeAt(_ context.Context, _ common.Address) ([]byte, error) {
	return []byte{0x01}, nil
}

// HeaderByNumber returns a minimal EIP-1559 header.
func (b *Backend) HeaderByNumber(_ context.Context, _ *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(1), BaseFee: big.NewInt(100)}, nil
}

// SuggestGasPrice implements ethereum.GasPricer.
func (b *Backend) SuggestGasPrice(_ context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

// SuggestGasTipCap implements ethereum.GasPricer1559.
func (b *Backend) SuggestGasTipCap(_ context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

// EstimateGas implements ethereum.GasEstimator.
func (b *Backend) EstimateGas(_ context.Context, _ ethereum.CallMsg) (uint64, error) {
	return 21000, nil
}

// FilterLogs implements ethereum.LogFilterer; the mock chain emits no logs.
func (b *Backend) FilterLogs(_ context.Context, _ ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

// SubscribeFilterLogs implements ethereum.LogFilterer.
func (b *Backend) SubscribeFilterLogs(_ context.Context, _ ethereum.FilterQuery, _ chan<- types.Log) (ethereum.Subscription, error) {
	return nil, fmt.Errorf("chainmock: subscriptions not supported")
}
