// Package blockchain is the SDK's RPC boundary. It dials an Ethereum
// endpoint, wires bound contracts for the LobSec Registry, AgentStaking,
// AgentInsurancePool and USDC token, and provides transaction construction,
// submission and receipt-wait primitives used by the higher-level clients.
package blockchain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lobsec/lobsec-sdk-go/pkg/config"
	"github.com/lobsec/lobsec-sdk-go/pkg/contracts"
)

// Backend is the chain capability the SDK needs: read-only calls, pending
// nonce estimation, transaction submission and receipt retrieval. It is
// satisfied by *ethclient.Client and by in-memory fakes in tests.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// Bound couples a resolved contract with its go-ethereum binding. The raw
// binding stays unexported; reads and writes go through EVMClient so that
// timeouts and gas parameters are applied uniformly.
type Bound struct {
	Name     contracts.Name
	Address  common.Address
	ABI      abi.ABI
	contract *bind.BoundContract
}

// EVMClient holds a connected backend and bound contracts for the four LobSec
// protocol contracts. It keeps no mutable state of its own; every read is a
// fresh round-trip.
type EVMClient struct {
	backend Backend
	eth     *ethclient.Client // set when the client owns the connection
	cfg     *config.Config

	registry *Bound
	staking  *Bound
	pool     *Bound
	token    *Bound
}

// InitEvm dials the configured RPC endpoint and initializes bound contracts.
// The endpoint is probed with a chain ID request so an unreachable node fails
// here, not on the first operation.
func InitEvm(cfg *config.Config) (*EVMClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.Dial)
	defer cancel()

	client, err := ethclient.DialContext(ctx, cfg.RPCAddr)
	if err != nil {
		zap.L().Error("failed to dial RPC endpoint", zap.String("endpoint", cfg.RPCAddr), zap.Error(err))
		return nil, pkgerrors.Wrapf(err, "connect to %s", cfg.RPCAddr)
	}

	if _, err := client.ChainID(ctx); err != nil {
		client.Close()
		zap.L().Error("RPC endpoint unreachable", zap.String("endpoint", cfg.RPCAddr), zap.Error(err))
		return nil, pkgerrors.Wrapf(err, "connect to %s", cfg.RPCAddr)
	}

	evm, err := NewEVMClient(cfg, client)
	if err != nil {
		client.Close()
		return nil, err
	}
	evm.eth = client
	return evm, nil
}

// NewEVMClient builds a client over an existing backend. Used directly in
// tests and by callers managing their own connection lifecycle.
func NewEVMClient(cfg *config.Config, backend Backend) (*EVMClient, error) {
	dir, err := contracts.NewDirectory(cfg.ContractOverrides)
	if err != nil {
		return nil, err
	}

	evm := &EVMClient{backend: backend, cfg: cfg}
	for _, b := range []struct {
		name contracts.Name
		dst  **Bound
	}{
		{contracts.Registry, &evm.registry},
		{contracts.Staking, &evm.staking},
		{contracts.InsurancePool, &evm.pool},
		{contracts.Token, &evm.token},
	} {
		c, err := dir.Resolve(b.name)
		if err != nil {
			return nil, err
		}
		*b.dst = &Bound{
			Name:     b.name,
			Address:  c.Address,
			ABI:      c.ABI,
			contract: bind.NewBoundContract(c.Address, c.ABI, backend, backend, backend),
		}
	}
	return evm, nil
}

// Registry returns the bound LobSec Registry contract.
func (evm *EVMClient) Registry() *Bound { return evm.registry }

// Staking returns the bound AgentStaking contract.
func (evm *EVMClient) Staking() *Bound { return evm.staking }

// Pool returns the bound AgentInsurancePool contract.
func (evm *EVMClient) Pool() *Bound { return evm.pool }

// Token returns the bound USDC token contract.
func (evm *EVMClient) Token() *Bound { return evm.token }

// Config returns the runtime configuration the client was built with.
func (evm *EVMClient) Config() *config.Config { return evm.cfg }

// Call performs a read-only contract call bounded by the ChainRead timeout.
func (evm *EVMClient) Call(ctx context.Context, target *Bound, results *[]interface{}, method string, params ...interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, evm.cfg.Timeouts.ChainRead)
	defer cancel()

	opts := &bind.CallOpts{Context: ctx}
	if err := target.contract.Call(opts, results, method, params...); err != nil {
		return pkgerrors.Wrapf(err, "call %s.%s", target.Name, method)
	}
	return nil
}

// BalanceWei returns the native-currency balance of account at the latest
// block, in wei.
func (evm *EVMClient) BalanceWei(ctx context.Context, account common.Address) (*big.Int, error) {
	ctx, cancel := context.WithTimeout(ctx, evm.cfg.Timeouts.ChainRead)
	defer cancel()

	bal, err := evm.backend.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "balance")
	}
	return bal, nil
}

// Close shuts down the underlying RPC connection when the client owns it.
func (evm *EVMClient) Close() {
	if evm.eth != nil {
		evm.eth.Close()
	}
}
