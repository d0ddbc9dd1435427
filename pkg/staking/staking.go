// Package staking is the client for the AgentStaking contract: stake queries,
// the approve-then-stake flow, and the two-phase unstake.
package staking

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lobsec/lobsec-sdk-go/pkg/blockchain"
	"github.com/lobsec/lobsec-sdk-go/pkg/model"
	"github.com/lobsec/lobsec-sdk-go/pkg/units"
)

const secondsPerDay = 86400

// Client reads and mutates the external agent staking ledger. It applies no
// amount policy of its own: minimum-stake enforcement belongs to the facade,
// keeping this client reusable by callers with different floors.
type Client struct {
	evm  *blockchain.EVMClient
	conv *units.Converter
}

// NewClient returns a staking client over the given chain client.
func NewClient(evm *blockchain.EVMClient) *Client {
	return &Client{
		evm:  evm,
		conv: units.NewConverter(evm.Config().TokenDecimals),
	}
}

// StakedAmount returns the agent's current stake as a decimal token amount.
func (c *Client) StakedAmount(ctx context.Context, agent common.Address) (decimal.Decimal, error) {
	var out []interface{}
	if err := c.evm.Call(ctx, c.evm.Staking(), &out, "getStakedAmount", agent); err != nil {
		return decimal.Zero, err
	}
	return c.conv.FromLedgerUnits(out[0].(*big.Int)), nil
}

// AgentInfo returns the staking contract's coverage-eligibility view of an
// agent.
func (c *Client) AgentInfo(ctx context.Context, agent common.Address) (model.AgentInfo, error) {
	var out []interface{}
	if err := c.evm.Call(ctx, c.evm.Staking(), &out, "getAgentInfo", agent); err != nil {
		return model.AgentInfo{}, err
	}

	return model.AgentInfo{
		StakedAmount:       c.conv.FromLedgerUnits(out[0].(*big.Int)),
		PrivilegeLevel:     out[1].(uint8),
		ActiveCoverage:     c.conv.FromLedgerUnits(out[2].(*big.Int)),
		AvailableCoverage:  c.conv.FromLedgerUnits(out[3].(*big.Int)),
		CanRequestCoverage: out[4].(bool),
	}, nil
}

// StakeRecord returns the raw agentStakes entry, including the unstake lock
// timer and slash history.
func (c *Client) StakeRecord(ctx context.Context, agent common.Address) (model.StakeRecord, error) {
	var out []interface{}
	if err := c.evm.Call(ctx, c.evm.Staking(), &out, "agentStakes", agent); err != nil {
		return model.StakeRecord{}, err
	}

	return model.StakeRecord{
		StakedAmount:   c.conv.FromLedgerUnits(out[0].(*big.Int)),
		LockedUntil:    model.UnixTime(out[1].(*big.Int)),
		PrivilegeLevel: out[2].(uint8),
		ActiveCoverage: c.conv.FromLedgerUnits(out[3].(*big.Int)),
		LastSlashTime:  model.UnixTime(out[4].(*big.Int)),
		Exists:         out[5].(bool),
	}, nil
}

// StakeForInsurance stakes the given token amount: it approves the staking
// contract to pull the amount, blocks until that approval is confirmed, and
// only then submits stakeAsAgent. The stake would revert without the
// confirmed allowance, so a failed or timed-out approval aborts the flow
// before the second transaction is attempted. Returns the stake transaction
// hash.
func (c *Client) StakeForInsurance(ctx context.Context, amount decimal.Decimal, key *ecdsa.PrivateKey) (common.Hash, error) {
	amountUnits, err := c.conv.ToLedgerUnits(amount)
	if err != nil {
		return common.Hash{}, err
	}

	approveHash, err := c.evm.ApproveAndWait(ctx, key, c.evm.Staking().Address, amountUnits)
	if err != nil {
		return common.Hash{}, err
	}
	zap.L().Debug("stake approval confirmed",
		zap.String("hash", approveHash.Hex()),
		zap.String("amount", amount.String()))

	return c.evm.Submit(ctx, key, c.evm.Staking(), c.evm.Config().Gas.StakeLimit, "stakeAsAgent", amountUnits)
}

// RequestUnstake begins the unstake lock timer. The call is submitted without
// waiting; its validity is adjudicated by the contract.
func (c *Client) RequestUnstake(ctx context.Context, key *ecdsa.PrivateKey) (common.Hash, error) {
	return c.evm.Submit(ctx, key, c.evm.Staking(), c.evm.Config().Gas.UnstakeLimit, "requestUnstake")
}

// ExecuteUnstake completes a withdrawal after the lock timer elapsed. Whether
// the timer actually elapsed is enforced on-chain, not pre-checked here.
func (c *Client) ExecuteUnstake(ctx context.Context, key *ecdsa.PrivateKey) (common.Hash, error) {
	return c.evm.Submit(ctx, key, c.evm.Staking(), c.evm.Config().Gas.UnstakeLimit, "executeUnstake")
}

// RequestCoverage asks the staking contract for coverage against a protocol,
// drawing on the agent's staked capacity.
func (c *Client) RequestCoverage(ctx context.Context, protocol common.Address, amount decimal.Decimal, durationDays int, key *ecdsa.PrivateKey) (common.Hash, error) {
	amountUnits, err := c.conv.ToLedgerUnits(amount)
	if err != nil {
		return common.Hash{}, err
	}
	duration := big.NewInt(int64(durationDays) * secondsPerDay)
	return c.evm.Submit(ctx, key, c.evm.Staking(), c.evm.Config().Gas.CoverageLimit, "requestCoverage", protocol, amountUnits, duration)
}
