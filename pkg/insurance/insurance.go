// Package insurance is the client for the AgentInsurancePool contract: pool
// statistics, premium evaluation, coverage queries and the approve-then-create
// purchase flow.
package insurance

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lobsec/lobsec-sdk-go/pkg/blockchain"
	"github.com/lobsec/lobsec-sdk-go/pkg/model"
	"github.com/lobsec/lobsec-sdk-go/pkg/units"
)

const secondsPerDay = 86400

var hundred = decimal.NewFromInt(100)

// Client reads pool statistics and orchestrates coverage purchases against
// the external insurance pool. It holds no state; every read is a fresh
// round-trip.
type Client struct {
	evm  *blockchain.EVMClient
	conv *units.Converter
}

// NewClient returns an insurance pool client over the given chain client.
func NewClient(evm *blockchain.EVMClient) *Client {
	return &Client{
		evm:  evm,
		conv: units.NewConverter(evm.Config().TokenDecimals),
	}
}

// PoolInfo returns a snapshot of pool statistics. Utilization is computed
// client-side as 100*coverage/reserves rounded to two decimal places; it is
// defined as zero when the pool holds no reserves.
func (c *Client) PoolInfo(ctx context.Context) (model.PoolInfo, error) {
	pool := c.evm.Pool()

	var reservesOut, coverageOut, capacityOut []interface{}
	if err := c.evm.Call(ctx, pool, &reservesOut, "totalReserves"); err != nil {
		return model.PoolInfo{}, err
	}
	if err := c.evm.Call(ctx, pool, &coverageOut, "totalCoverageProvided"); err != nil {
		return model.PoolInfo{}, err
	}
	if err := c.evm.Call(ctx, pool, &capacityOut, "getAvailableCapacity"); err != nil {
		return model.PoolInfo{}, err
	}

	reserves := c.conv.FromLedgerUnits(reservesOut[0].(*big.Int))
	coverage := c.conv.FromLedgerUnits(coverageOut[0].(*big.Int))

	utilization := decimal.Zero
	if reserves.IsPositive() {
		utilization = coverage.Mul(hundred).DivRound(reserves, 2)
	}

	return model.PoolInfo{
		TotalReserves:      reserves,
		TotalCoverage:      coverage,
		AvailableCapacity:  c.conv.FromLedgerUnits(capacityOut[0].(*big.Int)),
		UtilizationPercent: utilization,
	}, nil
}

// CalculatePremium evaluates the pool's premium formula for the given
// coverage amount, duration in days and risk score (0-10000). The formula
// itself lives on-chain; this is a read-only evaluation call.
func (c *Client) CalculatePremium(ctx context.Context, amount decimal.Decimal, durationDays int, riskScore int64) (decimal.Decimal, error) {
	premiumUnits, err := c.premiumUnits(ctx, amount, durationDays, riskScore)
	if err != nil {
		return decimal.Zero, err
	}
	return c.conv.FromLedgerUnits(premiumUnits), nil
}

func (c *Client) premiumUnits(ctx context.Context, amount decimal.Decimal, durationDays int, riskScore int64) (*big.Int, error) {
	amountUnits, err := c.conv.ToLedgerUnits(amount)
	if err != nil {
		return nil, err
	}
	duration := big.NewInt(int64(durationDays) * secondsPerDay)

	var out []interface{}
	if err := c.evm.Call(ctx, c.evm.Pool(), &out, "calculatePremium", amountUnits, duration, big.NewInt(riskScore)); err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// AgentCoverageInfo returns the staking contract's coverage view of an agent.
// The staking ledger, not the pool, tracks per-agent coverage capacity.
func (c *Client) AgentCoverageInfo(ctx context.Context, agent common.Address) (model.AgentInfo, error) {
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

// IsCovered reports whether the agent has adequate coverage. It is false
// whenever the agent cannot request coverage, regardless of capacity. With a
// non-nil amount it requires available coverage of at least that amount;
// without one, any positive available coverage counts.
func (c *Client) IsCovered(ctx context.Context, agent common.Address, amount *decimal.Decimal) (bool, error) {
	info, err := c.AgentCoverageInfo(ctx, agent)
	if err != nil {
		return false, err
	}
	if !info.CanRequestCoverage {
		return false, nil
	}
	if amount != nil {
		return info.AvailableCoverage.GreaterThanOrEqual(*amount), nil
	}
	return info.AvailableCoverage.IsPositive(), nil
}

// Coverage returns the coverage record stored under the given id.
func (c *Client) Coverage(ctx context.Context, id [32]byte) (model.Coverage, error) {
	var out []interface{}
	if err := c.evm.Call(ctx, c.evm.Pool(), &out, "coverages", id); err != nil {
		return model.Coverage{}, err
	}

	return model.Coverage{
		ID:        id,
		Agent:     out[0].(common.Address),
		Protocol:  out[1].(common.Address),
		Amount:    c.conv.FromLedgerUnits(out[2].(*big.Int)),
		Premium:   c.conv.FromLedgerUnits(out[3].(*big.Int)),
		StartTime: model.UnixTime(out[4].(*big.Int)),
		Duration:  time.Duration(out[5].(*big.Int).Int64()) * time.Second,
		Active:    out[6].(bool),
	}, nil
}

// LpBalance returns the liquidity-provider token balance of account.
func (c *Client) LpBalance(ctx context.Context, account common.Address) (decimal.Decimal, error) {
	var out []interface{}
	if err := c.evm.Call(ctx, c.evm.Pool(), &out, "lpBalances", account); err != nil {
		return decimal.Zero, err
	}
	return c.conv.FromLedgerUnits(out[0].(*big.Int)), nil
}

// PurchaseCoverage buys coverage for an agent/protocol pair. Sequencing:
// evaluate the premium, approve the pool to pull it, block until that
// approval is confirmed, then submit createCoverage. A failed or timed-out
// approval aborts the flow before createCoverage is attempted; the approval
// may still be final on-chain, and no rollback is possible. Returns the
// createCoverage transaction hash.
func (c *Client) PurchaseCoverage(ctx context.Context, agent, protocol common.Address, amount decimal.Decimal, durationDays int, riskScore int64, key *ecdsa.PrivateKey) (common.Hash, error) {
	amountUnits, err := c.conv.ToLedgerUnits(amount)
	if err != nil {
		return common.Hash{}, err
	}
	duration := big.NewInt(int64(durationDays) * secondsPerDay)

	premiumUnits, err := c.premiumUnits(ctx, amount, durationDays, riskScore)
	if err != nil {
		return common.Hash{}, err
	}

	approveHash, err := c.evm.ApproveAndWait(ctx, key, c.evm.Pool().Address, premiumUnits)
	if err != nil {
		return common.Hash{}, err
	}
	zap.L().Debug("premium approval confirmed",
		zap.String("hash", approveHash.Hex()),
		zap.String("premiumUnits", premiumUnits.String()))

	return c.evm.Submit(ctx, key, c.evm.Pool(), c.evm.Config().Gas.CoverageLimit, "createCoverage",
		agent, protocol, amountUnits, duration, big.NewInt(riskScore))
}

// ProvideLiquidity deposits token liquidity into the pool, using the same
// approve-then-act barrier as coverage purchases. Returns the
// provideLiquidity transaction hash.
func (c *Client) ProvideLiquidity(ctx context.Context, amount decimal.Decimal, key *ecdsa.PrivateKey) (common.Hash, error) {
	amountUnits, err := c.conv.ToLedgerUnits(amount)
	if err != nil {
		return common.Hash{}, err
	}

	if _, err := c.evm.ApproveAndWait(ctx, key, c.evm.Pool().Address, amountUnits); err != nil {
		return common.Hash{}, err
	}

	return c.evm.Submit(ctx, key, c.evm.Pool(), c.evm.Config().Gas.StakeLimit, "provideLiquidity", amountUnits)
}

// WithdrawLiquidity burns LP tokens and withdraws the corresponding reserves.
func (c *Client) WithdrawLiquidity(ctx context.Context, lpTokens decimal.Decimal, key *ecdsa.PrivateKey) (common.Hash, error) {
	lpUnits, err := c.conv.ToLedgerUnits(lpTokens)
	if err != nil {
		return common.Hash{}, err
	}
	return c.evm.Submit(ctx, key, c.evm.Pool(), c.evm.Config().Gas.StakeLimit, "withdrawLiquidity", lpUnits)
}
