package sdk

import (
	"context"
	"crypto/ecdsa"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lobsec/lobsec-sdk-go/pkg/blockchain"
	"github.com/lobsec/lobsec-sdk-go/pkg/config"
	"github.com/lobsec/lobsec-sdk-go/pkg/model"
	"github.com/lobsec/lobsec-sdk-go/pkg/units"
)

// Risk scores passed to the pool's premium formula, in basis points of 10000.
// Immunized agents are priced at half the standard score.
const (
	standardRiskScore  = 1000
	immunizedRiskScore = 500
)

// immunizationDiscountPct is the premium discount applied to quotes for
// immunized agents.
var immunizationDiscountPct = decimal.NewFromInt(50)

// minStake is the minimum stake in natural token units accepted by Stake.
var minStake = decimal.NewFromInt(100)

const ethDecimals int32 = 18

// Agent is the actor-centric facade: one signing credential composed with the
// registry, staking and insurance clients. All amounts are decimal token
// amounts; the facade owns policy (minimum stake, risk score selection,
// immunization discount) while the clients stay thin passthroughs.
type Agent struct {
	*Core
	address common.Address
	key     *ecdsa.PrivateKey
	conv    *units.Converter
}

// NewAgent validates the configuration, connects, and builds an Agent for
// the configured private key. The key is required; the agent address is
// derived from it.
func NewAgent(cfg *config.Config) (*Agent, error) {
	core, err := NewCore(cfg)
	if err != nil {
		return nil, err
	}

	agent, err := newAgent(core)
	if err != nil {
		core.Close()
		return nil, err
	}
	return agent, nil
}

func newAgent(core *Core) (*Agent, error) {
	if core.Config.PrivateKey == "" {
		return nil, errors.New("private key is required for agent operations")
	}

	address, key, err := blockchain.ParsePrivateKeyECDSA(core.Config.PrivateKey)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "parse private key")
	}

	if core.Config.Debug {
		zap.L().Debug("agent address", zap.String("addr", address.Hex()))
	}

	return &Agent{
		Core:    core,
		address: address,
		key:     key,
		conv:    units.NewConverter(core.Config.TokenDecimals),
	}, nil
}

// Address returns the agent's address.
func (a *Agent) Address() common.Address {
	return a.address
}

// Immunize registers the agent on the LobSec Registry and returns the
// transaction hash. Despite the name it performs registration only; the
// separate on-chain immunize call requires registry authorization and is
// available as Registry.ImmunizeAgent.
func (a *Agent) Immunize(ctx context.Context) (common.Hash, error) {
	return a.Registry.RegisterAgent(ctx, a.address, a.key)
}

// Stake stakes the given token amount to unlock insurance coverage. Amounts
// below the 100-token minimum fail with ErrInvalidAmount before any network
// call; exactly 100 is accepted.
func (a *Agent) Stake(ctx context.Context, amount decimal.Decimal) (common.Hash, error) {
	if amount.LessThan(minStake) {
		return common.Hash{}, pkgerrors.Wrapf(units.ErrInvalidAmount, "minimum stake is %s, got %s", minStake, amount)
	}
	return a.Staking.StakeForInsurance(ctx, amount, a.key)
}

// RequestUnstake begins the unstake lock timer.
func (a *Agent) RequestUnstake(ctx context.Context) (common.Hash, error) {
	return a.Staking.RequestUnstake(ctx, a.key)
}

// ExecuteUnstake completes a withdrawal after the lock timer elapsed.
func (a *Agent) ExecuteUnstake(ctx context.Context) (common.Hash, error) {
	return a.Staking.ExecuteUnstake(ctx, a.key)
}

// IsCovered reports whether the agent has adequate coverage; see
// insurance.Client.IsCovered for the amount semantics.
func (a *Agent) IsCovered(ctx context.Context, amount *decimal.Decimal) (bool, error) {
	return a.Insurance.IsCovered(ctx, a.address, amount)
}

// CoverageInfo returns the agent's coverage details.
func (a *Agent) CoverageInfo(ctx context.Context) (model.AgentInfo, error) {
	return a.Insurance.AgentCoverageInfo(ctx, a.address)
}

// RegistryStatus returns the agent's registry view.
func (a *Agent) RegistryStatus(ctx context.Context) (model.AgentStatus, error) {
	return a.Registry.Status(ctx, a.address)
}

// PremiumQuote prices coverage for the agent: the base premium is evaluated
// on-chain at the standard risk score, then a 50% discount is applied when
// the registry reports the agent immunized. Both figures are rounded to two
// decimal places.
func (a *Agent) PremiumQuote(ctx context.Context, coverageAmount decimal.Decimal, durationDays int) (model.Quote, error) {
	base, err := a.Insurance.CalculatePremium(ctx, coverageAmount, durationDays, standardRiskScore)
	if err != nil {
		return model.Quote{}, err
	}

	status, err := a.RegistryStatus(ctx)
	if err != nil {
		return model.Quote{}, err
	}

	discount := decimal.Zero
	if status.Immunized {
		discount = immunizationDiscountPct
	}
	final := base.Mul(decimal.NewFromInt(100).Sub(discount)).DivRound(decimal.NewFromInt(100), 2)

	return model.Quote{
		CoverageAmount: coverageAmount,
		DurationDays:   durationDays,
		BasePremium:    base.Round(2),
		DiscountPct:    discount,
		FinalPremium:   final,
		Immunized:      status.Immunized,
	}, nil
}

// PurchaseCoverage buys coverage for the agent against a protocol. Immunized
// agents are priced at the reduced risk score; the two-step approve-then-create
// sequencing lives in the insurance client.
func (a *Agent) PurchaseCoverage(ctx context.Context, protocol common.Address, amount decimal.Decimal, durationDays int) (common.Hash, error) {
	status, err := a.RegistryStatus(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	riskScore := int64(standardRiskScore)
	if status.Immunized {
		riskScore = immunizedRiskScore
	}

	return a.Insurance.PurchaseCoverage(ctx, a.address, protocol, amount, durationDays, riskScore, a.key)
}

// BalanceETH returns the agent's native-currency balance in ether.
func (a *Agent) BalanceETH(ctx context.Context) (decimal.Decimal, error) {
	wei, err := a.evm.BalanceWei(ctx, a.address)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(wei, -ethDecimals), nil
}

// BalanceToken returns the agent's stablecoin balance.
func (a *Agent) BalanceToken(ctx context.Context) (decimal.Decimal, error) {
	raw, err := a.evm.BalanceOf(ctx, a.address)
	if err != nil {
		return decimal.Zero, err
	}
	return a.conv.FromLedgerUnits(raw), nil
}
