// Package model defines the read-view structures the SDK returns to callers:
// registry status, staking records, coverage and pool statistics, and premium
// quotes. All of them mirror external on-chain state; nothing here is cached
// or persisted, and all monetary fields are decimal token amounts.
package model

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// AgentStatus is the registry's view of an agent. Safe is derived client-side
// from a single threat-level reading: threat level below 50 and immunized.
type AgentStatus struct {
	Address     common.Address `json:"address"`
	Immunized   bool           `json:"immunized"`
	ThreatLevel uint8          `json:"threat_level"`
	Safe        bool           `json:"safe"`
}

// AgentInfo is the staking contract's coverage-eligibility view of an agent.
type AgentInfo struct {
	StakedAmount       decimal.Decimal `json:"staked_amount_usd"`
	PrivilegeLevel     uint8           `json:"privilege_level"`
	ActiveCoverage     decimal.Decimal `json:"active_coverage_usd"`
	AvailableCoverage  decimal.Decimal `json:"available_coverage_usd"`
	CanRequestCoverage bool            `json:"can_request_coverage"`
}

// StakeRecord is the raw agentStakes entry, including the unstake lock timer
// and slash history. Exists reports whether the agent has ever staked.
type StakeRecord struct {
	StakedAmount   decimal.Decimal `json:"staked_amount_usd"`
	LockedUntil    time.Time       `json:"locked_until"`
	PrivilegeLevel uint8           `json:"privilege_level"`
	ActiveCoverage decimal.Decimal `json:"active_coverage_usd"`
	LastSlashTime  time.Time       `json:"last_slash_time"`
	Exists         bool            `json:"exists"`
}

// Coverage is an insurance contract record between an agent/protocol pair and
// the pool, identified by the opaque id returned from createCoverage.
type Coverage struct {
	ID        [32]byte        `json:"id"`
	Agent     common.Address  `json:"agent"`
	Protocol  common.Address  `json:"protocol"`
	Amount    decimal.Decimal `json:"amount_usd"`
	Premium   decimal.Decimal `json:"premium_usd"`
	StartTime time.Time       `json:"start_time"`
	Duration  time.Duration   `json:"duration"`
	Active    bool            `json:"active"`
}

// PoolInfo is a snapshot of insurance pool statistics. UtilizationPercent is
// computed client-side as 100*coverage/reserves rounded to two decimal
// places, and zero when reserves are zero.
type PoolInfo struct {
	TotalReserves      decimal.Decimal `json:"total_reserves_usd"`
	TotalCoverage      decimal.Decimal `json:"total_coverage_usd"`
	AvailableCapacity  decimal.Decimal `json:"available_capacity_usd"`
	UtilizationPercent decimal.Decimal `json:"utilization_percent"`
}

// Quote is an ephemeral premium quote: the on-chain base premium plus the
// immunization discount applied by the SDK. It is a pure function of the
// coverage parameters and registry state at quote time.
type Quote struct {
	CoverageAmount decimal.Decimal `json:"coverage_amount_usd"`
	DurationDays   int             `json:"duration_days"`
	BasePremium    decimal.Decimal `json:"base_premium_usd"`
	DiscountPct    decimal.Decimal `json:"discount_percent"`
	FinalPremium   decimal.Decimal `json:"final_premium_usd"`
	Immunized      bool            `json:"immunized"`
}

// UnixTime converts a contract uint256 timestamp to time.Time, mapping zero
// to the zero time.
func UnixTime(v *big.Int) time.Time {
	if v == nil || v.Sign() == 0 {
		return time.Time{}
	}
	return time.Unix(v.Int64(), 0).UTC()
}
