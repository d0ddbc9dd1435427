// Package config defines the runtime configuration for the SDK: target
// network, RPC endpoint, signing key, token precision, per-contract address
// overrides, gas parameters and operation timeouts. It provides validation,
// defaulting helpers and a YAML file loader.
package config

import (
	"errors"
	"math/big"
	"os"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lobsec/lobsec-sdk-go/pkg/contracts"
)

// Config holds all SDK settings required to initialize the chain clients.
// Use Validate to fill implicit defaults and to check for required fields.
type Config struct {
	// Network selects the target chain (chain ID and human-readable name).
	Network Network `json:"network" yaml:"network"`
	// RPCAddr is the Ethereum RPC endpoint URL (required).
	RPCAddr string `json:"rpc_addr" yaml:"rpc_addr"`
	// PrivateKey is the hex-encoded ECDSA private key used for signed
	// operations (optional for read-only use).
	PrivateKey string `json:"private_key" yaml:"private_key"`
	// TokenDecimals is the stablecoin precision. Default: 6 (USDC).
	TokenDecimals int32 `json:"token_decimals" yaml:"token_decimals"`
	// ContractOverrides replaces built-in contract addresses per logical name.
	ContractOverrides map[contracts.Name]string `json:"contract_overrides" yaml:"contract_overrides"`
	// Debug enables verbose logging.
	Debug bool `json:"debug" yaml:"debug"`
	// Gas configures transaction fee parameters and per-operation gas ceilings.
	Gas Gas `json:"gas" yaml:"gas"`
	// Timeouts configures per-operation deadlines. See Timeouts.WithDefaults.
	Timeouts Timeouts `json:"timeouts" yaml:"timeouts"`
}

// Network describes a blockchain network (chain ID and name). ChainID is used
// for EIP-155 signing; Name is informational.
type Network struct {
	ChainID string `json:"chain_id" yaml:"chain_id"`
	Name    string `json:"network_name" yaml:"network_name"`
}

// BaseMainnet is a predefined Network for Base mainnet.
var BaseMainnet = Network{
	ChainID: "8453",
	Name:    "base",
}

// BaseSepolia is a predefined Network for the Base Sepolia testnet.
var BaseSepolia = Network{
	ChainID: "84532",
	Name:    "base-sepolia",
}

// Gas holds EIP-1559 fee caps and fixed per-operation gas limits. The limits
// mirror the ceilings the protocol contracts are known to fit under; zero
// values are replaced by WithDefaults.
type Gas struct {
	// MaxFeePerGas in wei. Default: 0.1 gwei.
	MaxFeePerGas int64 `json:"max_fee_per_gas" yaml:"max_fee_per_gas"`
	// MaxPriorityFeePerGas in wei. Default: 0.001 gwei.
	MaxPriorityFeePerGas int64 `json:"max_priority_fee_per_gas" yaml:"max_priority_fee_per_gas"`

	ApproveLimit  uint64 `json:"approve_limit" yaml:"approve_limit"`   // token approve
	RegisterLimit uint64 `json:"register_limit" yaml:"register_limit"` // registry writes
	StakeLimit    uint64 `json:"stake_limit" yaml:"stake_limit"`       // stakeAsAgent
	UnstakeLimit  uint64 `json:"unstake_limit" yaml:"unstake_limit"`   // request/execute unstake
	CoverageLimit uint64 `json:"coverage_limit" yaml:"coverage_limit"` // createCoverage
}

// WithDefaults returns a copy of g with zero values replaced by defaults:
//
//	MaxFeePerGas:         100000000 wei (0.1 gwei)
//	MaxPriorityFeePerGas: 1000000 wei (0.001 gwei)
//	ApproveLimit:         100000
//	RegisterLimit:        200000
//	StakeLimit:           200000
//	UnstakeLimit:         150000
//	CoverageLimit:        300000
func (g Gas) WithDefaults() Gas {
	gg := g
	if gg.MaxFeePerGas == 0 {
		gg.MaxFeePerGas = 100_000_000
	}
	if gg.MaxPriorityFeePerGas == 0 {
		gg.MaxPriorityFeePerGas = 1_000_000
	}
	if gg.ApproveLimit == 0 {
		gg.ApproveLimit = 100_000
	}
	if gg.RegisterLimit == 0 {
		gg.RegisterLimit = 200_000
	}
	if gg.StakeLimit == 0 {
		gg.StakeLimit = 200_000
	}
	if gg.UnstakeLimit == 0 {
		gg.UnstakeLimit = 150_000
	}
	if gg.CoverageLimit == 0 {
		gg.CoverageLimit = 300_000
	}
	return gg
}

// FeeCap returns MaxFeePerGas as *big.Int.
func (g Gas) FeeCap() *big.Int {
	return big.NewInt(g.MaxFeePerGas)
}

// TipCap returns MaxPriorityFeePerGas as *big.Int.
func (g Gas) TipCap() *big.Int {
	return big.NewInt(g.MaxPriorityFeePerGas)
}

// Timeouts controls SDK operation deadlines.
// Zero values will be replaced by sane defaults in WithDefaults.
type Timeouts struct {
	Dial        time.Duration `json:"dial" yaml:"dial"`                 // RPC dial/connect
	ChainRead   time.Duration `json:"chain_read" yaml:"chain_read"`     // eth_call, balance etc
	ChainSubmit time.Duration `json:"chain_submit" yaml:"chain_submit"` // send tx
	ReceiptWait time.Duration `json:"receipt_wait" yaml:"receipt_wait"` // wait tx confirmation
}

// WithDefaults returns a copy of t with zero values replaced by defaults:
//
//	Dial:        5s
//	ChainRead:   12s
//	ChainSubmit: 25s
//	ReceiptWait: 90s
func (t Timeouts) WithDefaults() Timeouts {
	tt := t
	if tt.Dial == 0 {
		tt.Dial = 5 * time.Second
	}
	if tt.ChainRead == 0 {
		tt.ChainRead = 12 * time.Second
	}
	if tt.ChainSubmit == 0 {
		tt.ChainSubmit = 25 * time.Second
	}
	if tt.ReceiptWait == 0 {
		tt.ReceiptWait = 90 * time.Second
	}
	return tt
}

// Validate normalizes the configuration by applying implicit defaults for
// Network (Base mainnet), TokenDecimals, Gas and Timeouts, and verifies that
// RPCAddr is provided. Returns an error when RPCAddr is empty.
func (c *Config) Validate() error {
	if c.Network.ChainID == "" {
		c.Network = BaseMainnet
	}

	if c.TokenDecimals == 0 {
		c.TokenDecimals = 6
	}

	c.Gas = c.Gas.WithDefaults()
	c.Timeouts = c.Timeouts.WithDefaults()

	if c.RPCAddr == "" {
		return errors.New("RPC address is required")
	}

	return nil
}

// Load reads a YAML config file, unmarshals and validates it.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "read config")
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, pkgerrors.Wrap(err, "parse config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
