// Package config provides configuration management for the LobSec SDK.
//
// This package defines the Config structure that controls all SDK behavior:
// network selection, RPC endpoint, signing key, token precision, per-contract
// address overrides, gas parameters and operation timeouts.
//
// # Basic Configuration
//
// The minimum required configuration needs an RPC endpoint:
//
//	cfg := &config.Config{
//		RPCAddr: contracts.BaseMainnetRPC,
//	}
//
// # Network Selection
//
// Two predefined networks are available:
//
//	config.BaseMainnet - Base mainnet (ChainID: 8453)
//	config.BaseSepolia - Base Sepolia testnet (ChainID: 84532)
//
// # Contract Overrides
//
// Individual contract addresses can be replaced, for example when pointing at
// a testnet deployment:
//
//	cfg.ContractOverrides = map[contracts.Name]string{
//		contracts.Registry: "0x...",
//	}
//
// # Gas Parameters
//
// Write operations use fixed EIP-1559 fee caps and per-operation gas limits.
// The defaults match the reference deployment on Base; override them through
// the Gas struct for other fee environments:
//
//	cfg.Gas.MaxFeePerGas = 2_000_000_000 // 2 gwei
//
// # Timeouts
//
// Per-operation deadlines are applied by the SDK on top of the caller's
// context. Zero values are replaced by defaults in Validate:
//
//	Dial:        5s
//	ChainRead:   12s
//	ChainSubmit: 25s
//	ReceiptWait: 90s
//
// ReceiptWait bounds the confirmation barrier inside two-step flows (approve
// then stake / approve then createCoverage), so an unresponsive network fails
// the operation instead of blocking forever.
//
// # Loading From File
//
// Load reads a YAML document with the same field names as the struct tags:
//
//	cfg, err := config.Load("lobsec.yaml")
package config
