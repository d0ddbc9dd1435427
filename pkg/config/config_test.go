package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lobsec/lobsec-sdk-go/pkg/contracts"
)

func TestValidateDefaults(t *testing.T) {
	cfg := &Config{RPCAddr: contracts.BaseMainnetRPC}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.Network != BaseMainnet {
		t.Fatalf("expected BaseMainnet default, got %+v", cfg.Network)
	}
	if cfg.TokenDecimals != 6 {
		t.Fatalf("expected 6 token decimals, got %d", cfg.TokenDecimals)
	}
	if cfg.Gas.MaxFeePerGas != 100_000_000 {
		t.Fatalf("unexpected fee cap default: %d", cfg.Gas.MaxFeePerGas)
	}
	if cfg.Gas.CoverageLimit != 300_000 {
		t.Fatalf("unexpected coverage gas limit default: %d", cfg.Gas.CoverageLimit)
	}
	if cfg.Timeouts.ReceiptWait != 90*time.Second {
		t.Fatalf("unexpected receipt wait default: %s", cfg.Timeouts.ReceiptWait)
	}
}

func TestValidateMissingRPC(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty RPC address")
	}
}

func TestValidateKeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		RPCAddr:       "http://localhost:8545",
		Network:       BaseSepolia,
		TokenDecimals: 18,
		Gas:           Gas{MaxFeePerGas: 42, StakeLimit: 7},
		Timeouts:      Timeouts{ReceiptWait: time.Second},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.Network != BaseSepolia {
		t.Fatalf("network overwritten: %+v", cfg.Network)
	}
	if cfg.TokenDecimals != 18 {
		t.Fatalf("token decimals overwritten: %d", cfg.TokenDecimals)
	}
	if cfg.Gas.MaxFeePerGas != 42 || cfg.Gas.StakeLimit != 7 {
		t.Fatalf("gas overwritten: %+v", cfg.Gas)
	}
	// Zero fields still get defaults.
	if cfg.Gas.ApproveLimit != 100_000 {
		t.Fatalf("approve limit not defaulted: %d", cfg.Gas.ApproveLimit)
	}
	if cfg.Timeouts.ReceiptWait != time.Second {
		t.Fatalf("receipt wait overwritten: %s", cfg.Timeouts.ReceiptWait)
	}
}

func TestLoad(t *testing.T) {
	doc := `
rpc_addr: http://localhost:8545
network:
  chain_id: "84532"
  network_name: base-sepolia
token_decimals: 6
debug: true
contract_overrides:
  LobSecRegistry: "0x000000000000000000000000000000000000dEaD"
gas:
  max_fee_per_gas: 200000000
timeouts:
  receipt_wait: 30s
`
	path := filepath.Join(t.TempDir(), "lobsec.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Network.ChainID != "84532" {
		t.Fatalf("unexpected chain id: %s", cfg.Network.ChainID)
	}
	if !cfg.Debug {
		t.Fatal("expected debug enabled")
	}
	if cfg.ContractOverrides[contracts.Registry] != "0x000000000000000000000000000000000000dEaD" {
		t.Fatalf("override not loaded: %v", cfg.ContractOverrides)
	}
	if cfg.Gas.MaxFeePerGas != 200_000_000 {
		t.Fatalf("fee cap not loaded: %d", cfg.Gas.MaxFeePerGas)
	}
	if cfg.Timeouts.ReceiptWait != 30*time.Second {
		t.Fatalf("receipt wait not loaded: %s", cfg.Timeouts.ReceiptWait)
	}
	// Unset fields still defaulted by Validate.
	if cfg.Gas.RegisterLimit != 200_000 {
		t.Fatalf("register limit not defaulted: %d", cfg.Gas.RegisterLimit)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
