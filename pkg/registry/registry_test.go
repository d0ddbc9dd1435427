package registry

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/lobsec/lobsec-sdk-go/internal/testutil/chainmock"
	"github.com/lobsec/lobsec-sdk-go/pkg/blockchain"
	"github.com/lobsec/lobsec-sdk-go/pkg/config"
)

func newTestEnv(t *testing.T) (*Client, *blockchain.EVMClient, *chainmock.Backend) {
	t.Helper()

	cfg := &config.Config{RPCAddr: "http://localhost:8545"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	back := chainmock.New(8453)
	evm, err := blockchain.NewEVMClient(cfg, back)
	if err != nil {
		t.Fatalf("NewEVMClient: %v", err)
	}
	for _, b := range []*blockchain.Bound{evm.Registry(), evm.Staking(), evm.Pool(), evm.Token()} {
		back.Register(b.Address, b.ABI)
	}
	return NewClient(evm), evm, back
}

func TestIsImmunized(t *testing.T) {
	client, evm, back := newTestEnv(t)
	agent := common.HexToAddress("0x1111111111111111111111111111111111111111")

	back.Handle(evm.Registry().Address, "isImmunized", func(args []interface{}) []interface{} {
		if args[0].(common.Address) != agent {
			t.Fatalf("unexpected agent arg: %v", args[0])
		}
		return []interface{}{true}
	})

	got, err := client.IsImmunized(context.Background(), agent)
	if err != nil {
		t.Fatalf("IsImmunized: %v", err)
	}
	if !got {
		t.Fatal("expected immunized")
	}
}

func TestStatusSafeDerivation(t *testing.T) {
	tests := []struct {
		name      string
		level     uint8
		immunized bool
		safe      bool
	}{
		{"low threat immunized", 10, true, true},
		{"boundary below", 49, true, true},
		{"boundary exact", 50, true, false},
		{"high threat immunized", 200, true, false},
		{"low threat not immunized", 10, false, false},
		{"high threat not immunized", 200, false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, evm, back := newTestEnv(t)
			agent := common.HexToAddress("0x2222222222222222222222222222222222222222")

			back.Handle(evm.Registry().Address, "isImmunized", func([]interface{}) []interface{} {
				return []interface{}{tc.immunized}
			})
			back.Handle(evm.Registry().Address, "getThreatLevel", func([]interface{}) []interface{} {
				return []interface{}{tc.level}
			})

			status, err := client.Status(context.Background(), agent)
			if err != nil {
				t.Fatalf("Status: %v", err)
			}
			if status.Safe != tc.safe {
				t.Fatalf("safe = %v, want %v", status.Safe, tc.safe)
			}
			if status.ThreatLevel != tc.level || status.Immunized != tc.immunized {
				t.Fatalf("unexpected status: %+v", status)
			}
			if status.Address != agent {
				t.Fatalf("unexpected address: %s", status.Address.Hex())
			}
		})
	}
}

func TestStatusSingleThreatLevelRead(t *testing.T) {
	client, evm, back := newTestEnv(t)
	agent := common.HexToAddress("0x3333333333333333333333333333333333333333")

	back.Handle(evm.Registry().Address, "isImmunized", func([]interface{}) []interface{} {
		return []interface{}{true}
	})
	back.Handle(evm.Registry().Address, "getThreatLevel", func([]interface{}) []interface{} {
		return []interface{}{uint8(42)}
	})

	if _, err := client.Status(context.Background(), agent); err != nil {
		t.Fatalf("Status: %v", err)
	}

	if n := back.CallCount("getThreatLevel"); n != 1 {
		t.Fatalf("getThreatLevel read %d times, want 1", n)
	}
	if n := back.CallCount("isImmunized"); n != 1 {
		t.Fatalf("isImmunized read %d times, want 1", n)
	}
}

func TestRegisterAgent(t *testing.T) {
	client, evm, back := newTestEnv(t)
	agent := common.HexToAddress("0x4444444444444444444444444444444444444444")

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	hash, err := client.RegisterAgent(context.Background(), agent, key)
	if err != nil {
		t.Fatalf("RegisterAgent: %v", err)
	}
	if hash == (common.Hash{}) {
		t.Fatal("expected non-zero tx hash")
	}

	sent := back.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 tx, got %d", len(sent))
	}
	tx := sent[0]
	if tx.Method != "registerAgent" || tx.To != evm.Registry().Address {
		t.Fatalf("unexpected tx: %+v", tx)
	}
	if tx.Args[0].(common.Address) != agent {
		t.Fatalf("unexpected agent arg: %v", tx.Args[0])
	}
	if tx.GasLimit != 200_000 {
		t.Fatalf("gas limit = %d, want 200000", tx.GasLimit)
	}
	if tx.GasFeeCap.Cmp(big.NewInt(100_000_000)) != 0 || tx.GasTipCap.Cmp(big.NewInt(1_000_000)) != 0 {
		t.Fatalf("unexpected fee caps: %s/%s", tx.GasFeeCap, tx.GasTipCap)
	}
}

func TestImmunizeAgent(t *testing.T) {
	client, evm, back := newTestEnv(t)
	agent := common.HexToAddress("0x5555555555555555555555555555555555555555")

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	if _, err := client.ImmunizeAgent(context.Background(), agent, key); err != nil {
		t.Fatalf("ImmunizeAgent: %v", err)
	}

	sent := back.Sent()
	if len(sent) != 1 || sent[0].Method != "immunize" {
		t.Fatalf("expected single immunize tx, got %+v", sent)
	}
	if sent[0].To != evm.Registry().Address {
		t.Fatalf("unexpected target: %s", sent[0].To.Hex())
	}
}

func TestWriteRequiresKey(t *testing.T) {
	client, _, _ := newTestEnv(t)
	agent := common.HexToAddress("0x6666666666666666666666666666666666666666")

	if _, err := client.RegisterAgent(context.Background(), agent, nil); err == nil {
		t.Fatal("expected error for nil key")
	} else if errors.Is(err, context.Canceled) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNonceAdvancesPerWrite(t *testing.T) {
	client, _, back := newTestEnv(t)
	agent := common.HexToAddress("0x7777777777777777777777777777777777777777")

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	if _, err := client.RegisterAgent(context.Background(), agent, key); err != nil {
		t.Fatalf("RegisterAgent: %v", err)
	}
	if _, err := client.RegisterAgent(context.Background(), agent, key); err != nil {
		t.Fatalf("RegisterAgent: %v", err)
	}

	sent := back.Sent()
	if len(sent) != 2 {
		t.Fatalf("expected 2 txs, got %d", len(sent))
	}
	if sent[0].Nonce != 0 || sent[1].Nonce != 1 {
		t.Fatalf("nonces = %d,%d, want 0,1", sent[0].Nonce, sent[1].Nonce)
	}
}
