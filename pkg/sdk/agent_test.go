package sdk

import (
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"

	"github.com/lobsec/lobsec-sdk-go/internal/testutil/chainmock"
	"github.com/lobsec/lobsec-sdk-go/pkg/blockchain"
	"github.com/lobsec/lobsec-sdk-go/pkg/config"
	"github.com/lobsec/lobsec-sdk-go/pkg/units"
)

func newTestAgent(t *testing.T) (*Agent, *blockchain.EVMClient, *chainmock.Backend) {
	t.Helper()

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	cfg := &config.Config{
		RPCAddr:    "http://localhost:8545",
		PrivateKey: hex.EncodeToString(crypto.FromECDSA(key)),
	}
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

	agent, err := newAgent(newCore(cfg, evm))
	if err != nil {
		t.Fatalf("newAgent: %v", err)
	}

	want := crypto.PubkeyToAddress(key.PublicKey)
	if agent.Address() != want {
		t.Fatalf("agent address = %s, want %s", agent.Address().Hex(), want.Hex())
	}
	return agent, evm, back
}

func handleRegistry(back *chainmock.Backend, registry common.Address, immunized bool, level uint8) {
	back.Handle(registry, "isImmunized", func([]interface{}) []interface{} {
		return []interface{}{immunized}
	})
	back.Handle(registry, "getThreatLevel", func([]interface{}) []interface{} {
		return []interface{}{level}
	})
}

func TestNewAgentRequiresPrivateKey(t *testing.T) {
	cfg := &config.Config{RPCAddr: "http://localhost:8545"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	back := chainmock.New(8453)
	evm, err := blockchain.NewEVMClient(cfg, back)
	if err != nil {
		t.Fatalf("NewEVMClient: %v", err)
	}

	if _, err := newAgent(newCore(cfg, evm)); err == nil {
		t.Fatal("expected error without a private key")
	}
}

func TestImmunizeRegistersAgent(t *testing.T) {
	agent, evm, back := newTestAgent(t)

	hash, err := agent.Immunize(context.Background())
	if err != nil {
		t.Fatalf("Immunize: %v", err)
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
	if tx.Args[0].(common.Address) != agent.Address() {
		t.Fatalf("registered address = %v, want agent's own", tx.Args[0])
	}
}

func TestStakeBelowMinimum(t *testing.T) {
	agent, _, back := newTestAgent(t)

	_, err := agent.Stake(context.Background(), decimal.RequireFromString("99.99"))
	if !errors.Is(err, units.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if len(back.Sent()) != 0 {
		t.Fatal("no tx may be sent for an undersized stake")
	}
}

func TestStakeExactMinimum(t *testing.T) {
	agent, evm, back := newTestAgent(t)

	if _, err := agent.Stake(context.Background(), decimal.NewFromInt(100)); err != nil {
		t.Fatalf("Stake: %v", err)
	}

	sent := back.Sent()
	if len(sent) != 2 {
		t.Fatalf("expected approve+stake, got %d txs", len(sent))
	}
	if sent[0].Method != "approve" || sent[1].Method != "stakeAsAgent" {
		t.Fatalf("unexpected methods: %s, %s", sent[0].Method, sent[1].Method)
	}
	if sent[1].To != evm.Staking().Address {
		t.Fatalf("stake target = %s", sent[1].To.Hex())
	}
	if sent[1].Args[0].(*big.Int).Cmp(big.NewInt(100_000_000)) != 0 {
		t.Fatalf("stake amount = %s, want 100 tokens in ledger units", sent[1].Args[0])
	}
}

func TestPremiumQuoteImmunized(t *testing.T) {
	agent, evm, back := newTestAgent(t)
	handleRegistry(back, evm.Registry().Address, true, 5)

	back.Handle(evm.Pool().Address, "calculatePremium", func(args []interface{}) []interface{} {
		// The base quote is always evaluated at the standard risk score.
		if args[2].(*big.Int).Cmp(big.NewInt(1000)) != 0 {
			t.Fatalf("risk arg = %s, want 1000", args[2])
		}
		return []interface{}{big.NewInt(100_000_000)}
	})

	quote, err := agent.PremiumQuote(context.Background(), decimal.NewFromInt(1000), 30)
	if err != nil {
		t.Fatalf("PremiumQuote: %v", err)
	}
	if !quote.BasePremium.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("base = %s, want 100", quote.BasePremium)
	}
	if !quote.DiscountPct.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("discount = %s, want 50", quote.DiscountPct)
	}
	if !quote.FinalPremium.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("final = %s, want 50", quote.FinalPremium)
	}
	if !quote.Immunized {
		t.Fatal("expected immunized quote")
	}
	if quote.DurationDays != 30 || !quote.CoverageAmount.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("unexpected echo fields: %+v", quote)
	}
}

func TestPremiumQuoteNotImmunized(t *testing.T) {
	agent, evm, back := newTestAgent(t)
	handleRegistry(back, evm.Registry().Address, false, 5)

	back.Handle(evm.Pool().Address, "calculatePremium", func([]interface{}) []interface{} {
		return []interface{}{big.NewInt(100_000_000)}
	})

	quote, err := agent.PremiumQuote(context.Background(), decimal.NewFromInt(1000), 30)
	if err != nil {
		t.Fatalf("PremiumQuote: %v", err)
	}
	if !quote.DiscountPct.IsZero() {
		t.Fatalf("discount = %s, want 0", quote.DiscountPct)
	}
	if !quote.FinalPremium.Equal(quote.BasePremium) {
		t.Fatalf("final = %s, base = %s; want equal", quote.FinalPremium, quote.BasePremium)
	}
}

func TestPurchaseCoverageRiskScore(t *testing.T) {
	tests := []struct {
		name      string
		immunized bool
		wantRisk  int64
	}{
		{"immunized agents get the reduced score", true, 500},
		{"standard agents get the standard score", false, 1000},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			agent, evm, back := newTestAgent(t)
			handleRegistry(back, evm.Registry().Address, tc.immunized, 5)

			back.Handle(evm.Pool().Address, "calculatePremium", func(args []interface{}) []interface{} {
				if args[2].(*big.Int).Cmp(big.NewInt(tc.wantRisk)) != 0 {
					t.Fatalf("premium risk arg = %s, want %d", args[2], tc.wantRisk)
				}
				return []interface{}{big.NewInt(25_000_000)}
			})

			protocol := common.HexToAddress("0x9999999999999999999999999999999999999999")
			if _, err := agent.PurchaseCoverage(context.Background(), protocol, decimal.NewFromInt(1000), 30); err != nil {
				t.Fatalf("PurchaseCoverage: %v", err)
			}

			sent := back.Sent()
			if len(sent) != 2 {
				t.Fatalf("expected approve+createCoverage, got %d txs", len(sent))
			}
			create := sent[1]
			if create.Method != "createCoverage" {
				t.Fatalf("second tx = %s", create.Method)
			}
			if create.Args[0].(common.Address) != agent.Address() {
				t.Fatalf("coverage agent = %v, want self", create.Args[0])
			}
			if create.Args[4].(*big.Int).Cmp(big.NewInt(tc.wantRisk)) != 0 {
				t.Fatalf("createCoverage risk arg = %s, want %d", create.Args[4], tc.wantRisk)
			}
		})
	}
}

func TestIsCoveredForwardsOwnAddress(t *testing.T) {
	agent, evm, back := newTestAgent(t)

	back.Handle(evm.Staking().Address, "getAgentInfo", func(args []interface{}) []interface{} {
		if args[0].(common.Address) != agent.Address() {
			t.Fatalf("queried agent = %v, want self", args[0])
		}
		return []interface{}{
			big.NewInt(100_000_000),
			uint8(1),
			big.NewInt(0),
			big.NewInt(500_000_000),
			true,
		}
	})

	covered, err := agent.IsCovered(context.Background(), nil)
	if err != nil {
		t.Fatalf("IsCovered: %v", err)
	}
	if !covered {
		t.Fatal("expected covered")
	}
}

func TestBalanceETH(t *testing.T) {
	agent, _, back := newTestAgent(t)

	wei, ok := new(big.Int).SetString("1500000000000000000", 10) // 1.5 ETH
	if !ok {
		t.Fatal("SetString")
	}
	back.SetBalance(agent.Address(), wei)

	got, err := agent.BalanceETH(context.Background())
	if err != nil {
		t.Fatalf("BalanceETH: %v", err)
	}
	if want := decimal.RequireFromString("1.5"); !got.Equal(want) {
		t.Fatalf("balance = %s, want %s", got, want)
	}
}

func TestBalanceToken(t *testing.T) {
	agent, evm, back := newTestAgent(t)

	back.Handle(evm.Token().Address, "balanceOf", func(args []interface{}) []interface{} {
		if args[0].(common.Address) != agent.Address() {
			t.Fatalf("queried account = %v, want self", args[0])
		}
		return []interface{}{big.NewInt(250_000_000)}
	})

	got, err := agent.BalanceToken(context.Background())
	if err != nil {
		t.Fatalf("BalanceToken: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("balance = %s, want 250", got)
	}
}
