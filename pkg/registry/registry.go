// Package registry is the client for the LobSec Registry contract: agent
// registration, immunization flags and threat levels.
package registry

import (
	"context"
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"

	"github.com/lobsec/lobsec-sdk-go/pkg/blockchain"
	"github.com/lobsec/lobsec-sdk-go/pkg/model"
)

// safeThreatCeiling is the threat level below which a registered agent counts
// as safe. Level 50 itself is not safe.
const safeThreatCeiling = 50

// Client reads and mutates the external agent registry. It holds no state;
// every query is a fresh round-trip.
type Client struct {
	evm *blockchain.EVMClient
}

// NewClient returns a registry client over the given chain client.
func NewClient(evm *blockchain.EVMClient) *Client {
	return &Client{evm: evm}
}

// IsImmunized reports whether the agent carries the registry's immunization
// flag.
func (c *Client) IsImmunized(ctx context.Context, agent common.Address) (bool, error) {
	var out []interface{}
	if err := c.evm.Call(ctx, c.evm.Registry(), &out, "isImmunized", agent); err != nil {
		return false, err
	}
	return out[0].(bool), nil
}

// ThreatLevel returns the agent's externally computed threat score (0-255,
// lower is safer).
func (c *Client) ThreatLevel(ctx context.Context, agent common.Address) (uint8, error) {
	var out []interface{}
	if err := c.evm.Call(ctx, c.evm.Registry(), &out, "getThreatLevel", agent); err != nil {
		return 0, err
	}
	return out[0].(uint8), nil
}

// Status returns the registry's full view of an agent. The threat level is
// read once and both the ThreatLevel field and the Safe derivation use that
// single value, so the two cannot disagree if the ledger moves between reads.
func (c *Client) Status(ctx context.Context, agent common.Address) (model.AgentStatus, error) {
	immunized, err := c.IsImmunized(ctx, agent)
	if err != nil {
		return model.AgentStatus{}, err
	}
	level, err := c.ThreatLevel(ctx, agent)
	if err != nil {
		return model.AgentStatus{}, err
	}

	return model.AgentStatus{
		Address:     agent,
		Immunized:   immunized,
		ThreatLevel: level,
		Safe:        level < safeThreatCeiling && immunized,
	}, nil
}

// RegisterAgent submits a registerAgent write for the given agent and returns
// the transaction hash without waiting for confirmation.
func (c *Client) RegisterAgent(ctx context.Context, agent common.Address, key *ecdsa.PrivateKey) (common.Hash, error) {
	return c.evm.Submit(ctx, key, c.evm.Registry(), c.evm.Config().Gas.RegisterLimit, "registerAgent", agent)
}

// ImmunizeAgent submits an immunize write for the given agent. The signer's
// on-chain authorization is enforced by the registry contract, not here.
func (c *Client) ImmunizeAgent(ctx context.Context, agent common.Address, key *ecdsa.PrivateKey) (common.Hash, error) {
	return c.evm.Submit(ctx, key, c.evm.Registry(), c.evm.Config().Gas.RegisterLimit, "immunize", agent)
}
