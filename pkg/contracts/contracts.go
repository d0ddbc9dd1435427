// Package contracts is the static directory of LobSec protocol contracts: it
// maps logical contract names to their on-chain address and parsed ABI.
// Built-in defaults point at the Base mainnet v2 deployment; callers may
// override individual addresses at construction (testnets, forks).
package contracts

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	pkgerrors "github.com/pkg/errors"
)

// ErrUnknownContract is returned when a logical name has no directory entry or
// a caller-supplied override address is malformed.
var ErrUnknownContract = errors.New("unknown contract")

// Name identifies a LobSec contract in the directory.
type Name string

const (
	Registry      Name = "LobSecRegistry"
	Staking       Name = "AgentStaking"
	InsurancePool Name = "AgentInsurancePool"
	Token         Name = "USDC"
	ClaimOracle   Name = "ClaimOracle"
)

// Base mainnet addresses of the v2 deployment.
const (
	DefaultRegistryAddress      = "0x0BDb4d48860520B60C0EF96c2B225aF0c36240c3"
	DefaultStakingAddress       = "0x585aaF900b573a1408fbEB8b02EAf343BdAaae62"
	DefaultInsurancePoolAddress = "0x206E260A07b9389E1Cb6f2a42BAEAc6E1374f6F1"
	DefaultTokenAddress         = "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"
	DefaultClaimOracleAddress   = "0x70948e18A166Fa34807C2B5bf4D4b94c8Df79c54"
)

// Default RPC endpoints for the Base network.
const (
	BaseMainnetRPC = "https://mainnet.base.org"
	BaseSepoliaRPC = "https://sepolia.base.org"
)

// Contract is a resolved directory entry.
type Contract struct {
	Address common.Address
	ABI     abi.ABI
}

// Directory resolves logical contract names to addresses and ABIs. It is
// immutable after construction and safe for concurrent use.
type Directory struct {
	entries map[Name]Contract
}

var defaultAddresses = map[Name]string{
	Registry:      DefaultRegistryAddress,
	Staking:       DefaultStakingAddress,
	InsurancePool: DefaultInsurancePoolAddress,
	Token:         DefaultTokenAddress,
	ClaimOracle:   DefaultClaimOracleAddress,
}

var rawABIs = map[Name]string{
	Registry:      registryABI,
	Staking:       stakingABI,
	InsurancePool: insurancePoolABI,
	Token:         tokenABI,
	ClaimOracle:   claimOracleABI,
}

// NewDirectory builds a directory from the built-in defaults, applying any
// per-contract address overrides. Overrides for unknown names or with
// malformed addresses fail with ErrUnknownContract.
func NewDirectory(overrides map[Name]string) (*Directory, error) {
	entries := make(map[Name]Contract, len(defaultAddresses))
	for name, addr := range defaultAddresses {
		if override, ok := overrides[name]; ok {
			if !common.IsHexAddress(override) {
				return nil, pkgerrors.Wrapf(ErrUnknownContract, "malformed override address %q for %s", override, name)
			}
			addr = override
		}
		parsed, err := abi.JSON(strings.NewReader(rawABIs[name]))
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "parse %s ABI", name)
		}
		entries[name] = Contract{
			Address: common.HexToAddress(addr),
			ABI:     parsed,
		}
	}
	for name := range overrides {
		if _, ok := defaultAddresses[name]; !ok {
			return nil, pkgerrors.Wrapf(ErrUnknownContract, "override for %s", name)
		}
	}
	return &Directory{entries: entries}, nil
}

// Resolve returns the directory entry for name, or ErrUnknownContract.
func (d *Directory) Resolve(name Name) (Contract, error) {
	c, ok := d.entries[name]
	if !ok {
		return Contract{}, pkgerrors.Wrapf(ErrUnknownContract, "%s", name)
	}
	return c, nil
}
