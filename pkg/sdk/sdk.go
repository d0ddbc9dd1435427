// Package sdk exposes the high-level LobSec SDK entry points. It wires
// together chain access and the registry, staking and insurance clients, and
// provides the actor-centric Agent facade.
package sdk

import (
	"go.uber.org/zap"

	"github.com/lobsec/lobsec-sdk-go/pkg/blockchain"
	"github.com/lobsec/lobsec-sdk-go/pkg/config"
	"github.com/lobsec/lobsec-sdk-go/pkg/insurance"
	"github.com/lobsec/lobsec-sdk-go/pkg/registry"
	"github.com/lobsec/lobsec-sdk-go/pkg/staking"
)

// init configures a default global zap logger for the SDK. Applications may
// replace it with zap.ReplaceGlobals(...) if they need custom logging.
func init() {
	c := zap.Config{
		Level:            zap.NewAtomicLevelAt(zap.InfoLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := c.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
}

// Core bundles the validated configuration, the chain client and the three
// protocol clients. Use it directly for operations on arbitrary agents;
// NewAgent wraps it with a single credential.
type Core struct {
	*config.Config
	evm *blockchain.EVMClient

	Registry  *registry.Client
	Staking   *staking.Client
	Insurance *insurance.Client
}

// NewCore validates the configuration, connects to the RPC endpoint and
// builds the protocol clients. An unreachable endpoint fails here.
func NewCore(cfg *config.Config) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Debug {
		c := zap.NewDevelopmentConfig()
		if logger, err := c.Build(); err == nil {
			zap.ReplaceGlobals(logger)
		}
	}

	evm, err := blockchain.InitEvm(cfg)
	if err != nil {
		zap.L().Error("init ethereum client failed", zap.Error(err))
		return nil, err
	}

	return newCore(cfg, evm), nil
}

// newCore wires the clients over an already-initialized chain client.
func newCore(cfg *config.Config, evm *blockchain.EVMClient) *Core {
	return &Core{
		Config:    cfg,
		evm:       evm,
		Registry:  registry.NewClient(evm),
		Staking:   staking.NewClient(evm),
		Insurance: insurance.NewClient(evm),
	}
}

// GetEvm returns the chain client for custom low-level operations.
func (c *Core) GetEvm() *blockchain.EVMClient {
	return c.evm
}

// Close shuts down the underlying RPC connection.
func (c *Core) Close() {
	c.evm.Close()
}
