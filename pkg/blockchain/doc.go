// Package blockchain provides low-level Ethereum interaction for the LobSec SDK.
//
// This package contains the client and utilities for interacting with:
//   - LobSec Registry contract (immunization and threat levels)
//   - AgentStaking contract (stake ledger and unstake timer)
//   - AgentInsurancePool contract (coverage and premiums)
//   - USDC token contract (approve/balance/allowance)
//
// # Architecture
//
// EVMClient is the single entry point. It wraps a Backend (satisfied by
// *ethclient.Client, or a fake in tests) and one bound contract per protocol
// contract. Reads go through Call, writes through Submit/SubmitAndWait; the
// client applies the configured ChainRead, ChainSubmit and ReceiptWait
// timeouts and the configured gas parameters uniformly.
//
// # Transaction Construction
//
// Every write fetches a fresh pending nonce, uses a fixed per-operation gas
// limit and the configured EIP-1559 fee caps, and is signed with the caller's
// ECDSA key via an EIP-155 keyed transactor:
//
//	hash, err := evm.Submit(ctx, key, evm.Staking(), cfg.Gas.StakeLimit, "stakeAsAgent", units)
//
// Because nonces are fetched per call, concurrent writes from the same key
// race and must be serialized by the caller.
//
// # Confirmation Barrier
//
// Approve-then-act flows need the approval's effect visible on-chain before
// the dependent call, otherwise the second transaction reverts. SubmitAndWait
// submits and then polls for the receipt with exponential backoff, bounded by
// Timeouts.ReceiptWait:
//
//	_, err := evm.ApproveAndWait(ctx, key, poolAddr, premiumUnits)
//	if err != nil {
//		return err // second step is never attempted
//	}
//
// # Error Handling
//
// Failed submissions and confirmations surface as *TxError carrying the
// transaction hash once one exists, so callers can inspect chain state out of
// band. A reverted transaction is an error from WaitForTransaction.
package blockchain
