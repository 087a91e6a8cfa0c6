// Package chaintest provides an in-memory blockchain.Chain double for
// tests, in the spirit of the teacher's mockChainService
// (beacon-chain/deprecated-sync/regular_sync_test.go).
package chaintest

import (
	"context"

	"github.com/eth2core/beacon-p2p/beacon-chain/blockchain"
	"github.com/eth2core/beacon-p2p/beacon-chain/core/signing"
	"github.com/eth2core/beacon-p2p/beacon-chain/core/types"
	"github.com/eth2core/beacon-p2p/beacon-chain/db"
	"github.com/eth2core/beacon-p2p/beacon-chain/params"
)

// MockChain is a fully in-memory blockchain.Chain. Tests populate its
// fields directly; ProcessBlockFn/ProcessAttestationFn default to always
// returning Processed when unset.
type MockChain struct {
	HeadVal          *blockchain.Head
	RootsBySlot      map[uint64]types.Root
	CurrentSlotVal   uint64
	CurrentSlotErr   error
	StoreVal         db.Store
	SlotsPerEpochVal uint64
	Fork             *types.Fork

	ProcessBlockFn       func(*types.SignedBeaconBlock) (blockchain.BlockProcessingOutcome, error)
	ProcessAttestationFn func(*types.Attestation) (blockchain.AttestationProcessingOutcome, error)
}

var _ blockchain.Chain = (*MockChain)(nil)

func (c *MockChain) Head() *blockchain.Head { return c.HeadVal }

func (c *MockChain) RootAtSlot(slot uint64) (types.Root, bool) {
	r, ok := c.RootsBySlot[slot]
	return r, ok
}

func (c *MockChain) CurrentSlot() (uint64, error) {
	return c.CurrentSlotVal, c.CurrentSlotErr
}

func (c *MockChain) Store() db.Store { return c.StoreVal }

func (c *MockChain) ProcessBlock(_ context.Context, block *types.SignedBeaconBlock) (blockchain.BlockProcessingOutcome, error) {
	if c.ProcessBlockFn != nil {
		return c.ProcessBlockFn(block)
	}
	return blockchain.BlockProcessingOutcomeProcessed, nil
}

func (c *MockChain) ProcessAttestation(_ context.Context, att *types.Attestation) (blockchain.AttestationProcessingOutcome, error) {
	if c.ProcessAttestationFn != nil {
		return c.ProcessAttestationFn(att)
	}
	return blockchain.AttestationProcessingOutcomeProcessed, nil
}

func (c *MockChain) GetDomain(epoch uint64, domainType params.DomainType, fork *types.Fork) signing.Domain {
	version := fork.CurrentVersion
	if epoch < fork.Epoch {
		version = fork.PreviousVersion
	}
	return signing.ComputeDomain(domainType, version, types.Root{})
}

func (c *MockChain) SlotsPerEpoch() uint64 { return c.SlotsPerEpochVal }
