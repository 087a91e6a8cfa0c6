package sync

import (
	"context"

	"github.com/eth2core/beacon-p2p/beacon-chain/blockchain"
	"github.com/eth2core/beacon-p2p/beacon-chain/core/signing"
	"github.com/eth2core/beacon-p2p/beacon-chain/core/types"
	"github.com/eth2core/beacon-p2p/beacon-chain/params"
	"github.com/eth2core/beacon-p2p/beacon-chain/state"
	"github.com/eth2core/beacon-p2p/crypto/bls"
)

// ForwardingValidator implements the cheap pre-forward checks on blocks and
// attestations (§4.E). It shares the chain handle with MessageProcessor but
// is otherwise stateless.
type ForwardingValidator struct {
	chain blockchain.Chain
}

// NewForwardingValidator wraps chain for forwarding decisions.
func NewForwardingValidator(chain blockchain.Chain) *ForwardingValidator {
	return &ForwardingValidator{chain: chain}
}

// ShouldForwardBlock resolves block's parent and a state to verify its
// proposer signature against, preferring the in-memory head state when the
// parent's state root matches it. Any missing data or processing error
// returns false (§4.E).
func (v *ForwardingValidator) ShouldForwardBlock(ctx context.Context, signed *types.SignedBeaconBlock) bool {
	block := signed.Block
	parent, err := v.chain.Store().Block(ctx, block.ParentRoot)
	if err != nil || parent == nil {
		return false
	}

	head := v.chain.Head()
	var st state.BeaconState
	if parent.Block.StateRoot == head.BeaconStateRoot {
		st = head.BeaconState
	} else {
		st, err = v.chain.Store().State(ctx, parent.Block.StateRoot)
		if err != nil || st == nil {
			return false
		}
	}
	st = st.Copy()

	slotsPerEpoch := v.chain.SlotsPerEpoch()
	relEpoch, err := state.RelativeEpochFromSlots(parent.Block.Slot, block.Slot, slotsPerEpoch)
	if err != nil {
		if st.Slot() > block.Slot {
			return false
		}
		for st.Slot() < block.Slot {
			if err := st.ProcessSlot(); err != nil {
				return false
			}
		}
		if err := st.BuildCommitteeCache(state.RelativeEpochCurrent); err != nil {
			return false
		}
		relEpoch = state.RelativeEpochCurrent
	}

	proposerIndex, err := st.BeaconProposerIndex(block.Slot, relEpoch)
	if err != nil {
		return false
	}
	proposer, err := st.ValidatorAtIndex(proposerIndex)
	if err != nil {
		return false
	}

	epoch := block.Slot / slotsPerEpoch
	domain := v.chain.GetDomain(epoch, params.DomainBeaconProposer, st.Fork())
	root, err := block.HashTreeRoot()
	if err != nil {
		return false
	}
	signingRoot := signing.ComputeSigningRoot(types.Root(root), domain)

	pub, err := bls.PublicKeyFromBytes(proposer.PublicKey[:])
	if err != nil {
		return false
	}
	sig, err := bls.SignatureFromBytes(signed.Signature[:])
	if err != nil {
		return false
	}
	return sig.Verify(pub, signingRoot[:])
}

// ShouldForwardAttestation first tries the head-state fast path (no DB
// reads); on failure it falls back to the attested block's state (§4.E).
func (v *ForwardingValidator) ShouldForwardAttestation(ctx context.Context, att *types.Attestation) bool {
	head := v.chain.Head()
	if head.BeaconState != nil {
		if indexed, err := head.BeaconState.GetIndexedAttestation(att); err == nil {
			if verifyIndexedAttestation(head.BeaconState, v.chain, indexed) {
				return true
			}
		}
	}

	block, err := v.chain.Store().Block(ctx, att.Data.BeaconBlockRoot)
	if err != nil || block == nil {
		return false
	}
	st, err := v.chain.Store().State(ctx, block.Block.StateRoot)
	if err != nil || st == nil {
		return false
	}
	indexed, err := st.GetIndexedAttestation(att)
	if err != nil {
		return false
	}
	return verifyIndexedAttestation(st, v.chain, indexed)
}

func verifyIndexedAttestation(st state.BeaconState, chain blockchain.Chain, indexed *types.IndexedAttestation) bool {
	epoch := indexed.Data.Target.Epoch
	domain := chain.GetDomain(epoch, params.DomainBeaconAttester, st.Fork())
	root, err := indexed.Data.HashTreeRoot()
	if err != nil {
		return false
	}
	signingRoot := signing.ComputeSigningRoot(types.Root(root), domain)

	pubs := make([]*bls.PublicKey, 0, len(indexed.AttestingIndices))
	for _, idx := range indexed.AttestingIndices {
		validator, err := st.ValidatorAtIndex(idx)
		if err != nil {
			return false
		}
		pub, err := bls.PublicKeyFromBytes(validator.PublicKey[:])
		if err != nil {
			return false
		}
		pubs = append(pubs, pub)
	}
	sig, err := bls.SignatureFromBytes(indexed.Signature[:])
	if err != nil {
		return false
	}
	return sig.VerifyAggregate(pubs, signingRoot[:])
}
