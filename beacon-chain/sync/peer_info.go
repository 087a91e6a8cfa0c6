// Package sync implements the message processor, handshake, sync
// dispatcher and gossip forwarding validator (§4.B-E): the part of the
// core that turns behaviour events into chain-affecting actions and peer
// classifications.
package sync

import (
	"github.com/eth2core/beacon-p2p/beacon-chain/blockchain"
	"github.com/eth2core/beacon-p2p/beacon-chain/core/types"
	"github.com/eth2core/beacon-p2p/beacon-chain/p2p"
)

// PeerSyncInfo is the handshake-derived state retained per peer once Hello
// succeeds (§3): created on Hello, updated on subsequent Hellos, destroyed
// on disconnect.
type PeerSyncInfo struct {
	ForkVersion    types.ForkVersion
	FinalizedRoot  types.Root
	FinalizedEpoch uint64
	HeadRoot       types.Root
	HeadSlot       uint64
}

// PeerSyncInfoFromHello derives a PeerSyncInfo from a received HelloMessage
// (a lossless field-for-field copy).
func PeerSyncInfoFromHello(hello *p2p.HelloMessage) PeerSyncInfo {
	return PeerSyncInfo{
		ForkVersion:    hello.ForkVersion,
		FinalizedRoot:  hello.FinalizedRoot,
		FinalizedEpoch: hello.FinalizedEpoch,
		HeadRoot:       hello.HeadRoot,
		HeadSlot:       hello.HeadSlot,
	}
}

// localHelloMessage builds the HelloMessage representing chain's current
// state, used both to answer inbound Hello requests and to derive the
// local PeerSyncInfo for handshake classification.
func localHelloMessage(chain blockchain.Chain) *p2p.HelloMessage {
	head := chain.Head()
	state := head.BeaconState
	checkpoint := state.FinalizedCheckpoint()
	return &p2p.HelloMessage{
		ForkVersion:    state.Fork().CurrentVersion,
		FinalizedRoot:  checkpoint.Root,
		FinalizedEpoch: checkpoint.Epoch,
		HeadRoot:       head.BeaconBlockRoot,
		HeadSlot:       state.Slot(),
	}
}

// localPeerSyncInfo derives the local PeerSyncInfo identically to how a
// remote peer's is derived from its Hello (§3).
func localPeerSyncInfo(chain blockchain.Chain) PeerSyncInfo {
	hello := localHelloMessage(chain)
	return PeerSyncInfoFromHello(hello)
}
