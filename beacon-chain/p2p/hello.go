package p2p

import "github.com/eth2core/beacon-p2p/beacon-chain/core/types"

// HelloMessage is the handshake payload exchanged on connect (§3).
// FinalizedRoot is the all-zero root when the peer has never finalized
// anything.
type HelloMessage struct {
	ForkVersion    types.ForkVersion
	FinalizedRoot  types.Root
	FinalizedEpoch uint64
	HeadRoot       types.Root
	HeadSlot       uint64
}
