package sync

import (
	"github.com/eth2core/beacon-p2p/beacon-chain/core/types"
	"github.com/eth2core/beacon-p2p/beacon-chain/p2p"
)

// SyncMessageKind selects which field of a SyncMessage is populated.
type SyncMessageKind int

const (
	SyncMessageDisconnect SyncMessageKind = iota
	SyncMessageAddPeer
	SyncMessageUnknownBlock
	SyncMessageBeaconBlocksResponse
	SyncMessageRecentBeaconBlocksResponse
)

// SyncMessage is the tagged union carried from the processor to the
// external sync manager over the dispatcher channel (§3, §4.C).
type SyncMessage struct {
	Kind SyncMessageKind
	Peer p2p.PeerID

	// SyncMessageAddPeer
	PeerInfo PeerSyncInfo

	// SyncMessageUnknownBlock
	Block *types.SignedBeaconBlock

	// SyncMessageBeaconBlocksResponse / SyncMessageRecentBeaconBlocksResponse
	RequestID p2p.RequestID
	Blocks    []*types.SignedBeaconBlock
}

// SyncSender is the send half of the dispatcher (§4.C): single-producer,
// FIFO, buffered to 4096 messages. Sends are non-blocking; a full channel
// is handled by the caller logging and dropping, never by blocking.
type SyncSender chan<- SyncMessage

// SyncReceiver is the receive half, held by the external sync manager.
type SyncReceiver <-chan SyncMessage

// NewSyncChannel creates the dispatcher channel along with a one-shot
// shutdown handle whose Close cancels the sync task by closing the
// receiver side's channel.
func NewSyncChannel() (SyncSender, SyncReceiver, *ShutdownHandle) {
	ch := make(chan SyncMessage, 4096)
	return SyncSender(ch), SyncReceiver(ch), &ShutdownHandle{ch: ch}
}

// ShutdownHandle is a one-shot handle whose Close cancels the sync task
// (§4.C, §5): dropping the processor drops this handle.
type ShutdownHandle struct {
	ch     chan SyncMessage
	closed bool
}

// Close cancels the sync task. Only the first call closes the channel;
// subsequent calls are no-ops.
func (h *ShutdownHandle) Close() {
	if h.closed {
		return
	}
	h.closed = true
	close(h.ch)
}

// trySend attempts a non-blocking send on sender, reporting whether it
// succeeded. The processor uses this for every send to the sync channel
// (§4.C): failures are logged by the caller and dropped, never retried.
func trySend(sender SyncSender, msg SyncMessage) bool {
	select {
	case sender <- msg:
		return true
	default:
		return false
	}
}
