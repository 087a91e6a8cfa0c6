package p2p

import "github.com/eth2core/beacon-p2p/beacon-chain/core/types"

// GoodbyeReason is the wire reason code sent with an RPC Goodbye request.
// Values match the ones the real protocol assigns so logs and metrics from
// this core line up with what a peer on the wire would report.
type GoodbyeReason uint64

const (
	// GoodbyeReasonClientShutdown is sent when the local node is shutting
	// down cleanly.
	GoodbyeReasonClientShutdown GoodbyeReason = 1
	// GoodbyeReasonIrrelevantNetwork is sent when the handshake finds the
	// peer on an incompatible fork or an unrelated finalized chain (§4.B).
	GoodbyeReasonIrrelevantNetwork GoodbyeReason = 2
	// GoodbyeReasonFault is sent when the peer has behaved maliciously or
	// triggered an internal fault.
	GoodbyeReasonFault GoodbyeReason = 3
)

func (r GoodbyeReason) String() string {
	switch r {
	case GoodbyeReasonClientShutdown:
		return "ClientShutdown"
	case GoodbyeReasonIrrelevantNetwork:
		return "IrrelevantNetwork"
	case GoodbyeReasonFault:
		return "Fault"
	default:
		return "Unknown"
	}
}

// BeaconBlocksRequest asks for every block whose slot is in
// [StartSlot, StartSlot+Count) (§6).
type BeaconBlocksRequest struct {
	StartSlot uint64
	Count     uint64
}

// RecentBeaconBlocksRequest asks for blocks by explicit root.
type RecentBeaconBlocksRequest struct {
	BlockRoots []types.Root
}

// RPCRequest is the tagged union of outbound/inbound RPC requests (§3).
// Exactly one field is populated, selected by Kind.
type RPCRequestKind int

const (
	RPCRequestHello RPCRequestKind = iota
	RPCRequestGoodbye
	RPCRequestBeaconBlocks
	RPCRequestRecentBeaconBlocks
)

type RPCRequest struct {
	Kind RPCRequestKind

	Hello              *HelloMessage
	Goodbye            GoodbyeReason
	BeaconBlocks       *BeaconBlocksRequest
	RecentBeaconBlocks *RecentBeaconBlocksRequest
}

// RPCResponse is the tagged union of RPC responses (§3).
type RPCResponseKind int

const (
	RPCResponseHello RPCResponseKind = iota
	RPCResponseBeaconBlocks
)

type RPCResponse struct {
	Kind RPCResponseKind

	Hello        *HelloMessage
	BeaconBlocks []byte
}

// RPCErrorResponse wraps an RPCResponse with a success/error discriminant.
// Only the Success branch is populated by anything in this core today;
// the Error branch exists so the wire format can distinguish the two, per
// the upstream protocol, without requiring every caller to build one.
type RPCErrorResponse struct {
	Success *RPCResponse
	Error   *RPCResponseError
}

// RPCResponseError carries an error code/message for the unused Error
// branch of RPCErrorResponse.
type RPCResponseError struct {
	Code    uint64
	Message string
}

// RPCEvent is a tagged union: an outbound/inbound Request, or a Response
// (success or error) correlated to a prior Request by RequestID (§3).
type RPCEventKind int

const (
	RPCEventRequest RPCEventKind = iota
	RPCEventResponse
)

type RPCEvent struct {
	Kind      RPCEventKind
	RequestID RequestID

	Request  *RPCRequest
	Response *RPCErrorResponse
}

// RPCProtocolEvent is the set of events the RPC sub-behaviour surfaces to
// the composite behaviour: peer lifecycle plus inbound RPC traffic.
type RPCProtocolEventKind int

const (
	RPCProtocolEventPeerDialed RPCProtocolEventKind = iota
	RPCProtocolEventPeerDisconnected
	RPCProtocolEventRPC
)

type RPCProtocolEvent struct {
	Kind RPCProtocolEventKind
	Peer PeerID
	RPC  RPCEvent
}

// RPCProtocol is the Eth2 RPC sub-behaviour's contract: send an RPC event
// toward a peer, and surface a non-blocking stream of peer lifecycle and
// inbound RPC events.
type RPCProtocol interface {
	SendRPC(peer PeerID, event RPCEvent)
	Events() <-chan RPCProtocolEvent
}
