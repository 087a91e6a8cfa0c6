package p2p

import "github.com/eth2core/beacon-p2p/beacon-chain/params"

// IdentifyInfo is what the identify sub-behaviour learns about a peer on
// first connection: protocol/agent versions, the addresses it claims to
// listen on, and the address it was observed dialing from.
type IdentifyInfo struct {
	Peer            PeerID
	ProtocolVersion string
	AgentVersion    string
	ListenAddrs     []string
	ObservedAddr    string
	Protocols       []string
}

// truncateListenAddrs enforces the hard cap on identify's listen_addrs
// before any downstream processing (§4.A, §6).
func truncateListenAddrs(info *IdentifyInfo) {
	if len(info.ListenAddrs) > params.MaxIdentifyAddresses {
		info.ListenAddrs = info.ListenAddrs[:params.MaxIdentifyAddresses]
	}
}

// IdentifyEvent is the set of events the identify sub-behaviour can raise.
// Only Received carries data the behaviour acts on; Sent/Error are ignored
// (§4.A).
type IdentifyEventKind int

const (
	IdentifyEventReceived IdentifyEventKind = iota
	IdentifyEventSent
	IdentifyEventError
)

type IdentifyEvent struct {
	Kind IdentifyEventKind
	Info *IdentifyInfo
	Err  error
}

// IdentifyService is the identify sub-behaviour's contract: a non-blocking
// stream of identify events. It surfaces no outbound calls the behaviour
// needs to make.
type IdentifyService interface {
	Events() <-chan IdentifyEvent
}
