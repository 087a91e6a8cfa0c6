// Package testing provides a MessageProcessor collaborator double: a
// network sender that records every outbound RPC event instead of
// delivering it, in the spirit of the teacher's mockP2P.
package testing

import "github.com/eth2core/beacon-p2p/beacon-chain/p2p"

// MockNetwork records every SendRPC call it receives.
type MockNetwork struct {
	Sent []SentRPC
}

// SentRPC records a single SendRPC call.
type SentRPC struct {
	Peer  p2p.PeerID
	Event p2p.RPCEvent
}

func (m *MockNetwork) SendRPC(peer p2p.PeerID, event p2p.RPCEvent) {
	m.Sent = append(m.Sent, SentRPC{Peer: peer, Event: event})
}
