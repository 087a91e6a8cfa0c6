// Package testing provides in-memory p2p.GossipPubSub/RPCProtocol/
// IdentifyService/DiscoveryService doubles, in the spirit of the teacher's
// mockP2P: just enough behaviour to drive the behaviour under test.
package testing

import (
	"github.com/eth2core/beacon-p2p/beacon-chain/p2p"
)

// MockGossipSub is an in-memory p2p.GossipPubSub. Tests push events onto
// its channel directly with Push; Subscribe/Unsubscribe/Publish/Propagate
// calls are recorded for assertions.
type MockGossipSub struct {
	ch            chan p2p.GossipEvent
	Subscriptions map[p2p.Topic]bool
	Published     []PublishedMessage
	Propagated    []PropagatedMessage
}

// PublishedMessage records a single Publish call.
type PublishedMessage struct {
	Topic p2p.Topic
	Data  []byte
}

// PropagatedMessage records a single Propagate call.
type PropagatedMessage struct {
	Source p2p.PeerID
	ID     p2p.MessageID
}

// NewMockGossipSub returns an empty MockGossipSub with a buffered event
// channel large enough for typical test scenarios.
func NewMockGossipSub() *MockGossipSub {
	return &MockGossipSub{
		ch:            make(chan p2p.GossipEvent, 64),
		Subscriptions: make(map[p2p.Topic]bool),
	}
}

var _ p2p.GossipPubSub = (*MockGossipSub)(nil)

func (m *MockGossipSub) Subscribe(topic p2p.Topic) bool {
	if m.Subscriptions[topic] {
		return false
	}
	m.Subscriptions[topic] = true
	return true
}

func (m *MockGossipSub) Unsubscribe(topic p2p.Topic) bool {
	if !m.Subscriptions[topic] {
		return false
	}
	delete(m.Subscriptions, topic)
	return true
}

func (m *MockGossipSub) Publish(topic p2p.Topic, data []byte) {
	m.Published = append(m.Published, PublishedMessage{Topic: topic, Data: data})
}

func (m *MockGossipSub) Propagate(source p2p.PeerID, id p2p.MessageID) {
	m.Propagated = append(m.Propagated, PropagatedMessage{Source: source, ID: id})
}

func (m *MockGossipSub) Events() <-chan p2p.GossipEvent { return m.ch }

// Push injects ev as if the underlying gossipsub implementation had raised
// it.
func (m *MockGossipSub) Push(ev p2p.GossipEvent) { m.ch <- ev }

// MockRPCProtocol is an in-memory p2p.RPCProtocol.
type MockRPCProtocol struct {
	ch   chan p2p.RPCProtocolEvent
	Sent []SentRPC
}

// SentRPC records a single SendRPC call.
type SentRPC struct {
	Peer  p2p.PeerID
	Event p2p.RPCEvent
}

func NewMockRPCProtocol() *MockRPCProtocol {
	return &MockRPCProtocol{ch: make(chan p2p.RPCProtocolEvent, 64)}
}

var _ p2p.RPCProtocol = (*MockRPCProtocol)(nil)

func (m *MockRPCProtocol) SendRPC(peer p2p.PeerID, event p2p.RPCEvent) {
	m.Sent = append(m.Sent, SentRPC{Peer: peer, Event: event})
}

func (m *MockRPCProtocol) Events() <-chan p2p.RPCProtocolEvent { return m.ch }

// Push injects ev as if the underlying RPC protocol had raised it.
func (m *MockRPCProtocol) Push(ev p2p.RPCProtocolEvent) { m.ch <- ev }

// MockIdentifyService is an in-memory p2p.IdentifyService.
type MockIdentifyService struct {
	ch chan p2p.IdentifyEvent
}

func NewMockIdentifyService() *MockIdentifyService {
	return &MockIdentifyService{ch: make(chan p2p.IdentifyEvent, 64)}
}

var _ p2p.IdentifyService = (*MockIdentifyService)(nil)

func (m *MockIdentifyService) Events() <-chan p2p.IdentifyEvent { return m.ch }

// Push injects ev as if identify had raised it.
func (m *MockIdentifyService) Push(ev p2p.IdentifyEvent) { m.ch <- ev }

// MockDiscoveryService is an in-memory p2p.DiscoveryService.
type MockDiscoveryService struct {
	Peers        int
	BannedPeers  []p2p.PeerID
	UnbannedPeer []p2p.PeerID
}

var _ p2p.DiscoveryService = (*MockDiscoveryService)(nil)

func (m *MockDiscoveryService) ConnectedPeers() int { return m.Peers }

func (m *MockDiscoveryService) PeerBanned(peer p2p.PeerID) {
	m.BannedPeers = append(m.BannedPeers, peer)
}

func (m *MockDiscoveryService) PeerUnbanned(peer p2p.PeerID) {
	m.UnbannedPeer = append(m.UnbannedPeer, peer)
}
