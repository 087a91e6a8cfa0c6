package p2p

// DiscoveryService is the discovery sub-behaviour's contract. It surfaces
// no outbound events (§4.A); the behaviour only ever calls into it.
type DiscoveryService interface {
	ConnectedPeers() int
	PeerBanned(peer PeerID)
	PeerUnbanned(peer PeerID)
}
