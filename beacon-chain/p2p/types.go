// Package p2p implements the composite network behaviour (§4.A): gossip
// pub-sub, the eth2 RPC protocol, identify and discovery multiplexed behind
// a single FIFO event stream.
package p2p

import (
	"github.com/libp2p/go-libp2p-core/peer"
)

// PeerID identifies a remote peer, assigned by the transport layer (§3).
type PeerID = peer.ID

// Topic is the gossip topic string a message is published/subscribed on.
type Topic string

// TopicHash is the wire identifier for a Topic carried inside gossip
// messages.
type TopicHash string

// MessageID identifies an in-flight gossip message, used to re-propagate a
// held message once the chain has validated it.
type MessageID string

// RequestID identifies an outstanding RPC request so its response can be
// correlated back to it. 0 is used when the caller sending the request
// supplies no explicit id (§4.D).
type RequestID uint64

const (
	// TopicBeaconBlock carries gossiped SignedBeaconBlock payloads.
	TopicBeaconBlock Topic = "beacon_block"
	// TopicBeaconAttestation carries gossiped Attestation payloads.
	TopicBeaconAttestation Topic = "beacon_attestation"
)
