package sync

import (
	"github.com/sirupsen/logrus"

	"github.com/eth2core/beacon-p2p/beacon-chain/p2p"
)

// rpcSender is the outbound command surface the NetworkContext wraps: the
// behaviour's SendRPC method (§6, "Network capability (consumed)").
type rpcSender interface {
	SendRPC(peer p2p.PeerID, event p2p.RPCEvent)
}

// NetworkContext wraps the outbound command channel to the network
// service with request-id management (§4.D). Every send is handed straight
// to the wrapped sender's SendRPC; the context adds no try-send or failure
// handling of its own, so whether a send blocks or can fail is up to that
// sender.
type NetworkContext struct {
	network rpcSender
}

// NewNetworkContext wraps network for outbound RPC commands.
func NewNetworkContext(network rpcSender) *NetworkContext {
	return &NetworkContext{network: network}
}

// Disconnect logs the reason, then sends a Goodbye request carrying it.
func (nc *NetworkContext) Disconnect(peer p2p.PeerID, reason p2p.GoodbyeReason) {
	log.WithFields(logrus.Fields{
		"reason": reason,
		"peer":   peer,
	}).Warn("Disconnecting peer (RPC)")
	nc.SendRPCRequest(nil, peer, p2p.RPCRequest{Kind: p2p.RPCRequestGoodbye, Goodbye: reason})
}

// SendRPCRequest wraps req as an outbound RPCEvent Request, substituting 0
// when requestID is absent (§4.D), and enqueues it.
func (nc *NetworkContext) SendRPCRequest(requestID *p2p.RequestID, peer p2p.PeerID, req p2p.RPCRequest) {
	var id p2p.RequestID
	if requestID != nil {
		id = *requestID
	}
	nc.sendRPCEvent(peer, p2p.RPCEvent{
		Kind:      p2p.RPCEventRequest,
		RequestID: id,
		Request:   &req,
	})
}

// SendRPCResponse wraps resp as a successful RPCEvent Response correlated
// to requestID. Error responses are not currently emitted by this core
// (§4.D).
func (nc *NetworkContext) SendRPCResponse(peer p2p.PeerID, requestID p2p.RequestID, resp p2p.RPCResponse) {
	nc.sendRPCEvent(peer, p2p.RPCEvent{
		Kind:      p2p.RPCEventResponse,
		RequestID: requestID,
		Response:  &p2p.RPCErrorResponse{Success: &resp},
	})
}

func (nc *NetworkContext) sendRPCEvent(peer p2p.PeerID, event p2p.RPCEvent) {
	nc.network.SendRPC(peer, event)
}
