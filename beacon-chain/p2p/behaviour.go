package p2p

import (
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "p2p")

// BehaviourEventKind selects which field of a BehaviourEvent is populated.
type BehaviourEventKind int

const (
	BehaviourEventRPC BehaviourEventKind = iota
	BehaviourEventPeerDialed
	BehaviourEventPeerDisconnected
	BehaviourEventGossipMessage
	BehaviourEventPeerSubscribed
)

// BehaviourEvent is the single event stream the composite behaviour emits
// to the host poll loop (§3). Exactly one set of fields is meaningful per
// Kind.
type BehaviourEvent struct {
	Kind BehaviourEventKind

	// BehaviourEventRPC
	Peer PeerID
	RPC  RPCEvent

	// BehaviourEventGossipMessage
	ID      MessageID
	Source  PeerID
	Topics  []TopicHash
	Message *PubsubMessage

	// BehaviourEventPeerSubscribed
	Topic TopicHash
}

// Behaviour composes the gossip, RPC, identify and discovery sub-behaviours
// behind a single FIFO event queue, matching the upstream NetworkBehaviour
// this core's poll loop is modeled on (§4.A).
type Behaviour struct {
	gossip    GossipPubSub
	rpc       RPCProtocol
	identify  IdentifyService
	discovery DiscoveryService

	seen   *seenGossipMessages
	events []BehaviourEvent
}

// NewBehaviour wires the four sub-behaviours into a single composite.
func NewBehaviour(gossip GossipPubSub, rpc RPCProtocol, identify IdentifyService, discovery DiscoveryService) *Behaviour {
	return &Behaviour{
		gossip:    gossip,
		rpc:       rpc,
		identify:  identify,
		discovery: discovery,
		seen:      newSeenGossipMessages(),
	}
}

// Subscribe delegates to the gossip sub-behaviour.
func (b *Behaviour) Subscribe(topic Topic) bool { return b.gossip.Subscribe(topic) }

// Unsubscribe delegates to the gossip sub-behaviour.
func (b *Behaviour) Unsubscribe(topic Topic) bool { return b.gossip.Unsubscribe(topic) }

// Publish encodes message once against topics and publishes the identical
// payload on each of them (§4.A). The behaviour never inspects the encoded
// bytes; that is the codec's job.
func (b *Behaviour) Publish(topics []Topic, message *PubsubMessage) error {
	data, err := message.Encode(topics)
	if err != nil {
		return err
	}
	for _, t := range topics {
		b.gossip.Publish(t, data)
	}
	return nil
}

// PropagateMessage forwards an already-validated gossip message to other
// mesh peers. Callers must only invoke this after the chain has judged the
// message forwardable.
func (b *Behaviour) PropagateMessage(source PeerID, id MessageID) {
	b.gossip.Propagate(source, id)
}

// SendRPC delegates to the RPC sub-behaviour.
func (b *Behaviour) SendRPC(peer PeerID, event RPCEvent) {
	b.rpc.SendRPC(peer, event)
}

// ConnectedPeers delegates to discovery.
func (b *Behaviour) ConnectedPeers() int { return b.discovery.ConnectedPeers() }

// PeerBanned notifies discovery that peer has been banned.
func (b *Behaviour) PeerBanned(peer PeerID) { b.discovery.PeerBanned(peer) }

// PeerUnbanned notifies discovery that peer has been unbanned.
func (b *Behaviour) PeerUnbanned(peer PeerID) { b.discovery.PeerUnbanned(peer) }

// Poll drains the internal FIFO queue. If the queue is empty it first pulls
// one fresh event from the first sub-behaviour (gossip, then RPC, then
// identify) that has one ready. It returns false when
// there is nothing to report, matching the host's "not ready" contract
// (§4.A, §5): the call never blocks.
func (b *Behaviour) Poll() (BehaviourEvent, bool) {
	if len(b.events) > 0 {
		return b.pop()
	}
	b.drainSubBehaviours()
	if len(b.events) > 0 {
		return b.pop()
	}
	return BehaviourEvent{}, false
}

func (b *Behaviour) pop() (BehaviourEvent, bool) {
	ev := b.events[0]
	b.events = b.events[1:]
	return ev, true
}

func (b *Behaviour) drainSubBehaviours() {
	select {
	case ev := <-b.gossip.Events():
		b.injectGossipEvent(ev)
		return
	default:
	}
	select {
	case ev := <-b.rpc.Events():
		b.injectRPCEvent(ev)
		return
	default:
	}
	select {
	case ev := <-b.identify.Events():
		b.injectIdentifyEvent(ev)
		return
	default:
	}
}

func (b *Behaviour) injectGossipEvent(ev GossipEvent) {
	switch ev.Kind {
	case GossipEventMessage:
		if b.seen.observe(ev.Topics, ev.Data) {
			log.WithField("message_id", ev.ID).Debug("A duplicate gossipsub message was received")
			return
		}
		msg, err := DecodePubsubMessage(ev.Topics, ev.Data)
		if err != nil {
			log.WithError(err).Debug("Could not decode gossipsub message")
			return
		}
		b.events = append(b.events, BehaviourEvent{
			Kind:    BehaviourEventGossipMessage,
			ID:      ev.ID,
			Source:  ev.Source,
			Topics:  ev.Topics,
			Message: msg,
		})
	case GossipEventSubscribed:
		b.events = append(b.events, BehaviourEvent{
			Kind:  BehaviourEventPeerSubscribed,
			Peer:  ev.Peer,
			Topic: ev.Topic,
		})
	case GossipEventUnsubscribed:
		// ignored (§4.A)
	}
}

func (b *Behaviour) injectRPCEvent(ev RPCProtocolEvent) {
	switch ev.Kind {
	case RPCProtocolEventPeerDialed:
		b.events = append(b.events, BehaviourEvent{Kind: BehaviourEventPeerDialed, Peer: ev.Peer})
	case RPCProtocolEventPeerDisconnected:
		b.events = append(b.events, BehaviourEvent{Kind: BehaviourEventPeerDisconnected, Peer: ev.Peer})
	case RPCProtocolEventRPC:
		b.events = append(b.events, BehaviourEvent{Kind: BehaviourEventRPC, Peer: ev.Peer, RPC: ev.RPC})
	}
}

func (b *Behaviour) injectIdentifyEvent(ev IdentifyEvent) {
	switch ev.Kind {
	case IdentifyEventReceived:
		truncateListenAddrs(ev.Info)
		log.WithFields(logrus.Fields{
			"peer":             ev.Info.Peer,
			"protocol_version": ev.Info.ProtocolVersion,
			"agent_version":    ev.Info.AgentVersion,
			"listen_addrs":     ev.Info.ListenAddrs,
			"observed_addr":    ev.Info.ObservedAddr,
			"protocols":        ev.Info.Protocols,
		}).Debug("Identified peer")
	case IdentifyEventSent, IdentifyEventError:
		// no-op (§4.A)
	}
}
