package p2p

// GossipEvent is the set of events the gossip sub-behaviour can surface.
// Exactly one of its fields is meaningful per value; Kind selects which.
type GossipEventKind int

const (
	// GossipEventMessage is a gossip message delivered on one or more
	// subscribed topics.
	GossipEventMessage GossipEventKind = iota
	// GossipEventSubscribed reports a peer subscribing to a topic.
	GossipEventSubscribed
	// GossipEventUnsubscribed reports a peer unsubscribing from a topic.
	// The behaviour ignores these (§4.A).
	GossipEventUnsubscribed
)

// GossipEvent is a single event raised by the gossip sub-behaviour.
type GossipEvent struct {
	Kind GossipEventKind

	// Populated for GossipEventMessage.
	Source PeerID
	ID     MessageID
	Topics []TopicHash
	Data   []byte

	// Populated for GossipEventSubscribed/GossipEventUnsubscribed.
	Peer  PeerID
	Topic TopicHash
}

// GossipPubSub is the gossip sub-behaviour's contract: topic
// subscribe/unsubscribe, publish, re-propagation of an already-received
// message, and a non-blocking event source.
type GossipPubSub interface {
	// Subscribe joins topic, reporting whether the subscription set
	// changed.
	Subscribe(topic Topic) bool
	// Unsubscribe leaves topic, reporting whether the subscription set
	// changed.
	Unsubscribe(topic Topic) bool
	// Publish sends data on topic. The behaviour calls this once per
	// topic in the message's topic list, with identical data each time.
	Publish(topic Topic, data []byte)
	// Propagate re-forwards an already-received message to mesh peers
	// other than source. Called only after the chain has judged the
	// message forwardable.
	Propagate(source PeerID, id MessageID)
	// Events returns the channel the sub-behaviour posts GossipEvent
	// values to. Receives must be non-blocking from the behaviour's
	// perspective: Poll selects on it with a default case.
	Events() <-chan GossipEvent
}
