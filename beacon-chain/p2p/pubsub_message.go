package p2p

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/eth2core/beacon-p2p/beacon-chain/core/types"
	"github.com/eth2core/beacon-p2p/beacon-chain/p2p/encoder"
)

// PubsubMessage is a decoded gossip payload tagged by which topic produced
// it. Exactly one of Block/Attestation is set.
type PubsubMessage struct {
	Block       *types.SignedBeaconBlock
	Attestation *types.Attestation
}

var errUnknownTopic = errors.New("no known topic in message topic set")

// Encode serializes m against topics, returning the bytes to publish
// identically on each of them. The behaviour never inspects the result; it
// only forwards it to gossipsub.
func (m *PubsubMessage) Encode(topics []Topic) ([]byte, error) {
	e := &encoder.SszNetworkEncoder{}
	buf := new(bytes.Buffer)
	switch topicKind(topics) {
	case TopicBeaconBlock:
		if m.Block == nil {
			return nil, errors.New("PubsubMessage: nil block for beacon_block topic")
		}
		if _, err := e.EncodeGossip(buf, m.Block); err != nil {
			return nil, err
		}
	case TopicBeaconAttestation:
		if m.Attestation == nil {
			return nil, errors.New("PubsubMessage: nil attestation for beacon_attestation topic")
		}
		if _, err := e.EncodeGossip(buf, m.Attestation); err != nil {
			return nil, err
		}
	default:
		return nil, errUnknownTopic
	}
	return buf.Bytes(), nil
}

// DecodePubsubMessage decodes data against the topic set it arrived on.
// Decode failures are non-fatal: the caller logs and drops the message
// (§4.A).
func DecodePubsubMessage(topics []TopicHash, data []byte) (*PubsubMessage, error) {
	e := &encoder.SszNetworkEncoder{}
	buf := bytes.NewReader(data)
	switch topicHashKind(topics) {
	case TopicBeaconBlock:
		block := &types.SignedBeaconBlock{}
		if err := e.DecodeGossip(buf, block); err != nil {
			return nil, errors.Wrap(err, "decode beacon_block gossip")
		}
		return &PubsubMessage{Block: block}, nil
	case TopicBeaconAttestation:
		att := &types.Attestation{Data: &types.AttestationData{}}
		if err := e.DecodeGossip(buf, att); err != nil {
			return nil, errors.Wrap(err, "decode beacon_attestation gossip")
		}
		return &PubsubMessage{Attestation: att}, nil
	default:
		return nil, errUnknownTopic
	}
}

func topicKind(topics []Topic) Topic {
	for _, t := range topics {
		if t == TopicBeaconBlock || t == TopicBeaconAttestation {
			return t
		}
	}
	return ""
}

func topicHashKind(topics []TopicHash) Topic {
	for _, t := range topics {
		switch Topic(t) {
		case TopicBeaconBlock:
			return TopicBeaconBlock
		case TopicBeaconAttestation:
			return TopicBeaconAttestation
		}
	}
	return ""
}
