package p2p

import (
	"crypto/sha256"
	"encoding/binary"

	lru "github.com/hashicorp/golang-lru"
	"github.com/eth2core/beacon-p2p/beacon-chain/params"
)

// seenGossipMessages deduplicates gossip redelivery across a noisy mesh: a
// message with identical content and topic set is admitted at most once
// while it remains in the cache (§3). It is not persistence and is not
// security-critical, only a redelivery filter.
type seenGossipMessages struct {
	cache *lru.Cache
}

func newSeenGossipMessages() *seenGossipMessages {
	c, err := lru.New(params.SeenGossipMessagesCacheSize)
	if err != nil {
		// lru.New only errors on a non-positive size, which
		// SeenGossipMessagesCacheSize never is.
		panic(err)
	}
	return &seenGossipMessages{cache: c}
}

// gossipKey hashes a message's topics and data into a single comparable
// cache key, mirroring the Rust original's GossipsubMessage content-based
// equality.
type gossipKey [32]byte

func keyFor(topics []TopicHash, data []byte) gossipKey {
	h := sha256.New()
	for _, t := range topics {
		var l [8]byte
		binary.LittleEndian.PutUint64(l[:], uint64(len(t)))
		h.Write(l[:])
		h.Write([]byte(t))
	}
	h.Write(data)
	var k gossipKey
	copy(k[:], h.Sum(nil))
	return k
}

// observe records (topics, data) as seen and reports whether it had already
// been seen. A false return means this is the first sighting and the
// message should be decoded and forwarded to the processor.
func (s *seenGossipMessages) observe(topics []TopicHash, data []byte) (alreadySeen bool) {
	k := keyFor(topics, data)
	_, alreadySeen = s.cache.Get(k)
	s.cache.Add(k, struct{}{})
	return alreadySeen
}
