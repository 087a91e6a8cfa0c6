// Package dbtest provides an in-memory db.Store double for tests.
package dbtest

import (
	"context"
	"sort"

	"github.com/eth2core/beacon-p2p/beacon-chain/core/types"
	"github.com/eth2core/beacon-p2p/beacon-chain/state"
)

// MockStore is a simple map-backed db.Store.
type MockStore struct {
	Blocks map[types.Root]*types.SignedBeaconBlock
	States map[types.Root]state.BeaconState
}

// NewMockStore returns an empty store ready for SaveBlock/SaveState.
func NewMockStore() *MockStore {
	return &MockStore{
		Blocks: make(map[types.Root]*types.SignedBeaconBlock),
		States: make(map[types.Root]state.BeaconState),
	}
}

// SaveBlock indexes block under root, computed from the block's own
// HashTreeRoot.
func (s *MockStore) SaveBlock(block *types.SignedBeaconBlock) (types.Root, error) {
	root, err := block.Block.HashTreeRoot()
	if err != nil {
		return types.Root{}, err
	}
	s.Blocks[root] = block
	return root, nil
}

// SaveState indexes state under root.
func (s *MockStore) SaveState(root types.Root, st state.BeaconState) {
	s.States[root] = st
}

func (s *MockStore) Block(_ context.Context, root types.Root) (*types.SignedBeaconBlock, error) {
	return s.Blocks[root], nil
}

func (s *MockStore) HasBlock(_ context.Context, root types.Root) (bool, error) {
	_, ok := s.Blocks[root]
	return ok, nil
}

func (s *MockStore) State(_ context.Context, root types.Root) (state.BeaconState, error) {
	return s.States[root], nil
}

func (s *MockStore) RevIterBlockRoots(_ context.Context, fn func(types.Root, uint64) (bool, error)) error {
	type entry struct {
		root types.Root
		slot uint64
	}
	entries := make([]entry, 0, len(s.Blocks))
	for root, b := range s.Blocks {
		entries = append(entries, entry{root: root, slot: b.Block.Slot})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].slot > entries[j].slot })
	for _, e := range entries {
		cont, err := fn(e.root, e.slot)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return nil
}
