// Package db defines the persistent block/state store capability the core
// reads from (§6). The store itself — its backend, its writes — is external
// to this core; block import is the chain's job, not the sync package's.
// This core only ever reads.
package db

import (
	"context"

	"github.com/eth2core/beacon-p2p/beacon-chain/core/types"
	"github.com/eth2core/beacon-p2p/beacon-chain/state"
)

// BlockRootSlot pairs a block root with its slot: the same pair
// RevIterBlockRoots passes to its callback, there as two separate arguments.
type BlockRootSlot struct {
	Root types.Root
	Slot uint64
}

// Store is the read-only subset of the persistent store the sync core
// depends on. Reads are safe to call concurrently (§5); nothing here
// writes.
type Store interface {
	// Block returns the block stored at root, or nil if no such block
	// exists. A nil, nil return is not an error: callers log and skip
	// (§7), they do not treat a miss as exceptional.
	Block(ctx context.Context, root types.Root) (*types.SignedBeaconBlock, error)

	// HasBlock reports whether root is present, without paying the cost
	// of decoding the block body.
	HasBlock(ctx context.Context, root types.Root) (bool, error)

	// State returns the state stored at root, or nil if absent.
	State(ctx context.Context, root types.Root) (state.BeaconState, error)

	// RevIterBlockRoots walks (root, slot) pairs backwards from head,
	// matching rev_iter_block_roots in §6. The callback returns false to
	// stop iteration early.
	RevIterBlockRoots(ctx context.Context, fn func(types.Root, uint64) (bool, error)) error
}
