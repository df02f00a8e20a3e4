// Package blockalloc implements the Block Allocator: the mechanics of
// binding a file's block vector to positions in a disk's parity-position
// array, and of retiring those positions to tombstones when the file goes
// away. It knows nothing about files, paths or inodes — only about
// block.Array, block.Block vectors and the first-free-block cursor, so it
// has no dependency on the disk package that embeds it.
package blockalloc

import (
	"github.com/arrayguard/parityscan/lib/block"
	"github.com/arrayguard/parityscan/lib/hash"
	"github.com/arrayguard/parityscan/lib/scanerror"
)

// RemoveBlocks retires every block in blocks, in order, converting each to
// a Deleted tombstone written back into arr at the same parity position.
// It lowers *firstFree to the smallest freed position, matching the
// reference implementation's "redundant but kept for completeness"
// bookkeeping (see DESIGN.md): harmless because removal always precedes
// insertion within a scan, but cheap enough to keep the invariant exact
// even if that ordering is ever relaxed.
//
// Returns the Deleted records in the same order as blocks, for the caller
// to append to the disk's deletedlist.
func RemoveBlocks(arr *block.Array, firstFree *uint64, blocks []block.Block, clearUndeterminateHash bool) ([]*block.Deleted, error) {
	deleted := make([]*block.Deleted, 0, len(blocks))
	for i := range blocks {
		b := &blocks[i]
		if b.ParityPos < *firstFree {
			*firstFree = b.ParityPos
		}
		switch b.State {
		case block.BLK:
			// Parity still describes this hash; carry it forward.
		case block.CHG, block.NEW:
			if !clearUndeterminateHash {
				b.Hash = zeroHash(b.Hash)
			}
		default:
			return nil, scanerror.Invariant(
				"block at parity position %d has unremovable state %s",
				b.ParityPos, b.State)
		}
		d := &block.Deleted{ParityPos: b.ParityPos, Hash: b.Hash}
		arr.Set(b.ParityPos, block.DeletedSlot(d))
		deleted = append(deleted, d)
	}
	return deleted, nil
}

// InsertBlocks binds each element of blocks to a parity position starting
// at *firstFree, growing arr as needed. EMPTY slots become NEW blocks;
// slots holding a Deleted tombstone become CHG blocks that inherit the
// tombstone's hash (the tombstone's own stored hash is zeroed first unless
// clearUndeterminateHash is set, for the same undetermined-parity reason
// as RemoveBlocks). Returns whether at least one block was allocated.
func InsertBlocks(arr *block.Array, firstFree *uint64, blocks []block.Block, clearUndeterminateHash bool) bool {
	cursor := *firstFree
	allocated := false
	for i := range blocks {
		for !slotIsFree(arr, cursor) {
			cursor++
		}
		blocks[i].ParityPos = cursor
		slot := arr.At(cursor)
		if d, ok := block.AsDeleted(slot); ok {
			blocks[i].State = block.CHG
			blocks[i].Hash = d.Hash
			if !clearUndeterminateHash {
				d.Hash = zeroHash(d.Hash)
			}
		} else {
			blocks[i].State = block.NEW
		}
		arr.Set(cursor, block.Live(&blocks[i]))
		allocated = true
		cursor++
	}
	if allocated {
		*firstFree = cursor
	}
	return allocated
}

func slotIsFree(arr *block.Array, pos uint64) bool {
	_, isLive := block.AsLive(arr.At(pos))
	return !isLive
}

func zeroHash(hash.Hash) hash.Hash { return hash.Hash{} }
