// Package block defines a file's block-vector records and the dense,
// tagged parity-position array ("blockarr") each Disk maintains over them.
package block

import "github.com/arrayguard/parityscan/lib/hash"

// State is the relationship between a block's content and the parity that
// covers it.
type State int

const (
	// BLK means parity reflects this block's hash.
	BLK State = iota
	// CHG means the block's content changed since parity was last updated.
	CHG
	// NEW means the block has never been included in parity.
	NEW
	// REP is carried through opaquely; only external collaborators
	// (the sync/fix subsystems) write it. The scan core never produces it
	// and treats it as a read-only pass-through value.
	REP
)

func (s State) String() string {
	switch s {
	case BLK:
		return "BLK"
	case CHG:
		return "CHG"
	case NEW:
		return "NEW"
	case REP:
		return "REP"
	default:
		return "INVALID"
	}
}

// Block is one element of a File's block vector.
type Block struct {
	ParityPos uint64
	State     State
	Hash      hash.Hash
}

// Deleted is a tombstone occupying a parity-position slot after its owning
// File has been removed from the inventory. It carries the last known hash
// so parity can still be verified or retired by later phases.
type Deleted struct {
	ParityPos uint64
	Hash      hash.Hash
}

// Slot is one element of a Disk's dense parity-position array. It is a sum
// type of {Empty, live block reference, Deleted reference}, modeled as an
// interface implemented by three unexported types rather than the reference
// implementation's pointer-tagging trick.
type Slot interface {
	isSlot()
}

type emptySlot struct{}

func (emptySlot) isSlot() {}

// Empty is the shared empty-slot value.
var Empty Slot = emptySlot{}

type liveSlot struct {
	block *Block
}

func (liveSlot) isSlot() {}

// Live wraps a non-owning reference to a block inside some File's
// block vector.
func Live(b *Block) Slot {
	return liveSlot{block: b}
}

type deletedSlot struct {
	deleted *Deleted
}

func (deletedSlot) isSlot() {}

// DeletedSlot wraps a reference to a tombstone record.
func DeletedSlot(d *Deleted) Slot {
	return deletedSlot{deleted: d}
}

// IsEmpty reports whether slot is the empty sentinel (or nil).
func IsEmpty(slot Slot) bool {
	if slot == nil {
		return true
	}
	_, ok := slot.(emptySlot)
	return ok
}

// AsLive returns the live block referenced by slot, if any.
func AsLive(slot Slot) (*Block, bool) {
	ls, ok := slot.(liveSlot)
	if !ok {
		return nil, false
	}
	return ls.block, true
}

// AsDeleted returns the Deleted record referenced by slot, if any.
func AsDeleted(slot Slot) (*Deleted, bool) {
	ds, ok := slot.(deletedSlot)
	if !ok {
		return nil, false
	}
	return ds.deleted, true
}

// Array is the dense, growable parity-position array. Index i is
// "parity position" i; slots are never removed, only retagged.
type Array struct {
	slots []Slot
}

// NewArray returns an empty Array.
func NewArray() *Array {
	return &Array{}
}

// Len returns the number of slots currently allocated.
func (a *Array) Len() int {
	return len(a.slots)
}

// At returns the slot at position p, or Empty if p is past the end.
func (a *Array) At(p uint64) Slot {
	if p >= uint64(len(a.slots)) {
		return Empty
	}
	if a.slots[p] == nil {
		return Empty
	}
	return a.slots[p]
}

// Set overwrites the slot at position p, growing the array with Empty
// slots as needed.
func (a *Array) Set(p uint64, slot Slot) {
	a.grow(p + 1)
	a.slots[p] = slot
}

func (a *Array) grow(n uint64) {
	for uint64(len(a.slots)) < n {
		a.slots = append(a.slots, Empty)
	}
}
