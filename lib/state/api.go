// Package state holds the global process state the scan core mutates:
// the list of disks, cross-cutting option flags, and the need_write flag
// shared across all disks in a run. It is passed explicitly through every
// operation rather than reached for as an ambient global (§9 Design
// Notes).
package state

import "github.com/arrayguard/parityscan/lib/disk"

// Order is the user-selected ordering used to sort a disk's deferred
// file-insert list before parity positions are assigned.
type Order int

const (
	// Physical orders by on-disk physical block offset, optimizing
	// sequential I/O during later sync/fix/scrub phases.
	Physical Order = iota
	// Inode orders by inode number.
	Inode
	// Alpha orders by path, lexicographically.
	Alpha
	// Dir preserves the directory-walk order (no re-sort).
	Dir
)

func (o Order) String() string {
	switch o {
	case Physical:
		return "physical"
	case Inode:
		return "inode"
	case Alpha:
		return "alpha"
	case Dir:
		return "dir"
	default:
		return "unknown"
	}
}

// Options are the cross-cutting flags §6 lists as inputs to the scan
// core, already parsed and validated by an external collaborator (the
// command-line/config layer in cmd/scan).
type Options struct {
	ForceOrder             Order
	ForceZero              bool
	ForceEmpty             bool
	Gui                    bool
	Verbose                bool
	BlockSize              uint64
	ClearUndeterminateHash bool
	CommandName            string
}

// State is the single process-wide object the scan core mutates. It is
// constructed by the caller from a previously persisted inventory and
// handed to the Scan Driver.
type State struct {
	Disks     []*disk.Disk
	Options   Options
	NeedWrite bool
}

// MarkDirty sets NeedWrite. Every mutation documented as setting
// need_write in §4 should call this rather than writing the field
// directly, so it reads as an explicit state transition at call sites.
func (s *State) MarkDirty() {
	s.NeedWrite = true
}

// DiskByName returns the named disk, or nil if not present.
func (s *State) DiskByName(name string) *disk.Disk {
	for _, d := range s.Disks {
		if d.Name == name {
			return d
		}
	}
	return nil
}
