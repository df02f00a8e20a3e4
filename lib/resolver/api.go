// Package resolver is the Identity Resolver (§4.3) and the Link &
// EmptyDir Resolver (§4.4): given one observed filesystem entry and a
// Disk's current inventory, it decides Equal / Move / Restore / Change /
// Hardlink / Insert / Remove and mutates the inventory accordingly.
package resolver

import (
	"github.com/arrayguard/parityscan/lib/disk"
	"github.com/arrayguard/parityscan/lib/log"
	"github.com/arrayguard/parityscan/lib/state"
)

// Classification is one of the six outcomes §4.3 lists for an observed
// entry (Equal / Move / Restore / Change / Hardlink / Insert), plus Remove
// (produced only by the absence sweep, not by resolution itself).
type Classification int

const (
	Equal Classification = iota
	Move
	Restore
	Change
	Hardlink
	Insert
	Remove
)

func (c Classification) String() string {
	switch c {
	case Equal:
		return "equal"
	case Move:
		return "move"
	case Restore:
		return "restore"
	case Change:
		return "change"
	case Hardlink:
		return "hardlink"
	case Insert:
		return "insert"
	case Remove:
		return "remove"
	default:
		return "unknown"
	}
}

// Counters tallies classifications for one disk, per run (§3 "Global scan
// state").
type Counters struct {
	Equal, Move, Restore, Change, Remove, Insert int
}

// Add increments the field matching cl. Hardlink counts as Insert, per
// §4.4: a hardlink record is a new Link, counted the same as any other
// newly-added record.
func (c *Counters) Add(cl Classification) {
	switch cl {
	case Equal:
		c.Equal++
	case Move:
		c.Move++
	case Restore:
		c.Restore++
	case Change:
		c.Change++
	case Remove:
		c.Remove++
	case Insert, Hardlink:
		c.Insert++
	}
}

// Resolver holds the per-disk collaborators and deferred state threaded
// through one disk's resolution phase: the three deferred-insert lists
// (§4.6 step 4-5) and the running Counters.
type Resolver struct {
	Disk   *disk.Disk
	State  *state.State
	Logger log.DebugLogger

	Counters Counters

	DeferredFiles []*disk.File
	DeferredLinks []*disk.Link
	DeferredDirs  []*disk.EmptyDir
}

// New returns a Resolver bound to d, sharing st's global options and
// need_write flag.
func New(d *disk.Disk, st *state.State, logger log.DebugLogger) *Resolver {
	return &Resolver{Disk: d, State: st, Logger: logger}
}

func (r *Resolver) guiLog(verb, sub, sub2 string) {
	if r.State == nil || !r.State.Options.Gui || r.Logger == nil {
		return
	}
	if sub2 == "" {
		r.Logger.Printf("scan:%s:%s:%s", verb, r.Disk.Name, sub)
	} else {
		r.Logger.Printf("scan:%s:%s:%s:%s", verb, r.Disk.Name, sub, sub2)
	}
}

// NoteRemove records a Remove classification produced by the Scan
// Driver's absence sweep (§4.6 step 3), which runs outside resolution
// proper but shares the same counters and gui-log convention.
func (r *Resolver) NoteRemove(sub string) {
	r.Counters.Add(Remove)
	r.guiLog("remove", sub, "")
	r.markDirty()
}

func (r *Resolver) markDirty() {
	if r.State != nil {
		r.State.MarkDirty()
	}
}
