package resolver

import (
	"github.com/arrayguard/parityscan/lib/disk"
	"github.com/arrayguard/parityscan/lib/scanerror"
)

// RegisterEmptyDir implements the EmptyDir half of §4.4, called by the
// Directory Walker once a subtree's recursive walk returns processed =
// false. It satisfies walker.DirRegistrar.
func (r *Resolver) RegisterEmptyDir(sub string) error {
	e, ok := r.Disk.LookupDir(sub)
	if !ok {
		r.DeferredDirs = append(r.DeferredDirs, &disk.EmptyDir{Sub: sub, Present: true})
		r.markDirty()
		r.Counters.Add(Insert)
		r.guiLog("insert", sub, "")
		return nil
	}
	if e.Present {
		return scanerror.Invariant("duplicate empty dir path already present: %q", sub)
	}
	e.Present = true
	r.Counters.Add(Equal)
	r.guiLog("equal", sub, "")
	return nil
}
