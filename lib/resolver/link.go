package resolver

import (
	"github.com/arrayguard/parityscan/lib/disk"
	"github.com/arrayguard/parityscan/lib/scanerror"
)

// ResolveSymlink implements the Link half of §4.4 for a symbolic link.
// It satisfies walker.LinkResolver.
func (r *Resolver) ResolveSymlink(sub, linkTo string) error {
	return r.resolveLink(sub, linkTo, disk.Symlink)
}

// resolveHardlinkRecord is invoked from the Identity Resolver's Step 1
// (§4.3) when an inode match with nlink > 1 identifies a hardlink to an
// already-present file, rather than from the Directory Walker directly.
func (r *Resolver) resolveHardlinkRecord(sub, linkTo string) error {
	return r.resolveLink(sub, linkTo, disk.Hardlink)
}

func (r *Resolver) resolveLink(sub, linkTo string, kind disk.LinkKind) error {
	l, ok := r.Disk.LookupLink(sub)
	if !ok {
		nl := &disk.Link{Sub: sub, LinkTo: linkTo, Kind: kind, Present: true}
		r.DeferredLinks = append(r.DeferredLinks, nl)
		r.markDirty()
		r.Counters.Add(Insert)
		r.guiLog("insert", sub, "")
		return nil
	}
	if l.Present {
		return scanerror.Invariant("duplicate link path already present: %q", sub)
	}
	l.Present = true
	if l.LinkTo == linkTo && l.Kind == kind {
		r.Counters.Add(Equal)
		r.guiLog("equal", sub, "")
		return nil
	}
	l.LinkTo = linkTo
	l.Kind = kind
	r.markDirty()
	r.Counters.Add(Change)
	r.guiLog("change", sub, "")
	return nil
}
