package resolver

import (
	"github.com/arrayguard/parityscan/lib/block"
	"github.com/arrayguard/parityscan/lib/disk"
	"github.com/arrayguard/parityscan/lib/portability"
	"github.com/arrayguard/parityscan/lib/scanerror"
)

// ResolveFile implements §4.3's three-step decision procedure for one
// observed regular file. It satisfies walker.FileResolver.
func (r *Resolver) ResolveFile(sub string, st portability.Stat, physical uint64, hasPhysical bool) error {
	// Step 1 — inode lookup.
	if f, ok := r.Disk.LookupInode(st.Inode); ok {
		if f.MatchesMetadata(st.Size, st.MtimeSec, st.MtimeNsec) {
			if f.Present {
				if st.Nlink > 1 {
					return r.resolveHardlinkRecord(sub, f.Sub)
				}
				return scanerror.Invariant(
					"file already present for inode %d at %q, observed again at %q with nlink 1",
					st.Inode, f.Sub, sub)
			}
			f.Present = true
			if f.MtimeNsec == disk.NSecInvalid && st.MtimeNsec != disk.NSecInvalid {
				f.MtimeNsec = st.MtimeNsec
				r.markDirty()
			}
			if f.Sub != sub {
				oldSub := f.Sub
				f.Sub = sub
				r.Disk.RenamePath(f, oldSub)
				r.markDirty()
				r.Counters.Add(Move)
				r.guiLog("move", sub, oldSub)
				return nil
			}
			r.Counters.Add(Equal)
			r.guiLog("equal", sub, "")
			return nil
		}
		// Inode matches but other metadata differs: pessimistically treat F
		// as stale (reused inode on a non-persistent-inode filesystem) and
		// fall through to the path lookup.
		if f.Present {
			return scanerror.Invariant(
				"inode %d already present at %q with mismatched metadata observed again at %q",
				st.Inode, f.Sub, sub)
		}
		r.Disk.DetachInode(f)
	}

	// Step 2 — path lookup.
	if g, ok := r.Disk.LookupPath(sub); ok {
		oldInode := g.Inode
		wasWithoutInode := g.WithoutInode
		if wasWithoutInode {
			r.Disk.AttachInode(g, st.Inode)
		} else if g.Inode == st.Inode {
			return scanerror.Invariant(
				"inode %d for path %q should have matched in step 1", st.Inode, sub)
		}
		if g.Present {
			return scanerror.Invariant("duplicate path already present: %q", sub)
		}

		if g.MatchesMetadata(st.Size, st.MtimeSec, st.MtimeNsec) {
			g.Present = true
			if g.MtimeNsec == disk.NSecInvalid && st.MtimeNsec != disk.NSecInvalid {
				g.MtimeNsec = st.MtimeNsec
				r.markDirty()
			}
			if !r.Disk.HasNotPersistentInodes && oldInode != st.Inode {
				if !wasWithoutInode {
					r.Disk.DetachInode(g)
					r.Disk.AttachInode(g, st.Inode)
				}
				r.markDirty()
				r.Counters.Add(Restore)
				r.guiLog("restore", sub, "")
				return nil
			}
			r.Counters.Add(Equal)
			r.guiLog("equal", sub, "")
			return nil
		}

		// Path matches, metadata differs: Change.
		if g.Size != 0 && st.Size == 0 && !r.State.Options.ForceZero {
			return scanerror.ZeroSizeRegression(sub)
		}
		if err := r.Disk.RemoveFile(g, r.State.Options.ClearUndeterminateHash); err != nil {
			return err
		}
		return r.insertNewFile(sub, st, physical, hasPhysical, Change)
	}

	// Step 3 — insert.
	return r.insertNewFile(sub, st, physical, hasPhysical, Insert)
}

func (r *Resolver) insertNewFile(sub string, st portability.Stat, physical uint64, hasPhysical bool, cl Classification) error {
	f := &disk.File{
		Sub:               sub,
		Size:              st.Size,
		MtimeSec:          st.MtimeSec,
		MtimeNsec:         st.MtimeNsec,
		Inode:             st.Inode,
		PhysicalOffset:    physical,
		HasPhysicalOffset: hasPhysical,
		Present:           true,
		Blocks:            make([]block.Block, blockCount(st.Size, r.State.Options.BlockSize)),
	}
	if err := r.Disk.IndexFile(f); err != nil {
		return err
	}
	r.DeferredFiles = append(r.DeferredFiles, f)
	r.markDirty()
	r.Counters.Add(cl)
	r.guiLog(cl.String(), sub, "")
	return nil
}

func blockCount(size, blockSize uint64) uint64 {
	if blockSize == 0 {
		return 0
	}
	return (size + blockSize - 1) / blockSize
}
