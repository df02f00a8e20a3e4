// Package walker is the Directory Walker (§4.2): a recursive traversal that
// classifies every entry as regular/symlink/dir/other, applies filters
// before any stat syscall it can avoid, and hands regular files and
// symlinks off to the Identity Resolver and Link Resolver it is
// constructed with.
package walker

import (
	"sort"

	"github.com/arrayguard/parityscan/lib/fsutil"
	"github.com/arrayguard/parityscan/lib/log"
	"github.com/arrayguard/parityscan/lib/portability"
)

// PathFilter is the predicate interface the scan core consumes filter-rule
// evaluation through (§6 Inputs), implemented concretely by lib/filter.
type PathFilter interface {
	Match(pathname string) bool
}

// FileResolver is the subset of the Identity Resolver the walker drives.
type FileResolver interface {
	ResolveFile(sub string, st portability.Stat, physical uint64, hasPhysical bool) error
}

// LinkResolver is the subset of the Link Resolver the walker drives for
// symlinks; hardlinks are resolved directly by the Identity Resolver and
// never reach this interface.
type LinkResolver interface {
	ResolveSymlink(sub, linkTo string) error
}

// DirRegistrar is called once per empty leaf directory discovered.
type DirRegistrar interface {
	RegisterEmptyDir(sub string) error
}

// Filters bundles the four predicates §4.2 applies, each optional (nil
// filters never exclude anything).
type Filters struct {
	Hidden  PathFilter // applied to raw dirent names, before stat
	Content PathFilter // applied to the content-file name, before stat
	Path    PathFilter // applied to regular-file and symlink sub-paths
	Dir     PathFilter // applied to directory sub-paths
}

// Walker holds the collaborators threaded through a single disk's walk.
type Walker struct {
	Prober       portability.Prober
	Filters      Filters
	FileResolver FileResolver
	LinkResolver LinkResolver
	Dirs         DirRegistrar
	Logger       log.DebugLogger

	// PersistentInodes controls step 2's stable sort: true sorts the
	// working list by inode for readdir-vs-stat locality; false preserves
	// readdir order.
	PersistentInodes bool

	// DeviceID is the disk's mount-boundary check value (§4.2 step 6).
	// Zero means "don't cross-check" (e.g. platforms without device ids).
	DeviceID uint64

	// PhysicalProbe requests computing a physical offset for regular
	// files (§4.2 step 4); ignored if the Prober can't supply one.
	PhysicalProbe bool
}

type entry struct {
	name string
	stat portability.Stat
}

// Walk traverses absDir (the filesystem path) whose scan-relative name is
// sub ("" at the root). It returns processed = true iff at least one file
// or link inside, recursively, was classified — callers register sub as
// an EmptyDir when processed is false (§4.2 step 6).
func (w *Walker) Walk(absDir, sub string) (processed bool, err error) {
	names, err := w.readDirNames(absDir)
	if err != nil {
		return false, err
	}

	entries := make([]entry, 0, len(names))
	for _, name := range names {
		if name == "." || name == ".." || name == "" {
			continue
		}
		if w.Filters.Hidden != nil && w.Filters.Hidden.Match(name) {
			continue
		}
		if w.Filters.Content != nil && w.Filters.Content.Match(name) {
			continue
		}
		childAbs := joinPath(absDir, name)
		st, statErr := w.Prober.Lstat(childAbs)
		if statErr != nil {
			return processed, statErr
		}
		entries = append(entries, entry{name: name, stat: st})
	}

	if w.PersistentInodes {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].stat.Inode < entries[j].stat.Inode
		})
	}

	for _, e := range entries {
		childSub := joinSub(sub, e.name)
		childAbs := joinPath(absDir, e.name)

		switch e.stat.Kind {
		case portability.Regular:
			if w.Filters.Path != nil && w.Filters.Path.Match(childSub) {
				continue
			}
			var physical uint64
			hasPhysical := false
			if w.PhysicalProbe {
				if off, ok, physErr := w.Prober.Filephy(childAbs, e.stat); physErr == nil && ok {
					physical, hasPhysical = off, true
				}
			}
			if ex, ok, exErr := w.Prober.LstatEx(childAbs, e.stat); exErr == nil && ok {
				e.stat = ex
			}
			if err := w.FileResolver.ResolveFile(childSub, e.stat, physical, hasPhysical); err != nil {
				return processed, err
			}
			processed = true

		case portability.SymlinkKind:
			if w.Filters.Path != nil && w.Filters.Path.Match(childSub) {
				continue
			}
			target, rlErr := w.Prober.Readlink(childAbs)
			if rlErr != nil {
				return processed, rlErr
			}
			if err := w.LinkResolver.ResolveSymlink(childSub, target); err != nil {
				return processed, err
			}
			processed = true

		case portability.Directory:
			if w.Filters.Dir != nil && w.Filters.Dir.Match(childSub) {
				continue
			}
			if w.DeviceID != 0 && e.stat.Device != 0 && e.stat.Device != w.DeviceID {
				w.logf("scan:skip:mountpoint:%s", childSub)
				continue
			}
			childProcessed, walkErr := w.Walk(childAbs, childSub)
			if walkErr != nil {
				return processed, walkErr
			}
			if childProcessed {
				processed = true
			} else {
				if err := w.Dirs.RegisterEmptyDir(childSub); err != nil {
					return processed, err
				}
			}

		default:
			w.logf("warning: unsupported entry %s (%s), skipping", childSub, portability.StatDesc(e.stat))
		}
	}

	return processed, nil
}

func (w *Walker) readDirNames(absDir string) ([]string, error) {
	return fsutil.ReadDirnames(absDir, false)
}

func (w *Walker) logf(format string, args ...interface{}) {
	if w.Logger != nil {
		w.Logger.Printf(format, args...)
	}
}

func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

func joinSub(sub, name string) string {
	if sub == "" {
		return name
	}
	return sub + "/" + name
}
