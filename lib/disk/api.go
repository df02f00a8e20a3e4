// Package disk is the Indexed Disk Inventory: the per-disk in-memory model
// of files, links, empty dirs and the block-array parity map, with inode,
// path and name indices kept consistent on every mutation.
package disk

import "github.com/arrayguard/parityscan/lib/block"

// NSecInvalid is the sentinel MtimeNsec value for legacy records that
// never captured sub-second mtime resolution. It is treated as matching
// any observed nanosecond value.
const NSecInvalid int32 = -1

// File represents a regular file previously or currently known on a disk.
type File struct {
	Sub               string
	Size              uint64
	MtimeSec          int64
	MtimeNsec         int32
	Inode             uint64
	PhysicalOffset    uint64
	HasPhysicalOffset bool
	Blocks            []block.Block

	Present      bool
	WithoutInode bool
}

// MatchesMetadata reports whether size/mtime observed on disk match this
// File's recorded metadata, honoring the NSEC_INVALID lenience rule used
// throughout §4.3.
func (f *File) MatchesMetadata(size uint64, mtimeSec int64, mtimeNsec int32) bool {
	if f.Size != size || f.MtimeSec != mtimeSec {
		return false
	}
	return f.MtimeNsec == mtimeNsec || f.MtimeNsec == NSecInvalid
}

// LinkKind distinguishes a symbolic link from a hardlink record.
type LinkKind int

const (
	Symlink LinkKind = iota
	Hardlink
)

func (k LinkKind) String() string {
	if k == Hardlink {
		return "hardlink"
	}
	return "symlink"
}

// Link represents a symbolic link, or a hardlink record pointing at the
// sub-path of the first-seen File sharing its inode.
type Link struct {
	Sub     string
	LinkTo  string
	Kind    LinkKind
	Present bool
}

// EmptyDir represents a leaf directory with no protected content, tracked
// explicitly so it can be re-created on restore.
type EmptyDir struct {
	Sub     string
	Present bool
}

// Disk is one data disk under protection.
type Disk struct {
	Name                   string
	RootDir                string
	DeviceID               uint64
	HasNotPersistentInodes bool
	HasNotReliablePhysical bool
	FirstFreeBlock         uint64

	files    []*File
	inodeset map[uint64]*File
	pathset  map[string]*File

	links   []*Link
	linkset map[string]*Link

	dirs   []*EmptyDir
	dirset map[string]*EmptyDir

	BlockArr    *block.Array
	DeletedList []*block.Deleted
}

// New returns an empty Disk ready to be populated by a scan or by loading
// a previously persisted inventory.
func New(name, rootDir string, deviceID uint64) *Disk {
	return &Disk{
		Name:     name,
		RootDir:  rootDir,
		DeviceID: deviceID,
		inodeset: make(map[uint64]*File),
		pathset:  make(map[string]*File),
		linkset:  make(map[string]*Link),
		dirset:   make(map[string]*EmptyDir),
		BlockArr: block.NewArray(),
	}
}

// Files returns the files currently in the inventory, in filelist order
// (the order later used to sweep for absence).
func (d *Disk) Files() []*File { return d.files }

// Links returns the links currently in the inventory, in linklist order.
func (d *Disk) Links() []*Link { return d.links }

// Dirs returns the empty dirs currently in the inventory, in dirlist order.
func (d *Disk) Dirs() []*EmptyDir { return d.dirs }

// LookupInode returns the File indexed under inode, if any.
func (d *Disk) LookupInode(inode uint64) (*File, bool) {
	f, ok := d.inodeset[inode]
	return f, ok
}

// LookupPath returns the File indexed under sub, if any.
func (d *Disk) LookupPath(sub string) (*File, bool) {
	f, ok := d.pathset[sub]
	return f, ok
}

// LookupLink returns the Link indexed under sub, if any.
func (d *Disk) LookupLink(sub string) (*Link, bool) {
	l, ok := d.linkset[sub]
	return l, ok
}

// LookupDir returns the EmptyDir indexed under sub, if any.
func (d *Disk) LookupDir(sub string) (*EmptyDir, bool) {
	e, ok := d.dirset[sub]
	return e, ok
}
