// Package portability is the small platform-probing interface the scan
// core depends on instead of calling lstat/readlink/statfs directly: one
// concrete implementation per platform, none of it exercised by the
// Directory Walker's own logic.
package portability


// Kind classifies a filesystem entry the way the Directory Walker needs
// to dispatch: regular, symlink, directory, or anything else (device,
// socket, fifo — unsupported, logged and skipped per §4.2 step 7).
type Kind int

const (
	Regular Kind = iota
	SymlinkKind
	Directory
	Other
)

// Stat is the subset of file metadata the scan core's algorithms consume,
// normalized away from any single platform's raw stat structure.
type Stat struct {
	Size       uint64
	MtimeSec   int64
	MtimeNsec  int32
	Inode      uint64
	Nlink      uint32
	Device     uint64
	Kind       Kind
	SpecialFmt string // description of a Kind == Other entry, read by StatDesc; the Linux Lstat leaves it empty
}

// Prober is the portability layer's contract (§6 Inputs): Lstat, the
// optional platform-specific inode refinement LstatEx, physical-offset
// probing, filesystem-capability probing, and readlink.
type Prober interface {
	// Lstat stats path without following a terminal symlink.
	Lstat(path string) (Stat, error)

	// LstatEx refines Inode using a more precise, platform-specific
	// mechanism where available (e.g. a real inode vs. a Windows file
	// index). ok is false where no refinement exists; st is unchanged.
	LstatEx(path string, st Stat) (refined Stat, ok bool, err error)

	// Filephy returns a physical on-disk ordering key for path, if the
	// platform can expose one.
	Filephy(path string, st Stat) (offset uint64, ok bool, err error)

	// FSInfo reports whether the filesystem containing dir guarantees
	// inode numbers survive unmount/remount.
	FSInfo(dir string) (hasPersistentInode bool, err error)

	// Readlink reads a symlink target, bounded by the platform's path
	// length limit.
	Readlink(path string) (string, error)
}

// StatDesc describes a special (Kind == Other) entry for a warning
// message, e.g. "character device" or "socket".
func StatDesc(st Stat) string {
	if st.SpecialFmt != "" {
		return st.SpecialFmt
	}
	return "special file (mode bits undetermined)"
}
