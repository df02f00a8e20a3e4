//go:build linux

package portability

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// fibmap is the FIBMAP ioctl request number (include/uapi/linux/fs.h). It is
// not exported by golang.org/x/sys/unix, so it is defined here directly.
const fibmap = 0x1

// Unix is the Prober implementation for Linux, backed by
// golang.org/x/sys/unix rather than the low-level syscall package.
type Unix struct{}

var _ Prober = Unix{}

func (Unix) Lstat(path string) (Stat, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return Stat{}, err
	}
	return Stat{
		Size:      uint64(st.Size),
		MtimeSec:  st.Mtim.Sec,
		MtimeNsec: int32(st.Mtim.Nsec),
		Inode:     st.Ino,
		Nlink:     uint32(st.Nlink),
		Device:    uint64(st.Dev),
		Kind:      kindFromMode(st.Mode),
	}, nil
}

// LstatEx has no refinement on Linux: st.Ino from Lstat is already the
// persistent (where the filesystem supports it) inode number.
func (Unix) LstatEx(_ string, st Stat) (Stat, bool, error) {
	return st, false, nil
}

// Filephy asks the filesystem for the physical block holding the start of
// the file via the FIBMAP ioctl. FIBMAP is only implemented by a subset of
// filesystems (ext2/3/4, xfs, btrfs among them); where the ioctl fails or
// isn't supported we report ok=false and the caller falls back to
// directory-walk order.
func (Unix) Filephy(path string, st Stat) (uint64, bool, error) {
	if st.Size == 0 {
		return 0, false, nil
	}
	fd, err := unix.Open(path, unix.O_RDONLY, 0)
	if err != nil {
		return 0, false, nil
	}
	defer unix.Close(fd)

	block := uint32(0)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(fibmap),
		uintptr(unsafe.Pointer(&block)))
	if errno != 0 {
		return 0, false, nil
	}
	return uint64(block), true, nil
}

func (Unix) FSInfo(dir string) (bool, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(dir, &st); err != nil {
		return false, err
	}
	switch st.Type {
	case 0x9123683e, // BTRFS_SUPER_MAGIC
		0xEF53,    // EXT2/3/4
		0x01021994, // TMPFS has no persistent inodes across remounts
		0x58465342: // XFS_SUPER_MAGIC
		return st.Type != 0x01021994, nil
	default:
		return true, nil
	}
}

func (Unix) Readlink(path string) (string, error) {
	buf := make([]byte, unix.PathMax)
	n, err := unix.Readlink(path, buf)
	if err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}

func kindFromMode(mode uint32) Kind {
	switch mode & unix.S_IFMT {
	case unix.S_IFREG:
		return Regular
	case unix.S_IFLNK:
		return SymlinkKind
	case unix.S_IFDIR:
		return Directory
	default:
		return Other
	}
}
