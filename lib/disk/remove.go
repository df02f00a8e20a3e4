package disk

import (
	"github.com/arrayguard/parityscan/lib/blockalloc"
	"github.com/arrayguard/parityscan/lib/scanerror"
)

func dupPathErr(sub string) error {
	return scanerror.Invariant("duplicate path in inventory: %q", sub)
}

func dupInodeErr(inode uint64) error {
	return scanerror.Invariant("duplicate inode in inventory: %d", inode)
}

// RemoveFile runs the Block Allocator's delete path over f's blocks
// (converting each to a Deleted tombstone reachable from the block array
// and deletedlist) and then removes f from pathset, filelist and (unless
// already detached) inodeset.
func (d *Disk) RemoveFile(f *File, clearUndeterminateHash bool) error {
	deleted, err := blockalloc.RemoveBlocks(d.BlockArr, &d.FirstFreeBlock, f.Blocks, clearUndeterminateHash)
	if err != nil {
		return err
	}
	d.DeletedList = append(d.DeletedList, deleted...)

	delete(d.pathset, f.Sub)
	if !f.WithoutInode {
		delete(d.inodeset, f.Inode)
	}
	d.files = removeFilePointer(d.files, f)
	return nil
}

func removeFilePointer(files []*File, target *File) []*File {
	for i, f := range files {
		if f == target {
			return append(files[:i], files[i+1:]...)
		}
	}
	return files
}

// RemoveLink removes l from the link containers.
func (d *Disk) RemoveLink(l *Link) {
	delete(d.linkset, l.Sub)
	d.links = removeLinkPointer(d.links, l)
}

func removeLinkPointer(links []*Link, target *Link) []*Link {
	for i, l := range links {
		if l == target {
			return append(links[:i], links[i+1:]...)
		}
	}
	return links
}

// RemoveDir removes e from the dir containers.
func (d *Disk) RemoveDir(e *EmptyDir) {
	delete(d.dirset, e.Sub)
	d.dirs = removeDirPointer(d.dirs, e)
}

func removeDirPointer(dirs []*EmptyDir, target *EmptyDir) []*EmptyDir {
	for i, e := range dirs {
		if e == target {
			return append(dirs[:i], dirs[i+1:]...)
		}
	}
	return dirs
}
