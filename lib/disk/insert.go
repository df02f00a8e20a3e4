package disk

import "github.com/arrayguard/parityscan/lib/blockalloc"

// IndexFile inserts a freshly observed File into the inode and path
// indices only. It does not touch filelist or the block array: per §4.3
// step 3, a new file is made findable for in-scan hardlink/rename
// detection immediately, but its blocks are allocated later, after all
// removals for the disk complete, so the Block Allocator can reuse freed
// parity positions.
//
// Returns an error if sub is already indexed (duplicate path), or if
// inode is already indexed (duplicate inode); both are invariant
// violations the Identity Resolver must have already ruled out.
func (d *Disk) IndexFile(f *File) error {
	if _, exists := d.pathset[f.Sub]; exists {
		return dupPathErr(f.Sub)
	}
	if !f.WithoutInode {
		if _, exists := d.inodeset[f.Inode]; exists {
			return dupInodeErr(f.Inode)
		}
		d.inodeset[f.Inode] = f
	}
	d.pathset[f.Sub] = f
	return nil
}

// RenamePath moves f's path-index entry from oldSub to f.Sub (which must
// already be set to the new value).
func (d *Disk) RenamePath(f *File, oldSub string) {
	delete(d.pathset, oldSub)
	d.pathset[f.Sub] = f
}

// AttachInode restores inode indexing for a File previously detached by
// DetachInode (the Step-1/Step-2 WITHOUT_INODE recovery dance of §4.3).
func (d *Disk) AttachInode(f *File, inode uint64) {
	f.Inode = inode
	f.WithoutInode = false
	d.inodeset[inode] = f
}

// DetachInode removes a File from the inode index and marks it findable
// only by path, per §4.3 step 1's pessimistic handling of an inode match
// whose other metadata disagrees.
func (d *Disk) DetachInode(f *File) {
	if !f.WithoutInode {
		delete(d.inodeset, f.Inode)
	}
	f.Inode = 0
	f.WithoutInode = true
}

// InsertFile runs the Block Allocator over f's (already length-set) block
// vector and appends f to filelist. f must already be indexed via
// IndexFile. This is the deferred-insertion primitive invoked by the Scan
// Driver once all of a disk's removals have completed.
func (d *Disk) InsertFile(f *File, clearUndeterminateHash bool) {
	blockalloc.InsertBlocks(d.BlockArr, &d.FirstFreeBlock, f.Blocks, clearUndeterminateHash)
	d.files = append(d.files, f)
}

// InsertLink adds a new Link to the link containers.
func (d *Disk) InsertLink(l *Link) {
	d.linkset[l.Sub] = l
	d.links = append(d.links, l)
}

// InsertDir adds a new EmptyDir to the dir containers.
func (d *Disk) InsertDir(e *EmptyDir) {
	d.dirset[e.Sub] = e
	d.dirs = append(d.dirs, e)
}

// ForgetAllInodes detaches every currently-known File from the inode
// index, per §4.6 step 1: the pre-pass run when the filesystem underneath
// a disk does not guarantee persistent inodes. It forces every identity
// decision in the upcoming walk onto the path axis, since §4.3 step 1
// will never find a match afterward.
func (d *Disk) ForgetAllInodes() {
	for _, f := range d.files {
		if !f.WithoutInode {
			delete(d.inodeset, f.Inode)
		}
		f.Inode = 0
		f.WithoutInode = true
	}
}
