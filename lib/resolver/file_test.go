package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrayguard/parityscan/lib/disk"
	"github.com/arrayguard/parityscan/lib/portability"
	"github.com/arrayguard/parityscan/lib/scanerror"
	"github.com/arrayguard/parityscan/lib/state"
)

func newTestResolver(d *disk.Disk) *Resolver {
	st := &state.State{
		Disks:   []*disk.Disk{d},
		Options: state.Options{BlockSize: 4096},
	}
	return New(d, st, nil)
}

func TestResolveFileEqual(t *testing.T) {
	d := disk.New("disk1", "/data/disk1", 1)
	f := &disk.File{Sub: "a.txt", Size: 10, MtimeSec: 100, Inode: 1}
	require.NoError(t, d.IndexFile(f))
	d.InsertFile(f, false)
	f.Present = false // as it would be before the next scan's walk

	r := newTestResolver(d)
	err := r.ResolveFile("a.txt", portability.Stat{Size: 10, MtimeSec: 100, Inode: 1, Nlink: 1}, 0, false)

	require.NoError(t, err)
	assert.Equal(t, 1, r.Counters.Equal)
	assert.True(t, f.Present)
}

func TestResolveFileMove(t *testing.T) {
	d := disk.New("disk1", "/data/disk1", 1)
	f := &disk.File{Sub: "old.txt", Size: 10, MtimeSec: 100, Inode: 1}
	require.NoError(t, d.IndexFile(f))
	d.InsertFile(f, false)
	f.Present = false

	r := newTestResolver(d)
	err := r.ResolveFile("new.txt", portability.Stat{Size: 10, MtimeSec: 100, Inode: 1, Nlink: 1}, 0, false)

	require.NoError(t, err)
	assert.Equal(t, 1, r.Counters.Move)
	assert.Equal(t, "new.txt", f.Sub)
	_, stillUnderOld := d.LookupPath("old.txt")
	assert.False(t, stillUnderOld)
	got, ok := d.LookupPath("new.txt")
	require.True(t, ok)
	assert.Same(t, f, got)
	assert.True(t, r.State.NeedWrite)
}

func TestResolveFileChangeShrinkingToZeroIsFatalWithoutForceZero(t *testing.T) {
	d := disk.New("disk1", "/data/disk1", 1)
	f := &disk.File{Sub: "a.txt", Size: 10, MtimeSec: 100, Inode: 1}
	require.NoError(t, d.IndexFile(f))
	d.InsertFile(f, false)
	f.Present = false

	r := newTestResolver(d)
	err := r.ResolveFile("a.txt", portability.Stat{Size: 0, MtimeSec: 200, Inode: 1, Nlink: 1}, 0, false)

	require.Error(t, err)
	var fatal *scanerror.Fatal
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, scanerror.KindZeroSizeRegression, fatal.Kind)
}

func TestResolveFileChangeShrinkingToZeroAllowedWithForceZero(t *testing.T) {
	d := disk.New("disk1", "/data/disk1", 1)
	f := &disk.File{Sub: "a.txt", Size: 10, MtimeSec: 100, Inode: 1}
	require.NoError(t, d.IndexFile(f))
	d.InsertFile(f, false)
	f.Present = false

	r := newTestResolver(d)
	r.State.Options.ForceZero = true
	err := r.ResolveFile("a.txt", portability.Stat{Size: 0, MtimeSec: 200, Inode: 1, Nlink: 1}, 0, false)

	require.NoError(t, err)
	assert.Equal(t, 1, r.Counters.Change)
	require.Len(t, r.DeferredFiles, 1)
	assert.Equal(t, uint64(0), r.DeferredFiles[0].Size)
}

func TestResolveFileRestoreOnPersistentInodeDisk(t *testing.T) {
	d := disk.New("disk1", "/data/disk1", 1)
	f := &disk.File{Sub: "a.txt", Size: 10, MtimeSec: 100, Inode: 1}
	require.NoError(t, d.IndexFile(f))
	d.InsertFile(f, false)
	f.Present = false

	r := newTestResolver(d)
	// Same path, same content, new inode: a backup restoration.
	err := r.ResolveFile("a.txt", portability.Stat{Size: 10, MtimeSec: 100, Inode: 2, Nlink: 1}, 0, false)

	require.NoError(t, err)
	assert.Equal(t, 1, r.Counters.Restore)
	got, ok := d.LookupInode(2)
	require.True(t, ok)
	assert.Same(t, f, got)
	_, staleInode := d.LookupInode(1)
	assert.False(t, staleInode)
}

func TestResolveFileNonPersistentInodesClassifiesEqualNotRestore(t *testing.T) {
	d := disk.New("disk1", "/data/disk1", 1)
	d.HasNotPersistentInodes = true
	f := &disk.File{Sub: "a.txt", Size: 10, MtimeSec: 100, WithoutInode: true}
	require.NoError(t, d.IndexFile(f))
	d.InsertFile(f, false)
	f.Present = false

	r := newTestResolver(d)
	err := r.ResolveFile("a.txt", portability.Stat{Size: 10, MtimeSec: 100, Inode: 7, Nlink: 1}, 0, false)

	require.NoError(t, err)
	assert.Equal(t, 1, r.Counters.Equal)
	assert.Equal(t, 0, r.Counters.Restore)
}

func TestResolveFileHardlink(t *testing.T) {
	d := disk.New("disk1", "/data/disk1", 1)
	f := &disk.File{Sub: "a.txt", Size: 10, MtimeSec: 100, Inode: 1, Present: true}
	require.NoError(t, d.IndexFile(f))
	d.InsertFile(f, false)

	r := newTestResolver(d)
	err := r.ResolveFile("b.txt", portability.Stat{Size: 10, MtimeSec: 100, Inode: 1, Nlink: 2}, 0, false)

	require.NoError(t, err)
	require.Len(t, r.DeferredLinks, 1)
	assert.Equal(t, disk.Hardlink, r.DeferredLinks[0].Kind)
	assert.Equal(t, "a.txt", r.DeferredLinks[0].LinkTo)
	assert.Equal(t, 1, r.Counters.Insert)
}

func TestResolveFileInsertsNewFile(t *testing.T) {
	d := disk.New("disk1", "/data/disk1", 1)
	r := newTestResolver(d)

	err := r.ResolveFile("new.txt", portability.Stat{Size: 4096, MtimeSec: 1, Inode: 9, Nlink: 1}, 0, false)

	require.NoError(t, err)
	assert.Equal(t, 1, r.Counters.Insert)
	require.Len(t, r.DeferredFiles, 1)
	assert.Equal(t, "new.txt", r.DeferredFiles[0].Sub)
	assert.Len(t, r.DeferredFiles[0].Blocks, 1)
}
