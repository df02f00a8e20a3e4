package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrayguard/parityscan/lib/disk"
	"github.com/arrayguard/parityscan/lib/state"
)

func TestResolveSymlinkEqual(t *testing.T) {
	d := disk.New("disk1", "/data/disk1", 1)
	l := &disk.Link{Sub: "a.lnk", LinkTo: "target", Kind: disk.Symlink}
	d.InsertLink(l)
	l.Present = false

	r := New(d, &state.State{Disks: []*disk.Disk{d}}, nil)
	err := r.ResolveSymlink("a.lnk", "target")

	require.NoError(t, err)
	assert.Equal(t, 1, r.Counters.Equal)
	assert.True(t, l.Present)
}

func TestResolveSymlinkChangeOverwritesTarget(t *testing.T) {
	d := disk.New("disk1", "/data/disk1", 1)
	l := &disk.Link{Sub: "a.lnk", LinkTo: "old-target", Kind: disk.Symlink}
	d.InsertLink(l)
	l.Present = false

	r := New(d, &state.State{Disks: []*disk.Disk{d}}, nil)
	err := r.ResolveSymlink("a.lnk", "new-target")

	require.NoError(t, err)
	assert.Equal(t, 1, r.Counters.Change)
	assert.Equal(t, "new-target", l.LinkTo)
}

func TestResolveSymlinkInsertsNew(t *testing.T) {
	d := disk.New("disk1", "/data/disk1", 1)
	r := New(d, &state.State{Disks: []*disk.Disk{d}}, nil)

	err := r.ResolveSymlink("new.lnk", "target")

	require.NoError(t, err)
	assert.Equal(t, 1, r.Counters.Insert)
	require.Len(t, r.DeferredLinks, 1)
	assert.Equal(t, disk.Symlink, r.DeferredLinks[0].Kind)
}
