package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrayguard/parityscan/lib/disk"
	"github.com/arrayguard/parityscan/lib/state"
)

func TestRegisterEmptyDirEqual(t *testing.T) {
	d := disk.New("disk1", "/data/disk1", 1)
	e := &disk.EmptyDir{Sub: "leaf"}
	d.InsertDir(e)
	e.Present = false

	r := New(d, &state.State{Disks: []*disk.Disk{d}}, nil)
	err := r.RegisterEmptyDir("leaf")

	require.NoError(t, err)
	assert.Equal(t, 1, r.Counters.Equal)
	assert.True(t, e.Present)
}

func TestRegisterEmptyDirInsertsNew(t *testing.T) {
	d := disk.New("disk1", "/data/disk1", 1)
	r := New(d, &state.State{Disks: []*disk.Disk{d}}, nil)

	err := r.RegisterEmptyDir("leaf")

	require.NoError(t, err)
	assert.Equal(t, 1, r.Counters.Insert)
	require.Len(t, r.DeferredDirs, 1)
	assert.Equal(t, "leaf", r.DeferredDirs[0].Sub)
}
