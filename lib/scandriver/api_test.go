package scandriver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrayguard/parityscan/lib/disk"
	"github.com/arrayguard/parityscan/lib/portability"
	"github.com/arrayguard/parityscan/lib/state"
	"github.com/arrayguard/parityscan/lib/walker"
)

// fixedInodesProber pins FSInfo to "persistent inodes", so tests are not
// at the mercy of whatever filesystem backs the test runner's temp
// directory (which may itself be a tmpfs without persistence guarantees).
type fixedInodesProber struct {
	portability.Unix
}

func (fixedInodesProber) FSInfo(string) (bool, error) { return true, nil }

// duplicatePhysicalProber reports the same physical offset for every
// regular file, the way a filesystem without real FIBMAP support would if
// it echoed back a constant instead of failing outright.
type duplicatePhysicalProber struct {
	fixedInodesProber
}

func (duplicatePhysicalProber) Filephy(string, portability.Stat) (uint64, bool, error) {
	return 1, true, nil
}

func newTestState(t *testing.T, root string) *state.State {
	t.Helper()
	var prober portability.Unix
	st, err := prober.Lstat(root)
	require.NoError(t, err)
	return &state.State{
		Disks: []*disk.Disk{disk.New("disk1", root, st.Device)},
		Options: state.Options{
			ForceOrder: state.Alpha,
			BlockSize:  4096,
		},
	}
}

func TestScanInsertsThenIsIdempotent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.txt"), []byte("world"), 0o644))

	drv := New(fixedInodesProber{}, walker.Filters{}, nil)

	st := newTestState(t, root)
	report, err := drv.Run(context.Background(), st)
	require.NoError(t, err)
	counters := report.PerDisk["disk1"]
	assert.Equal(t, 2, counters.Insert)
	assert.True(t, st.NeedWrite)

	st2 := newTestState(t, root)
	st2.Disks[0] = st.Disks[0]
	report2, err := drv.Run(context.Background(), st2)
	require.NoError(t, err)
	counters2 := report2.PerDisk["disk1"]
	assert.Equal(t, 2, counters2.Equal)
	assert.Equal(t, 0, counters2.Insert)
	assert.Equal(t, 0, counters2.Change)
	assert.Equal(t, 0, counters2.Remove)
}

func TestScanDetectsMove(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0o644))

	drv := New(fixedInodesProber{}, walker.Filters{}, nil)
	st := newTestState(t, root)
	_, err := drv.Run(context.Background(), st)
	require.NoError(t, err)

	require.NoError(t, os.Rename(filepath.Join(root, "a.txt"), filepath.Join(root, "b.txt")))

	st2 := newTestState(t, root)
	st2.Disks[0] = st.Disks[0]
	report, err := drv.Run(context.Background(), st2)
	require.NoError(t, err)
	assert.Equal(t, 1, report.PerDisk["disk1"].Move)
}

func TestScanMassRemovalGuardTrips(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("world"), 0o644))

	drv := New(fixedInodesProber{}, walker.Filters{}, nil)
	st := newTestState(t, root)
	_, err := drv.Run(context.Background(), st)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, "a.txt")))
	require.NoError(t, os.Remove(filepath.Join(root, "b.txt")))

	st2 := newTestState(t, root)
	st2.Disks[0] = st.Disks[0]
	_, err = drv.Run(context.Background(), st2)
	require.Error(t, err)
}

func TestScanDuplicatePhysicalOffsetsSetsWarningAndFlag(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("world"), 0o644))

	drv := New(duplicatePhysicalProber{}, walker.Filters{}, nil)

	st := newTestState(t, root)
	st.Options.ForceOrder = state.Physical
	report, err := drv.Run(context.Background(), st)
	require.NoError(t, err)

	assert.True(t, st.Disks[0].HasNotReliablePhysical)
	assert.NotEmpty(t, report.Warnings)
}

func TestScanMassRemovalGuardSkippedWithForceEmpty(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0o644))

	drv := New(fixedInodesProber{}, walker.Filters{}, nil)
	st := newTestState(t, root)
	_, err := drv.Run(context.Background(), st)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, "a.txt")))

	st2 := newTestState(t, root)
	st2.Disks[0] = st.Disks[0]
	st2.Options.ForceEmpty = true
	_, err = drv.Run(context.Background(), st2)
	require.NoError(t, err)
}
