// Package scandriver is the Scan Driver (§4.6): it orchestrates, for
// every disk, the non-persistent-inode pre-pass, the directory walk, the
// absence sweep, the deferred sort-and-insert phase, and, once every disk
// has been scanned, the mass-removal guard and summary reporting.
package scandriver

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/arrayguard/parityscan/lib/disk"
	"github.com/arrayguard/parityscan/lib/format"
	"github.com/arrayguard/parityscan/lib/log"
	"github.com/arrayguard/parityscan/lib/portability"
	"github.com/arrayguard/parityscan/lib/resolver"
	"github.com/arrayguard/parityscan/lib/scanerror"
	"github.com/arrayguard/parityscan/lib/state"
	"github.com/arrayguard/parityscan/lib/walker"
)

// Report is the outcome of one Run: a per-disk tally, a fresh UUID per
// run (RunID; no log line includes it), and whether any disk differed
// from its previously persisted inventory.
type Report struct {
	RunID         string
	PerDisk       map[string]resolver.Counters
	PerDiskTime   map[string]time.Duration
	Warnings      []string
	AnyDifference bool
}

// Driver holds the collaborators shared across every disk in a run.
type Driver struct {
	Prober  portability.Prober
	Filters walker.Filters
	Logger  log.DebugLogger
}

// New returns a Driver ready to run over a state.State.
func New(prober portability.Prober, filters walker.Filters, logger log.DebugLogger) *Driver {
	return &Driver{Prober: prober, Filters: filters, Logger: logger}
}

// Run scans every disk in st, in order, then applies the post-all-disks
// mass-removal guard and emits the summary. It returns the partial Report
// even on a fatal error, so callers can still log what was classified
// before the failure.
func (drv *Driver) Run(ctx context.Context, st *state.State) (*Report, error) {
	report := &Report{
		RunID:       uuid.NewString(),
		PerDisk:     make(map[string]resolver.Counters, len(st.Disks)),
		PerDiskTime: make(map[string]time.Duration, len(st.Disks)),
	}

	var massRemovalDisks []string
	for _, d := range st.Disks {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		diskStart := time.Now()
		counters, err := drv.scanDisk(ctx, d, st)
		report.PerDiskTime[d.Name] = time.Since(diskStart)
		if err != nil {
			return report, err
		}
		report.PerDisk[d.Name] = counters

		if counters.Equal == 0 && counters.Move == 0 && counters.Restore == 0 &&
			(counters.Remove != 0 || counters.Change != 0) {
			massRemovalDisks = append(massRemovalDisks, d.Name)
		}
		if d.HasNotReliablePhysical {
			report.Warnings = append(report.Warnings, fmt.Sprintf(
				"disk %s: duplicate physical offsets observed, physical ordering is unreliable on this disk", d.Name))
		}
		if d.HasNotPersistentInodes {
			report.Warnings = append(report.Warnings, fmt.Sprintf(
				"disk %s: filesystem does not guarantee persistent inodes", d.Name))
		}
		if hasDifference(counters) {
			report.AnyDifference = true
		}
	}

	if len(massRemovalDisks) > 0 && !st.Options.ForceEmpty {
		return report, scanerror.MassRemoval(massRemovalDisks)
	}

	drv.summarize(report, st.Options.Gui)
	return report, nil
}

func (drv *Driver) scanDisk(ctx context.Context, d *disk.Disk, st *state.State) (resolver.Counters, error) {
	hasPersistent, err := drv.Prober.FSInfo(d.RootDir)
	if err != nil {
		return resolver.Counters{}, scanerror.IO(d.RootDir, err)
	}
	if !hasPersistent {
		d.HasNotPersistentInodes = true
		d.ForgetAllInodes()
	}

	// Presence marks belong to one scan: clear any left by an earlier Run
	// over the same inventory before the walk sets them again.
	for _, f := range d.Files() {
		f.Present = false
	}
	for _, l := range d.Links() {
		l.Present = false
	}
	for _, e := range d.Dirs() {
		e.Present = false
	}

	res := resolver.New(d, st, drv.Logger)
	w := &walker.Walker{
		Prober:           drv.Prober,
		Filters:          drv.Filters,
		FileResolver:     res,
		LinkResolver:     res,
		Dirs:             res,
		Logger:           drv.Logger,
		PersistentInodes: !d.HasNotPersistentInodes,
		DeviceID:         d.DeviceID,
		PhysicalProbe:    st.Options.ForceOrder == state.Physical,
	}
	if _, err := w.Walk(d.RootDir, ""); err != nil {
		return resolver.Counters{}, wrapFatal(d.RootDir, err)
	}
	if err := ctx.Err(); err != nil {
		return resolver.Counters{}, err
	}

	// Absence sweep (§4.6 step 3): anything still unmarked PRESENT after
	// the walk no longer exists on disk.
	for _, f := range append([]*disk.File(nil), d.Files()...) {
		if f.Present {
			continue
		}
		if err := d.RemoveFile(f, st.Options.ClearUndeterminateHash); err != nil {
			return resolver.Counters{}, err
		}
		res.NoteRemove(f.Sub)
	}
	for _, l := range append([]*disk.Link(nil), d.Links()...) {
		if l.Present {
			continue
		}
		d.RemoveLink(l)
		res.NoteRemove(l.Sub)
	}
	for _, e := range append([]*disk.EmptyDir(nil), d.Dirs()...) {
		if e.Present {
			continue
		}
		d.RemoveDir(e)
		res.NoteRemove(e.Sub)
	}

	// Sort and insert (§4.6 steps 4-5).
	sortDeferredFiles(res.DeferredFiles, st.Options.ForceOrder)

	var lastPhysical uint64
	havePhysical := false
	duplicates := 0
	for _, f := range res.DeferredFiles {
		d.InsertFile(f, st.Options.ClearUndeterminateHash)
		if st.Options.ForceOrder == state.Physical && f.HasPhysicalOffset {
			if havePhysical && f.PhysicalOffset == lastPhysical {
				duplicates++
			}
			lastPhysical = f.PhysicalOffset
			havePhysical = true
		}
	}
	if duplicates > 0 {
		d.HasNotReliablePhysical = true
	}
	for _, l := range res.DeferredLinks {
		d.InsertLink(l)
	}
	for _, e := range res.DeferredDirs {
		d.InsertDir(e)
	}

	return res.Counters, nil
}

func sortDeferredFiles(files []*disk.File, order state.Order) {
	switch order {
	case state.Physical:
		sort.SliceStable(files, func(i, j int) bool {
			return files[i].PhysicalOffset < files[j].PhysicalOffset
		})
	case state.Inode:
		sort.SliceStable(files, func(i, j int) bool {
			return files[i].Inode < files[j].Inode
		})
	case state.Alpha:
		sort.SliceStable(files, func(i, j int) bool {
			return files[i].Sub < files[j].Sub
		})
	case state.Dir:
		// Preserve directory-walk order: no sort.
	}
}

// summarize logs the run's warnings and, when gui is set, the gui-mode
// summary lines. The six summary:<key>:<value> counter lines are the
// literal output contract (one key, one value each), summed across every
// disk; per-disk and duration breakdowns are reported separately under a
// disk: prefix so they never collide with a summary: consumer's parser.
func (drv *Driver) summarize(report *Report, gui bool) {
	if drv.Logger == nil {
		return
	}
	for _, w := range report.Warnings {
		drv.Logger.Print("warning: " + w)
	}
	if !gui {
		return
	}

	var total resolver.Counters
	names := make([]string, 0, len(report.PerDisk))
	for name, c := range report.PerDisk {
		names = append(names, name)
		total.Equal += c.Equal
		total.Move += c.Move
		total.Restore += c.Restore
		total.Change += c.Change
		total.Remove += c.Remove
		total.Insert += c.Insert
	}
	sort.Strings(names)

	drv.Logger.Printf("summary:equal:%d", total.Equal)
	drv.Logger.Printf("summary:moved:%d", total.Move)
	drv.Logger.Printf("summary:restored:%d", total.Restore)
	drv.Logger.Printf("summary:changed:%d", total.Change)
	drv.Logger.Printf("summary:removed:%d", total.Remove)
	drv.Logger.Printf("summary:added:%d", total.Insert)

	for _, name := range names {
		c := report.PerDisk[name]
		drv.Logger.Printf("disk:%s:equal:%d", name, c.Equal)
		drv.Logger.Printf("disk:%s:moved:%d", name, c.Move)
		drv.Logger.Printf("disk:%s:restored:%d", name, c.Restore)
		drv.Logger.Printf("disk:%s:changed:%d", name, c.Change)
		drv.Logger.Printf("disk:%s:removed:%d", name, c.Remove)
		drv.Logger.Printf("disk:%s:added:%d", name, c.Insert)
		drv.Logger.Printf("disk:%s:duration:%s", name, format.Duration(report.PerDiskTime[name]))
	}

	verdict := "equal"
	if report.AnyDifference {
		verdict = "diff"
	}
	drv.Logger.Printf("summary:exit:%s", verdict)
}

func hasDifference(c resolver.Counters) bool {
	return c.Move != 0 || c.Restore != 0 || c.Change != 0 || c.Remove != 0 || c.Insert != 0
}

func wrapFatal(path string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*scanerror.Fatal); ok {
		return err
	}
	return scanerror.IO(path, err)
}
