// Package metrics publishes per-disk scan counters and scan duration as
// tricorder metrics, the same way the teacher's lib/fsrateio publishes
// throughput: a dynamic getter closure registered once per disk under
// tricorder.RegisterMetric.
package metrics

import (
	"sync"
	"time"

	"github.com/Cloud-Foundations/tricorder/go/tricorder"
	"github.com/Cloud-Foundations/tricorder/go/tricorder/units"

	"github.com/arrayguard/parityscan/lib/resolver"
)

// Registrar publishes the counters of one or more disks under a common
// tricorder path prefix, e.g. "/scan/<disk-name>/equal".
type Registrar struct {
	prefix string

	mu       sync.Mutex
	counters map[string]*resolver.Counters
	duration map[string]time.Duration
}

// New returns a Registrar rooted at prefix (typically "/scan").
func New(prefix string) *Registrar {
	return &Registrar{
		prefix:   prefix,
		counters: make(map[string]*resolver.Counters),
		duration: make(map[string]time.Duration),
	}
}

// RegisterDisk registers gauges for diskName's six classification
// counters, reading live from counters on every tricorder poll. It must
// be called once per disk name for the lifetime of the process.
func (rg *Registrar) RegisterDisk(diskName string, counters *resolver.Counters) error {
	rg.mu.Lock()
	rg.counters[diskName] = counters
	rg.mu.Unlock()

	base := rg.prefix + "/" + diskName
	fields := []struct {
		suffix string
		get    func() uint
		desc   string
	}{
		{"equal", func() uint { return uint(counters.Equal) }, "entries unchanged since the previous scan"},
		{"move", func() uint { return uint(counters.Move) }, "entries found at a new path, same identity"},
		{"restore", func() uint { return uint(counters.Restore) }, "entries recreated with a new inode"},
		{"change", func() uint { return uint(counters.Change) }, "entries whose content or metadata changed"},
		{"remove", func() uint { return uint(counters.Remove) }, "entries no longer present on disk"},
		{"insert", func() uint { return uint(counters.Insert) }, "entries newly observed on disk"},
	}
	for _, f := range fields {
		get := f.get
		if err := tricorder.RegisterMetric(base+"/"+f.suffix, get, units.None, f.desc); err != nil {
			return err
		}
	}
	return nil
}

// RegisterScanDuration registers a gauge reporting the wall-clock
// duration of diskName's most recent scan.
func (rg *Registrar) RegisterScanDuration(diskName string) error {
	path := rg.prefix + "/" + diskName + "/scan-duration"
	return tricorder.RegisterMetric(path, func() time.Duration {
		rg.mu.Lock()
		defer rg.mu.Unlock()
		return rg.duration[diskName]
	}, units.Second, "wall-clock duration of the most recent scan of this disk")
}

// RecordScanDuration stores d as diskName's most recently observed scan
// duration, read back by the gauge registered in RegisterScanDuration.
func (rg *Registrar) RecordScanDuration(diskName string, d time.Duration) {
	rg.mu.Lock()
	rg.duration[diskName] = d
	rg.mu.Unlock()
}
