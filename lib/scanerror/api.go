// Package scanerror defines the error dispositions of §7: fatal errors
// that abort a scan before any state change is persisted, distinguished
// from the plain errors returned by I/O calls so the driver can add
// path/guidance context before reporting them.
package scanerror

import "fmt"

// Kind classifies a fatal condition so callers can decide on exit
// guidance without string-matching error text.
type Kind int

const (
	// KindIO covers readdir/closedir/lstat/readlink failures.
	KindIO Kind = iota
	// KindInvariant covers internal invariant violations: duplicate
	// inode match, duplicate path match, bad block state.
	KindInvariant
	// KindZeroSizeRegression covers the zero-size safety gate.
	KindZeroSizeRegression
	// KindMassRemoval covers the post-scan mass-removal guard.
	KindMassRemoval
)

// Fatal is a scan-aborting error. Unlike a panic, it is recoverable by the
// driver's caller (e.g. to print usage guidance and exit with a specific
// code) without unwinding through deferred cleanup in an unexpected order.
type Fatal struct {
	Kind    Kind
	Path    string
	Message string
	Err     error
}

func (f *Fatal) Error() string {
	if f.Path != "" {
		return fmt.Sprintf("%s: %s", f.Path, f.Message)
	}
	return f.Message
}

func (f *Fatal) Unwrap() error { return f.Err }

// IO wraps an I/O error with the path that failed and exclude-rule
// guidance, matching §7's "fatal with path + suggested exclude rule".
func IO(path string, err error) *Fatal {
	return &Fatal{
		Kind: KindIO,
		Path: path,
		Message: fmt.Sprintf(
			"%s (consider adding an exclude rule for this path)", err),
		Err: err,
	}
}

// Invariant reports an internal invariant violation: a condition the
// algorithm proves cannot happen on a correct inventory, so it is not
// handled gracefully.
func Invariant(format string, args ...interface{}) *Fatal {
	return &Fatal{Kind: KindInvariant, Message: fmt.Sprintf(format, args...)}
}

// ZeroSizeRegression reports a file whose stored size was non-zero but is
// now observed as zero, without force_zero set.
func ZeroSizeRegression(sub string) *Fatal {
	return &Fatal{
		Kind: KindZeroSizeRegression,
		Path: sub,
		Message: "file shrank to zero size; this can happen after an " +
			"unclean shutdown on some filesystems (e.g. ext4) truncating " +
			"a file being written; pass force-zero to accept this as a " +
			"real change",
	}
}

// MassRemoval reports that one or more disks had only removals/changes and
// no equal/move/restore matches at all, suggesting an unmounted disk.
func MassRemoval(disks []string) *Fatal {
	return &Fatal{
		Kind: KindMassRemoval,
		Message: fmt.Sprintf(
			"disk(s) %v appear entirely missing content; pass force-empty "+
				"if this is expected", disks),
	}
}
