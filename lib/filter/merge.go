package filter

import "sort"

// Mergeable accumulates rule lines from several sources (e.g. a global
// filter file plus a per-disk override) into one deduplicated,
// deterministically-ordered RegexRules.
type Mergeable struct {
	lines map[string]struct{}
}

// Merge folds filter's rule lines into the accumulator. A nil filter
// (a "sparse" filter, in the teacher's terms — meaning "apply nothing")
// is a no-op.
func (mf *Mergeable) Merge(filter *RegexRules) {
	if filter == nil {
		return
	}
	if mf.lines == nil {
		mf.lines = make(map[string]struct{}, len(filter.FilterLines))
	}
	for _, line := range filter.FilterLines {
		mf.lines[line] = struct{}{}
	}
}

// Export compiles the accumulated lines into a RegexRules, or returns nil
// if nothing was ever merged in.
func (mf *Mergeable) Export() (*RegexRules, error) {
	if mf.lines == nil {
		return nil, nil
	}
	lines := make([]string, 0, len(mf.lines))
	for line := range mf.lines {
		lines = append(lines, line)
	}
	sort.Strings(lines)
	return New(lines)
}
