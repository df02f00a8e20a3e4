// Package filter is a concrete, regexp-based implementation of the
// path/dir/content/hidden predicates the scan core consumes only through
// an interface (see lib/walker.PathFilter). Filter-rule evaluation itself
// is out of the scan core's scope per the spec; this package is the
// ambient collaborator a real binary wires in, adapted from the teacher's
// lib/filter.
package filter

import "regexp"

// RegexRules is one ordered list of regular-expression rules, each
// anchored to the start of the path being tested. A line consisting of
// "!", wherever it appears in the list, inverts the default/match return
// values, matching the teacher's lib/filter semantics.
type RegexRules struct {
	FilterLines   []string
	expressions   []*regexp.Regexp
	invertMatches bool
}

// New compiles filterLines into a RegexRules. Blank lines are dropped.
func New(filterLines []string) (*RegexRules, error) {
	r := &RegexRules{FilterLines: make([]string, 0, len(filterLines))}
	for _, line := range filterLines {
		if line != "" {
			r.FilterLines = append(r.FilterLines, line)
		}
	}
	if err := r.Compile(); err != nil {
		return nil, err
	}
	return r, nil
}

// Load reads filter lines from a file, one rule per line, '#'-prefixed
// lines treated as comments, via LoadLines.
func Load(filename string) (*RegexRules, error) {
	lines, err := LoadLines(filename)
	if err != nil {
		return nil, err
	}
	return New(lines)
}

// Compile builds FilterLines into matchable expressions. New and Load call
// it eagerly; it is exported so a caller constructing a RegexRules by hand
// can compile after setting FilterLines directly.
func (r *RegexRules) Compile() error {
	r.expressions = make([]*regexp.Regexp, len(r.FilterLines))
	for index, line := range r.FilterLines {
		if line == "!" {
			r.invertMatches = true
			continue
		}
		expr, err := regexp.Compile("^" + line)
		if err != nil {
			return err
		}
		r.expressions[index] = expr
	}
	return nil
}

// Match reports whether pathname matches this rule set.
func (r *RegexRules) Match(pathname string) bool {
	if r == nil {
		return false
	}
	defaultRetval := false
	matchRetval := true
	if r.invertMatches {
		defaultRetval = true
		matchRetval = false
	}
	for _, expr := range r.expressions {
		if expr != nil && expr.MatchString(pathname) {
			return matchRetval
		}
	}
	return defaultRetval
}
