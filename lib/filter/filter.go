package filter

import (
	"bufio"
	"io"
	"os"
)

// LoadLines reads a filter rule file, one rule per line, skipping blank
// lines and '#'-prefixed comments. Adapted from the teacher's
// lib/fsutil.LoadLines.
func LoadLines(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadLines(file)
}

// ReadLines is LoadLines over an already-open reader.
func ReadLines(reader io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(reader)
	lines := make([]string, 0)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 1 || line[0] == '#' {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return lines, err
	}
	return lines, nil
}

// ReplaceStrings rewrites every rule line in place with replaceFunc,
// e.g. to expand a disk-name placeholder before compiling.
func (r *RegexRules) ReplaceStrings(replaceFunc func(string) string) {
	if r == nil {
		return
	}
	for index, str := range r.FilterLines {
		r.FilterLines[index] = replaceFunc(str)
	}
	r.Compile()
}
