// Package fsutil holds small filesystem helpers shared by the scan core's
// directory traversal. Adapted from the teacher's lib/fsutil, trimmed to
// the one read-only helper the Directory Walker needs; the teacher's
// mutating helpers (CopyToFile, ForceRemove, MakeMutable, ...) have no
// counterpart in a read-only reconciliation scan.
package fsutil

import "os"

// ReadDirnames returns the names of dirname's entries, in readdir order
// (§4.2 step 1: "." and ".." are never returned by Readdirnames). If
// ignoreMissing is true and dirname does not exist, it returns (nil, nil)
// instead of an error.
func ReadDirnames(dirname string, ignoreMissing bool) ([]string, error) {
	file, err := os.Open(dirname)
	if err != nil {
		if ignoreMissing && os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()
	return file.Readdirnames(-1)
}
