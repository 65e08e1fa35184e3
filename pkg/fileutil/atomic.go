package fileutil

import (
	"fmt"
	"os"
)

// WriteFileAtomic writes data to path so readers never observe a partial
// file: the bytes go to a sibling temp file first, which is then renamed
// over the target. The rename is atomic on POSIX file systems.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
