// Package fileutil provides file system utility functions.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FindFileCaseInsensitive searches for a file with the given name in the
// specified directory. The search is case-insensitive, which is useful for
// cross-platform compatibility: asset paths written in a script often
// differ in case from the files on disk.
//
// Returns the actual path to the file if found.
func FindFileCaseInsensitive(dir, filename string) (string, error) {
	searchName := strings.ToLower(filename)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.ToLower(entry.Name()) == searchName {
			return filepath.Join(dir, entry.Name()), nil
		}
	}

	return "", fmt.Errorf("file not found: %s (searched in %s)", filename, dir)
}

// ResolveCaseInsensitive resolves a possibly wrong-case relative path under
// root, walking it one component at a time. A component that exists with
// the exact case is used directly.
func ResolveCaseInsensitive(root, rel string) (string, error) {
	path := root
	components := strings.Split(filepath.ToSlash(rel), "/")
	for i, comp := range components {
		if comp == "" {
			continue
		}
		candidate := filepath.Join(path, comp)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
			continue
		}
		if i == len(components)-1 {
			found, err := FindFileCaseInsensitive(path, comp)
			if err != nil {
				return "", err
			}
			path = found
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return "", fmt.Errorf("failed to read directory %s: %w", path, err)
		}
		matched := ""
		for _, entry := range entries {
			if entry.IsDir() && strings.EqualFold(entry.Name(), comp) {
				matched = entry.Name()
				break
			}
		}
		if matched == "" {
			return "", fmt.Errorf("directory not found: %s (searched in %s)", comp, path)
		}
		path = filepath.Join(path, matched)
	}
	return path, nil
}
