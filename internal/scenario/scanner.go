package scenario

import (
	"os"
	"path/filepath"
	"sort"
)

// FileError records a scenario file that failed to load.
type FileError struct {
	Path string
	Err  error
}

// ScanResult holds the scenarios discovered in a directory.
type ScanResult struct {
	Scenarios []Scenario
	Errors    []FileError
}

// ScanDir loads every scenario file directly inside dir. Files with other
// extensions are ignored. A missing directory yields an empty result.
func ScanDir(dir string) (ScanResult, error) {
	var result ScanResult

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return result, err
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if _, err := format(path); err != nil {
			continue
		}

		s, err := LoadFile(path)
		if err != nil {
			result.Errors = append(result.Errors, FileError{Path: path, Err: err})
			continue
		}
		result.Scenarios = append(result.Scenarios, s)
	}

	sort.Slice(result.Scenarios, func(i, j int) bool {
		return result.Scenarios[i].Name < result.Scenarios[j].Name
	})
	return result, nil
}
