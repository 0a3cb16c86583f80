package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// rootMarkers identify a data directory or the project holding one.
var rootMarkers = []string{"tally.yaml", "accounts.dat", ".tally.lock"}

// FindRoot recursively looks upwards for a data directory indicator.
// If found, returns the absolute path of the directory holding it.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, marker := range rootMarkers {
			if hasFile(dir, marker) {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
