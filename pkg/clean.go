package pkg

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// RemoveBuildDirs deletes the build output directories and everything in them
// so every build starts from a clean slate. It returns the directories that
// actually existed. The removal is not rolled back if a later build step
// fails.
func RemoveBuildDirs(projectRoot string) ([]string, error) {
	removed := []string{}

	for _, dir := range []string{BuildDir, DistDir} {
		path := filepath.Join(projectRoot, dir)
		_, err := os.Stat(path)
		if err != nil {
			if eris.Is(err, os.ErrNotExist) {
				continue
			}
			return removed, eris.Wrapf(err, "failed to check %s", path)
		}

		err = os.RemoveAll(path)
		if err != nil {
			return removed, eris.Wrapf(err, "failed to remove %s", path)
		}

		removed = append(removed, dir)
	}

	return removed, nil
}
