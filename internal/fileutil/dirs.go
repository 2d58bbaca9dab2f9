package fileutil

import (
	"errors"
	"fmt"
	"os"
)

const maxDirSuffix = 10000

// CreateUniqueDir creates base, or base_1, base_2, ... when earlier names
// already exist, and returns the directory it created.
func CreateUniqueDir(base string) (string, error) {
	candidate := base
	for i := 1; i <= maxDirSuffix; i++ {
		err := os.Mkdir(candidate, 0o755)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("create %s: %w", candidate, err)
		}
		candidate = fmt.Sprintf("%s_%d", base, i)
	}
	return "", fmt.Errorf("no free directory name for %s", base)
}

// FileExists reports whether path is an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
