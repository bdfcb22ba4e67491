package logs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Prune removes daily log files in dir whose stamped day is more than maxAge
// before now. Files that do not follow the naming pattern are left alone.
func Prune(dir string, maxAge time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read log dir: %w", err)
	}

	cutoff := now.Add(-maxAge)
	deleted := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		day, ok := ParseFileName(e.Name())
		if !ok || !day.Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return deleted, fmt.Errorf("remove %s: %w", e.Name(), err)
		}
		deleted++
	}
	return deleted, nil
}
