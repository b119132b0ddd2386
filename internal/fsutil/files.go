package fsutil

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	unsafeChars    = regexp.MustCompile(`[<>:"/\\|?*]`)
	stemSeparators = regexp.MustCompile(`[\s.]+`)
)

// SafeFilename converts a string into a filename safe for all operating
// systems: path-hostile characters are removed, whitespace and dots in the
// stem collapse to underscores, and the final extension segment is kept.
// The transform is idempotent.
func SafeFilename(name string) string {
	name = unsafeChars.ReplaceAllString(name, "")
	if idx := strings.LastIndex(name, "."); idx != -1 {
		return stemSeparators.ReplaceAllString(name[:idx], "_") + "." + name[idx+1:]
	}
	return stemSeparators.ReplaceAllString(name, "_")
}

// FormatSize formats a byte count as a human-readable string, e.g. "1.23 MB".
func FormatSize(size int64) string {
	if size <= 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB", "TB"}
	magnitude := int(math.Floor(math.Log(float64(size)) / math.Log(1024)))
	if magnitude >= len(units) {
		magnitude = len(units) - 1
	}
	value := float64(size) / math.Pow(1024, float64(magnitude))
	return fmt.Sprintf("%.2f %s", value, units[magnitude])
}

// EnsureDir creates the directory if it does not exist yet.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// CleanupOldFiles removes regular files in dir whose modification time is
// older than maxAge and returns how many were removed. Unremovable entries
// are skipped, not fatal.
func CleanupOldFiles(dir string, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

// PathSegments splits a slash-separated remote path into its non-empty
// segments.
func PathSegments(path string) []string {
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}
