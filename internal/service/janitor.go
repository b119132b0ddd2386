package service

import (
	"context"
	"log"
	"time"

	"tuberelay/internal/fsutil"
)

const sweepInterval = time.Hour

// Janitor periodically removes stale files from the temp directory. The
// /cleanup command triggers the same sweep on demand.
type Janitor struct {
	dir    string
	maxAge time.Duration
	logger *log.Logger
}

// NewJanitor creates a Janitor for the given directory.
func NewJanitor(dir string, maxAge time.Duration, logger *log.Logger) *Janitor {
	return &Janitor{dir: dir, maxAge: maxAge, logger: logger}
}

// Run sweeps on a fixed interval until the context is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := fsutil.CleanupOldFiles(j.dir, j.maxAge)
			if err != nil {
				j.logger.Printf("janitor sweep failed: %v", err)
				continue
			}
			if removed > 0 {
				j.logger.Printf("janitor removed %d stale file(s) from %s", removed, j.dir)
			}
		}
	}
}
