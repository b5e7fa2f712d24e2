// Package metadata turns discovered paths into FileRecords.
//
// Extraction never fails: every lookup that cannot be answered degrades to
// a sentinel (owner "N/A", size "N/A" or "file not found: <path>",
// timestamp "NAN") that travels with the record as data.
package metadata

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/harrison/diskreport/internal/models"
)

// Extractor collects per-file metadata.
type Extractor struct {
	// Owners resolves file owners. Nil means the native resolver.
	Owners OwnerResolver
	// Workers bounds ExtractAll's pool. Values < 1 mean runtime.NumCPU().
	Workers int
	// OnDegraded, if set, is called for every record that fell back to a
	// sentinel. It may be called concurrently.
	OnDegraded func(models.FileRecord)

	stat func(string) (fs.FileInfo, error)
}

// NewExtractor creates an Extractor using owners and the given pool size.
func NewExtractor(owners OwnerResolver, workers int) *Extractor {
	return &Extractor{Owners: owners, Workers: workers}
}

// Extract builds the record for path.
func (e *Extractor) Extract(path string) models.FileRecord {
	record := models.FileRecord{
		Name:  filepath.Base(path),
		Owner: e.owner(path),
		Path:  CleanPath(path),
	}

	stat := e.stat
	if stat == nil {
		stat = os.Stat
	}
	info, err := stat(path)
	switch {
	case err == nil:
		record.Size = models.KnownSize(info.Size())
		record.ModifiedAt = models.NewTimestamp(info.ModTime())
	case errors.Is(err, fs.ErrNotExist):
		record.Size = models.NotFoundSize(path)
	default:
		record.Size = models.UnavailableSize()
	}

	if record.Degraded() && e.OnDegraded != nil {
		e.OnDegraded(record)
	}
	return record
}

func (e *Extractor) owner(path string) string {
	resolver := e.Owners
	if resolver == nil {
		resolver = NewNativeResolver()
		e.Owners = resolver
	}
	name, err := resolver.Owner(path)
	if errors.Is(err, ErrOwnerUnsupported) {
		return models.OwnerUnknown
	}
	if err != nil || name == "" {
		return models.OwnerUnavailable
	}
	return name
}

// ExtractAll extracts every path on a bounded worker pool. The result has
// the same length and order as paths. On cancellation it returns ctx.Err()
// and no records.
func (e *Extractor) ExtractAll(ctx context.Context, paths []string) ([]models.FileRecord, error) {
	if e.Owners == nil {
		e.Owners = NewNativeResolver()
	}

	workers := e.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	records := make([]models.FileRecord, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				// Each worker owns its slot; no further locking needed
				records[idx] = e.Extract(paths[idx])
			}
		}()
	}

	var cancelled error
feed:
	for i := range paths {
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}
	return records, nil
}

// CleanPath drops every byte sequence that is not valid UTF-8.
func CleanPath(path string) string {
	return strings.ToValidUTF8(path, "")
}
