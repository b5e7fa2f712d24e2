package fileutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/harrison/diskreport/internal/models"
	"github.com/harrison/diskreport/internal/patterns"
)

// ScanOptions configures the directory scanning behavior
type ScanOptions struct {
	// Exclude holds doublestar globs matched against slash-separated paths
	// relative to the root. Matching directories are not descended into.
	Exclude []string
	// Dedupe emits a path once even when several patterns match it.
	Dedupe bool
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Files contains matched paths in walk order, one entry per matching pattern
	Files []string
	// Errors contains non-fatal errors encountered during scanning
	Errors []error
}

// CheckRoot verifies that root exists and is a directory.
func CheckRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &models.ConfigError{Field: "root", Value: root, Reason: "root not found"}
		}
		return &models.ConfigError{Field: "root", Value: root, Err: err}
	}
	if !info.IsDir() {
		return &models.ConfigError{Field: "root", Value: root, Reason: "root is not a directory"}
	}
	return nil
}

// ValidateExcludes rejects exclude globs doublestar cannot parse.
func ValidateExcludes(globs []string) error {
	for _, g := range globs {
		if !doublestar.ValidatePattern(g) {
			return &models.ConfigError{Field: "exclude", Value: g, Reason: "invalid glob pattern"}
		}
	}
	return nil
}

// Walk recursively enumerates every non-directory entry under root whose
// name matches a pattern in set and calls fn once per matching pattern.
// Root validation happens before the first directory read.
//
// Order follows filepath.WalkDir and is not a contract. Unreadable
// directories are reported through onErr and skipped.
func Walk(ctx context.Context, root string, set *patterns.Set, opts ScanOptions, fn func(path string) error, onErr func(error)) error {
	if err := CheckRoot(root); err != nil {
		return err
	}
	if err := ValidateExcludes(opts.Exclude); err != nil {
		return err
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if onErr != nil {
				onErr(fmt.Errorf("error accessing %s: %w", path, err))
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil // Continue walking
		}

		if path == root {
			return nil
		}

		if len(opts.Exclude) > 0 && excluded(root, path, opts.Exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		matched := set.Matches(d.Name())
		if len(matched) == 0 {
			return nil
		}
		if opts.Dedupe {
			matched = matched[:1]
		}
		for range matched {
			if err := fn(path); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("failed to walk directory: %w", err)
	}
	return nil
}

// Discover collects every match of Walk into a ScanResult.
func Discover(ctx context.Context, root string, set *patterns.Set, opts ScanOptions) (*ScanResult, error) {
	result := &ScanResult{
		Files:  make([]string, 0),
		Errors: make([]error, 0),
	}

	err := Walk(ctx, root, set, opts,
		func(path string) error {
			result.Files = append(result.Files, path)
			return nil
		},
		func(err error) {
			result.Errors = append(result.Errors, err)
		},
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// excluded matches path, relative to root, against the exclude globs.
func excluded(root, path string, globs []string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
	}
	return false
}
