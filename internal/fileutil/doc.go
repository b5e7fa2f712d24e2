// Package fileutil discovers the files a report is built from.
//
// Discovery walks a root directory recursively and yields every file whose
// name ends with the extension of one of the configured "*.<ext>" patterns.
// Matching is a literal, case-sensitive suffix test on the file name; there
// is no wildcard support beyond the leading "*.".
//
// # Root validation
//
// A missing root, or a root that is not a directory, fails with a
// *models.ConfigError before any directory is read.
//
// # Duplicates
//
// A file matched by more than one pattern (for example "*.gz" and
// "*.tar.gz", or the same pattern listed twice) is yielded once per matching
// pattern. Set ScanOptions.Dedupe to yield it once.
//
// # Excludes
//
// ScanOptions.Exclude takes doublestar globs such as "**/.snapshot" that are
// matched against slash-separated paths relative to the root. An excluded
// directory is skipped with everything below it.
//
// # Error tolerance
//
// Directories that cannot be read are reported as non-fatal errors and the
// walk continues. Cancelling the context stops the walk with ctx.Err().
//
// Usage:
//
//	set, _ := patterns.Validate([]string{"*.odb", "*.bof"})
//	result, err := fileutil.Discover(ctx, "/CAE", set, fileutil.ScanOptions{})
//	if err != nil {
//	    return err
//	}
//	for _, path := range result.Files {
//	    fmt.Println(path)
//	}
package fileutil
