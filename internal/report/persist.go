package report

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/harrison/diskreport/internal/filelock"
	"github.com/harrison/diskreport/internal/models"
)

// Persist serializes rep in memory and writes it to dir/rep.Filename in a
// single atomic step. A file with the same name is replaced. It returns the
// written path.
//
// Failures are returned as *models.PersistenceError, except cancellation,
// which returns ctx.Err(). No partial file is left behind in either case.
func Persist(ctx context.Context, rep *models.Report, dir string) (string, error) {
	if rep.Filename == "" {
		return "", &models.PersistenceError{Path: dir, Err: errors.New("report has no file name")}
	}
	path := filepath.Join(dir, rep.Filename)

	f, err := Workbook(rep)
	if err != nil {
		return "", &models.PersistenceError{Path: path, Err: err}
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", &models.PersistenceError{Path: path, Err: fmt.Errorf("failed to serialize workbook: %w", err)}
	}

	if err := filelock.LockAndWrite(ctx, path, buf.Bytes()); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", &models.PersistenceError{Path: path, Err: err}
	}
	return path, nil
}
